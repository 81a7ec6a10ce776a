package subscriptions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

// ActiveByService returns the user's active subscription for a service, or
// (nil, nil) when there is none. This is the existence check that keeps the
// one-active-per-(user, service) expectation.
func (r *Repo) ActiveByService(ctx context.Context, userID, serviceID string) (*Subscription, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT id, user_id::text, service_id, service_name, price_cents, billing_cycle, status, source, created_at, updated_at
		 FROM subscriptions
		 WHERE user_id = $1::uuid AND service_id = $2 AND status = 'active'
		 LIMIT 1`,
		userID, serviceID,
	)
	s, err := scanSubscription(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

func (r *Repo) Insert(ctx context.Context, s *Subscription) (string, error) {
	var id string
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO subscriptions (user_id, service_id, service_name, price_cents, billing_cycle, status, source)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		s.UserID, s.ServiceID, s.ServiceName, s.PriceCents, s.BillingCycle, s.Status, s.Source,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdatePrice moves an existing subscription to a newly detected price.
func (r *Repo) UpdatePrice(ctx context.Context, id string, priceCents int64) error {
	_, err := r.Pool.Exec(ctx,
		`UPDATE subscriptions SET price_cents = $2, updated_at = NOW() WHERE id = $1`,
		id, priceCents,
	)
	return err
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Subscription, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT id, user_id::text, service_id, service_name, price_cents, billing_cycle, status, source, created_at, updated_at
		 FROM subscriptions
		 WHERE user_id = $1::uuid
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Subscription, 0)
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *Repo) Cancel(ctx context.Context, userID, id string) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE subscriptions SET status = 'cancelled', updated_at = NOW()
		 WHERE id = $1 AND user_id = $2::uuid AND status = 'active'`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSubscription(row pgx.Row) (*Subscription, error) {
	var s Subscription
	err := row.Scan(
		&s.ID, &s.UserID, &s.ServiceID, &s.ServiceName, &s.PriceCents,
		&s.BillingCycle, &s.Status, &s.Source, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// PendingByMerchant returns the user's pending suggestion for a merchant, or
// (nil, nil). Resolved (accepted/rejected) suggestions are deliberately not
// considered, so a rejected merchant can resurface on a later run.
func (r *Repo) PendingByMerchant(ctx context.Context, userID, merchantName string) (*Suggestion, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT id, user_id::text, merchant_name, confidence, amount_cents, billing_cycle, tx_count, status, created_at
		 FROM suggested_subscriptions
		 WHERE user_id = $1::uuid AND merchant_name = $2 AND status = 'pending'
		 LIMIT 1`,
		userID, merchantName,
	)
	s, err := scanSuggestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

func (r *Repo) InsertSuggestion(ctx context.Context, s *Suggestion) (string, error) {
	var id string
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO suggested_subscriptions (user_id, merchant_name, confidence, amount_cents, billing_cycle, tx_count, status)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, 'pending')
		 RETURNING id`,
		s.UserID, s.MerchantName, s.Confidence, s.AmountCents, s.BillingCycle, s.TxCount,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repo) ListSuggestions(ctx context.Context, userID string, status string) ([]Suggestion, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT id, user_id::text, merchant_name, confidence, amount_cents, billing_cycle, tx_count, status, created_at
		 FROM suggested_subscriptions
		 WHERE user_id = $1::uuid AND ($2 = '' OR status = $2)
		 ORDER BY confidence DESC, created_at DESC`,
		userID, status,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Suggestion, 0)
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// GetSuggestion fetches one pending suggestion owned by the user.
func (r *Repo) GetSuggestion(ctx context.Context, userID, id string) (*Suggestion, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT id, user_id::text, merchant_name, confidence, amount_cents, billing_cycle, tx_count, status, created_at
		 FROM suggested_subscriptions
		 WHERE id = $1 AND user_id = $2::uuid`,
		id, userID,
	)
	s, err := scanSuggestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// ResolveSuggestion moves a pending suggestion to accepted or rejected.
// Already-resolved rows stay untouched.
func (r *Repo) ResolveSuggestion(ctx context.Context, userID, id string, status string) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE suggested_subscriptions SET status = $3
		 WHERE id = $1 AND user_id = $2::uuid AND status = 'pending'`,
		id, userID, status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSuggestion(row pgx.Row) (*Suggestion, error) {
	var s Suggestion
	err := row.Scan(
		&s.ID, &s.UserID, &s.MerchantName, &s.Confidence, &s.AmountCents,
		&s.BillingCycle, &s.TxCount, &s.Status, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
