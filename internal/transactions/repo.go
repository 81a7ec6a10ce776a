package transactions

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

func (r *Repo) Insert(ctx context.Context, t *Transaction) (string, error) {
	var id string
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO bank_transactions
		   (external_id, link_id, user_id, account_id, amount_cents, posted_on, merchant_raw, categories, pending)
		 VALUES ($1, $2, $3::uuid, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		t.ExternalID, t.LinkID, t.UserID, t.AccountID, t.AmountCents, t.PostedOn, t.MerchantRaw, t.Categories, t.Pending,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateByExternalID overwrites a transaction in place when the upstream feed
// reports it modified. Returns false when no row carries that external id.
func (r *Repo) UpdateByExternalID(ctx context.Context, t *Transaction) (bool, error) {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE bank_transactions
		 SET account_id = $2, amount_cents = $3, posted_on = $4, merchant_raw = $5, categories = $6, pending = $7
		 WHERE external_id = $1`,
		t.ExternalID, t.AccountID, t.AmountCents, t.PostedOn, t.MerchantRaw, t.Categories, t.Pending,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteByExternalIDs removes exactly the referenced transactions and reports
// how many rows went away.
func (r *Repo) DeleteByExternalIDs(ctx context.Context, externalIDs []string) (int64, error) {
	if len(externalIDs) == 0 {
		return 0, nil
	}
	tag, err := r.Pool.Exec(ctx,
		`DELETE FROM bank_transactions WHERE external_id = ANY($1)`,
		externalIDs,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) ExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bank_transactions WHERE external_id = $1)`,
		externalID,
	).Scan(&exists)
	return exists, err
}

// ListByUserSince returns a user's transactions posted on or after the given
// date, oldest first. This is the detection window query.
func (r *Repo) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]Transaction, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT id, external_id, link_id, user_id::text, account_id, amount_cents, posted_on, merchant_raw, categories, pending, created_at
		 FROM bank_transactions
		 WHERE user_id = $1::uuid AND posted_on >= $2
		 ORDER BY posted_on ASC`,
		userID, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Transaction, 0)
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(
			&t.ID, &t.ExternalID, &t.LinkID, &t.UserID, &t.AccountID,
			&t.AmountCents, &t.PostedOn, &t.MerchantRaw, &t.Categories, &t.Pending, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
