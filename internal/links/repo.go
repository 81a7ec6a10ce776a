package links

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

const linkColumns = `id, user_id::text, item_id, access_token, sync_cursor, last_synced_at, active, error_code, pending_expiration, created_at`

func (r *Repo) GetByID(ctx context.Context, id string) (*Link, error) {
	return r.scanOne(r.Pool.QueryRow(ctx,
		`SELECT `+linkColumns+` FROM links WHERE id = $1`, id))
}

// GetByItemID resolves a webhook's item reference. An unknown item returns
// (nil, nil): webhooks for links we never created are benign.
func (r *Repo) GetByItemID(ctx context.Context, itemID string) (*Link, error) {
	l, err := r.scanOne(r.Pool.QueryRow(ctx,
		`SELECT `+linkColumns+` FROM links WHERE item_id = $1`, itemID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return l, err
}

func (r *Repo) scanOne(row pgx.Row) (*Link, error) {
	var l Link
	err := row.Scan(
		&l.ID, &l.UserID, &l.ItemID, &l.AccessToken, &l.Cursor,
		&l.LastSyncedAt, &l.Active, &l.ErrorCode, &l.PendingExpiration, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListByUser returns a user's links, for surfacing link health.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Link, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+linkColumns+` FROM links WHERE user_id = $1::uuid ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Link, 0)
	for rows.Next() {
		var l Link
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.ItemID, &l.AccessToken, &l.Cursor,
			&l.LastSyncedAt, &l.Active, &l.ErrorCode, &l.PendingExpiration, &l.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// AdvanceCursor persists the cursor after a page's records are durably
// written. Called only forward; a crash between page apply and this write
// replays an already-applied page, which the external-id upserts absorb.
func (r *Repo) AdvanceCursor(ctx context.Context, id string, cursor string, syncedAt time.Time) error {
	_, err := r.Pool.Exec(ctx,
		`UPDATE links SET sync_cursor = $2, last_synced_at = $3 WHERE id = $1`,
		id, cursor, syncedAt,
	)
	return err
}

// MarkInactive flags the link with an upstream error code. Remediation
// (re-authentication) happens outside this service.
func (r *Repo) MarkInactive(ctx context.Context, id string, errorCode string) error {
	_, err := r.Pool.Exec(ctx,
		`UPDATE links SET active = FALSE, error_code = $2 WHERE id = $1`,
		id, errorCode,
	)
	return err
}

func (r *Repo) MarkPendingExpiration(ctx context.Context, id string) error {
	_, err := r.Pool.Exec(ctx,
		`UPDATE links SET pending_expiration = TRUE WHERE id = $1`,
		id,
	)
	return err
}

// Reactivate clears the error state after re-authentication and stores the
// fresh access token.
func (r *Repo) Reactivate(ctx context.Context, id string, accessToken string) error {
	_, err := r.Pool.Exec(ctx,
		`UPDATE links SET active = TRUE, error_code = NULL, pending_expiration = FALSE, access_token = $2 WHERE id = $1`,
		id, accessToken,
	)
	return err
}

// WithLock serializes work on one link across overlapping webhook deliveries
// using a session advisory lock held on a dedicated pool connection. Cursor
// updates from concurrent syncs of the same link would otherwise race.
func (r *Repo) WithLock(ctx context.Context, linkID string, fn func(ctx context.Context) error) error {
	conn, err := r.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock(hashtext($1))`, linkID); err != nil {
		return err
	}
	defer func() {
		_, _ = conn.Exec(ctx, `SELECT pg_advisory_unlock(hashtext($1))`, linkID)
	}()

	return fn(ctx)
}
