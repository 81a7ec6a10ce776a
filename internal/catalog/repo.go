package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

// All loads the full service catalog. The catalog is reference data seeded by
// migrations and never written at runtime.
func (r *Repo) All(ctx context.Context) ([]Entry, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT id, name, patterns, base_price_cents
		 FROM service_catalog
		 ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Patterns, &e.BasePriceCents); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
