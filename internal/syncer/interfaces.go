package syncer

import (
	"context"
	"time"

	"github.com/artbyoscar/streamsense-sub003/internal/feed"
	"github.com/artbyoscar/streamsense-sub003/internal/links"
	"github.com/artbyoscar/streamsense-sub003/internal/transactions"
)

// The engine depends on these interfaces, not on the concrete feed client and
// repos, so it can be exercised without a live network or database.
//
//go:generate mockgen -destination=mocks/mock_collaborators.go -source=interfaces.go Feed,TransactionStore,LinkStore

// Feed pulls pages of the aggregator's incremental transaction feed.
type Feed interface {
	SyncTransactions(ctx context.Context, accessToken, cursor string, pageSize int) (*feed.SyncPage, error)
}

// TransactionStore persists reconciled transactions keyed by external id.
type TransactionStore interface {
	Insert(ctx context.Context, t *transactions.Transaction) (string, error)
	UpdateByExternalID(ctx context.Context, t *transactions.Transaction) (bool, error)
	DeleteByExternalIDs(ctx context.Context, externalIDs []string) (int64, error)
}

// LinkStore owns the per-link sync cursor and health flags.
type LinkStore interface {
	GetByID(ctx context.Context, id string) (*links.Link, error)
	AdvanceCursor(ctx context.Context, id string, cursor string, syncedAt time.Time) error
	MarkInactive(ctx context.Context, id string, errorCode string) error
	WithLock(ctx context.Context, linkID string, fn func(ctx context.Context) error) error
}
