package syncer

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/artbyoscar/streamsense-sub003/internal/feed"
	"github.com/artbyoscar/streamsense-sub003/internal/links"
	"github.com/artbyoscar/streamsense-sub003/internal/money"
	"github.com/artbyoscar/streamsense-sub003/internal/transactions"
)

// ErrLinkInactive is returned when a sync is requested for a link that is
// deactivated, or that gets deactivated mid-sync by a credential error.
var ErrLinkInactive = errors.New("link is inactive")

// defaultMaxRecords bounds one Sync invocation. A capped sync reports
// HasMore=true and the caller re-invokes to continue.
const defaultMaxRecords = 5000

const defaultPageSize = 100

// Result summarizes one sync invocation.
type Result struct {
	Added      int    `json:"transactions_added"`
	Modified   int    `json:"transactions_modified"`
	Removed    int    `json:"transactions_removed"`
	Skipped    int    `json:"transactions_skipped"`
	NextCursor string `json:"next_cursor"`
	HasMore    bool   `json:"has_more"`
}

// Engine brings the local transaction store into agreement with the upstream
// feed for one link. Pagination is strictly sequential and the cursor is
// persisted only after a page's records are written, so a crash resumes at a
// consistent position and replays are absorbed by the external-id keys.
type Engine struct {
	Feed         Feed
	Transactions TransactionStore
	Links        LinkStore
	Now          func() time.Time
	MaxRecords   int
	PageSize     int
}

func NewEngine(f Feed, ts TransactionStore, ls LinkStore) *Engine {
	return &Engine{Feed: f, Transactions: ts, Links: ls, Now: time.Now, MaxRecords: defaultMaxRecords}
}

// Sync pulls and applies feed pages for the link until the feed is drained or
// the record cap is hit. cursorOverride, when non-empty, resumes from an
// explicit position instead of the stored cursor. Transient feed errors
// propagate to the caller untouched; there is no internal retry.
func (e *Engine) Sync(ctx context.Context, linkID string, cursorOverride string, pageSize int) (Result, error) {
	var res Result
	err := e.Links.WithLock(ctx, linkID, func(ctx context.Context) error {
		link, err := e.Links.GetByID(ctx, linkID)
		if err != nil {
			return err
		}
		if !link.Active {
			return ErrLinkInactive
		}
		return e.run(ctx, link, cursorOverride, pageSize, &res)
	})
	return res, err
}

func (e *Engine) run(ctx context.Context, link *links.Link, cursorOverride string, pageSize int, res *Result) error {
	if pageSize <= 0 {
		pageSize = e.PageSize
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	cursor := link.Cursor
	if cursorOverride != "" {
		cursor = cursorOverride
	}
	res.NextCursor = cursor

	total := 0
	for {
		page, err := e.Feed.SyncTransactions(ctx, link.AccessToken, cursor, pageSize)
		if err != nil {
			var credErr *feed.CredentialError
			if errors.As(err, &credErr) {
				// Do not advance past the failing page: after the user
				// re-authenticates, sync resumes exactly here.
				if markErr := e.Links.MarkInactive(ctx, link.ID, credErr.Code); markErr != nil {
					log.Printf("syncer: mark link %s inactive: %v", link.ID, markErr)
				}
				return ErrLinkInactive
			}
			return err
		}

		e.applyPage(ctx, link, page, res)

		cursor = page.NextCursor
		if err := e.Links.AdvanceCursor(ctx, link.ID, cursor, e.now()); err != nil {
			return err
		}
		res.NextCursor = cursor

		if !page.HasMore {
			res.HasMore = false
			return nil
		}
		total += len(page.Added) + len(page.Modified) + len(page.Removed)
		if total >= e.maxRecords() {
			res.HasMore = true
			return nil
		}
	}
}

// applyPage writes one page. Per-record persistence failures are logged and
// skipped so the rest of the page still lands; duplicate inserts from a
// replayed page fail on the external-id unique index and count as skipped.
func (e *Engine) applyPage(ctx context.Context, link *links.Link, page *feed.SyncPage, res *Result) {
	for _, ft := range page.Added {
		t, err := parseRecord(link, ft)
		if err != nil {
			log.Printf("syncer: link %s: reject added record %q: %v", link.ID, ft.TransactionID, err)
			res.Skipped++
			continue
		}
		if _, err := e.Transactions.Insert(ctx, t); err != nil {
			log.Printf("syncer: link %s: insert %s: %v", link.ID, t.ExternalID, err)
			res.Skipped++
			continue
		}
		res.Added++
	}

	for _, ft := range page.Modified {
		t, err := parseRecord(link, ft)
		if err != nil {
			log.Printf("syncer: link %s: reject modified record %q: %v", link.ID, ft.TransactionID, err)
			res.Skipped++
			continue
		}
		found, err := e.Transactions.UpdateByExternalID(ctx, t)
		if err != nil {
			log.Printf("syncer: link %s: update %s: %v", link.ID, t.ExternalID, err)
			res.Skipped++
			continue
		}
		if !found {
			// modification for a record we never saw; treat as an add
			if _, err := e.Transactions.Insert(ctx, t); err != nil {
				log.Printf("syncer: link %s: insert modified %s: %v", link.ID, t.ExternalID, err)
				res.Skipped++
				continue
			}
		}
		res.Modified++
	}

	if len(page.Removed) > 0 {
		ids := make([]string, 0, len(page.Removed))
		for _, rm := range page.Removed {
			if rm.TransactionID != "" {
				ids = append(ids, rm.TransactionID)
			}
		}
		n, err := e.Transactions.DeleteByExternalIDs(ctx, ids)
		if err != nil {
			log.Printf("syncer: link %s: delete removed: %v", link.ID, err)
		} else {
			res.Removed += int(n)
		}
	}
}

// parseRecord converts a loosely-typed feed record into the strict local type,
// rejecting anything malformed at the ingestion boundary.
func parseRecord(link *links.Link, ft feed.FeedTransaction) (*transactions.Transaction, error) {
	if ft.TransactionID == "" {
		return nil, errors.New("missing transaction id")
	}
	posted, err := time.Parse("2006-01-02", ft.Date)
	if err != nil {
		return nil, errors.New("unparseable date " + ft.Date)
	}
	cents, err := money.DollarsToCents(ft.Amount)
	if err != nil {
		return nil, err
	}
	return &transactions.Transaction{
		ExternalID:  ft.TransactionID,
		LinkID:      link.ID,
		UserID:      link.UserID,
		AccountID:   ft.AccountID,
		AmountCents: cents,
		PostedOn:    posted,
		MerchantRaw: ft.Label(),
		Categories:  ft.Categories,
		Pending:     ft.Pending,
	}, nil
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) maxRecords() int {
	if e.MaxRecords > 0 {
		return e.MaxRecords
	}
	return defaultMaxRecords
}
