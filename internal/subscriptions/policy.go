package subscriptions

import (
	"context"
	"log"

	"github.com/artbyoscar/streamsense-sub003/internal/catalog"
	"github.com/artbyoscar/streamsense-sub003/internal/detect"
)

// Default confidence tiers.
const (
	DefaultAutoThreshold    = 80.0
	DefaultSuggestThreshold = 60.0
)

// The policy writes through these interfaces so it can be unit tested without
// a database.
//
//go:generate mockgen -destination=mocks/mock_stores.go -source=policy.go SubscriptionStore,SuggestionStore

type SubscriptionStore interface {
	ActiveByService(ctx context.Context, userID, serviceID string) (*Subscription, error)
	Insert(ctx context.Context, s *Subscription) (string, error)
	UpdatePrice(ctx context.Context, id string, priceCents int64) error
}

type SuggestionStore interface {
	PendingByMerchant(ctx context.Context, userID, merchantName string) (*Suggestion, error)
	InsertSuggestion(ctx context.Context, s *Suggestion) (string, error)
}

// Outcome counts the effects of one policy pass.
type Outcome struct {
	Created   int `json:"created"`
	Suggested int `json:"suggested"`
}

// Policy converts detection results into durable records by confidence tier:
// auto-create at or above AutoThreshold, suggest in the band below it, discard
// the rest. Applying the same results twice writes nothing the second time.
type Policy struct {
	Subscriptions    SubscriptionStore
	Suggestions      SuggestionStore
	AutoThreshold    float64
	SuggestThreshold float64
}

func NewPolicy(subs SubscriptionStore, sugg SuggestionStore) *Policy {
	return &Policy{
		Subscriptions:    subs,
		Suggestions:      sugg,
		AutoThreshold:    DefaultAutoThreshold,
		SuggestThreshold: DefaultSuggestThreshold,
	}
}

// Apply routes each result. Per-result store failures are logged and skipped
// so one bad record does not sink the rest of the run.
func (p *Policy) Apply(ctx context.Context, userID string, results []detect.Result, entries []catalog.Entry) Outcome {
	names := make(map[string]string, len(entries))
	for _, e := range entries {
		names[e.ID] = e.Name
	}

	var out Outcome
	for _, r := range results {
		switch {
		case r.Confidence >= p.AutoThreshold && r.ServiceID != nil:
			created, err := p.applyAuto(ctx, userID, r, names[*r.ServiceID])
			if err != nil {
				log.Printf("policy: auto tier for %q: %v", r.NormalizedName, err)
				continue
			}
			if created {
				out.Created++
			}
		case r.Confidence >= p.SuggestThreshold:
			// high-confidence groups with no catalog service also land here:
			// there is nothing to auto-create a subscription against
			suggested, err := p.applySuggest(ctx, userID, r)
			if err != nil {
				log.Printf("policy: suggest tier for %q: %v", r.NormalizedName, err)
				continue
			}
			if suggested {
				out.Suggested++
			}
		}
		// below the suggest threshold: no record written
	}
	return out
}

// applyAuto creates the subscription unless one is already active for the
// service, in which case only a changed price is carried over.
func (p *Policy) applyAuto(ctx context.Context, userID string, r detect.Result, serviceName string) (bool, error) {
	existing, err := p.Subscriptions.ActiveByService(ctx, userID, *r.ServiceID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if existing.PriceCents != r.AverageCents {
			if err := p.Subscriptions.UpdatePrice(ctx, existing.ID, r.AverageCents); err != nil {
				return false, err
			}
		}
		return false, nil
	}

	if serviceName == "" {
		serviceName = r.MerchantName
	}
	_, err = p.Subscriptions.Insert(ctx, &Subscription{
		UserID:       userID,
		ServiceID:    r.ServiceID,
		ServiceName:  serviceName,
		PriceCents:   r.AverageCents,
		BillingCycle: r.BillingCycle,
		Status:       StatusActive,
		Source:       SourceDetected,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// applySuggest records a pending suggestion unless one already exists for the
// merchant. Resolved suggestions are left alone; only the pending status is
// checked, so a rejected merchant may come back on a later run.
func (p *Policy) applySuggest(ctx context.Context, userID string, r detect.Result) (bool, error) {
	pending, err := p.Suggestions.PendingByMerchant(ctx, userID, r.NormalizedName)
	if err != nil {
		return false, err
	}
	if pending != nil {
		return false, nil
	}

	_, err = p.Suggestions.InsertSuggestion(ctx, &Suggestion{
		UserID:       userID,
		MerchantName: r.NormalizedName,
		Confidence:   r.Confidence,
		AmountCents:  r.AverageCents,
		BillingCycle: r.BillingCycle,
		TxCount:      r.TxCount,
		Status:       SuggestionPending,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
