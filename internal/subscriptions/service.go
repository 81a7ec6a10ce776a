package subscriptions

import (
	"context"
	"time"

	"github.com/artbyoscar/streamsense-sub003/internal/catalog"
	"github.com/artbyoscar/streamsense-sub003/internal/detect"
	"github.com/artbyoscar/streamsense-sub003/internal/transactions"
)

// DefaultLookbackDays is the detection window over a user's history.
const DefaultLookbackDays = 365

// TxLister is the slice of the transaction repo detection reads.
type TxLister interface {
	ListByUserSince(ctx context.Context, userID string, since time.Time) ([]transactions.Transaction, error)
}

// DetectionService runs one detection pass for a user: load the lookback
// window, score merchant groups, apply the decision policy. Read-only over
// transactions, so safe to run repeatedly and concurrently across users.
type DetectionService struct {
	Txns            TxLister
	Catalog         catalog.Source
	Policy          *Policy
	LookbackDays    int
	MinTransactions int
	Now             func() time.Time
}

func NewDetectionService(txns TxLister, cat catalog.Source, policy *Policy) *DetectionService {
	return &DetectionService{
		Txns:            txns,
		Catalog:         cat,
		Policy:          policy,
		LookbackDays:    DefaultLookbackDays,
		MinTransactions: detect.DefaultMinTransactions,
		Now:             time.Now,
	}
}

// Run returns how many groups were scored and what the policy did with them.
// minTransactions <= 0 uses the service default.
func (s *DetectionService) Run(ctx context.Context, userID string, minTransactions int) (int, Outcome, error) {
	if minTransactions <= 0 {
		minTransactions = s.MinTransactions
	}
	lookback := s.LookbackDays
	if lookback <= 0 {
		lookback = DefaultLookbackDays
	}

	since := s.now().AddDate(0, 0, -lookback)
	txs, err := s.Txns.ListByUserSince(ctx, userID, since)
	if err != nil {
		return 0, Outcome{}, err
	}

	entries, err := s.Catalog.All(ctx)
	if err != nil {
		return 0, Outcome{}, err
	}

	results := detect.NewDetector(minTransactions).Detect(txs, entries)
	out := s.Policy.Apply(ctx, userID, results, entries)
	return len(results), out, nil
}

func (s *DetectionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
