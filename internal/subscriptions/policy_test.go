package subscriptions_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artbyoscar/streamsense-sub003/internal/catalog"
	"github.com/artbyoscar/streamsense-sub003/internal/detect"
	"github.com/artbyoscar/streamsense-sub003/internal/subscriptions"
	mock_subscriptions "github.com/artbyoscar/streamsense-sub003/internal/subscriptions/mocks"
)

var testEntries = []catalog.Entry{
	{ID: "svc-netflix", Name: "Netflix", Patterns: []string{"netflix"}, BasePriceCents: 1599},
}

func netflixResult(confidence float64) detect.Result {
	id := "svc-netflix"
	return detect.Result{
		MerchantName:   "Netflix, Inc.",
		NormalizedName: "netflix",
		Confidence:     confidence,
		ServiceID:      &id,
		BillingCycle:   detect.CycleMonthly,
		AverageCents:   1599,
		TxCount:        6,
		Recurring:      true,
	}
}

func TestPolicyAutoTierCreates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	subs := mock_subscriptions.NewMockSubscriptionStore(ctrl)
	sugg := mock_subscriptions.NewMockSuggestionStore(ctrl)

	subs.EXPECT().ActiveByService(gomock.Any(), "user-1", "svc-netflix").Return(nil, nil)

	var created *subscriptions.Subscription
	subs.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, s *subscriptions.Subscription) (string, error) {
			created = s
			return "sub-1", nil
		})

	p := subscriptions.NewPolicy(subs, sugg)
	out := p.Apply(context.Background(), "user-1", []detect.Result{netflixResult(92)}, testEntries)

	assert.Equal(t, 1, out.Created)
	assert.Equal(t, 0, out.Suggested)
	require.NotNil(t, created)
	assert.Equal(t, "Netflix", created.ServiceName)
	assert.Equal(t, int64(1599), created.PriceCents)
	assert.Equal(t, "monthly", created.BillingCycle)
	assert.Equal(t, subscriptions.StatusActive, created.Status)
	assert.Equal(t, subscriptions.SourceDetected, created.Source)
}

func TestPolicyAutoTierIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	subs := mock_subscriptions.NewMockSubscriptionStore(ctrl)
	sugg := mock_subscriptions.NewMockSuggestionStore(ctrl)

	existing := &subscriptions.Subscription{ID: "sub-1", UserID: "user-1", PriceCents: 1599, Status: subscriptions.StatusActive}
	subs.EXPECT().ActiveByService(gomock.Any(), "user-1", "svc-netflix").Return(existing, nil)
	// same price: no Insert, no UpdatePrice

	p := subscriptions.NewPolicy(subs, sugg)
	out := p.Apply(context.Background(), "user-1", []detect.Result{netflixResult(92)}, testEntries)
	assert.Equal(t, 0, out.Created)
}

func TestPolicyAutoTierUpdatesChangedPrice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	subs := mock_subscriptions.NewMockSubscriptionStore(ctrl)
	sugg := mock_subscriptions.NewMockSuggestionStore(ctrl)

	existing := &subscriptions.Subscription{ID: "sub-1", UserID: "user-1", PriceCents: 1399, Status: subscriptions.StatusActive}
	subs.EXPECT().ActiveByService(gomock.Any(), "user-1", "svc-netflix").Return(existing, nil)
	subs.EXPECT().UpdatePrice(gomock.Any(), "sub-1", int64(1599)).Return(nil)

	p := subscriptions.NewPolicy(subs, sugg)
	out := p.Apply(context.Background(), "user-1", []detect.Result{netflixResult(92)}, testEntries)

	// a price move is an update, never a duplicate row
	assert.Equal(t, 0, out.Created)
}

func TestPolicySuggestTier(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	subs := mock_subscriptions.NewMockSubscriptionStore(ctrl)
	sugg := mock_subscriptions.NewMockSuggestionStore(ctrl)

	r := detect.Result{
		MerchantName:   "GYM MEMBERSHIP CO",
		NormalizedName: "gym membership",
		Confidence:     68,
		BillingCycle:   detect.CycleMonthly,
		AverageCents:   4500,
		TxCount:        3,
	}

	sugg.EXPECT().PendingByMerchant(gomock.Any(), "user-1", "gym membership").Return(nil, nil)

	var inserted *subscriptions.Suggestion
	sugg.EXPECT().InsertSuggestion(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, s *subscriptions.Suggestion) (string, error) {
			inserted = s
			return "sg-1", nil
		})

	p := subscriptions.NewPolicy(subs, sugg)
	out := p.Apply(context.Background(), "user-1", []detect.Result{r}, testEntries)

	assert.Equal(t, 1, out.Suggested)
	require.NotNil(t, inserted)
	assert.Equal(t, "gym membership", inserted.MerchantName)
	assert.Equal(t, float64(68), inserted.Confidence)
	assert.Equal(t, subscriptions.SuggestionPending, inserted.Status)
}

func TestPolicySuggestTierSkipsExistingPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	subs := mock_subscriptions.NewMockSubscriptionStore(ctrl)
	sugg := mock_subscriptions.NewMockSuggestionStore(ctrl)

	r := detect.Result{NormalizedName: "gym membership", Confidence: 68, AverageCents: 4500}
	pending := &subscriptions.Suggestion{ID: "sg-1", Status: subscriptions.SuggestionPending}
	sugg.EXPECT().PendingByMerchant(gomock.Any(), "user-1", "gym membership").Return(pending, nil)
	// no InsertSuggestion: a pending row already covers this merchant

	p := subscriptions.NewPolicy(subs, sugg)
	out := p.Apply(context.Background(), "user-1", []detect.Result{r}, testEntries)
	assert.Equal(t, 0, out.Suggested)
}

func TestPolicyDiscardTierWritesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	subs := mock_subscriptions.NewMockSubscriptionStore(ctrl)
	sugg := mock_subscriptions.NewMockSuggestionStore(ctrl)
	// no expectations at all: confidence below 60 must not touch either store

	p := subscriptions.NewPolicy(subs, sugg)
	out := p.Apply(context.Background(), "user-1", []detect.Result{
		{NormalizedName: "corner store", Confidence: 41, AverageCents: 700},
	}, testEntries)

	assert.Zero(t, out.Created)
	assert.Zero(t, out.Suggested)
}

func TestPolicyHighConfidenceWithoutServiceSuggests(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	subs := mock_subscriptions.NewMockSubscriptionStore(ctrl)
	sugg := mock_subscriptions.NewMockSuggestionStore(ctrl)

	// confident recurrence but no catalog identity to create against
	r := detect.Result{NormalizedName: "local news daily", Confidence: 84, AverageCents: 500, BillingCycle: detect.CycleMonthly, TxCount: 7}

	sugg.EXPECT().PendingByMerchant(gomock.Any(), "user-1", "local news daily").Return(nil, nil)
	sugg.EXPECT().InsertSuggestion(gomock.Any(), gomock.Any()).Return("sg-2", nil)

	p := subscriptions.NewPolicy(subs, sugg)
	out := p.Apply(context.Background(), "user-1", []detect.Result{r}, testEntries)
	assert.Equal(t, 1, out.Suggested)
}
