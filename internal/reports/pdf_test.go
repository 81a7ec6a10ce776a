package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artbyoscar/streamsense-sub003/internal/subscriptions"
)

func TestMonthlyEquivalentCents(t *testing.T) {
	assert.Equal(t, int64(1599), MonthlyEquivalentCents(subscriptions.Subscription{PriceCents: 1599, BillingCycle: "monthly"}))
	assert.Equal(t, int64(4333), MonthlyEquivalentCents(subscriptions.Subscription{PriceCents: 1000, BillingCycle: "weekly"}))
	assert.Equal(t, int64(1000), MonthlyEquivalentCents(subscriptions.Subscription{PriceCents: 3000, BillingCycle: "quarterly"}))
	assert.Equal(t, int64(1000), MonthlyEquivalentCents(subscriptions.Subscription{PriceCents: 12000, BillingCycle: "yearly"}))
}

func TestBuildSubscriptionsPDF(t *testing.T) {
	subs := []subscriptions.Subscription{
		{ServiceName: "Netflix", PriceCents: 1599, BillingCycle: "monthly", Status: subscriptions.StatusActive},
		{ServiceName: "Old Service", PriceCents: 999, BillingCycle: "monthly", Status: subscriptions.StatusCancelled},
	}

	out, err := BuildSubscriptionsPDF(subs, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}
