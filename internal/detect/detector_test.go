package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artbyoscar/streamsense-sub003/internal/catalog"
	"github.com/artbyoscar/streamsense-sub003/internal/transactions"
)

var testCatalog = []catalog.Entry{
	{ID: "svc-netflix", Name: "Netflix", Patterns: []string{"netflix"}, BasePriceCents: 1599},
	{ID: "svc-spotify", Name: "Spotify", Patterns: []string{"spotify"}, BasePriceCents: 999},
	{ID: "svc-hulu", Name: "Hulu", Patterns: []string{"hulu"}, BasePriceCents: 799},
}

func txAt(merchantRaw string, cents int64, day time.Time) transactions.Transaction {
	return transactions.Transaction{
		UserID:      "user-1",
		MerchantRaw: merchantRaw,
		AmountCents: cents,
		PostedOn:    day,
	}
}

func series(merchantRaw string, cents int64, start time.Time, every time.Duration, n int) []transactions.Transaction {
	out := make([]transactions.Transaction, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, txAt(merchantRaw, cents, start.Add(time.Duration(i)*every)))
	}
	return out
}

func TestDetectMonthlyNetflix(t *testing.T) {
	start := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	txs := series("Netflix, Inc.", 1599, start, 30*24*time.Hour, 6)

	d := NewDetector(2)
	results := d.Detect(txs, testCatalog)
	require.Len(t, results, 1)

	r := results[0]
	assert.GreaterOrEqual(t, r.Confidence, float64(80))
	assert.Equal(t, CycleMonthly, r.BillingCycle)
	assert.True(t, r.Recurring)
	assert.Equal(t, int64(1599), r.AverageCents)
	assert.Equal(t, 6, r.TxCount)
	require.NotNil(t, r.ServiceID)
	assert.Equal(t, "svc-netflix", *r.ServiceID)
}

func TestDetectGroupsLabelVariants(t *testing.T) {
	start := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	txs := []transactions.Transaction{
		txAt("Netflix, Inc.", 1599, start),
		txAt("NETFLIX INC.", 1599, start.AddDate(0, 0, 30)),
		txAt("netflix", 1599, start.AddDate(0, 0, 60)),
	}

	d := NewDetector(2)
	results := d.Detect(txs, testCatalog)
	require.Len(t, results, 1)
	assert.Equal(t, "netflix", results[0].NormalizedName)
	assert.Equal(t, 3, results[0].TxCount)
}

func TestDetectMinimumCountGuard(t *testing.T) {
	start := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	// a single perfect catalog hit still cannot establish recurrence
	txs := []transactions.Transaction{txAt("Netflix, Inc.", 1599, start)}

	d := NewDetector(2)
	assert.Empty(t, d.Detect(txs, testCatalog))
}

func TestDetectConfidenceBounds(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	groups := [][]transactions.Transaction{
		series("Netflix, Inc.", 1599, start, 30*24*time.Hour, 12),
		series("RANDOM COFFEE SHOP #42", 450, start, 3*24*time.Hour, 9),
		{
			txAt("ERRATIC VENDOR", 12345, start),
			txAt("ERRATIC VENDOR", 99, start.AddDate(0, 0, 200)),
		},
		series("spotify", 999, start, 7*24*time.Hour, 4),
	}

	d := NewDetector(2)
	for _, txs := range groups {
		for _, r := range d.Detect(txs, testCatalog) {
			assert.GreaterOrEqual(t, r.Confidence, float64(0))
			assert.LessOrEqual(t, r.Confidence, float64(100))
		}
	}
}

func TestDetectWeeklyCycle(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	txs := series("spotify", 999, start, 7*24*time.Hour, 5)

	d := NewDetector(2)
	results := d.Detect(txs, testCatalog)
	require.Len(t, results, 1)
	assert.Equal(t, CycleWeekly, results[0].BillingCycle)
	assert.True(t, results[0].Recurring)
}

func TestDetectUnclassifiedIntervalNotRecurring(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	// every 15 days sits between weekly and monthly
	txs := series("spotify", 999, start, 15*24*time.Hour, 4)

	d := NewDetector(2)
	results := d.Detect(txs, testCatalog)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].BillingCycle)
	assert.False(t, results[0].Recurring)
}

func TestDetectUnknownMerchantLowConfidence(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	// regular cadence but nothing like any catalog entry: timing alone must
	// not push a group into the suggest tier's upper range
	txs := series("DOWNTOWN PARKING GARAGE", 1200, start, 30*24*time.Hour, 6)

	d := NewDetector(2)
	results := d.Detect(txs, testCatalog)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].ServiceID)
	assert.Less(t, results[0].Confidence, float64(80))
}

func TestDetectBlankMerchantsIgnored(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	txs := []transactions.Transaction{
		txAt("***", 100, start),
		txAt("***", 100, start.AddDate(0, 0, 30)),
	}

	d := NewDetector(2)
	assert.Empty(t, d.Detect(txs, testCatalog))
}

func TestClassifyCycle(t *testing.T) {
	assert.Equal(t, CycleWeekly, classifyCycle(7))
	assert.Equal(t, CycleMonthly, classifyCycle(30))
	assert.Equal(t, CycleMonthly, classifyCycle(36.5))
	assert.Equal(t, CycleQuarterly, classifyCycle(90))
	assert.Equal(t, CycleYearly, classifyCycle(365))
	assert.Empty(t, classifyCycle(15))
	assert.Empty(t, classifyCycle(200))
}

func TestStddev(t *testing.T) {
	assert.Equal(t, float64(0), stddev(nil))
	assert.Equal(t, float64(0), stddev([]float64{30}))
	assert.Equal(t, float64(0), stddev([]float64{30, 30, 30}))
	assert.InDelta(t, 1.0, stddev([]float64{29, 31}), 1e-9)
}
