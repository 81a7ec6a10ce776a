package detect

import (
	"math"
	"sort"

	"github.com/artbyoscar/streamsense-sub003/internal/catalog"
	"github.com/artbyoscar/streamsense-sub003/internal/merchant"
	"github.com/artbyoscar/streamsense-sub003/internal/money"
	"github.com/artbyoscar/streamsense-sub003/internal/transactions"
)

// Result scores one merchant group in a user's transaction history.
type Result struct {
	MerchantName   string  `json:"merchant_name"`
	NormalizedName string  `json:"normalized_name"`
	Confidence     float64 `json:"confidence"`
	ServiceID      *string `json:"service_id,omitempty"`
	BillingCycle   string  `json:"billing_cycle,omitempty"`
	AverageCents   int64   `json:"average_cents"`
	TxCount        int     `json:"tx_count"`
	Recurring      bool    `json:"recurring"`
}

// Billing cycles classified from the mean charge interval.
const (
	CycleWeekly    = "weekly"
	CycleMonthly   = "monthly"
	CycleQuarterly = "quarterly"
	CycleYearly    = "yearly"
)

const (
	// DefaultMinTransactions is the minimum group size considered; one
	// observation cannot establish recurrence.
	DefaultMinTransactions = 2

	// amountScale is the dollar stddev at which amount consistency hits zero.
	amountScale = 2.0

	// countSaturation is the transaction count at which the corroboration
	// term of the confidence maxes out.
	countSaturation = 6.0

	// serviceMatchFloor is the merchant score below which a fuzzy catalog hit
	// is not trusted enough to pin the group to a service.
	serviceMatchFloor = 70.0

	// recurrenceRatio is the interval-consistency ratio a group must exceed
	// to be called recurring once a cycle is classified.
	recurrenceRatio = 0.7
)

// Confidence weights. Merchant identity is the strongest, least noisy signal
// and dominates; timing and amount regularity corroborate ambiguous names.
// These are a fixed, auditable policy, not a stand-in for a learned model.
const (
	weightMerchant = 0.40
	weightAmount   = 0.25
	weightDates    = 0.25
	weightCount    = 0.10
)

// Detector scores merchant groups for recurrence. It is read-only over its
// inputs and safe to run repeatedly and in parallel across users.
type Detector struct {
	MinTransactions int
}

func NewDetector(minTx int) *Detector {
	if minTx < DefaultMinTransactions {
		minTx = DefaultMinTransactions
	}
	return &Detector{MinTransactions: minTx}
}

// Detect groups transactions by normalized merchant and scores each group.
// Groups under the minimum count are dropped, not errors; so is a group that
// simply scores low ("no signal" is a correct output).
func (d *Detector) Detect(txs []transactions.Transaction, entries []catalog.Entry) []Result {
	groups := make(map[string][]transactions.Transaction)
	labels := make(map[string]string)
	order := make([]string, 0)
	for _, t := range txs {
		norm := merchant.Normalize(t.MerchantRaw)
		if norm == "" {
			continue
		}
		if _, seen := groups[norm]; !seen {
			order = append(order, norm)
			labels[norm] = t.MerchantRaw
		}
		groups[norm] = append(groups[norm], t)
	}

	catEntries := make([]merchant.CatalogEntry, len(entries))
	for i, e := range entries {
		catEntries[i] = merchant.CatalogEntry{ID: e.ID, Name: e.Name, Patterns: e.Patterns}
	}

	results := make([]Result, 0, len(order))
	for _, norm := range order {
		group := groups[norm]
		if len(group) < d.MinTransactions {
			continue
		}
		results = append(results, scoreGroup(norm, labels[norm], group, catEntries))
	}
	return results
}

func scoreGroup(norm, label string, group []transactions.Transaction, entries []merchant.CatalogEntry) Result {
	sort.Slice(group, func(i, j int) bool { return group[i].PostedOn.Before(group[j].PostedOn) })

	match := merchant.BestMatch(norm, entries)

	amounts := make([]float64, len(group))
	var sumCents int64
	for i, t := range group {
		amounts[i] = math.Abs(money.CentsToDollars(t.AmountCents))
		sumCents += int64(math.Abs(float64(t.AmountCents)))
	}
	amountScore := math.Max(0, 1-stddev(amounts)/amountScale) * 100

	intervals := make([]float64, 0, len(group)-1)
	for i := 1; i < len(group); i++ {
		intervals = append(intervals, group[i].PostedOn.Sub(group[i-1].PostedOn).Hours()/24)
	}
	meanInterval := mean(intervals)
	ratio := math.Max(0, 1-stddev(intervals)/math.Max(meanInterval, 30))
	dateScore := ratio * 100

	cycle := classifyCycle(meanInterval)

	countScore := math.Min(100, float64(len(group))/countSaturation*100)

	confidence := weightMerchant*match.Score +
		weightAmount*amountScore +
		weightDates*dateScore +
		weightCount*countScore
	confidence = math.Max(0, math.Min(100, confidence))

	res := Result{
		MerchantName:   label,
		NormalizedName: norm,
		Confidence:     confidence,
		BillingCycle:   cycle,
		AverageCents:   sumCents / int64(len(group)),
		TxCount:        len(group),
		Recurring:      cycle != "" && ratio > recurrenceRatio,
	}
	if match.ServiceID != "" && match.Score >= serviceMatchFloor {
		id := match.ServiceID
		res.ServiceID = &id
	}
	return res
}

// classifyCycle maps a mean charge interval in days onto a billing cycle.
// Tolerances widen with the period; anything else stays unclassified.
func classifyCycle(meanDays float64) string {
	switch {
	case meanDays >= 4 && meanDays <= 10:
		return CycleWeekly
	case meanDays >= 23 && meanDays <= 37:
		return CycleMonthly
	case meanDays >= 76 && meanDays <= 104:
		return CycleQuarterly
	case meanDays >= 335 && meanDays <= 395:
		return CycleYearly
	}
	return ""
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var sq float64
	for _, x := range xs {
		sq += (x - m) * (x - m)
	}
	return math.Sqrt(sq / float64(len(xs)))
}
