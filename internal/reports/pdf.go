package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/artbyoscar/streamsense-sub003/internal/detect"
	"github.com/artbyoscar/streamsense-sub003/internal/money"
	"github.com/artbyoscar/streamsense-sub003/internal/subscriptions"
)

// MonthlyEquivalentCents normalizes a subscription price onto a monthly
// basis so differently-cycled services can be totaled together.
func MonthlyEquivalentCents(s subscriptions.Subscription) int64 {
	switch s.BillingCycle {
	case detect.CycleWeekly:
		return s.PriceCents * 52 / 12
	case detect.CycleQuarterly:
		return s.PriceCents / 3
	case detect.CycleYearly:
		return s.PriceCents / 12
	default:
		return s.PriceCents
	}
}

// BuildSubscriptionsPDF renders a user's active subscriptions with a monthly
// spend total.
func BuildSubscriptionsPDF(subs []subscriptions.Subscription, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("StreamSense Subscription Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "StreamSense")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", generatedAt.Format("2006-01-02")))
	pdf.Ln(10)

	var totalMonthly int64
	active := make([]subscriptions.Subscription, 0, len(subs))
	for _, s := range subs {
		if s.Status != subscriptions.StatusActive {
			continue
		}
		active = append(active, s)
		totalMonthly += MonthlyEquivalentCents(s)
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Monthly Spend: $%s across %d subscriptions", money.FormatCents(totalMonthly), len(active)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(70, 7, "Service")
	pdf.Cell(35, 7, "Price")
	pdf.Cell(30, 7, "Cycle")
	pdf.Cell(35, 7, "Monthly Eq.")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 11)
	for _, s := range active {
		pdf.Cell(70, 7, s.ServiceName)
		pdf.Cell(35, 7, "$"+money.FormatCents(s.PriceCents))
		pdf.Cell(30, 7, s.BillingCycle)
		pdf.Cell(35, 7, "$"+money.FormatCents(MonthlyEquivalentCents(s)))
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
