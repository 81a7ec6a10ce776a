package reports

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artbyoscar/streamsense-sub003/internal/subscriptions"
)

// SubscriptionLister is the slice of the subscriptions repo the report needs.
type SubscriptionLister interface {
	ListByUser(ctx context.Context, userID string) ([]subscriptions.Subscription, error)
}

// SubscriptionsPDFHandler streams a PDF summary of the caller's active
// subscriptions.
func SubscriptionsPDFHandler(subs SubscriptionLister, now func() time.Time) fiber.Handler {
	if now == nil {
		now = time.Now
	}
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(string)
		if !ok || strings.TrimSpace(userID) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		ctx := c.UserContext()
		if ctx == nil {
			ctx = context.Background()
		}

		items, err := subs.ListByUser(ctx, userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load subscriptions: "+err.Error())
		}

		pdf, err := BuildSubscriptionsPDF(items, now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to build report")
		}

		c.Set("Content-Type", "application/pdf")
		c.Set("Content-Disposition", `attachment; filename="subscriptions.pdf"`)
		return c.Send(pdf)
	}
}
