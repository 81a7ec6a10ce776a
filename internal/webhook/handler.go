package webhook

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artbyoscar/streamsense-sub003/internal/audit"
	"github.com/artbyoscar/streamsense-sub003/internal/feed"
	"github.com/artbyoscar/streamsense-sub003/internal/links"
	"github.com/artbyoscar/streamsense-sub003/internal/subscriptions"
	"github.com/artbyoscar/streamsense-sub003/internal/syncer"
)

// Webhook types and codes the provider delivers.
const (
	TypeTransactions = "TRANSACTIONS"
	TypeItem         = "ITEM"

	CodeTransactionsRemoved = "TRANSACTIONS_REMOVED"
	CodeItemError           = "ERROR"
	CodePendingExpiration   = "PENDING_EXPIRATION"
	CodePermissionRevoked   = "USER_PERMISSION_REVOKED"
)

// Event is the provider's webhook payload.
type Event struct {
	WebhookType           string   `json:"webhook_type"`
	WebhookCode           string   `json:"webhook_code"`
	ItemID                string   `json:"item_id"`
	RemovedTransactionIDs []string `json:"removed_transaction_ids,omitempty"`
	Error                 *struct {
		ErrorCode string `json:"error_code"`
	} `json:"error,omitempty"`
}

// Collaborator slices the receiver needs, kept as interfaces so the handler
// tests run without a database or feed.
type SyncEngine interface {
	Sync(ctx context.Context, linkID string, cursorOverride string, pageSize int) (syncer.Result, error)
}

type LinkStore interface {
	GetByItemID(ctx context.Context, itemID string) (*links.Link, error)
	MarkInactive(ctx context.Context, id string, errorCode string) error
	MarkPendingExpiration(ctx context.Context, id string) error
}

type TransactionStore interface {
	DeleteByExternalIDs(ctx context.Context, externalIDs []string) (int64, error)
}

type DetectionRunner interface {
	Run(ctx context.Context, userID string, minTransactions int) (int, subscriptions.Outcome, error)
}

// Receiver translates provider push notifications into sync engine calls and
// link-health updates. It always acknowledges: surfacing internal errors to
// the provider only provokes retry storms. Failures are logged instead.
type Receiver struct {
	Engine        SyncEngine
	Links         LinkStore
	Transactions  TransactionStore
	Detection     DetectionRunner
	WebhookSecret string
	AuditDB       *pgxpool.Pool
}

// Handle is the webhook endpoint. Returns 200 with {"acknowledged": true} for
// every authentic delivery, including ones that fail internally or reference
// links we do not know.
func (rc *Receiver) Handle(c *fiber.Ctx) error {
	raw := c.Body()

	if rc.WebhookSecret != "" {
		sig := c.Get("X-Webhook-Signature")
		if sig == "" || !feed.VerifyWebhookSignature(raw, sig, rc.WebhookSecret) {
			// forged or misconfigured caller, not the provider: do not ack
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid signature"})
		}
	}

	var evt Event
	if err := json.Unmarshal(raw, &evt); err != nil {
		log.Printf("webhook: bad payload: %v", err)
		return ack(c, "bad payload")
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	link, err := rc.Links.GetByItemID(ctx, evt.ItemID)
	if err != nil {
		log.Printf("webhook: resolve item %q: %v", evt.ItemID, err)
		return ack(c, "link lookup failed")
	}
	if link == nil {
		// a link we never created or already deleted; benign
		return ack(c, "")
	}

	rc.writeAudit(ctx, link, evt, raw)

	switch evt.WebhookType {
	case TypeTransactions:
		return rc.handleTransactions(ctx, c, link, evt)
	case TypeItem:
		return rc.handleItem(ctx, c, link, evt)
	default:
		return ack(c, "")
	}
}

func (rc *Receiver) handleTransactions(ctx context.Context, c *fiber.Ctx, link *links.Link, evt Event) error {
	if evt.WebhookCode == CodeTransactionsRemoved {
		// the id list is explicit and short; no need to run the cursor flow
		if _, err := rc.Transactions.DeleteByExternalIDs(ctx, evt.RemovedTransactionIDs); err != nil {
			log.Printf("webhook: link %s: delete removed: %v", link.ID, err)
			return ack(c, "removal failed")
		}
		return ack(c, "")
	}

	// INITIAL_UPDATE / HISTORICAL_UPDATE / DEFAULT_UPDATE / SYNC_UPDATES_AVAILABLE
	// all mean the same thing here: pull the feed forward
	if _, err := rc.Engine.Sync(ctx, link.ID, "", 0); err != nil {
		log.Printf("webhook: link %s: sync: %v", link.ID, err)
		return ack(c, "sync failed")
	}

	if rc.Detection != nil {
		if _, _, err := rc.Detection.Run(ctx, link.UserID, 0); err != nil {
			log.Printf("webhook: link %s: detection: %v", link.ID, err)
		}
	}
	return ack(c, "")
}

func (rc *Receiver) handleItem(ctx context.Context, c *fiber.Ctx, link *links.Link, evt Event) error {
	switch evt.WebhookCode {
	case CodeItemError:
		code := "ITEM_ERROR"
		if evt.Error != nil && evt.Error.ErrorCode != "" {
			code = evt.Error.ErrorCode
		}
		if err := rc.Links.MarkInactive(ctx, link.ID, code); err != nil {
			log.Printf("webhook: link %s: mark inactive: %v", link.ID, err)
			return ack(c, "link update failed")
		}
	case CodePendingExpiration:
		if err := rc.Links.MarkPendingExpiration(ctx, link.ID); err != nil {
			log.Printf("webhook: link %s: mark pending expiration: %v", link.ID, err)
			return ack(c, "link update failed")
		}
	case CodePermissionRevoked:
		if err := rc.Links.MarkInactive(ctx, link.ID, CodePermissionRevoked); err != nil {
			log.Printf("webhook: link %s: mark revoked: %v", link.ID, err)
			return ack(c, "link update failed")
		}
	}
	return ack(c, "")
}

func (rc *Receiver) writeAudit(ctx context.Context, link *links.Link, evt Event, raw []byte) {
	entry := audit.Entry{
		UserID:     &link.UserID,
		Action:     "webhook." + evt.WebhookType + "." + evt.WebhookCode,
		EntityType: "link",
		EntityID:   &link.ID,
		Metadata:   raw,
	}
	if err := audit.Write(ctx, rc.AuditDB, entry); err != nil {
		log.Printf("webhook: audit: %v", err)
	}
}

func ack(c *fiber.Ctx, errMsg string) error {
	body := fiber.Map{"acknowledged": true}
	if errMsg != "" {
		body["error"] = errMsg
	}
	return c.Status(fiber.StatusOK).JSON(body)
}
