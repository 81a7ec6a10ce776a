package syncer

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/artbyoscar/streamsense-sub003/internal/subscriptions"
)

// SyncRunner lets the handler be tested against a fake engine.
type SyncRunner interface {
	Sync(ctx context.Context, linkID string, cursorOverride string, pageSize int) (Result, error)
}

type DetectionRunner interface {
	Run(ctx context.Context, userID string, minTransactions int) (int, subscriptions.Outcome, error)
}

type Handler struct {
	Engine    SyncRunner
	Links     LinkStore
	Detection DetectionRunner
}

func NewHandler(engine SyncRunner, links LinkStore, detection DetectionRunner) *Handler {
	return &Handler{Engine: engine, Links: links, Detection: detection}
}

type syncRequest struct {
	LinkID   string `json:"link_id"`
	Cursor   string `json:"cursor"`
	PageSize int    `json:"page_size"`
}

// Sync triggers one bounded sync pass for a link and a detection run for its
// owner. A capped pass returns has_more=true; the caller re-invokes with the
// returned cursor position already persisted, so a plain re-invoke continues.
func (h *Handler) Sync(c *fiber.Ctx) error {
	var req syncRequest
	if err := c.BodyParser(&req); err != nil || req.LinkID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "link_id required")
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := h.Engine.Sync(ctx, req.LinkID, req.Cursor, req.PageSize)
	if err != nil {
		if errors.Is(err, ErrLinkInactive) {
			return fiber.NewError(fiber.StatusConflict, "link is inactive")
		}
		// transient upstream failure: the caller retries; idempotent applies
		// make that safe
		return fiber.NewError(fiber.StatusBadGateway, "sync failed: "+err.Error())
	}

	detected := 0
	if h.Detection != nil {
		link, lerr := h.Links.GetByID(ctx, req.LinkID)
		if lerr != nil {
			log.Printf("syncer: load link %s for detection: %v", req.LinkID, lerr)
		} else {
			n, _, derr := h.Detection.Run(ctx, link.UserID, 0)
			if derr != nil {
				log.Printf("syncer: detection for user %s: %v", link.UserID, derr)
			} else {
				detected = n
			}
		}
	}

	return c.JSON(fiber.Map{
		"transactions_added":     res.Added,
		"transactions_modified":  res.Modified,
		"transactions_removed":   res.Removed,
		"transactions_skipped":   res.Skipped,
		"subscriptions_detected": detected,
		"next_cursor":            res.NextCursor,
		"has_more":               res.HasMore,
	})
}
