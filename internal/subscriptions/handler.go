package subscriptions

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artbyoscar/streamsense-sub003/internal/money"
)

type Handler struct {
	Repo      *Repo
	Detection *DetectionService
}

func NewHandler(repo *Repo, detection *DetectionService) *Handler {
	return &Handler{Repo: repo, Detection: detection}
}

func getUserID(c *fiber.Ctx) (string, bool) {
	if v := c.Locals("user_id"); v != nil {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}

type detectRequest struct {
	MinTransactions int `json:"min_transactions"`
}

// Detect runs subscription detection over the caller's transaction history.
func (h *Handler) Detect(c *fiber.Ctx) error {
	userID, ok := getUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req detectRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}
	}

	detected, out, err := h.Detection.Run(userContext(c), userID, req.MinTransactions)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "detection failed: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"detected":  detected,
		"created":   out.Created,
		"suggested": out.Suggested,
	})
}

type subscriptionItem struct {
	Subscription
	Price string `json:"price"`
}

// List returns the caller's subscriptions, newest first.
func (h *Handler) List(c *fiber.Ctx) error {
	userID, ok := getUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	subs, err := h.Repo.ListByUser(userContext(c), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load subscriptions: "+err.Error())
	}

	items := make([]subscriptionItem, 0, len(subs))
	for _, s := range subs {
		items = append(items, subscriptionItem{Subscription: s, Price: money.FormatCents(s.PriceCents)})
	}
	return c.JSON(fiber.Map{"items": items})
}

// Cancel marks an active subscription cancelled.
func (h *Handler) Cancel(c *fiber.Ctx) error {
	userID, ok := getUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.Repo.Cancel(userContext(c), userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "subscription not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to cancel: "+err.Error())
	}
	return c.JSON(fiber.Map{"ok": true})
}

// ListSuggestions returns suggestions, optionally filtered by ?status=.
func (h *Handler) ListSuggestions(c *fiber.Ctx) error {
	userID, ok := getUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	status := c.Query("status")
	switch status {
	case "", SuggestionPending, SuggestionAccepted, SuggestionRejected:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "invalid status filter")
	}

	items, err := h.Repo.ListSuggestions(userContext(c), userID, status)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load suggestions: "+err.Error())
	}
	return c.JSON(fiber.Map{"items": items})
}

type resolveRequest struct {
	Accept bool `json:"accept"`
}

// ResolveSuggestion accepts or rejects a pending suggestion. Accepting turns
// it into an active subscription.
func (h *Handler) ResolveSuggestion(c *fiber.Ctx) error {
	userID, ok := getUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req resolveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	ctx := userContext(c)
	sg, err := h.Repo.GetSuggestion(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "suggestion not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if sg.Status != SuggestionPending {
		return fiber.NewError(fiber.StatusConflict, "suggestion already resolved")
	}

	status := SuggestionRejected
	if req.Accept {
		status = SuggestionAccepted
	}
	if err := h.Repo.ResolveSuggestion(ctx, userID, id, status); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusConflict, "suggestion already resolved")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if !req.Accept {
		return c.JSON(fiber.Map{"ok": true, "status": status})
	}

	subID, err := h.Repo.Insert(ctx, &Subscription{
		UserID:       userID,
		ServiceName:  sg.MerchantName,
		PriceCents:   sg.AmountCents,
		BillingCycle: sg.BillingCycle,
		Status:       StatusActive,
		Source:       SourceSuggestion,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create subscription: "+err.Error())
	}
	return c.JSON(fiber.Map{"ok": true, "status": status, "subscription_id": subID})
}
