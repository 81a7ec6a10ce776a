package links

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

// List returns the caller's links with their health flags. An inactive link
// with an error code is how a credential failure surfaces to the app.
func (h *Handler) List(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || strings.TrimSpace(userID) == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	items, err := h.Repo.ListByUser(ctx, userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load links: "+err.Error())
	}
	return c.JSON(fiber.Map{"items": items})
}
