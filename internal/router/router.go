package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artbyoscar/streamsense-sub003/internal/links"
	"github.com/artbyoscar/streamsense-sub003/internal/subscriptions"
	"github.com/artbyoscar/streamsense-sub003/internal/syncer"
	"github.com/artbyoscar/streamsense-sub003/internal/webhook"
)

type Router struct {
	SyncHandler   *syncer.Handler
	Webhook       *webhook.Receiver
	SubsHandler   *subscriptions.Handler
	LinksHandler  *links.Handler
	ReportHandler fiber.Handler
	AuthMW        fiber.Handler
	APIKeyMW      fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	// provider-facing: the webhook authenticates itself by signature, the
	// sync trigger is for internal callers
	if r.Webhook != nil {
		app.Post("/v1/feed/webhook", r.Webhook.Handle)
	}
	if r.SyncHandler != nil {
		if r.APIKeyMW != nil {
			app.Post("/v1/sync", RateLimitSync(), r.APIKeyMW, r.SyncHandler.Sync)
		} else {
			app.Post("/v1/sync", RateLimitSync(), r.SyncHandler.Sync)
		}
	}

	// user-facing (JWT)
	if r.SubsHandler != nil && r.AuthMW != nil {
		app.Post("/v1/detect", RateLimitWrite(), r.AuthMW, r.SubsHandler.Detect)
		app.Get("/v1/subscriptions", r.AuthMW, r.SubsHandler.List)
		app.Post("/v1/subscriptions/:id/cancel", r.AuthMW, r.SubsHandler.Cancel)
		app.Get("/v1/suggestions", r.AuthMW, r.SubsHandler.ListSuggestions)
		app.Post("/v1/suggestions/:id/resolve", RateLimitWrite(), r.AuthMW, r.SubsHandler.ResolveSuggestion)
	}
	if r.LinksHandler != nil && r.AuthMW != nil {
		app.Get("/v1/links", r.AuthMW, r.LinksHandler.List)
	}
	if r.ReportHandler != nil && r.AuthMW != nil {
		app.Get("/v1/reports/subscriptions", r.AuthMW, r.ReportHandler)
	}
}
