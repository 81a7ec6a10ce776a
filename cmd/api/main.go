package main

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artbyoscar/streamsense-sub003/internal/catalog"
	"github.com/artbyoscar/streamsense-sub003/internal/config"
	"github.com/artbyoscar/streamsense-sub003/internal/feed"
	"github.com/artbyoscar/streamsense-sub003/internal/links"
	"github.com/artbyoscar/streamsense-sub003/internal/reports"
	"github.com/artbyoscar/streamsense-sub003/internal/router"
	"github.com/artbyoscar/streamsense-sub003/internal/subscriptions"
	"github.com/artbyoscar/streamsense-sub003/internal/syncer"
	"github.com/artbyoscar/streamsense-sub003/internal/transactions"
	"github.com/artbyoscar/streamsense-sub003/internal/webhook"
)

const catalogTTL = 15 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		log.Fatal("jwt secret is not set (STREAMSENSE_AUTH_JWT_SECRET)")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("error creating pgx pool: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("error pinging database: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(router.CorsMiddleware(cfg.Server.CORSOrigin))
	app.Use(requestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	// Dev token endpoint
	if strings.EqualFold(cfg.Server.Env, "dev") {
		app.Get("/dev/token", func(c *fiber.Ctx) error {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"user_id": "11111111-1111-1111-1111-111111111111",
			})
			signed, err := token.SignedString([]byte(cfg.Auth.JWTSecret))
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}
			return c.JSON(fiber.Map{"token": signed})
		})
	}

	linkRepo := links.NewRepo(pool)
	txnRepo := transactions.NewRepo(pool)
	subsRepo := subscriptions.NewRepo(pool)
	catalogCache := catalog.NewCache(catalog.NewRepo(pool), catalogTTL, time.Now)

	feedClient := feed.NewClient(cfg.Feed.BaseURL, cfg.Feed.ClientID, cfg.Feed.Secret)

	engine := syncer.NewEngine(feedClient, txnRepo, linkRepo)
	if cfg.Detect.SyncPageSize > 0 {
		engine.PageSize = cfg.Detect.SyncPageSize
	}

	policy := subscriptions.NewPolicy(subsRepo, subsRepo)
	if cfg.Detect.AutoThreshold > 0 {
		policy.AutoThreshold = cfg.Detect.AutoThreshold
	}
	if cfg.Detect.SuggestThreshold > 0 {
		policy.SuggestThreshold = cfg.Detect.SuggestThreshold
	}

	detection := subscriptions.NewDetectionService(txnRepo, catalogCache, policy)
	if cfg.Detect.LookbackDays > 0 {
		detection.LookbackDays = cfg.Detect.LookbackDays
	}
	if cfg.Detect.MinTransactions > 0 {
		detection.MinTransactions = cfg.Detect.MinTransactions
	}

	receiver := &webhook.Receiver{
		Engine:        engine,
		Links:         linkRepo,
		Transactions:  txnRepo,
		Detection:     detection,
		WebhookSecret: cfg.Feed.WebhookSecret,
		AuditDB:       pool,
	}

	r := &router.Router{
		SyncHandler:   syncer.NewHandler(engine, linkRepo, detection),
		Webhook:       receiver,
		SubsHandler:   subscriptions.NewHandler(subsRepo, detection),
		LinksHandler:  links.NewHandler(linkRepo),
		ReportHandler: reports.SubscriptionsPDFHandler(subsRepo, time.Now),
		AuthMW:        buildJWTMiddleware(cfg.Auth.JWTSecret),
		APIKeyMW:      apiKeyMiddleware(cfg.Auth.APIKey, cfg.Server.Env),
	}
	r.RegisterRoutes(app)

	log.Println("Listening on port", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		log.Printf("%s %s %d %s", c.Method(), c.Path(), status, time.Since(start))
		return err
	}
}

// apiKeyMiddleware guards internal-only endpoints. An unset key outside
// production allows all callers so local development stays friction-free.
func apiKeyMiddleware(expected, env string) fiber.Handler {
	expected = strings.TrimSpace(expected)
	production := strings.EqualFold(env, "production")

	return func(c *fiber.Ctx) error {
		if expected == "" {
			if production {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing_api_key"})
			}
			return c.Next()
		}

		key := strings.TrimSpace(c.Get("X-API-Key"))
		if key == "" || key != expected {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing_api_key"})
		}
		return c.Next()
	}
}

func buildJWTMiddleware(secret string) fiber.Handler {
	key := []byte(secret)

	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing token")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid token")
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		userIDVal, ok := claims["user_id"].(string)
		if !ok || strings.TrimSpace(userIDVal) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals("user_id", userIDVal)
		return c.Next()
	}
}
