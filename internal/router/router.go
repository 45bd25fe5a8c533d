package router

import (
	"customs-web/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func Setup(app *fiber.App, db *sqlx.DB, redis *redis.Client, cfg *config.Config) {
	// The calculators work without a database or Redis, so health stays
	// "ok" in degraded mode and the flags say what is actually wired.
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"app":      cfg.AppName,
			"database": db != nil,
			"jobs":     redis != nil,
		})
	})

	api := app.Group("/api/v1")
	SetupAPIRoutes(api, db, redis, cfg)
}
