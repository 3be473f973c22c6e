package routes

import (
	"cloud-chat-backend/internal/assistant"
	"cloud-chat-backend/internal/libraries"
	"cloud-chat-backend/internal/logger"
	"cloud-chat-backend/internal/uploads"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the services shared by all routes
type Dependencies struct {
	Chat      *assistant.Service
	Uploads   *uploads.Service
	Hub       *libraries.Hub
	Gatherer  prometheus.Gatherer
	PublicDir string
	Logger    *logger.Logger
}

func Register(app *fiber.App, deps Dependencies) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	registerChat(app, deps)
	registerFiles(app, deps)

	// landing page and other static assets
	if deps.PublicDir != "" {
		app.Static("/", deps.PublicDir)
	}
}
