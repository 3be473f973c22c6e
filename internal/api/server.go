package api

import (
	"cloud-chat-backend/internal/logger"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type ServerOptions struct {
	AppName   string
	BodyLimit int
	Logger    *logger.Logger
	// AccessLog receives one line per request; nil disables the access log
	AccessLog io.Writer
}

func NewServer(opts ServerOptions) *fiber.App {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler(log),
		AppName:      opts.AppName,
		BodyLimit:    opts.BodyLimit,
		// stored names may contain spaces and Arabic letters
		UnescapePath: true,
	})

	// Global middleware
	app.Use(recover.New())
	if opts.AccessLog != nil {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Output: opts.AccessLog,
		}))
	}
	app.Use(CORS())

	return app
}

func customErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}

		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}

func StartServer(app *fiber.App, port string) error {
	return app.Listen(":" + port)
}
