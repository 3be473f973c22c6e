package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	corsAllowMethods = strings.Join([]string{
		fiber.MethodGet,
		fiber.MethodPost,
		fiber.MethodPut,
		fiber.MethodDelete,
		fiber.MethodOptions,
	}, ", ")
	corsAllowHeaders = "Origin, X-Requested-With, Content-Type, Accept, Authorization"
)

// CORS allows every origin and answers preflight requests with an empty 200
func CORS() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		c.Set(fiber.HeaderAccessControlAllowMethods, corsAllowMethods)
		c.Set(fiber.HeaderAccessControlAllowHeaders, corsAllowHeaders)

		if c.Method() == fiber.MethodOptions {
			c.Status(fiber.StatusOK)
			return nil
		}
		return c.Next()
	}
}
