package middleware

import (
	"matchpoint/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RequestMetadata records the client address and user agent on the request
// context so audit entries written anywhere down the call chain carry them.
func RequestMetadata() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(service.RequestContextKey{}, service.RequestContext{
			IPAddress: c.IP(),
			UserAgent: c.Get("User-Agent"),
		})
		return c.Next()
	}
}
