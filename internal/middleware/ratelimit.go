package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"matchpoint/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// WriteRateLimit throttles mutating API calls per caller using the shared
// redis counter. The caller key is the authenticated user when available,
// the client IP otherwise. Responses carry X-RateLimit headers.
func WriteRateLimit(limiter *service.RateLimiter, limit int64, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := "write:" + c.IP()
		if id, ok := c.Locals("user_id").(uuid.UUID); ok {
			key = "write:" + id.String()
		}

		result, err := limiter.Allow(c.Context(), key, limit, window)
		if err != nil {
			// Redis being down must not take the API down with it.
			slog.Warn("Rate limiter unavailable, allowing request", "error", err)
			return c.Next()
		}

		c.Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		}

		return c.Next()
	}
}
