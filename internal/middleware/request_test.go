package middleware_test

import (
	"net/http/httptest"
	"testing"

	"matchpoint/internal/middleware"
	"matchpoint/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestMetadata(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.RequestMetadata())

	var got service.RequestContext
	var found bool
	app.Get("/", func(c *fiber.Ctx) error {
		got, found = service.RequestContextFrom(c.Context())
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("User-Agent", "matchpoint-app/2.1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.True(t, found)
	assert.Equal(t, "matchpoint-app/2.1", got.UserAgent)
	assert.NotEmpty(t, got.IPAddress)
}
