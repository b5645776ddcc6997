package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control on responses the handler left alone.
// Generated routes are never cacheable by intermediaries.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if existing := c.Response().Header.Peek(fiber.HeaderCacheControl); len(existing) > 0 {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case c.Method() != fiber.MethodGet:
			ttl = "no-store"

		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10"

		case path == "/metrics":
			ttl = "no-cache"

		case path == "/v1/profiles":
			ttl = "public, max-age=3600" // static tables

		case strings.HasPrefix(path, "/docs"):
			ttl = "public, max-age=86400"

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=300"
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}

		return err
	}
}
