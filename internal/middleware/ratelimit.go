package middleware

import (
	"context"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/ChatAppBack/internal/metrics"
	"github.com/saeid-a/ChatAppBack/internal/ratelimit"
)

type Allower interface {
	Allow(ctx context.Context, identifier string, rule ratelimit.Rule) (bool, error)
	Remaining(ctx context.Context, identifier string, rule ratelimit.Rule) (int, error)
}

const HeaderRateLimitRemaining = "X-RateLimit-Remaining"

var _ Allower = (*ratelimit.Limiter)(nil)

// RateLimit throttles by client IP under rule. A nil limiter disables it.
func RateLimit(limiter Allower, rule ratelimit.Rule, event string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}

		allowed, err := limiter.Allow(c.UserContext(), c.IP(), rule)
		if err != nil {
			log.Printf("[ratelimit] %s check failed for %s: %v", event, c.IP(), err)
		} else if left, err := limiter.Remaining(c.UserContext(), c.IP(), rule); err == nil {
			c.Set(HeaderRateLimitRemaining, strconv.Itoa(left))
		}
		if !allowed {
			metrics.RecordAuth(event, "limited")
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests"})
		}
		return c.Next()
	}
}
