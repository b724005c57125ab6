// Package ratelimit throttles credential endpoints with a Redis fixed window
// (INCR then EXPIRE on the first hit).
package ratelimit

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Rule is a Redis key prefix, the number of hits allowed inside Window, and
// the window length.
type Rule struct {
	Key    string
	Limit  int
	Window time.Duration
}

var (
	// RuleLogin allows 10 login attempts per minute per client IP.
	RuleLogin = Rule{Key: "rl:login:", Limit: 10, Window: time.Minute}

	// RuleRegister allows 10 registrations per minute per client IP.
	RuleRegister = Rule{Key: "rl:register:", Limit: 10, Window: time.Minute}
)

type Limiter struct {
	client redis.Cmdable
}

func NewLimiter(client redis.Cmdable) *Limiter {
	return &Limiter{client: client}
}

// Allow counts one hit for identifier under rule. Redis failures fail open:
// the hit is allowed and the error returned for logging.
func (l *Limiter) Allow(ctx context.Context, identifier string, rule Rule) (bool, error) {
	key := rule.Key + identifier

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("[ratelimit] redis INCR error key=%s: %v (failing open)", key, err)
		return true, err
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, rule.Window).Err(); err != nil {
			log.Printf("[ratelimit] redis EXPIRE error key=%s: %v (failing open)", key, err)
			// A key without TTL would block the identifier forever.
			l.client.Del(ctx, key)
			return true, err
		}
	}

	return int(count) <= rule.Limit, nil
}

// Remaining reports how many hits identifier has left in the current window.
func (l *Limiter) Remaining(ctx context.Context, identifier string, rule Rule) (int, error) {
	count, err := l.client.Get(ctx, rule.Key+identifier).Int()
	if err == redis.Nil {
		return rule.Limit, nil
	}
	if err != nil {
		return rule.Limit, err
	}
	if remaining := rule.Limit - count; remaining > 0 {
		return remaining, nil
	}
	return 0, nil
}
