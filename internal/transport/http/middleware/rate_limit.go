package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitStore is the sliding-window attempt log backing the limiter.
type RateLimitStore interface {
	TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error
	CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error)
	RecordAttempt(ctx context.Context, identifier string, at time.Time) error
	OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error)
}

// IdentifierFunc derives the throttling key from a request, typically the
// client IP. Returning false skips the rule for that request.
type IdentifierFunc func(*gin.Context) (string, bool)

// RateLimitRule throttles one class of traffic, e.g. login attempts per IP.
type RateLimitRule struct {
	Name       string
	Limit      int
	Window     time.Duration
	Identifier IdentifierFunc
}

// RateLimiter throttles credential endpoints against brute forcing. A store
// outage fails open: losing rate limiting is preferable to locking every
// rancher out of the API.
type RateLimiter struct {
	store  RateLimitStore
	logger *zap.Logger
	now    func() time.Time
}

func NewRateLimiter(store RateLimitStore, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RateLimiter{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the limiter's clock, for tests.
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	if now != nil {
		rl.now = now
	}
	return rl
}

// ClientIPIdentifier keys attempts by the requesting client's IP.
func ClientIPIdentifier() IdentifierFunc {
	return func(c *gin.Context) (string, bool) {
		ip := c.ClientIP()
		return ip, ip != ""
	}
}

// throttleDecision is the outcome of evaluating one rule for one request.
type throttleDecision struct {
	allowed    bool
	limit      int
	remaining  int
	resetAt    time.Time
	retryAfter time.Duration
}

// RateLimit enforces the given rules. The first rule that is over its limit
// aborts the request with 429; otherwise the response carries the headers of
// the rule with the least headroom left.
func (rl *RateLimiter) RateLimit(rules ...RateLimitRule) gin.HandlerFunc {
	active := make([]RateLimitRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Identifier == nil || rule.Limit <= 0 || rule.Window <= 0 {
			continue
		}
		if rule.Name == "" {
			rule.Name = "default"
		}
		active = append(active, rule)
	}

	return func(c *gin.Context) {
		if len(active) == 0 || rl.store == nil {
			c.Next()
			return
		}

		now := rl.now()
		var tightest *throttleDecision

		for _, rule := range active {
			identifier, ok := rule.Identifier(c)
			if !ok || identifier == "" {
				continue
			}

			key := rule.Name + ":" + identifier
			decision, err := rl.evaluate(c, rule, key, now)
			if err != nil {
				rl.logger.Warn("rate limit store unavailable, allowing request",
					zap.String("rule", rule.Name),
					zap.String("identifier", identifier),
					zap.Error(err),
				)
				continue
			}

			if !decision.allowed {
				writeThrottleHeaders(c, decision)
				retrySeconds := ceilSeconds(decision.retryAfter)
				c.AbortWithStatusJSON(http.StatusTooManyRequests, newErrorResponse(c,
					fmt.Sprintf("too many attempts, retry in %d seconds", retrySeconds)))
				return
			}

			if tightest == nil || decision.remaining < tightest.remaining {
				d := decision
				tightest = &d
			}
		}

		if tightest != nil {
			writeThrottleHeaders(c, *tightest)
		}

		c.Next()
	}
}

func (rl *RateLimiter) evaluate(c *gin.Context, rule RateLimitRule, key string, now time.Time) (throttleDecision, error) {
	ctx := c.Request.Context()

	if err := rl.store.TrimWindow(ctx, key, rule.Window, now); err != nil {
		return throttleDecision{}, err
	}

	count, err := rl.store.CountAttempts(ctx, key, rule.Window, now)
	if err != nil {
		return throttleDecision{}, err
	}

	resetAt := now.Add(rule.Window)
	if oldest, found, err := rl.store.OldestAttempt(ctx, key, rule.Window, now); err != nil {
		return throttleDecision{}, err
	} else if found {
		resetAt = oldest.Add(rule.Window)
	}

	decision := throttleDecision{
		limit:   rule.Limit,
		resetAt: resetAt,
	}

	if count >= rule.Limit {
		decision.retryAfter = resetAt.Sub(now)
		if decision.retryAfter < 0 {
			decision.retryAfter = 0
		}
		return decision, nil
	}

	if err := rl.store.RecordAttempt(ctx, key, now); err != nil {
		return throttleDecision{}, err
	}

	decision.allowed = true
	decision.remaining = rule.Limit - count - 1
	if decision.remaining < 0 {
		decision.remaining = 0
	}

	return decision, nil
}

func writeThrottleHeaders(c *gin.Context, d throttleDecision) {
	h := c.Writer.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(d.limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(d.resetAt.Unix(), 10))

	if !d.allowed {
		h.Set("Retry-After", strconv.Itoa(ceilSeconds(d.retryAfter)))
	}
}

func ceilSeconds(d time.Duration) int {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 0 {
		return 0
	}
	return seconds
}
