package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ilumina/ilumina/internal/logging"
	"github.com/ilumina/ilumina/internal/phone"
)

const (
	otpRateLimitPrefix = "rl:otp:"
	otpRateWindow      = time.Minute
	defaultOTPPerMin   = 5
)

// OTPRateLimit caps code requests per normalized phone (or per client IP when
// the body carries no phone) within a one minute window. Without Redis it is
// a no-op, and Redis errors let the request through.
func OTPRateLimit(cache *redis.Client, maxPerMin int, logger *slog.Logger) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = defaultOTPPerMin
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}
		var req struct {
			Phone string `json:"phone"`
		}
		_ = c.BodyParser(&req)

		subject := "ip:" + c.IP()
		if phone.Digits(req.Phone) != "" {
			subject = phone.Normalize(req.Phone)
		}
		key := otpRateLimitPrefix + subject

		ctx := c.UserContext()
		cnt, err := cache.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("otp rate limit unavailable", slog.Any("error", err))
			return c.Next()
		}
		if cnt == 1 {
			cache.Expire(ctx, key, otpRateWindow)
		}
		if cnt > int64(maxPerMin) {
			logger.Warn("otp rate limit exceeded", slog.String("subject", logging.MaskPhone(subject)), slog.Int64("count", cnt))
			return fiber.NewError(http.StatusTooManyRequests, "Muitas solicitações, tente novamente em instantes")
		}
		return c.Next()
	}
}
