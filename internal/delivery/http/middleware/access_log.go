package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-ID"
	CtxRequestIDKey = "request_id"
)

type AccessLogMiddleware struct {
	logger *zap.Logger
}

func NewAccessLogMiddleware(logger *zap.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessLogMiddleware{logger: logger}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)
		c.Locals(CtxRequestIDKey, rid)

		err := c.Next()

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("rid", rid),
			zap.String("ip", c.IP()),
			zap.String("method", c.Method()),
			zap.String("path", c.OriginalURL()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.Int("resp_bytes", len(c.Response().Body())),
			zap.String("ua", c.Get("User-Agent")),
		}

		switch {
		case status >= 500:
			m.logger.Error("http access", fields...)
		case status >= 400:
			m.logger.Warn("http access", fields...)
		default:
			m.logger.Info("http access", fields...)
		}

		return err
	}
}
