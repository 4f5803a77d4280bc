package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// CorrelationHeader is the inbound and outbound correlation ID header.
const CorrelationHeader = "X-Correlation-ID"

const correlationKey = "correlation_id"

// Correlation assigns every request a correlation ID: the inbound header
// value when present, a fresh UUID otherwise. The ID is echoed on the
// response and stored on the request context for downstream readers. It is
// scoped to the request's execution; detached work must capture it by value.
func Correlation(logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			correlationID := strings.TrimSpace(string(ctx.Request.Header.Peek(CorrelationHeader)))
			if correlationID == "" {
				correlationID = uuid.NewString()
			}

			ctx.SetUserValue(correlationKey, correlationID)
			ctx.Response.Header.Set(CorrelationHeader, correlationID)

			logger.Debug("request received",
				zap.String("method", string(ctx.Method())),
				zap.String("path", string(ctx.Path())),
				zap.String("correlation_id", correlationID))

			next(ctx)
		}
	}
}

// CorrelationID returns the correlation ID assigned to the request, or an
// empty string when the middleware did not run.
func CorrelationID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.UserValue(correlationKey).(string); ok {
		return id
	}
	return ""
}
