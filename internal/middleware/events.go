package middleware

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/utm-observer/backend/internal/events"
)

// Notifier schedules a detached event notification. Implemented by
// events.Dispatcher; abstracted so tests can observe scheduling.
type Notifier interface {
	Schedule(stream events.Stream, correlationID, method, path string)
}

// EventNotifier dispatches an outbound event after a request completes with
// a 2xx response and its route maps to a known stream. The correlation ID is
// read before detaching, so the scheduled attempt never touches the request
// context. Dispatch never blocks the response or changes its status code.
func EventNotifier(notifier Notifier, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			next(ctx)

			if notifier == nil {
				return
			}
			status := ctx.Response.StatusCode()
			if status < 200 || status >= 300 {
				return
			}

			method := string(ctx.Method())
			path := string(ctx.Path())
			stream, ok := events.ResolveStream(method, path)
			if !ok {
				return
			}

			correlationID := CorrelationID(ctx)
			notifier.Schedule(stream, correlationID, method, path)
		}
	}
}
