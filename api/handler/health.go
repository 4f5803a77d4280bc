package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/utm-observer/backend/api/transport"
	"github.com/utm-observer/backend/internal/infrastructure/journal"
	"github.com/utm-observer/backend/internal/infrastructure/monitor"
	"github.com/utm-observer/backend/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
	journal *journal.Store
}

func NewHealthHandler(mon *monitor.Monitor, store *journal.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
		journal:     store,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	payload := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"services": map[string]interface{}{
			"postgresql": status.PostgreSQL,
			"redis": map[string]interface{}{
				"enabled": status.RedisEnabled,
				"online":  status.Redis,
			},
			"event_journal": map[string]interface{}{
				"online": status.Journal,
				"size":   status.JournalSize,
			},
		},
	}

	if h.monitor.IsOnline() {
		h.respondSuccess(ctx, http.StatusOK, payload)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "dependencies unhealthy", payload))
}

// @Summary Event dispatch journal
// @Tags health
// @Router /health/events [get]
func (h *HealthHandler) Events(ctx *fasthttp.RequestCtx) {
	if h.journal == nil {
		h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"enabled": false})
		return
	}

	stats, err := h.journal.Stats()
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 20)
	recent, err := h.journal.Recent(limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"enabled": true,
		"stats":   stats,
		"recent":  recent,
	})
}
