package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/utm-observer/backend/api/transport"
	"github.com/utm-observer/backend/domain"
	"github.com/utm-observer/backend/pkg/httpcontext"
	"github.com/utm-observer/backend/repository"
	stripUC "github.com/utm-observer/backend/usecase/flightstrip"
)

type FlightStripHandler struct {
	baseHandler
	uc *stripUC.UseCase
}

func NewFlightStripHandler(uc *stripUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *FlightStripHandler {
	return &FlightStripHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Create flight strip
// @Tags flight-strips
// @Router /api/flight-strips/ [post]
func (h *FlightStripHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.CreateFlightStripRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}
	if req.Name == "" {
		h.respondInvalid(ctx, "name is required")
		return
	}
	area := domain.FlightArea(req.FlightArea)
	if !area.Valid() {
		h.respondInvalid(ctx, "unknown flight area")
		return
	}

	strip := &domain.FlightStrip{
		Name:         req.Name,
		FlightArea:   area,
		Height:       req.Height,
		TakeoffSpace: req.TakeoffSpace,
		LandingSpace: req.LandingSpace,
		TakeoffTime:  req.TakeoffTime,
		LandingTime:  req.LandingTime,
		CreatedBy:    optionalString(req.CreatedBy),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, strip)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary List flight strips
// @Tags flight-strips
// @Router /api/flight-strips/ [get]
func (h *FlightStripHandler) List(ctx *fasthttp.RequestCtx) {
	filter := repository.FlightStripFilter{
		FlightArea:       string(ctx.QueryArgs().Peek("flight_area")),
		TakeoffTimeStart: string(ctx.QueryArgs().Peek("takeoff_time_start")),
		TakeoffTimeEnd:   string(ctx.QueryArgs().Peek("takeoff_time_end")),
		Limit:            parseInt(string(ctx.QueryArgs().Peek("limit")), 100),
		Offset:           parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}
	if filter.FlightArea != "" && !domain.FlightArea(filter.FlightArea).Valid() {
		h.respondInvalid(ctx, "unknown flight area")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	strips, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, strips, transport.ListMeta{
		TotalCount: len(strips),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// @Summary List soft-deleted flight strips
// @Tags flight-strips
// @Router /api/flight-strips/deleted [get]
func (h *FlightStripHandler) ListDeleted(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	strips, err := h.uc.ListDeleted(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, strips, transport.ListMeta{TotalCount: len(strips)})
}

// @Summary Count active flight strips per area
// @Tags flight-strips
// @Router /api/flight-strips/statistics/by-area [get]
func (h *FlightStripHandler) CountByArea(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	counts, err := h.uc.CountByArea(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, counts)
}

// @Summary Get flight strip
// @Tags flight-strips
// @Router /api/flight-strips/{flight_strip_name} [get]
func (h *FlightStripHandler) Get(ctx *fasthttp.RequestCtx) {
	name := pathValue(ctx, "flight_strip_name")
	if name == "" {
		h.respondInvalid(ctx, "missing flight strip name")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	strip, err := h.uc.Get(stdCtx, name)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, strip)
}

// @Summary Update flight strip
// @Tags flight-strips
// @Router /api/flight-strips/{flight_strip_name} [put]
func (h *FlightStripHandler) Update(ctx *fasthttp.RequestCtx) {
	name := pathValue(ctx, "flight_strip_name")
	if name == "" {
		h.respondInvalid(ctx, "missing flight strip name")
		return
	}

	var req transport.UpdateFlightStripRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	update := repository.FlightStripUpdate{
		Height:       req.Height,
		TakeoffSpace: req.TakeoffSpace,
		LandingSpace: req.LandingSpace,
		TakeoffTime:  req.TakeoffTime,
		LandingTime:  req.LandingTime,
		UpdatedBy:    req.UpdatedBy,
	}
	if req.FlightArea != nil {
		area := domain.FlightArea(*req.FlightArea)
		if !area.Valid() {
			h.respondInvalid(ctx, "unknown flight area")
			return
		}
		update.FlightArea = &area
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, name, update)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Soft delete flight strip
// @Tags flight-strips
// @Router /api/flight-strips/{flight_strip_name} [delete]
func (h *FlightStripHandler) Delete(ctx *fasthttp.RequestCtx) {
	name := pathValue(ctx, "flight_strip_name")
	if name == "" {
		h.respondInvalid(ctx, "missing flight strip name")
		return
	}
	deletedBy := optionalString(string(ctx.QueryArgs().Peek("deleted_by")))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.SoftDelete(stdCtx, name, deletedBy); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"name": name, "status": "deleted"})
}

// @Summary Restore flight strip
// @Tags flight-strips
// @Router /api/flight-strips/{flight_strip_name}/restore [post]
func (h *FlightStripHandler) Restore(ctx *fasthttp.RequestCtx) {
	name := pathValue(ctx, "flight_strip_name")
	if name == "" {
		h.respondInvalid(ctx, "missing flight strip name")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	restored, err := h.uc.Restore(stdCtx, name)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, restored)
}

// @Summary Permanently remove flight strip
// @Tags flight-strips
// @Router /api/flight-strips/{flight_strip_name}/purge [delete]
func (h *FlightStripHandler) Purge(ctx *fasthttp.RequestCtx) {
	name := pathValue(ctx, "flight_strip_name")
	if name == "" {
		h.respondInvalid(ctx, "missing flight strip name")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Purge(stdCtx, name); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"name": name, "status": "purged"})
}
