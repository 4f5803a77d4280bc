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
	mappingUC "github.com/utm-observer/backend/usecase/dronemapping"
)

type DroneMappingHandler struct {
	baseHandler
	uc *mappingUC.UseCase
}

func NewDroneMappingHandler(uc *mappingUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *DroneMappingHandler {
	return &DroneMappingHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Create drone mapping
// @Tags drone-mappings
// @Router /api/drone-mappings/ [post]
func (h *DroneMappingHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.CreateDroneMappingRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}
	mapping, ok := h.buildMapping(ctx, req)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, mapping)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Bulk create drone mappings
// @Tags drone-mappings
// @Router /api/drone-mappings/bulk [post]
func (h *DroneMappingHandler) BulkCreate(ctx *fasthttp.RequestCtx) {
	batch, ok := h.parseBatch(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.BulkCreate(stdCtx, batch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Reconcile drone mappings against a desired state
// @Tags drone-mappings
// @Router /api/drone-mappings/reconcile [post]
func (h *DroneMappingHandler) Reconcile(ctx *fasthttp.RequestCtx) {
	var req transport.BulkDroneMappingsRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}
	batch, ok := h.convertBatch(ctx, req)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Reconcile(stdCtx, batch, optionalString(req.CreatedBy))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}

// @Summary List drone mappings
// @Tags drone-mappings
// @Router /api/drone-mappings/ [get]
func (h *DroneMappingHandler) List(ctx *fasthttp.RequestCtx) {
	includeDeleted := ctx.QueryArgs().GetBool("include_deleted")

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	mappings, err := h.uc.List(stdCtx, includeDeleted)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, mappings, transport.ListMeta{TotalCount: len(mappings)})
}

// @Summary List soft-deleted drone mappings
// @Tags drone-mappings
// @Router /api/drone-mappings/deleted [get]
func (h *DroneMappingHandler) ListDeleted(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	mappings, err := h.uc.ListDeleted(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, mappings, transport.ListMeta{TotalCount: len(mappings)})
}

// @Summary Deletion statistics
// @Tags drone-mappings
// @Router /api/drone-mappings/statistics/deletion [get]
func (h *DroneMappingHandler) DeletionStatistics(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	stats, err := h.uc.DeletionStatistics(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, stats)
}

// @Summary Find drone mapping by any identifier
// @Tags drone-mappings
// @Router /api/drone-mappings/search/by-identifier/{identifier} [get]
func (h *DroneMappingHandler) FindByIdentifier(ctx *fasthttp.RequestCtx) {
	identifier := pathValue(ctx, "identifier")
	if identifier == "" {
		h.respondInvalid(ctx, "missing identifier")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	mapping, err := h.uc.FindByIdentifier(stdCtx, identifier)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, mapping)
}

// @Summary Get drone mapping
// @Tags drone-mappings
// @Router /api/drone-mappings/{drone_name} [get]
func (h *DroneMappingHandler) Get(ctx *fasthttp.RequestCtx) {
	name := pathValue(ctx, "drone_name")
	if name == "" {
		h.respondInvalid(ctx, "missing drone name")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	mapping, err := h.uc.Get(stdCtx, name)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, mapping)
}

// @Summary Update drone mapping
// @Tags drone-mappings
// @Router /api/drone-mappings/{drone_name} [put]
func (h *DroneMappingHandler) Update(ctx *fasthttp.RequestCtx) {
	name := pathValue(ctx, "drone_name")
	if name == "" {
		h.respondInvalid(ctx, "missing drone name")
		return
	}

	var req transport.UpdateDroneMappingRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, name, repository.DroneMappingUpdate{
		SerialNumber: req.SerialNumber,
		Sisant:       req.Sisant,
		UpdatedBy:    req.UpdatedBy,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Soft delete drone mapping
// @Tags drone-mappings
// @Router /api/drone-mappings/{drone_name} [delete]
func (h *DroneMappingHandler) Delete(ctx *fasthttp.RequestCtx) {
	name := pathValue(ctx, "drone_name")
	if name == "" {
		h.respondInvalid(ctx, "missing drone name")
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

// @Summary Restore drone mapping
// @Tags drone-mappings
// @Router /api/drone-mappings/{drone_name}/restore [post]
func (h *DroneMappingHandler) Restore(ctx *fasthttp.RequestCtx) {
	name := pathValue(ctx, "drone_name")
	if name == "" {
		h.respondInvalid(ctx, "missing drone name")
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

func (h *DroneMappingHandler) buildMapping(ctx *fasthttp.RequestCtx, req transport.CreateDroneMappingRequest) (*domain.DroneMapping, bool) {
	if req.Name == "" || req.SerialNumber == "" || req.Sisant == "" {
		h.respondInvalid(ctx, "name, serial_number and sisant are required")
		return nil, false
	}
	return &domain.DroneMapping{
		Name:         req.Name,
		SerialNumber: req.SerialNumber,
		Sisant:       req.Sisant,
		CreatedBy:    optionalString(req.CreatedBy),
	}, true
}

func (h *DroneMappingHandler) parseBatch(ctx *fasthttp.RequestCtx) ([]domain.DroneMapping, bool) {
	var req transport.BulkDroneMappingsRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, false
	}
	return h.convertBatch(ctx, req)
}

func (h *DroneMappingHandler) convertBatch(ctx *fasthttp.RequestCtx, req transport.BulkDroneMappingsRequest) ([]domain.DroneMapping, bool) {
	batch := make([]domain.DroneMapping, 0, len(req.Mappings))
	for _, item := range req.Mappings {
		if item.CreatedBy == "" {
			item.CreatedBy = req.CreatedBy
		}
		mapping, ok := h.buildMapping(ctx, item)
		if !ok {
			return nil, false
		}
		batch = append(batch, *mapping)
	}
	return batch, true
}
