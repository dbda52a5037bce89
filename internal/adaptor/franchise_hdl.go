package adaptor

import (
	"net/http"

	"pizza-service/internal/dto/request"
	"pizza-service/internal/usecase"
	"pizza-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type FranchiseHandler struct {
	service usecase.FranchiseService
	log     *zap.Logger
}

func NewFranchiseHandler(service usecase.FranchiseService, log *zap.Logger) *FranchiseHandler {
	return &FranchiseHandler{
		service: service,
		log:     log,
	}
}

// List handles GET /api/franchise
func (h *FranchiseHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.ListRequest{
		Page:  utils.ParseInt(query.Get("page"), 0),
		Limit: utils.ParseInt(query.Get("limit"), utils.DefaultPageLimit),
		Name:  query.Get("name"),
	}

	actor, _ := utils.AuthUserFromContext(r.Context())
	resp, err := h.service.List(r.Context(), actor, req)
	if err != nil {
		writeServiceError(w, h.log, err, "list franchises")
		return
	}

	utils.ResponseSuccess(w, resp)
}

// ListForUser handles GET /api/franchise/{userId}
func (h *FranchiseHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.ParseID(chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, h.log, err, "list user franchises")
		return
	}

	resp, err := h.service.ListForUser(r.Context(), authUser(r), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "list user franchises")
		return
	}

	utils.ResponseSuccess(w, resp)
}

// Create handles POST /api/franchise (admin only)
func (h *FranchiseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateFranchiseRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, err.Error())
		return
	}

	resp, err := h.service.Create(r.Context(), authUser(r), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create franchise")
		return
	}

	utils.ResponseSuccess(w, resp)
}

// Delete handles DELETE /api/franchise/{franchiseId} (admin only)
func (h *FranchiseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	franchiseID, err := utils.ParseID(chi.URLParam(r, "franchiseId"))
	if err != nil {
		writeServiceError(w, h.log, err, "delete franchise")
		return
	}

	if err := h.service.Delete(r.Context(), authUser(r), franchiseID); err != nil {
		writeServiceError(w, h.log, err, "delete franchise")
		return
	}

	utils.ResponseMessage(w, "franchise deleted")
}

// CreateStore handles POST /api/franchise/{franchiseId}/store
func (h *FranchiseHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	franchiseID, err := utils.ParseID(chi.URLParam(r, "franchiseId"))
	if err != nil {
		writeServiceError(w, h.log, err, "create store")
		return
	}

	var req request.CreateStoreRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, err.Error())
		return
	}

	resp, err := h.service.CreateStore(r.Context(), authUser(r), franchiseID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create store")
		return
	}

	utils.ResponseSuccess(w, resp)
}

// DeleteStore handles DELETE /api/franchise/{franchiseId}/store/{storeId}
func (h *FranchiseHandler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	franchiseID, err := utils.ParseID(chi.URLParam(r, "franchiseId"))
	if err != nil {
		writeServiceError(w, h.log, err, "delete store")
		return
	}
	storeID, err := utils.ParseID(chi.URLParam(r, "storeId"))
	if err != nil {
		writeServiceError(w, h.log, err, "delete store")
		return
	}

	if err := h.service.DeleteStore(r.Context(), authUser(r), franchiseID, storeID); err != nil {
		writeServiceError(w, h.log, err, "delete store")
		return
	}

	utils.ResponseMessage(w, "store deleted")
}
