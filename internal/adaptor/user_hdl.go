package adaptor

import (
	"net/http"

	"pizza-service/internal/dto/request"
	"pizza-service/internal/usecase"
	"pizza-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

// Me handles GET /api/user/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Me(r.Context(), authUser(r))
	if err != nil {
		writeServiceError(w, h.log, err, "get current user")
		return
	}

	utils.ResponseSuccess(w, user)
}

// List handles GET /api/user (admin only)
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.ListRequest{
		Page:  utils.ParseInt(query.Get("page"), 1),
		Limit: utils.ParseInt(query.Get("limit"), utils.DefaultPageLimit),
		Name:  query.Get("name"),
	}

	users, err := h.service.List(r.Context(), authUser(r), req)
	if err != nil {
		writeServiceError(w, h.log, err, "list users")
		return
	}

	utils.ResponseSuccess(w, users)
}

// Update handles PUT /api/user/{userId}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.ParseID(chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, h.log, err, "update user")
		return
	}

	var req request.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, err.Error())
		return
	}

	resp, err := h.service.Update(r.Context(), authUser(r), userID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update user")
		return
	}

	utils.ResponseSuccess(w, resp)
}

// Delete handles DELETE /api/user/{userId} (admin only)
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.ParseID(chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, h.log, err, "delete user")
		return
	}

	if err := h.service.Delete(r.Context(), authUser(r), userID); err != nil {
		writeServiceError(w, h.log, err, "delete user")
		return
	}

	utils.ResponseNoContent(w)
}
