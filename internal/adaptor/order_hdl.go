package adaptor

import (
	"net/http"

	"pizza-service/internal/dto/request"
	"pizza-service/internal/usecase"
	"pizza-service/pkg/utils"

	"go.uber.org/zap"
)

type OrderHandler struct {
	service usecase.OrderService
	log     *zap.Logger
}

func NewOrderHandler(service usecase.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log,
	}
}

// Menu handles GET /api/order/menu
func (h *OrderHandler) Menu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.service.Menu(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "get menu")
		return
	}

	utils.ResponseSuccess(w, menu)
}

// AddMenuItem handles PUT /api/order/menu (admin only)
func (h *OrderHandler) AddMenuItem(w http.ResponseWriter, r *http.Request) {
	var req request.MenuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, err.Error())
		return
	}

	menu, err := h.service.AddMenuItem(r.Context(), authUser(r), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "add menu item")
		return
	}

	utils.ResponseSuccess(w, menu)
}

// Orders handles GET /api/order
func (h *OrderHandler) Orders(w http.ResponseWriter, r *http.Request) {
	page := utils.ParseInt(r.URL.Query().Get("page"), 1)

	resp, err := h.service.Orders(r.Context(), authUser(r), page)
	if err != nil {
		writeServiceError(w, h.log, err, "get orders")
		return
	}

	utils.ResponseSuccess(w, resp)
}

// Create handles POST /api/order
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, err.Error())
		return
	}

	resp, err := h.service.Create(r.Context(), authUser(r), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create order")
		return
	}

	utils.ResponseSuccess(w, resp)
}
