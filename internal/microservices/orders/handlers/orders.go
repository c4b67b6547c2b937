package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"table-orders/internal/common/httpx"
	"table-orders/internal/domain"
	"table-orders/internal/gateway"
	"table-orders/internal/microservices/orders/repository"
	"table-orders/internal/microservices/orders/service"
)

type OrdersHandler struct {
	service service.OrdersServiceInterface
}

func NewOrdersHandler(s service.OrdersServiceInterface) *OrdersHandler {
	return &OrdersHandler{service: s}
}

func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	if req.ClientIP == "" {
		req.ClientIP = httpx.ClientIP(r)
	}

	resp, err := h.service.CreateOrder(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListByStatus(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.StaffOrder{}
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	if err := h.service.UpdateStatus(r.Context(), r.PathValue("order_id"), req.Status); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrdersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteOrder(r.Context(), r.PathValue("order_id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	var ve *gateway.ValidationError
	switch {
	case errors.As(err, &ve):
		httpx.WriteProblem(w, http.StatusBadRequest, ve.Field, ve.Reason)
	case errors.Is(err, repository.ErrNotFound):
		httpx.WriteProblem(w, http.StatusNotFound, "not_found", "order not found")
	case errors.Is(err, repository.ErrConflict):
		httpx.WriteProblem(w, http.StatusConflict, "status_conflict", err.Error())
	default:
		httpx.WriteProblem(w, http.StatusInternalServerError, "internal", err.Error())
	}
}
