package handlers

import "net/http"

func Router(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/orders", h.Orders.Create)
	mux.HandleFunc("GET /api/v1/orders", h.Orders.List)
	mux.HandleFunc("PATCH /api/v1/orders/{order_id}/status", h.Orders.UpdateStatus)
	mux.HandleFunc("DELETE /api/v1/orders/{order_id}", h.Orders.Delete)
	return mux
}
