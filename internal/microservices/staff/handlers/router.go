package handlers

import "net/http"

func Router(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/staff/orders", h.Staff.List)
	mux.HandleFunc("POST /api/v1/staff/orders/{order_id}/status", h.Staff.UpdateStatus)
	mux.HandleFunc("DELETE /api/v1/staff/orders", h.Staff.DeleteBatch)
	return mux
}
