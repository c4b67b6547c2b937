package handlers

import "net/http"

func Router(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/tables/{table_id}", h.Tables.View)
	mux.HandleFunc("POST /api/v1/tables/{table_id}/cart/items", h.Tables.AddItem)
	mux.HandleFunc("DELETE /api/v1/tables/{table_id}/cart/items/{name}", h.Tables.RemoveItem)
	mux.HandleFunc("POST /api/v1/tables/{table_id}/orders", h.Tables.Submit)
	mux.HandleFunc("POST /api/v1/tables/{table_id}/orders/confirm", h.Tables.Confirm)
	mux.HandleFunc("POST /api/v1/tables/{table_id}/orders/cancel", h.Tables.Cancel)
	return mux
}
