package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"table-orders/internal/common/httpx"
	"table-orders/internal/domain"
	"table-orders/internal/engine/pending"
	"table-orders/internal/gateway"
	"table-orders/internal/microservices/tables/service"
)

type TablesHandler struct {
	sessions *service.Sessions
}

func NewTablesHandler(s *service.Sessions) *TablesHandler {
	return &TablesHandler{sessions: s}
}

type addItemRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type submitRequest struct {
	Location *domain.LatLng `json:"location"`
}

func (h *TablesHandler) View(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.sessions.ViewOf(r.PathValue("table_id")))
}

func (h *TablesHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	if err := h.sessions.AddItem(r.PathValue("table_id"), req.Name, req.Price); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TablesHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.RemoveItem(r.PathValue("table_id"), r.PathValue("name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TablesHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	remaining, err := h.sessions.Submit(r.PathValue("table_id"), req.Location, httpx.ClientIP(r))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusAccepted, map[string]any{"remaining_seconds": remaining})
}

func (h *TablesHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Confirm(r.Context(), r.PathValue("table_id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TablesHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Cancel(r.PathValue("table_id")); err != nil {
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
	case errors.Is(err, service.ErrCartLocked),
		errors.Is(err, pending.ErrAlreadyPending),
		errors.Is(err, pending.ErrCommitInFlight):
		httpx.WriteProblem(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, pending.ErrNothingPending):
		httpx.WriteProblem(w, http.StatusNotFound, "no_pending_order", err.Error())
	case errors.Is(err, gateway.ErrUnavailable):
		httpx.WriteProblem(w, http.StatusBadGateway, "order_service_unavailable", err.Error())
	default:
		httpx.WriteProblem(w, http.StatusInternalServerError, "internal", err.Error())
	}
}
