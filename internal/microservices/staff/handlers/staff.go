package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"table-orders/internal/common/httpx"
	"table-orders/internal/domain"
	"table-orders/internal/engine/workflow"
	"table-orders/internal/gateway"
)

type StaffHandler struct {
	wf *workflow.Workflow
}

func NewStaffHandler(wf *workflow.Workflow) *StaffHandler {
	return &StaffHandler{wf: wf}
}

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	st, err := domain.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "status", err.Error())
		return
	}
	bucket := h.wf.Bucket(st)
	if bucket == nil {
		bucket = []domain.StaffOrder{}
	}
	httpx.WriteJSON(w, http.StatusOK, bucket)
}

func (h *StaffHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	to, err := domain.ParseStatus(req.Status)
	if err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "status", err.Error())
		return
	}

	order, ok := h.wf.Find(r.PathValue("order_id"))
	if !ok {
		httpx.WriteProblem(w, http.StatusNotFound, "not_found", "order is not in any bucket")
		return
	}

	switch err := h.wf.Transition(r.Context(), order, to); {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, workflow.ErrInvalidTransition):
		httpx.WriteProblem(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, gateway.ErrNotFound):
		httpx.WriteProblem(w, http.StatusNotFound, "not_found", "order no longer exists")
	case errors.Is(err, gateway.ErrUnavailable):
		httpx.WriteProblem(w, http.StatusBadGateway, "order_service_unavailable", err.Error())
	default:
		httpx.WriteProblem(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

type deleteBatchRequest struct {
	IDs []string `json:"ids"`
}

func (h *StaffHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	var req deleteBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	if len(req.IDs) == 0 {
		httpx.WriteProblem(w, http.StatusBadRequest, "ids", "at least one order id is required")
		return
	}

	failed := h.wf.DeleteBatch(r.Context(), req.IDs)
	failures := make(map[string]string, len(failed))
	for id, err := range failed {
		failures[id] = err.Error()
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"deleted": len(req.IDs) - len(failed),
		"failed":  failures,
	})
}
