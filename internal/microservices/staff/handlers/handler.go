package handlers

import "table-orders/internal/engine/workflow"

type Handler struct {
	Staff *StaffHandler
}

func New(wf *workflow.Workflow) *Handler {
	return &Handler{Staff: NewStaffHandler(wf)}
}
