package handlers

import "table-orders/internal/microservices/tables/service"

type Handler struct {
	Tables *TablesHandler
}

func New(s *service.Sessions) *Handler {
	return &Handler{Tables: NewTablesHandler(s)}
}
