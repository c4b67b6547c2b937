package handlers

import "table-orders/internal/microservices/orders/service"

type Handler struct {
	Orders *OrdersHandler
}

func New(s *service.Service) *Handler {
	return &Handler{Orders: NewOrdersHandler(s.Orders)}
}
