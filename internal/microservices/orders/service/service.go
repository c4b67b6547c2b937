package service

import (
	"table-orders/internal/common/logger"
	"table-orders/internal/connections/rabbitmq"
	"table-orders/internal/microservices/orders/repository"
)

type Service struct {
	Orders OrdersServiceInterface
}

func New(repo *repository.Repository, rmq *rabbitmq.Client, lg *logger.Logger) *Service {
	return &Service{Orders: NewOrdersService(repo.Orders, rmq, lg)}
}
