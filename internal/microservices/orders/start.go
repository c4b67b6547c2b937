package orders

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"table-orders/internal/common/httpx"
	"table-orders/internal/common/logger"
	"table-orders/internal/connections/rabbitmq"
	"table-orders/internal/microservices/orders/handlers"
	"table-orders/internal/microservices/orders/repository"
	"table-orders/internal/microservices/orders/service"
)

// Run wires the order backend and serves its HTTP API until shutdown.
func Run(ctx context.Context, port int, pool *pgxpool.Pool, rmq *rabbitmq.Client) error {
	lg := logger.New("order-service")

	if err := rmq.DeclareAll(); err != nil {
		return err
	}

	repo := repository.New(pool)
	svc := service.New(repo, rmq, lg)
	h := handlers.New(svc)

	srv := httpx.New(":"+strconv.Itoa(port), handlers.Router(h))
	lg.Info("listening", map[string]any{"port": port})
	return srv.Run(ctx)
}
