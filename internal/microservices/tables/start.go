package tables

import (
	"context"
	"strconv"
	"time"

	"table-orders/internal/common/httpx"
	"table-orders/internal/common/logger"
	"table-orders/internal/gateway/httpgw"
	"table-orders/internal/microservices/tables/handlers"
	"table-orders/internal/microservices/tables/service"
)

// Run serves the customer-facing table API, backed by the order-service
// HTTP gateway.
func Run(ctx context.Context, port int, orderServiceURL string, grace time.Duration) error {
	lg := logger.New("table-service")

	gw := httpgw.New(orderServiceURL)
	sessions := service.NewSessions(gw, lg, grace)
	h := handlers.New(sessions)

	srv := httpx.New(":"+strconv.Itoa(port), handlers.Router(h))
	lg.Info("listening", map[string]any{"port": port, "order_service": orderServiceURL})
	return srv.Run(ctx)
}
