package staff

import (
	"context"
	"strconv"
	"time"

	"table-orders/internal/common/httpx"
	"table-orders/internal/common/logger"
	"table-orders/internal/engine/workflow"
	"table-orders/internal/gateway/httpgw"
	"table-orders/internal/microservices/staff/handlers"
)

// Run serves the staff API: status buckets, guarded transitions and
// batch deletion, with a background poller keeping the buckets fresh.
func Run(ctx context.Context, port int, orderServiceURL string, poll time.Duration) error {
	lg := logger.New("staff-service")

	gw := httpgw.New(orderServiceURL)
	wf := workflow.New(gw, lg)
	if err := wf.RefreshAll(ctx); err != nil {
		lg.Error("initial_refresh_failed", err, nil)
	}
	go wf.Poll(ctx, poll)

	h := handlers.New(wf)
	srv := httpx.New(":"+strconv.Itoa(port), handlers.Router(h))
	lg.Info("listening", map[string]any{
		"port": port, "order_service": orderServiceURL,
		"poll_seconds": int(poll / time.Second),
	})
	return srv.Run(ctx)
}
