// Package workflow drives the staff side of the order lifecycle: the
// strict status transition table, the status-partitioned order buckets,
// and batch deletion.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"table-orders/internal/common/logger"
	"table-orders/internal/domain"
	"table-orders/internal/gateway"
)

var ErrInvalidTransition = errors.New("status transition not allowed")

// Workflow keeps one bucket per status, refreshed from the gateway. Local
// state is never updated optimistically; it reflects only what the
// gateway confirmed.
type Workflow struct {
	gw gateway.OrderGateway
	lg *logger.Logger

	seq uint64 // monotonic refresh sequence

	mu      sync.Mutex
	buckets map[domain.OrderStatus][]domain.StaffOrder
	applied map[domain.OrderStatus]uint64 // highest sequence stored per bucket
}

func New(gw gateway.OrderGateway, lg *logger.Logger) *Workflow {
	return &Workflow{
		gw:      gw,
		lg:      lg,
		buckets: make(map[domain.OrderStatus][]domain.StaffOrder),
		applied: make(map[domain.OrderStatus]uint64),
	}
}

// Bucket returns a copy of the cached orders currently in the given status.
func (w *Workflow) Bucket(status domain.OrderStatus) []domain.StaffOrder {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]domain.StaffOrder(nil), w.buckets[status]...)
}

// RefreshAll refetches every status bucket. Each run is tagged with a
// monotonic sequence; a slower older fetch can never overwrite the result
// of a newer one, which keeps the periodic poll and action-triggered
// refreshes from racing each other.
func (w *Workflow) RefreshAll(ctx context.Context) error {
	seq := atomic.AddUint64(&w.seq, 1)

	var firstErr error
	for _, st := range domain.AllStatuses {
		list, err := w.gw.ListByStatus(ctx, st)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("refresh %s bucket: %w", st, err)
			}
			continue // keep the previous bucket on a failed fetch
		}
		w.store(st, seq, list)
	}
	return firstErr
}

func (w *Workflow) store(st domain.OrderStatus, seq uint64, list []domain.StaffOrder) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if seq < w.applied[st] {
		return // a newer refresh already landed
	}
	w.buckets[st] = list
	w.applied[st] = seq
}

// Find looks an order up by id across the cached buckets.
func (w *Workflow) Find(id string) (domain.StaffOrder, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, bucket := range w.buckets {
		for _, o := range bucket {
			if o.ID == id {
				return o, true
			}
		}
	}
	return domain.StaffOrder{}, false
}

// Transition moves an order to a new status through the gateway. The
// transition table is enforced before any call is made; afterwards every
// bucket is refreshed, since the order leaves one bucket and appears in
// another. A NotFound answer also triggers a refresh: the order is gone
// server-side and the stale entry must drop out.
func (w *Workflow) Transition(ctx context.Context, order domain.StaffOrder, to domain.OrderStatus) error {
	if !domain.CanTransition(order.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, to)
	}
	if order.Status == to {
		return nil // idempotent re-apply
	}

	if err := w.gw.UpdateStatus(ctx, order.ID, to); err != nil {
		w.lg.Error("status_update_failed", err, map[string]any{
			"order_id": order.ID, "from": order.Status, "to": to,
		})
		if errors.Is(err, gateway.ErrNotFound) {
			_ = w.RefreshAll(ctx)
		}
		return fmt.Errorf("update status of %s: %w", order.ID, err)
	}

	w.lg.Info("status_updated", map[string]any{
		"order_id": order.ID, "from": order.Status, "to": to,
	})
	return w.RefreshAll(ctx)
}

// DeleteBatch deletes the given orders one by one; a failing id never
// blocks the rest. All buckets are refreshed once at the end. The returned
// map holds the per-id failures, nil when everything succeeded.
func (w *Workflow) DeleteBatch(ctx context.Context, ids []string) map[string]error {
	var failed map[string]error
	for _, id := range ids {
		if err := w.gw.Delete(ctx, id); err != nil {
			if failed == nil {
				failed = make(map[string]error)
			}
			failed[id] = err
			w.lg.Error("order_delete_failed", err, map[string]any{"order_id": id})
		}
	}
	if err := w.RefreshAll(ctx); err != nil {
		w.lg.Error("refresh_failed", err, nil)
	}
	return failed
}

// Poll refreshes the buckets on a fixed interval until the context is
// cancelled.
func (w *Workflow) Poll(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := w.RefreshAll(ctx); err != nil {
				w.lg.Error("poll_refresh_failed", err, nil)
			}
		}
	}
}
