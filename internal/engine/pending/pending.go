// Package pending owns the one provisional order a table session may hold
// at a time: the grace-period countdown, the confirm/cancel races, and the
// hand-off of committed orders into the local order list.
package pending

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"table-orders/internal/common/logger"
	"table-orders/internal/domain"
	"table-orders/internal/engine/cart"
	"table-orders/internal/engine/merge"
	"table-orders/internal/gateway"
)

var (
	ErrAlreadyPending = errors.New("an order is already pending for this session")
	ErrNothingPending = errors.New("no pending order")
	ErrCommitInFlight = errors.New("commit already in progress")
)

const (
	DefaultGrace = 120 * time.Second
	defaultTick  = time.Second
)

type state int

const (
	stateIdle state = iota
	statePending
)

type Options struct {
	Grace time.Duration // grace period before auto-confirm
	Tick  time.Duration // countdown resolution, one second in production
}

func (o Options) withDefaults() Options {
	if o.Grace <= 0 {
		o.Grace = DefaultGrace
	}
	if o.Tick <= 0 {
		o.Tick = defaultTick
	}
	return o
}

// ticks is the countdown start value: seconds in production, where the
// tick is one second.
func (o Options) ticks() int {
	n := int(o.Grace / o.Tick)
	if n < 1 {
		n = 1
	}
	return n
}

// Commit is the single pending-order slot of one table session. It is
// owned exclusively by that session and never shared across sessions.
type Commit struct {
	tableID string
	gw      gateway.OrderGateway
	cart    *cart.Store
	lg      *logger.Logger
	opts    Options

	mu        sync.Mutex
	state     state
	order     *domain.PendingOrder
	remaining int
	stop      chan struct{} // countdown handle; nil when no timer is armed
	inFlight  bool          // single-flight guard for Confirm
	orders    []domain.Order
}

func New(tableID string, gw gateway.OrderGateway, crt *cart.Store, lg *logger.Logger, opts Options) *Commit {
	return &Commit{tableID: tableID, gw: gw, cart: crt, lg: lg, opts: opts.withDefaults()}
}

// Submit snapshots the cart into a pending order and arms the countdown.
// The cart itself is left untouched until the commit succeeds, so a later
// cancel restores the pre-submit view. Valid only while idle.
func (c *Commit) Submit(location *domain.LatLng, clientIP string) error {
	if location == nil {
		return &gateway.ValidationError{Field: "location", Reason: "location is required to place an order"}
	}
	items := c.cart.Items()
	if len(items) == 0 {
		return &gateway.ValidationError{Field: "items", Reason: "cart is empty"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateIdle {
		return ErrAlreadyPending
	}
	loc := *location
	c.order = &domain.PendingOrder{
		TableID:   c.tableID,
		Items:     items,
		Location:  &loc,
		ClientIP:  clientIP,
		CreatedAt: time.Now().UTC(),
	}
	c.state = statePending
	c.remaining = c.opts.ticks()
	c.armLocked()

	c.lg.Info("order_submitted", map[string]any{
		"table_id": c.tableID, "items": len(items), "grace_seconds": c.remaining,
	})
	return nil
}

// armLocked starts a countdown goroutine. Re-arming while a timer is
// already running is a no-op, so re-entering Pending never spawns a
// second timer.
func (c *Commit) armLocked() {
	if c.stop != nil {
		return
	}
	stop := make(chan struct{})
	c.stop = stop
	go c.countdown(stop)
}

func (c *Commit) countdown(stop chan struct{}) {
	t := time.NewTicker(c.opts.Tick)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			c.mu.Lock()
			if c.stop != stop || c.state != statePending {
				// cancelled or superseded between tick and lock
				c.mu.Unlock()
				return
			}
			c.remaining--
			if c.remaining > 0 {
				c.mu.Unlock()
				continue
			}
			// the timer consumes itself before confirming, so expiry
			// triggers exactly one confirm
			c.stop = nil
			c.mu.Unlock()

			c.lg.Info("countdown_expired", nil)
			if err := c.Confirm(context.Background()); err != nil && !errors.Is(err, ErrNothingPending) {
				c.lg.Error("auto_confirm_failed", err, nil)
			}
			return
		}
	}
}

// Confirm commits the pending order through the gateway. Safe to call
// concurrently from the expiry path and a user action: the in-flight flag
// collapses overlapping calls into a single gateway create. On success the
// result is merged into the local order list, the cart is cleared and the
// slot returns to idle. On gateway failure the pending order and cart are
// kept so the user or a re-armed timer can retry.
func (c *Commit) Confirm(ctx context.Context) error {
	c.mu.Lock()
	if c.state != statePending || c.order == nil {
		c.mu.Unlock()
		return ErrNothingPending
	}
	if c.inFlight {
		c.mu.Unlock()
		return nil
	}
	c.inFlight = true
	snap := *c.order
	c.mu.Unlock()

	res, err := c.gw.Create(ctx, snap)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if err != nil {
		if c.state == statePending {
			// re-enable retry: restart the grace period if the timer
			// already expired
			c.remaining = c.opts.ticks()
			c.armLocked()
		}
		return fmt.Errorf("commit order: %w", err)
	}
	// Cancel rejects while a commit is in flight, so the slot is still
	// Pending here and the success path always runs to completion.
	c.orders = merge.Orders(c.orders, res)
	c.cart.Clear()
	c.stopLocked()
	c.order = nil
	c.state = stateIdle
	c.remaining = c.opts.ticks()

	c.lg.Info("order_committed", map[string]any{
		"order_id": res.ID, "table_id": res.TableID, "total": res.Total,
	})
	return nil
}

// Cancel discards the pending order without contacting the gateway. The
// countdown handle is cleared synchronously, so no tick or auto-confirm
// can fire afterwards. The cart keeps whatever it held at submit time.
func (c *Commit) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != statePending {
		return ErrNothingPending
	}
	if c.inFlight {
		return ErrCommitInFlight
	}
	c.stopLocked()
	c.order = nil
	c.state = stateIdle
	c.remaining = c.opts.ticks()

	c.lg.Info("order_cancelled", nil)
	return nil
}

func (c *Commit) stopLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

// Active reports whether a pending order exists. Cart editing is disabled
// for the whole pending window.
func (c *Commit) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == statePending
}

// Remaining returns the visible countdown value in seconds.
func (c *Commit) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Pending returns a copy of the current pending order, or nil.
func (c *Commit) Pending() *domain.PendingOrder {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.order == nil {
		return nil
	}
	cp := *c.order
	cp.Items = append([]domain.OrderItem(nil), c.order.Items...)
	return &cp
}

// Orders returns a copy of the local merged order list.
func (c *Commit) Orders() []domain.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Order, len(c.orders))
	for i, o := range c.orders {
		o.Items = append([]domain.OrderItem(nil), o.Items...)
		out[i] = o
	}
	return out
}
