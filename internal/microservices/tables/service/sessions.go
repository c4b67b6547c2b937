package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"table-orders/internal/common/logger"
	"table-orders/internal/domain"
	"table-orders/internal/engine/cart"
	"table-orders/internal/engine/pending"
	"table-orders/internal/gateway"
)

// ErrCartLocked: cart editing is disabled for the whole pending window.
var ErrCartLocked = errors.New("cart is locked while an order is pending")

// Session is the state of one table: its cart, its single pending-order
// slot, and the merged list of orders it has placed.
type Session struct {
	TableID string
	Cart    *cart.Store
	Commit  *pending.Commit
}

// Sessions hands out per-table sessions, creating them on first use.
// Session state is explicit here instead of living in package-level
// globals, so each table's pending slot is owned by exactly one session.
type Sessions struct {
	gw   gateway.OrderGateway
	lg   *logger.Logger
	opts pending.Options

	mu      sync.Mutex
	byTable map[string]*Session
}

func NewSessions(gw gateway.OrderGateway, lg *logger.Logger, grace time.Duration) *Sessions {
	return &Sessions{
		gw:      gw,
		lg:      lg,
		opts:    pending.Options{Grace: grace},
		byTable: make(map[string]*Session),
	}
}

func (s *Sessions) session(tableID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.byTable[tableID]; ok {
		return sess
	}
	crt := cart.New()
	sess := &Session{
		TableID: tableID,
		Cart:    crt,
		Commit:  pending.New(tableID, s.gw, crt, s.lg, s.opts),
	}
	s.byTable[tableID] = sess
	return sess
}

func (s *Sessions) AddItem(tableID, name string, price float64) error {
	sess := s.session(tableID)
	if sess.Commit.Active() {
		return ErrCartLocked
	}
	return sess.Cart.Add(name, price)
}

func (s *Sessions) RemoveItem(tableID, name string) error {
	sess := s.session(tableID)
	if sess.Commit.Active() {
		return ErrCartLocked
	}
	sess.Cart.Remove(name)
	return nil
}

// CartView returns the cart lines and running total.
func (s *Sessions) CartView(tableID string) ([]domain.OrderItem, float64) {
	sess := s.session(tableID)
	return sess.Cart.Items(), sess.Cart.Total()
}

// Submit places the cart as a pending order and returns the countdown.
func (s *Sessions) Submit(tableID string, loc *domain.LatLng, clientIP string) (int, error) {
	sess := s.session(tableID)
	if err := sess.Commit.Submit(loc, clientIP); err != nil {
		return 0, err
	}
	return sess.Commit.Remaining(), nil
}

func (s *Sessions) Confirm(ctx context.Context, tableID string) error {
	return s.session(tableID).Commit.Confirm(ctx)
}

func (s *Sessions) Cancel(tableID string) error {
	return s.session(tableID).Commit.Cancel()
}

// View is what the table UI polls: cart, pending countdown and the
// merged order history.
type View struct {
	TableID   string             `json:"table_id"`
	Cart      []domain.OrderItem `json:"cart"`
	CartTotal float64            `json:"cart_total"`
	Pending   *PendingView       `json:"pending,omitempty"`
	Orders    []domain.Order     `json:"orders"`
}

type PendingView struct {
	Items     []domain.OrderItem `json:"items"`
	Remaining int                `json:"remaining_seconds"`
}

func (s *Sessions) ViewOf(tableID string) View {
	sess := s.session(tableID)
	v := View{
		TableID:   tableID,
		Cart:      sess.Cart.Items(),
		CartTotal: sess.Cart.Total(),
		Orders:    sess.Commit.Orders(),
	}
	if p := sess.Commit.Pending(); p != nil {
		v.Pending = &PendingView{Items: p.Items, Remaining: sess.Commit.Remaining()}
	}
	return v
}
