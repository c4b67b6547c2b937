package pending

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"table-orders/internal/common/logger"
	"table-orders/internal/domain"
	"table-orders/internal/engine/cart"
	"table-orders/internal/gateway"
)

type fakeGateway struct {
	mu      sync.Mutex
	creates int32
	fail    atomic.Bool
	block   chan struct{} // when set, Create waits for it to close
	entered chan struct{} // when set, closed once Create is reached
	last    domain.PendingOrder
}

func (f *fakeGateway) Create(ctx context.Context, order domain.PendingOrder) (domain.CommitResult, error) {
	if f.entered != nil {
		close(f.entered)
		f.entered = nil
	}
	if f.block != nil {
		<-f.block
	}
	atomic.AddInt32(&f.creates, 1)
	if f.fail.Load() {
		return domain.CommitResult{}, fmt.Errorf("%w: connection refused", gateway.ErrUnavailable)
	}
	f.mu.Lock()
	f.last = order
	f.mu.Unlock()
	items := append([]domain.OrderItem(nil), order.Items...)
	var total float64
	for _, it := range items {
		total += it.Subtotal
	}
	return domain.CommitResult{
		ID: "ord-1", TableID: order.TableID, Items: items,
		Total: total, Status: domain.StatusPending,
	}, nil
}

func (f *fakeGateway) ListByStatus(context.Context, domain.OrderStatus) ([]domain.StaffOrder, error) {
	return nil, nil
}
func (f *fakeGateway) UpdateStatus(context.Context, string, domain.OrderStatus) error { return nil }
func (f *fakeGateway) Delete(context.Context, string) error                           { return nil }

func (f *fakeGateway) created() int { return int(atomic.LoadInt32(&f.creates)) }

var testLoc = &domain.LatLng{Lat: 27.7, Lng: 85.3}

func newCommit(t *testing.T, gw gateway.OrderGateway, opts Options) (*Commit, *cart.Store) {
	t.Helper()
	crt := cart.New()
	if err := crt.Add("Momo", 200); err != nil {
		t.Fatal(err)
	}
	if err := crt.Add("Tea", 50); err != nil {
		t.Fatal(err)
	}
	return New("12", gw, crt, logger.New("pending-test"), opts), crt
}

func TestSubmitRequiresLocation(t *testing.T) {
	gw := &fakeGateway{}
	c, _ := newCommit(t, gw, Options{Grace: 30 * time.Millisecond, Tick: 10 * time.Millisecond})

	err := c.Submit(nil, "10.0.0.1")
	if !gateway.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if c.Active() {
		t.Error("no countdown should be armed after a rejected submit")
	}
	time.Sleep(100 * time.Millisecond)
	if gw.created() != 0 {
		t.Errorf("expected no create calls, got %d", gw.created())
	}
}

func TestSubmitRequiresNonEmptyCart(t *testing.T) {
	gw := &fakeGateway{}
	c := New("12", gw, cart.New(), logger.New("pending-test"), Options{})

	err := c.Submit(testLoc, "")
	if !gateway.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitArmsCountdownAndRejectsSecondSubmit(t *testing.T) {
	gw := &fakeGateway{}
	c, crt := newCommit(t, gw, Options{Grace: time.Hour, Tick: time.Minute})

	if err := c.Submit(testLoc, "10.0.0.1"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !c.Active() {
		t.Fatal("expected pending state after submit")
	}
	if crt.Empty() {
		t.Error("cart must stay intact until the commit succeeds")
	}
	if err := c.Submit(testLoc, "10.0.0.1"); !errors.Is(err, ErrAlreadyPending) {
		t.Errorf("expected ErrAlreadyPending, got %v", err)
	}
	_ = c.Cancel()
}

func TestExpiryAutoConfirmsExactlyOnce(t *testing.T) {
	gw := &fakeGateway{}
	c, crt := newCommit(t, gw, Options{Grace: 30 * time.Millisecond, Tick: 10 * time.Millisecond})

	if err := c.Submit(testLoc, "10.0.0.1"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for c.Active() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	// let any stray timer fire
	time.Sleep(100 * time.Millisecond)

	if got := gw.created(); got != 1 {
		t.Fatalf("expected exactly 1 create, got %d", got)
	}
	if !crt.Empty() {
		t.Error("cart should be cleared after commit")
	}
	orders := c.Orders()
	if len(orders) != 1 || orders[0].TableID != "12" || orders[0].Total != 250 {
		t.Errorf("unexpected merged orders: %+v", orders)
	}
}

func TestConcurrentConfirmIsSingleFlight(t *testing.T) {
	gw := &fakeGateway{block: make(chan struct{})}
	c, _ := newCommit(t, gw, Options{Grace: time.Hour, Tick: time.Minute})

	if err := c.Submit(testLoc, "10.0.0.1"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Confirm(context.Background())
		}()
	}
	// give both goroutines time to reach the guard, then release
	time.Sleep(50 * time.Millisecond)
	close(gw.block)
	wg.Wait()

	if got := gw.created(); got != 1 {
		t.Fatalf("expected exactly 1 create, got %d", got)
	}
	if c.Active() {
		t.Error("expected idle state after commit")
	}
}

func TestCancelStopsCountdownPermanently(t *testing.T) {
	gw := &fakeGateway{}
	c, crt := newCommit(t, gw, Options{Grace: 40 * time.Millisecond, Tick: 10 * time.Millisecond})

	if err := c.Submit(testLoc, "10.0.0.1"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := c.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if c.Active() {
		t.Fatal("expected idle state after cancel")
	}

	time.Sleep(200 * time.Millisecond)
	if got := gw.created(); got != 0 {
		t.Fatalf("auto-confirm fired after cancel: %d creates", got)
	}
	if crt.Empty() {
		t.Error("cancel must leave the cart as it was")
	}
	if err := c.Cancel(); !errors.Is(err, ErrNothingPending) {
		t.Errorf("expected ErrNothingPending, got %v", err)
	}
}

func TestCancelRejectedWhileCommitInFlight(t *testing.T) {
	gw := &fakeGateway{block: make(chan struct{}), entered: make(chan struct{})}
	entered := gw.entered
	c, crt := newCommit(t, gw, Options{Grace: time.Hour, Tick: time.Minute})

	if err := c.Submit(testLoc, "10.0.0.1"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- c.Confirm(context.Background()) }()

	// the in-flight flag is set before the gateway call starts
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("Confirm never reached the gateway")
	}
	if err := c.Cancel(); !errors.Is(err, ErrCommitInFlight) {
		t.Fatalf("expected ErrCommitInFlight during the create, got %v", err)
	}

	close(gw.block)
	if err := <-done; err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if c.Active() {
		t.Error("expected idle state after the commit completed")
	}
	if !crt.Empty() {
		t.Error("cart should be cleared by the completed commit")
	}
	if got := c.Orders(); len(got) != 1 {
		t.Errorf("committed order must be merged locally, got %+v", got)
	}
	if gw.created() != 1 {
		t.Errorf("expected exactly 1 create, got %d", gw.created())
	}
}

func TestConfirmFailureKeepsPendingOrderForRetry(t *testing.T) {
	gw := &fakeGateway{}
	gw.fail.Store(true)
	c, crt := newCommit(t, gw, Options{Grace: time.Hour, Tick: time.Minute})

	if err := c.Submit(testLoc, "10.0.0.1"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	err := c.Confirm(context.Background())
	if err == nil || !errors.Is(err, gateway.ErrUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if !c.Active() {
		t.Fatal("pending order must survive a gateway failure")
	}
	if crt.Empty() {
		t.Fatal("cart must not be cleared on a failed commit")
	}

	gw.fail.Store(false)
	if err := c.Confirm(context.Background()); err != nil {
		t.Fatalf("retry Confirm: %v", err)
	}
	if c.Active() || !crt.Empty() {
		t.Error("expected idle state and cleared cart after the retry")
	}
	if gw.created() != 2 {
		t.Errorf("expected 2 create attempts, got %d", gw.created())
	}
}

func TestConfirmWithoutPendingOrder(t *testing.T) {
	gw := &fakeGateway{}
	c, _ := newCommit(t, gw, Options{})
	if err := c.Confirm(context.Background()); !errors.Is(err, ErrNothingPending) {
		t.Errorf("expected ErrNothingPending, got %v", err)
	}
}

func TestCommitCarriesSnapshotDetails(t *testing.T) {
	gw := &fakeGateway{}
	c, _ := newCommit(t, gw, Options{Grace: time.Hour, Tick: time.Minute})

	if err := c.Submit(testLoc, "203.0.113.9"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := c.Confirm(context.Background()); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	gw.mu.Lock()
	got := gw.last
	gw.mu.Unlock()
	if got.TableID != "12" || got.ClientIP != "203.0.113.9" {
		t.Errorf("unexpected snapshot: %+v", got)
	}
	if got.Location == nil || got.Location.Lat != testLoc.Lat {
		t.Errorf("location not carried: %+v", got.Location)
	}
}
