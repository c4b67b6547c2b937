package cart

import (
	"sync"

	"table-orders/internal/domain"
	"table-orders/internal/gateway"
)

type line struct {
	price float64
	qty   int
}

// Store accumulates a table's selections before submission. Lines are
// keyed by item name; a line whose quantity reaches zero is removed, never
// stored as zero. All mutation goes through Add/Remove.
type Store struct {
	mu    sync.Mutex
	lines map[string]line
	order []string // insertion order of names, for stable snapshots
}

func New() *Store {
	return &Store{lines: make(map[string]line)}
}

// Add increments the quantity for the named item by one, fixing the unit
// price on first insertion.
func (s *Store) Add(name string, price float64) error {
	if name == "" {
		return &gateway.ValidationError{Field: "name", Reason: "item name is required"}
	}
	if price < 0 {
		return &gateway.ValidationError{Field: "price", Reason: "negative unit price"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ln, ok := s.lines[name]
	if !ok {
		ln = line{price: price}
		s.order = append(s.order, name)
	}
	ln.qty++
	s.lines[name] = ln
	return nil
}

// Remove decrements the quantity for the named item, dropping the line at
// zero. Absent names are a no-op.
func (s *Store) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ln, ok := s.lines[name]
	if !ok {
		return
	}
	ln.qty--
	if ln.qty <= 0 {
		delete(s.lines, name)
		for i, n := range s.order {
			if n == name {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return
	}
	s.lines[name] = ln
}

func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, ln := range s.lines {
		total += ln.price * float64(ln.qty)
	}
	return total
}

func (s *Store) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// Items snapshots the cart as order items with computed subtotals, in
// insertion order. The cart itself is left untouched.
func (s *Store) Items() []domain.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.OrderItem, 0, len(s.order))
	for _, name := range s.order {
		ln := s.lines[name]
		items = append(items, domain.OrderItem{
			Name:     name,
			Price:    ln.price,
			Quantity: ln.qty,
			Subtotal: ln.price * float64(ln.qty),
		})
	}
	return items
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = make(map[string]line)
	s.order = nil
}
