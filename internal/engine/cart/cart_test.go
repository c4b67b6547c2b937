package cart

import (
	"testing"

	"table-orders/internal/gateway"
)

func TestAddAccumulatesQuantity(t *testing.T) {
	s := New()
	if err := s.Add("Momo", 200); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := s.Add("Momo", 200); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := s.Add("Chowmein", 180); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	items := s.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}
	if items[0].Name != "Momo" || items[0].Quantity != 2 || items[0].Subtotal != 400 {
		t.Errorf("unexpected first line: %+v", items[0])
	}
	if got := s.Total(); got != 580 {
		t.Errorf("expected total 580, got %v", got)
	}
}

func TestAddRejectsNegativePrice(t *testing.T) {
	s := New()
	err := s.Add("Tea", -5)
	if err == nil {
		t.Fatal("expected error for negative price")
	}
	if !gateway.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	if !s.Empty() {
		t.Error("cart should stay empty after rejected add")
	}
}

func TestRemoveDropsLineAtZero(t *testing.T) {
	s := New()
	_ = s.Add("Tea", 50)
	_ = s.Add("Tea", 50)

	s.Remove("Tea")
	if items := s.Items(); len(items) != 1 || items[0].Quantity != 1 {
		t.Fatalf("expected single line qty 1, got %+v", items)
	}

	s.Remove("Tea")
	if !s.Empty() {
		t.Error("expected empty cart after removing last unit")
	}
	for _, it := range s.Items() {
		if it.Quantity <= 0 {
			t.Errorf("line %q stored with quantity %d", it.Name, it.Quantity)
		}
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	s := New()
	s.Remove("Ghost")
	if got := s.Total(); got != 0 {
		t.Errorf("expected total 0, got %v", got)
	}
}

func TestTotalMatchesSumOverAnySequence(t *testing.T) {
	s := New()
	type op struct {
		add   bool
		name  string
		price float64
	}
	ops := []op{
		{true, "Momo", 200}, {true, "Tea", 50}, {true, "Momo", 200},
		{false, "Tea", 0}, {true, "Coffee", 70}, {false, "Momo", 0},
		{true, "Tea", 50}, {false, "Ghost", 0},
	}
	for _, o := range ops {
		if o.add {
			_ = s.Add(o.name, o.price)
		} else {
			s.Remove(o.name)
		}
	}

	var want float64
	for _, it := range s.Items() {
		if it.Quantity <= 0 {
			t.Fatalf("line %q has quantity %d", it.Name, it.Quantity)
		}
		want += it.Price * float64(it.Quantity)
	}
	if got := s.Total(); got != want {
		t.Errorf("Total() = %v, sum over lines = %v", got, want)
	}
}

func TestItemsIsSnapshot(t *testing.T) {
	s := New()
	_ = s.Add("Momo", 200)

	items := s.Items()
	items[0].Quantity = 99

	if fresh := s.Items(); fresh[0].Quantity != 1 {
		t.Errorf("mutating the snapshot leaked into the store: %+v", fresh[0])
	}
}
