// Package merge consolidates a freshly committed order into the
// client-side order list, so repeated submissions from one table show as
// a single running order.
package merge

import "table-orders/internal/domain"

// Orders folds a commit result into the existing order list. If no order
// exists for the table, a new one is appended. Otherwise items are merged
// by name: quantities are summed and the subtotal recomputed from the
// existing line's unit price (prices are not reconciled across merges);
// items new to the table are appended after the existing lines. The merge
// never decreases an existing order.
func Orders(existing []domain.Order, res domain.CommitResult) []domain.Order {
	for i := range existing {
		if existing[i].TableID == res.TableID {
			existing[i] = mergeInto(existing[i], res)
			return existing
		}
	}

	items := make([]domain.OrderItem, len(res.Items))
	copy(items, res.Items)
	return append(existing, domain.Order{
		TableID: res.TableID,
		Items:   items,
		Total:   sumSubtotals(items),
		Status:  res.Status,
	})
}

func mergeInto(ord domain.Order, res domain.CommitResult) domain.Order {
	index := make(map[string]int, len(ord.Items))
	for i, it := range ord.Items {
		index[it.Name] = i
	}

	for _, in := range res.Items {
		if i, ok := index[in.Name]; ok {
			ln := &ord.Items[i]
			ln.Quantity += in.Quantity
			ln.Subtotal = ln.Price * float64(ln.Quantity)
			continue
		}
		ord.Items = append(ord.Items, in)
		index[in.Name] = len(ord.Items) - 1
	}

	ord.Total = sumSubtotals(ord.Items)
	ord.Status = res.Status
	return ord
}

func sumSubtotals(items []domain.OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Subtotal
	}
	return total
}
