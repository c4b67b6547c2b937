package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"table-orders/internal/domain"
)

type OrdersRepositoryInterface interface {
	CreateOrder(ctx context.Context, order domain.StaffOrder) error
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.StaffOrder, error)
	// UpdateStatusTx applies a guarded status change and returns the
	// previous status. ErrNotFound when the order is gone, ErrConflict
	// when the transition is not allowed.
	UpdateStatusTx(ctx context.Context, id string, to domain.OrderStatus, changedBy string) (domain.OrderStatus, error)
	DeleteOrder(ctx context.Context, id string) error
}

type OrdersRepository struct {
	pool *pgxpool.Pool
}

func NewOrdersRepository(pool *pgxpool.Pool) OrdersRepositoryInterface {
	return &OrdersRepository{pool: pool}
}

func (r *OrdersRepository) CreateOrder(ctx context.Context, order domain.StaffOrder) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var lat, lng *float64
	if order.Location != nil {
		lat, lng = &order.Location.Lat, &order.Location.Lng
	}
	var total float64
	for _, it := range order.Items {
		total += it.Subtotal
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (id, table_id, client_ip, lat, lng, status, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
	`, order.ID, order.TableID, nullIfEmpty(order.ClientIP), lat, lng, order.Status, total, order.CreatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range order.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, name, price, quantity, subtotal, created_at)
			VALUES ($1, $2, $3, $4, $5, now())
		`, order.ID, it.Name, it.Price, it.Quantity, it.Subtotal); err != nil {
			return fmt.Errorf("insert order item %s: %w", it.Name, err)
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, $2, 'order-service', now())
	`, order.ID, order.Status); err != nil {
		return fmt.Errorf("insert status log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *OrdersRepository) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.StaffOrder, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, table_id, COALESCE(client_ip,''), lat, lng, status, created_at
		FROM orders WHERE status=$1
		ORDER BY created_at
	`, status)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var (
		orders []domain.StaffOrder
		ids    []string
		index  = make(map[string]int)
	)
	for rows.Next() {
		var (
			o        domain.StaffOrder
			lat, lng *float64
			st       string
		)
		if err := rows.Scan(&o.ID, &o.TableID, &o.ClientIP, &lat, &lng, &st, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = domain.OrderStatus(st)
		if lat != nil && lng != nil {
			o.Location = &domain.LatLng{Lat: *lat, Lng: *lng}
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	itemRows, err := r.pool.Query(ctx, `
		SELECT order_id, name, price, quantity, subtotal
		FROM order_items WHERE order_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			orderID string
			it      domain.OrderItem
		)
		if err := itemRows.Scan(&orderID, &it.Name, &it.Price, &it.Quantity, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return orders, itemRows.Err()
}

func (r *OrdersRepository) UpdateStatusTx(ctx context.Context, id string, to domain.OrderStatus, changedBy string) (domain.OrderStatus, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current string
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lock order: %w", err)
	}

	from := domain.OrderStatus(current)
	if !domain.CanTransition(from, to) {
		return from, fmt.Errorf("%w: %s -> %s", ErrConflict, from, to)
	}
	if from == to {
		return from, tx.Commit(ctx) // no-op re-apply
	}

	if _, err := tx.Exec(ctx, `
		UPDATE orders SET status=$2, updated_at=now() WHERE id=$1
	`, id, to); err != nil {
		return from, fmt.Errorf("update status: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, $2, $3, now())
	`, id, to, changedBy); err != nil {
		return from, fmt.Errorf("insert status log: %w", err)
	}
	return from, tx.Commit(ctx)
}

func (r *OrdersRepository) DeleteOrder(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
