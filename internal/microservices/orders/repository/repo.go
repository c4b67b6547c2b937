package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("order not found")
	ErrConflict = errors.New("status transition conflict")
)

type Repository struct {
	Orders OrdersRepositoryInterface
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{Orders: NewOrdersRepository(pool)}
}
