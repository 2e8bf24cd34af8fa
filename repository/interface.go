package repository

import (
	"context"
	"errors"
	"time"

	"catalogo-millex/models"
)

var (
	// ErrOrderNotFound is returned when no order matches the requested id
	ErrOrderNotFound = errors.New("order not found")
	// ErrSessionNotFound is returned for unknown or expired session ids
	ErrSessionNotFound = errors.New("session not found")
)

// OrderRepositoryInterface defines the contract for the submitted order log
type OrderRepositoryInterface interface {
	Save(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListRecent(ctx context.Context, limit int) ([]models.Order, error)
}

// SessionStore defines the contract for per-user session storage
type SessionStore interface {
	Get(id string) (*Session, error)
	Create() *Session
	Delete(id string)
	// Sweep drops sessions idle for longer than idle and returns how many were removed
	Sweep(idle time.Duration) int
	Len() int
}
