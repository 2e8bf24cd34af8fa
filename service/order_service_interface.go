package service

import (
	"context"

	"catalogo-millex/models"
	"catalogo-millex/repository"
)

// OrderServiceInterface defines the contract for cart checkout
type OrderServiceInterface interface {
	Checkout(ctx context.Context, session *repository.Session) (*models.Order, error)
}

// Ensure OrderService implements OrderServiceInterface
var _ OrderServiceInterface = (*OrderService)(nil)
