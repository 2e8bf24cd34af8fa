package service

import (
	"context"

	"catalogo-millex/models"
	"catalogo-millex/pagination"
)

// CatalogServiceInterface defines the contract for catalog browsing operations
type CatalogServiceInterface interface {
	Lines() []models.CatalogLine
	Line(slug string) (models.CatalogLine, error)
	Snapshot(ctx context.Context, slug string) (*models.CatalogSnapshot, error)
	Product(ctx context.Context, slug, code string) (models.IndexedProduct, error)
	// Page filters the line by query, updates cursor totals and returns the
	// products on the cursor's current page.
	Page(ctx context.Context, slug, query string, cursor *pagination.Cursor) ([]models.IndexedProduct, error)
	Invalidate(slug string) error
	Prewarm(ctx context.Context) error
}
