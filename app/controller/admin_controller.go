package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"catalogo-millex/repository"
	"catalogo-millex/service"
)

// AdminController handles maintenance endpoints
type AdminController struct {
	catalog service.CatalogServiceInterface
	orders  repository.OrderRepositoryInterface
	logger  *zap.Logger
}

// NewAdminController creates a new AdminController; orders may be nil when no
// database is configured
func NewAdminController(catalog service.CatalogServiceInterface, orders repository.OrderRepositoryInterface, logger *zap.Logger) *AdminController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminController{catalog: catalog, orders: orders, logger: logger}
}

// RefreshLine handles POST /admin/catalog/{line}/refresh
// Drops the cached document and loads the line again.
func (c *AdminController) RefreshLine(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "line")

	if err := c.catalog.Invalidate(slug); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	snapshot, err := c.catalog.Snapshot(r.Context(), slug)
	if err != nil {
		c.logger.Error("❌ failed to reload catalog line", zap.String("line", slug), zap.Error(err))
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	c.logger.Info("🔄 catalog line refreshed", zap.String("line", slug), zap.Int("products", snapshot.Len()))
	writeJSON(w, c.logger, http.StatusOK, map[string]any{
		"line":     slug,
		"products": snapshot.Len(),
	})
}

// ListOrders handles GET /admin/orders?limit=
func (c *AdminController) ListOrders(w http.ResponseWriter, r *http.Request) {
	if c.orders == nil {
		http.Error(w, "order log is not configured", http.StatusNotFound)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	orders, err := c.orders.ListRecent(r.Context(), limit)
	if err != nil {
		c.logger.Error("❌ failed to list orders", zap.Error(err))
		http.Error(w, "Failed to list orders", http.StatusInternalServerError)
		return
	}
	writeJSON(w, c.logger, http.StatusOK, orders)
}

// GetOrder handles GET /admin/orders/{id}
func (c *AdminController) GetOrder(w http.ResponseWriter, r *http.Request) {
	if c.orders == nil {
		http.Error(w, "order log is not configured", http.StatusNotFound)
		return
	}

	order, err := c.orders.GetByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, repository.ErrOrderNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		c.logger.Error("❌ failed to get order", zap.Error(err))
		http.Error(w, "Failed to get order", http.StatusInternalServerError)
		return
	}
	writeJSON(w, c.logger, http.StatusOK, order)
}
