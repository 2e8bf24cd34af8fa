package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"catalogo-millex/models"
	"catalogo-millex/repository"
	"catalogo-millex/service"
	"catalogo-millex/utils"
)

// CartController handles HTTP requests for the session cart
type CartController struct {
	catalog service.CatalogServiceInterface
	orders  service.OrderServiceInterface
	logger  *zap.Logger
}

// NewCartController creates a new CartController
func NewCartController(catalog service.CatalogServiceInterface, orders service.OrderServiceInterface, logger *zap.Logger) *CartController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartController{catalog: catalog, orders: orders, logger: logger}
}

// CartResponse is the cart summary plus a display total
type CartResponse struct {
	models.OrderSummary
	TotalLabel string `json:"totalLabel"`
	Changed    *bool  `json:"changed,omitempty"`
}

func cartResponse(session *repository.Session) CartResponse {
	summary := session.Cart.Summarize()
	return CartResponse{
		OrderSummary: summary,
		TotalLabel:   utils.FormatMoney(summary.Total),
	}
}

// GetCart handles GET /cart
func (c *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, c.logger, http.StatusOK, cartResponse(SessionFrom(r.Context())))
}

// SetItem handles PUT /cart/items/{code}
// Body: {"line": "linea-gatos", "qty": 3}. qty 0 removes the line.
func (c *CartController) SetItem(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		http.Error(w, "code parameter is required", http.StatusBadRequest)
		return
	}

	var req models.CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Qty == nil {
		http.Error(w, "qty is required", http.StatusBadRequest)
		return
	}
	if *req.Qty < 0 {
		http.Error(w, "qty must be zero or greater", http.StatusBadRequest)
		return
	}

	session := SessionFrom(r.Context())

	var snap models.LineSnapshot
	if *req.Qty > 0 {
		slug := req.Line
		if slug == "" {
			slug = session.Line
		}
		product, err := c.catalog.Product(r.Context(), slug, code)
		if err != nil {
			c.logger.Warn("⚠️  cart update rejected", zap.String("line", slug), zap.String("code", code), zap.Error(err))
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		snap = models.LineSnapshot{
			Description: product.Description,
			UnitPrice:   product.Price,
			SourceLine:  slug,
		}
	}

	changed := session.Cart.SetQuantity(code, snap, *req.Qty)
	if changed {
		c.logger.Info("🛒 cart updated", zap.String("sessionId", session.ID), zap.String("code", code), zap.Int("qty", *req.Qty))
	}

	resp := cartResponse(session)
	resp.Changed = &changed
	writeJSON(w, c.logger, http.StatusOK, resp)
}

// RemoveItem handles DELETE /cart/items/{code}
func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	session := SessionFrom(r.Context())
	changed := session.Cart.Remove(chi.URLParam(r, "code"))

	resp := cartResponse(session)
	resp.Changed = &changed
	writeJSON(w, c.logger, http.StatusOK, resp)
}

// ClearCart handles DELETE /cart and returns the codes that were removed
func (c *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	session := SessionFrom(r.Context())
	cleared := session.Cart.Clear()
	c.logger.Info("🧹 cart cleared", zap.String("sessionId", session.ID), zap.Int("lines", len(cleared)))

	writeJSON(w, c.logger, http.StatusOK, map[string]any{
		"cleared": cleared,
	})
}

// Checkout handles POST /cart/checkout
func (c *CartController) Checkout(w http.ResponseWriter, r *http.Request) {
	session := SessionFrom(r.Context())

	order, err := c.orders.Checkout(r.Context(), session)
	if err != nil {
		if !errors.Is(err, service.ErrEmptyCart) {
			c.logger.Error("❌ checkout failed", zap.String("sessionId", session.ID), zap.Error(err))
		}
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, c.logger, http.StatusCreated, order)
}
