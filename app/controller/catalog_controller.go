package controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"catalogo-millex/models"
	"catalogo-millex/pagination"
	"catalogo-millex/service"
	"catalogo-millex/utils"
)

// CatalogController handles HTTP requests for catalog browsing and export
type CatalogController struct {
	catalog  service.CatalogServiceInterface
	images   service.ImageOptimizerInterface
	renderer service.CatalogRendererInterface
	pageSize int
	logger   *zap.Logger
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(
	catalog service.CatalogServiceInterface,
	images service.ImageOptimizerInterface,
	renderer service.CatalogRendererInterface,
	pageSize int,
	logger *zap.Logger,
) *CatalogController {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogController{
		catalog:  catalog,
		images:   images,
		renderer: renderer,
		pageSize: pageSize,
		logger:   logger,
	}
}

// ListLines handles GET /catalog/lines
func (c *CatalogController) ListLines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, c.logger, http.StatusOK, c.catalog.Lines())
}

// ListProducts handles GET /catalog/{line}/products?q=&page=&nav=
// The session remembers line, query and page between calls; a new line or
// query starts again on page 1. A line that cannot be loaded answers with an
// empty page and a notice.
func (c *CatalogController) ListProducts(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "line")
	line, err := c.catalog.Line(slug)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	params := r.URL.Query()
	nav := strings.ToLower(strings.TrimSpace(params.Get("nav")))
	if nav != "" && !validNav(nav) {
		http.Error(w, "Invalid nav. Valid values: first, prev, next, last", http.StatusBadRequest)
		return
	}
	page := 0
	if raw := params.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "page must be an integer", http.StatusBadRequest)
			return
		}
	}

	session := SessionFrom(r.Context())
	session.Browse(slug, params.Get("q"))
	cursor := &session.Cursor

	products, loadErr := c.catalog.Page(r.Context(), slug, session.Query, cursor)
	if loadErr == nil && (page != 0 || nav != "") {
		if page != 0 {
			cursor.Goto(page)
		}
		if nav != "" {
			cursor.Navigate(nav)
		}
		products, loadErr = c.catalog.Page(r.Context(), slug, session.Query, cursor)
	}
	if loadErr != nil {
		c.logger.Warn("⚠️  catalog line unavailable", zap.String("line", slug), zap.Error(loadErr))
	}

	cards := make([]models.ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, c.productCard(slug, p, session.Cart.Quantity(p.Code)))
	}

	writeJSON(w, c.logger, http.StatusOK, models.CatalogPage{
		Line:       line,
		Query:      session.Query,
		Page:       cursor.CurrentPage,
		PageSize:   cursor.PageSize,
		TotalPages: cursor.TotalPages(),
		TotalItems: cursor.TotalItems,
		Items:      cards,
		Notice:     service.Notice(cursor.TotalItems, session.Query, loadErr),
	})
}

func (c *CatalogController) productCard(slug string, p models.IndexedProduct, inCart int) models.ProductCard {
	card := models.ProductCard{
		Code:        p.Code,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		PriceLabel:  utils.FormatMoney(p.Price),
		HasImage:    p.HasImage(),
		ImageURL:    service.PlaceholderImageURL,
		InCart:      inCart,
	}
	if card.HasImage {
		card.ImageURL = fmt.Sprintf("/catalog/%s/products/%s/image?size=%s",
			url.PathEscape(slug), url.PathEscape(p.Code), service.SizeThumb)
	}
	return card
}

func validNav(nav string) bool {
	switch nav {
	case pagination.NavFirst, pagination.NavPrev, pagination.NavNext, pagination.NavLast:
		return true
	}
	return false
}

// GetProductImage handles GET /catalog/{line}/products/{code}/image?size=thumb|medium
func (c *CatalogController) GetProductImage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "line")
	code := chi.URLParam(r, "code")

	product, err := c.catalog.Product(r.Context(), slug, code)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if !product.HasImage() {
		http.Error(w, "product has no image", http.StatusNotFound)
		return
	}

	size := r.URL.Query().Get("size")
	data, err := c.images.Optimized(product.SourceID, product.Code, size, product.Image)
	contentType := "image/jpeg"
	if err != nil {
		c.logger.Warn("⚠️  serving original image", zap.String("code", code), zap.Error(err))
		data = product.Image
		contentType = http.DetectContentType(data)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// RenderCatalog handles GET /catalog/{line}/render?q=&page=&pageSize=
func (c *CatalogController) RenderCatalog(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "line")
	params := r.URL.Query()

	page := intParam(params.Get("page"), 1)
	pageSize := intParam(params.Get("pageSize"), c.pageSize)

	html, err := c.renderer.RenderHTML(r.Context(), slug, params.Get("q"), page, pageSize)
	if err != nil {
		c.logger.Error("❌ failed to render catalog", zap.String("line", slug), zap.Error(err))
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}

// ExportPDF handles GET /catalog/{line}/pdf?q=
func (c *CatalogController) ExportPDF(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "line")

	pdf, err := c.renderer.GeneratePDF(r.Context(), slug, r.URL.Query().Get("q"))
	if err != nil {
		status := statusFor(err)
		if !errors.Is(err, service.ErrUnknownLine) {
			c.logger.Error("❌ failed to export catalog PDF", zap.String("line", slug), zap.Error(err))
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=catalogo-%s.pdf", slug))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func intParam(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
