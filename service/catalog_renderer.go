package service

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/url"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"catalogo-millex/models"
	"catalogo-millex/pagination"
	"catalogo-millex/utils"
)

// PlaceholderImageURL is shown for products without a usable image
const PlaceholderImageURL = "https://via.placeholder.com/200x150?text=Sin+imagen"

// Notices shown instead of an empty grid
const (
	NoticeNoMatches   = "No se encontraron productos que coincidan con tu búsqueda."
	NoticeEmptyLine   = "No hay productos para mostrar en esta línea."
	NoticeUnavailable = "No se pudo cargar el catálogo. Intentá nuevamente en unos minutos."
)

const pdfTimeout = 60 * time.Second

//go:embed templates/catalog.html
var templateFS embed.FS

var catalogTemplate = template.Must(template.ParseFS(templateFS, "templates/catalog.html"))

type renderCard struct {
	Code        string
	Description string
	Price       string
	ImageSrc    template.URL
}

// CatalogRenderer renders catalog pages as HTML and PDF
type CatalogRenderer struct {
	catalog    CatalogServiceInterface
	images     *ImageOptimizer
	baseURL    string
	chromePath string
	logger     *zap.Logger
}

// NewCatalogRenderer creates a new CatalogRenderer
// baseURL is where the render endpoint is reachable by headless Chrome (e.g. "http://localhost:8080")
func NewCatalogRenderer(catalog CatalogServiceInterface, images *ImageOptimizer, baseURL, chromePath string, logger *zap.Logger) *CatalogRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogRenderer{
		catalog:    catalog,
		images:     images,
		baseURL:    baseURL,
		chromePath: chromePath,
		logger:     logger,
	}
}

// Notice returns the message shown for an empty page, or "" when there are items
func Notice(totalItems int, query string, loadErr error) string {
	switch {
	case loadErr != nil:
		return NoticeUnavailable
	case totalItems > 0:
		return ""
	case utils.Normalize(query) != "":
		return NoticeNoMatches
	default:
		return NoticeEmptyLine
	}
}

// RenderHTML renders one page of a filtered line as a card grid.
// A line that fails to load renders as an empty page with a notice.
func (r *CatalogRenderer) RenderHTML(ctx context.Context, slug, query string, page, pageSize int) ([]byte, error) {
	line, err := r.catalog.Line(slug)
	if err != nil {
		return nil, err
	}

	cursor := pagination.NewCursor(pageSize)
	cursor.CurrentPage = page
	products, loadErr := r.catalog.Page(ctx, slug, query, &cursor)

	cards := make([]renderCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, renderCard{
			Code:        p.Code,
			Description: p.Description,
			Price:       utils.FormatMoney(p.Price),
			ImageSrc:    r.imageSrc(p.ProductRecord),
		})
	}

	data := struct {
		Line       models.CatalogLine
		Query      string
		Notice     string
		Cards      []renderCard
		Page       int
		TotalPages int
	}{
		Line:       line,
		Query:      query,
		Notice:     Notice(cursor.TotalItems, query, loadErr),
		Cards:      cards,
		Page:       cursor.CurrentPage,
		TotalPages: cursor.TotalPages(),
	}

	var buf bytes.Buffer
	if err := catalogTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// imageSrc inlines the product thumbnail as a data URI, falling back to the placeholder
func (r *CatalogRenderer) imageSrc(p models.ProductRecord) template.URL {
	if !p.HasImage() || r.images == nil {
		return template.URL(PlaceholderImageURL)
	}
	thumb, err := r.images.Optimized(p.SourceID, p.Code, SizeThumb, p.Image)
	if err != nil {
		r.logger.Warn("⚠️  unusable product image", zap.String("code", p.Code), zap.Error(err))
		return template.URL(PlaceholderImageURL)
	}
	return template.URL("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(thumb))
}

// GeneratePDF prints the render endpoint of a line to PDF using headless Chrome.
// Every matching product is included on a single long document.
func (r *CatalogRenderer) GeneratePDF(ctx context.Context, slug, query string) ([]byte, error) {
	if _, err := r.catalog.Line(slug); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, pdfTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := detectChromePath(r.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromeCtx, chromeCancel := chromedp.NewContext(allocCtx)
	defer chromeCancel()

	params := url.Values{}
	params.Set("q", query)
	params.Set("pageSize", "100000")
	renderURL := fmt.Sprintf("%s/catalog/%s/render?%s", r.baseURL, url.PathEscape(slug), params.Encode())
	r.logger.Info("🖨️  generating catalog PDF", zap.String("line", slug), zap.String("url", renderURL))

	var pdf []byte
	err := chromedp.Run(chromeCtx,
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).   // A4, inches
				WithPaperHeight(11.69). // A4, inches
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdf, nil
}

// detectChromePath returns configured when it exists, else the first common Chrome/Chromium install
func detectChromePath(configured string) string {
	candidates := []string{
		configured,
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
