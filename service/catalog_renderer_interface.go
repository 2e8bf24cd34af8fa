package service

import "context"

// CatalogRendererInterface defines the contract for printable catalog output
type CatalogRendererInterface interface {
	RenderHTML(ctx context.Context, slug, query string, page, pageSize int) ([]byte, error)
	GeneratePDF(ctx context.Context, slug, query string) ([]byte, error)
}

// ImageOptimizerInterface defines the contract for sized product images
type ImageOptimizerInterface interface {
	Optimized(sourceID, code, size string, data []byte) ([]byte, error)
}

var (
	_ CatalogRendererInterface = (*CatalogRenderer)(nil)
	_ ImageOptimizerInterface  = (*ImageOptimizer)(nil)
)
