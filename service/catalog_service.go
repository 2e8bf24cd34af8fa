package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"catalogo-millex/models"
	"catalogo-millex/pagination"
)

const prewarmConcurrency = 4

// ParseFunc turns a stored document into a snapshot
type ParseFunc func(handle DocumentHandle, logger *zap.Logger) (*models.CatalogSnapshot, error)

// CatalogService resolves catalog lines to parsed snapshots shared by all sessions
// Implements CatalogServiceInterface
type CatalogService struct {
	lines  []models.CatalogLine
	bySlug map[string]models.CatalogLine
	cache  SourceCacheInterface
	parse  ParseFunc
	logger *zap.Logger

	mu        sync.RWMutex
	snapshots map[string]*models.CatalogSnapshot // keyed by document location
	group     singleflight.Group
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(lines []models.CatalogLine, cache SourceCacheInterface, parse ParseFunc, logger *zap.Logger) *CatalogService {
	if parse == nil {
		parse = ParseCatalog
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	bySlug := make(map[string]models.CatalogLine, len(lines))
	for _, line := range lines {
		bySlug[line.Slug] = line
	}
	return &CatalogService{
		lines:     lines,
		bySlug:    bySlug,
		cache:     cache,
		parse:     parse,
		logger:    logger,
		snapshots: make(map[string]*models.CatalogSnapshot),
	}
}

// Ensure CatalogService implements CatalogServiceInterface
var _ CatalogServiceInterface = (*CatalogService)(nil)

// Lines returns the configured catalog lines in display order
func (s *CatalogService) Lines() []models.CatalogLine {
	out := make([]models.CatalogLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *CatalogService) Line(slug string) (models.CatalogLine, error) {
	line, ok := s.bySlug[slug]
	if !ok {
		return models.CatalogLine{}, fmt.Errorf("%w: %s", ErrUnknownLine, slug)
	}
	return line, nil
}

// Snapshot returns the parsed catalog for a line, fetching and parsing it on
// first use. Concurrent first loads of the same document share one parse.
func (s *CatalogService) Snapshot(ctx context.Context, slug string) (*models.CatalogSnapshot, error) {
	line, err := s.Line(slug)
	if err != nil {
		return nil, err
	}

	handle, err := s.cache.Fetch(ctx, line.SourceID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	snapshot, ok := s.snapshots[handle.Path]
	s.mu.RUnlock()
	if ok {
		return snapshot, nil
	}

	v, err, shared := s.group.Do(handle.Path, func() (interface{}, error) {
		parsed, err := s.parse(handle, s.logger)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.snapshots[handle.Path] = parsed
		s.mu.Unlock()
		return parsed, nil
	})
	if err != nil {
		s.logger.Error("❌ failed to load catalog line", zap.String("line", slug), zap.Error(err))
		return nil, err
	}
	if shared {
		s.logger.Debug("🔄 catalog parse shared between concurrent loads", zap.String("line", slug))
	}
	return v.(*models.CatalogSnapshot), nil
}

// Product looks up a product by code in the line's current snapshot
func (s *CatalogService) Product(ctx context.Context, slug, code string) (models.IndexedProduct, error) {
	snapshot, err := s.Snapshot(ctx, slug)
	if err != nil {
		return models.IndexedProduct{}, err
	}
	product, ok := snapshot.Lookup(code)
	if !ok {
		return models.IndexedProduct{}, fmt.Errorf("%w: %s in %s", ErrProductNotFound, code, slug)
	}
	return product, nil
}

func (s *CatalogService) Page(ctx context.Context, slug, query string, cursor *pagination.Cursor) ([]models.IndexedProduct, error) {
	snapshot, err := s.Snapshot(ctx, slug)
	if err != nil {
		cursor.SetTotal(0)
		return nil, err
	}
	matches := Search(snapshot, query)
	cursor.SetTotal(len(matches))
	return pagination.Slice(matches, cursor.CurrentPage, cursor.PageSize), nil
}

// Invalidate drops the cached document and snapshot of a line.
// The next Snapshot call downloads and parses it again.
func (s *CatalogService) Invalidate(slug string) error {
	line, err := s.Line(slug)
	if err != nil {
		return err
	}

	s.mu.Lock()
	for location, snapshot := range s.snapshots {
		if snapshot.SourceID == line.SourceID {
			delete(s.snapshots, location)
		}
	}
	s.mu.Unlock()

	if err := s.cache.Invalidate(line.SourceID); err != nil {
		return fmt.Errorf("failed to invalidate %s: %w", slug, err)
	}
	s.logger.Info("🗑️  catalog line invalidated", zap.String("line", slug))
	return nil
}

// Prewarm loads every configured line concurrently.
// Individual failures are logged; only context cancellation is returned.
func (s *CatalogService) Prewarm(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(prewarmConcurrency)

	for _, line := range s.lines {
		line := line
		g.Go(func() error {
			snapshot, err := s.Snapshot(gctx, line.Slug)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Warn("⚠️  prewarm failed", zap.String("line", line.Slug), zap.Error(err))
				return nil
			}
			s.logger.Info("✓ catalog line prewarmed", zap.String("line", line.Slug), zap.Int("products", snapshot.Len()))
			return nil
		})
	}
	return g.Wait()
}
