package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"catalogo-millex/models"
	"catalogo-millex/pagination"
)

type fakeSourceCache struct {
	mu          sync.Mutex
	failing     map[string]error
	invalidated []string
}

func (c *fakeSourceCache) Fetch(_ context.Context, sourceID string) (DocumentHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.failing[sourceID]; ok {
		return DocumentHandle{}, &FetchError{SourceID: sourceID, Err: err}
	}
	return DocumentHandle{SourceID: sourceID, Path: "/cache/" + sourceID + ".xlsx"}, nil
}

func (c *fakeSourceCache) Invalidate(sourceID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, sourceID)
	return nil
}

var testLines = []models.CatalogLine{
	{Name: "Línea Gatos", Slug: "linea-gatos", SourceID: "sheet-gatos"},
	{Name: "Línea Perros", Slug: "linea-perros", SourceID: "sheet-perros"},
}

func fixedParser(parses *atomic.Int32, n int) ParseFunc {
	return func(handle DocumentHandle, _ *zap.Logger) (*models.CatalogSnapshot, error) {
		parses.Add(1)
		records := make([]models.ProductRecord, n)
		for i := range records {
			records[i] = models.ProductRecord{
				SourceID:    handle.SourceID,
				Code:        string(rune('A'+i%26)) + "-" + string(rune('0'+i/26)),
				Description: "Producto",
			}
		}
		return BuildIndex(handle.SourceID, handle.Path, records), nil
	}
}

func TestSnapshotIsParsedOnceAndShared(t *testing.T) {
	var parses atomic.Int32
	svc := NewCatalogService(testLines, &fakeSourceCache{}, fixedParser(&parses, 3), nil)

	first, err := svc.Snapshot(context.Background(), "linea-gatos")
	require.NoError(t, err)
	second, err := svc.Snapshot(context.Background(), "linea-gatos")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, parses.Load())
	assert.Equal(t, 3, first.Len())
}

func TestConcurrentSnapshotLoads(t *testing.T) {
	var parses atomic.Int32
	svc := NewCatalogService(testLines, &fakeSourceCache{}, fixedParser(&parses, 3), nil)

	var wg sync.WaitGroup
	results := make([]*models.CatalogSnapshot, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = svc.Snapshot(context.Background(), "linea-gatos")
		}(i)
	}
	wg.Wait()

	for _, snap := range results {
		require.NotNil(t, snap)
		assert.Equal(t, 3, snap.Len())
	}
}

func TestUnknownLine(t *testing.T) {
	svc := NewCatalogService(testLines, &fakeSourceCache{}, nil, nil)
	_, err := svc.Snapshot(context.Background(), "linea-peces")
	assert.ErrorIs(t, err, ErrUnknownLine)
	_, err = svc.Line("linea-peces")
	assert.ErrorIs(t, err, ErrUnknownLine)
}

func TestProductLookup(t *testing.T) {
	var parses atomic.Int32
	svc := NewCatalogService(testLines, &fakeSourceCache{}, fixedParser(&parses, 2), nil)

	p, err := svc.Product(context.Background(), "linea-gatos", "B-0")
	require.NoError(t, err)
	assert.Equal(t, "sheet-gatos", p.SourceID)

	_, err = svc.Product(context.Background(), "linea-gatos", "Z-9")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestPageUpdatesCursor(t *testing.T) {
	var parses atomic.Int32
	svc := NewCatalogService(testLines, &fakeSourceCache{}, fixedParser(&parses, 100), nil)

	cursor := pagination.NewCursor(45)
	cursor.CurrentPage = 3
	items, err := svc.Page(context.Background(), "linea-gatos", "", &cursor)
	require.NoError(t, err)
	assert.Equal(t, 100, cursor.TotalItems)
	assert.Equal(t, 3, cursor.TotalPages())
	assert.Len(t, items, 10)

	cursor.CurrentPage = 9
	items, err = svc.Page(context.Background(), "linea-gatos", "", &cursor)
	require.NoError(t, err)
	assert.Equal(t, 1, cursor.CurrentPage, "out-of-range page resets to the first page")
	assert.Len(t, items, 45)
}

func TestPageOnFetchFailure(t *testing.T) {
	cache := &fakeSourceCache{failing: map[string]error{"sheet-gatos": errors.New("timeout")}}
	svc := NewCatalogService(testLines, cache, nil, nil)

	cursor := pagination.NewCursor(45)
	items, err := svc.Page(context.Background(), "linea-gatos", "", &cursor)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Empty(t, items)
	assert.Equal(t, 0, cursor.TotalItems)
	assert.Equal(t, 1, cursor.CurrentPage)
}

func TestInvalidateReloads(t *testing.T) {
	var parses atomic.Int32
	cache := &fakeSourceCache{}
	svc := NewCatalogService(testLines, cache, fixedParser(&parses, 1), nil)

	_, err := svc.Snapshot(context.Background(), "linea-gatos")
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate("linea-gatos"))
	_, err = svc.Snapshot(context.Background(), "linea-gatos")
	require.NoError(t, err)

	assert.EqualValues(t, 2, parses.Load())
	assert.Equal(t, []string{"sheet-gatos"}, cache.invalidated)
	assert.ErrorIs(t, svc.Invalidate("nope"), ErrUnknownLine)
}

func TestPrewarmToleratesFailures(t *testing.T) {
	var parses atomic.Int32
	cache := &fakeSourceCache{failing: map[string]error{"sheet-perros": errors.New("403")}}
	svc := NewCatalogService(testLines, cache, fixedParser(&parses, 1), nil)

	require.NoError(t, svc.Prewarm(context.Background()))
	assert.EqualValues(t, 1, parses.Load())
}

func TestLinesReturnsCopy(t *testing.T) {
	svc := NewCatalogService(testLines, &fakeSourceCache{}, nil, nil)
	lines := svc.Lines()
	lines[0].Name = "changed"
	assert.Equal(t, "Línea Gatos", svc.Lines()[0].Name)
}
