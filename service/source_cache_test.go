package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingDownloader struct {
	calls atomic.Int32
	data  []byte
	err   error
}

func (d *countingDownloader) Download(ctx context.Context, sourceID string) ([]byte, error) {
	d.calls.Add(1)
	if d.err != nil {
		return nil, d.err
	}
	return d.data, nil
}

func newTestSourceCache(t *testing.T, downloader Downloader) (*SourceCache, *DiskDocumentStore) {
	t.Helper()
	store, err := NewDiskDocumentStore(t.TempDir())
	require.NoError(t, err)
	return NewSourceCache(downloader, store, time.Second, nil), store
}

func TestFetchDownloadsOnce(t *testing.T) {
	downloader := &countingDownloader{data: []byte("document")}
	cache, store := newTestSourceCache(t, downloader)

	first, err := cache.Fetch(context.Background(), "sheet-1")
	require.NoError(t, err)
	second, err := cache.Fetch(context.Background(), "sheet-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, store.PathFor("sheet-1"), first.Path)
	assert.EqualValues(t, 1, downloader.calls.Load())

	content, err := os.ReadFile(first.Path)
	require.NoError(t, err)
	assert.Equal(t, "document", string(content))
}

func TestFetchFailureStoresNothing(t *testing.T) {
	boom := errors.New("network down")
	cache, store := newTestSourceCache(t, &countingDownloader{err: boom})

	_, err := cache.Fetch(context.Background(), "sheet-1")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "sheet-1", fetchErr.SourceID)
	assert.ErrorIs(t, err, boom)

	_, ok := store.Lookup("sheet-1")
	assert.False(t, ok)
}

func TestInvalidateForcesDownload(t *testing.T) {
	downloader := &countingDownloader{data: []byte("v1")}
	cache, _ := newTestSourceCache(t, downloader)

	_, err := cache.Fetch(context.Background(), "sheet-1")
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate("sheet-1"))
	require.NoError(t, cache.Invalidate("sheet-1"), "invalidating a missing document is a no-op")

	_, err = cache.Fetch(context.Background(), "sheet-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, downloader.calls.Load())
}

func TestConcurrentFetchLeavesCompleteDocument(t *testing.T) {
	payload := make([]byte, 64<<10)
	for i := range payload {
		payload[i] = byte(i)
	}
	cache, _ := newTestSourceCache(t, &countingDownloader{data: payload})

	var wg sync.WaitGroup
	paths := make([]string, 8)
	for i := range paths {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handle, err := cache.Fetch(context.Background(), "sheet-1")
			if err == nil {
				paths[i] = handle.Path
			}
		}(i)
	}
	wg.Wait()

	for _, p := range paths {
		require.Equal(t, paths[0], p)
	}
	content, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, payload, content)
}

func TestPathForHashesUnsafeIDs(t *testing.T) {
	store, err := NewDiskDocumentStore(t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, store.PathFor("abc_DEF-123"), "abc_DEF-123.xlsx")
	unsafe := store.PathFor("../../etc/passwd")
	assert.NotContains(t, unsafe, "..")
	assert.Equal(t, unsafe, store.PathFor("../../etc/passwd"))
}

func TestHTTPExportDownloader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/sheets/ok/export" {
			_, _ = w.Write([]byte("xlsx-bytes"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	d := NewHTTPExportDownloader(server.Client(), server.URL+"/sheets/%s/export")

	data, err := d.Download(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, "xlsx-bytes", string(data))

	_, err = d.Download(context.Background(), "missing")
	assert.Error(t, err)
}
