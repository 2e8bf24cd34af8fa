package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"
)

const (
	defaultFetchTimeout = 30 * time.Second
	documentExt         = ".xlsx"
	// maxDocumentSize bounds a single spreadsheet download
	maxDocumentSize = 256 << 20
)

var safeSourceID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// DiskDocumentStore keeps documents as files named after their source id
// Implements DocumentStore
type DiskDocumentStore struct {
	dir string
}

// NewDiskDocumentStore creates a store rooted at dir, creating it if needed
func NewDiskDocumentStore(dir string) (*DiskDocumentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create catalog cache directory: %w", err)
	}
	return &DiskDocumentStore{dir: dir}, nil
}

// Ensure DiskDocumentStore implements DocumentStore
var _ DocumentStore = (*DiskDocumentStore)(nil)

// PathFor returns the deterministic location of a source id's document
func (s *DiskDocumentStore) PathFor(sourceID string) string {
	name := sourceID
	if !safeSourceID.MatchString(sourceID) {
		sum := sha256.Sum256([]byte(sourceID))
		name = hex.EncodeToString(sum[:])
	}
	return filepath.Join(s.dir, name+documentExt)
}

func (s *DiskDocumentStore) Lookup(sourceID string) (DocumentHandle, bool) {
	path := s.PathFor(sourceID)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return DocumentHandle{}, false
	}
	return DocumentHandle{SourceID: sourceID, Path: path}, true
}

// PutIfAbsent writes r unless a document already exists.
// The write goes to a temp file that is renamed into place, so racing
// writers each publish a complete document and the last rename wins.
func (s *DiskDocumentStore) PutIfAbsent(sourceID string, r io.Reader) (DocumentHandle, error) {
	if handle, ok := s.Lookup(sourceID); ok {
		return handle, nil
	}
	path := s.PathFor(sourceID)
	if err := atomic.WriteFile(path, r); err != nil {
		return DocumentHandle{}, fmt.Errorf("failed to persist document: %w", err)
	}
	return DocumentHandle{SourceID: sourceID, Path: path}, nil
}

func (s *DiskDocumentStore) Invalidate(sourceID string) error {
	err := os.Remove(s.PathFor(sourceID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove cached document: %w", err)
	}
	return nil
}

// SourceCache downloads catalog sources once and serves them from a DocumentStore
// Implements SourceCacheInterface
type SourceCache struct {
	downloader Downloader
	store      DocumentStore
	timeout    time.Duration
	logger     *zap.Logger
}

// NewSourceCache creates a new SourceCache
func NewSourceCache(downloader Downloader, store DocumentStore, timeout time.Duration, logger *zap.Logger) *SourceCache {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SourceCache{
		downloader: downloader,
		store:      store,
		timeout:    timeout,
		logger:     logger,
	}
}

// Ensure SourceCache implements SourceCacheInterface
var _ SourceCacheInterface = (*SourceCache)(nil)

// Fetch returns the stored document for sourceID, downloading it on first use.
// Once stored, a source stays valid until Invalidate is called.
func (c *SourceCache) Fetch(ctx context.Context, sourceID string) (DocumentHandle, error) {
	if handle, ok := c.store.Lookup(sourceID); ok {
		c.logger.Debug("⏭️  catalog source served from cache", zap.String("sourceId", sourceID), zap.String("path", handle.Path))
		return handle, nil
	}

	c.logger.Info("📥 downloading catalog source", zap.String("sourceId", sourceID))
	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.downloader.Download(fetchCtx, sourceID)
	if err != nil {
		c.logger.Error("❌ catalog source download failed", zap.String("sourceId", sourceID), zap.Error(err))
		return DocumentHandle{}, &FetchError{SourceID: sourceID, Err: err}
	}

	handle, err := c.store.PutIfAbsent(sourceID, bytes.NewReader(data))
	if err != nil {
		return DocumentHandle{}, &FetchError{SourceID: sourceID, Err: err}
	}

	c.logger.Info("✓ catalog source cached", zap.String("sourceId", sourceID), zap.String("path", handle.Path), zap.Int("bytes", len(data)))
	return handle, nil
}

// Invalidate forgets the stored document so the next Fetch downloads it again
func (c *SourceCache) Invalidate(sourceID string) error {
	return c.store.Invalidate(sourceID)
}

// HTTPExportDownloader downloads sources from a URL template such as the
// Google Sheets xlsx export endpoint
// Implements Downloader
type HTTPExportDownloader struct {
	client      *http.Client
	urlTemplate string
}

// NewHTTPExportDownloader creates a downloader; urlTemplate must contain one %s
func NewHTTPExportDownloader(client *http.Client, urlTemplate string) *HTTPExportDownloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPExportDownloader{client: client, urlTemplate: urlTemplate}
}

// Ensure HTTPExportDownloader implements Downloader
var _ Downloader = (*HTTPExportDownloader)(nil)

func (d *HTTPExportDownloader) Download(ctx context.Context, sourceID string) ([]byte, error) {
	url := fmt.Sprintf(d.urlTemplate, sourceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("export endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("document exceeds %d bytes", maxDocumentSize)
	}
	return data, nil
}
