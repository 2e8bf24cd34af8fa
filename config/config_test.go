package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("CATALOG_LINES_FILE", "")
	t.Setenv("SHEET_EXPORT_URL", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("FETCH_TIMEOUT", "")
	t.Setenv("BASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 45, cfg.PageSize)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, DefaultExportURL, cfg.ExportURL)
	assert.Equal(t, "http://localhost:9090", cfg.BaseURL)
	require.Len(t, cfg.Lines, 4)
	assert.Equal(t, "linea-perros", cfg.Lines[0].Slug)
	assert.Equal(t, "1EK_NlWT-eS5_7P2kWwBHsui2tKu5t26U", cfg.Lines[0].SourceID)
	assert.Equal(t, "linea-pajaros-y-roedores", cfg.Lines[1].Slug)
}

func TestLoadLinesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lines:\n  - name: Acuario\n    slug: peces\n    sourceId: abc\n"), 0o644))
	t.Setenv("CATALOG_LINES_FILE", path)
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)
	require.Len(t, cfg.Lines, 1)
	assert.Equal(t, "peces", cfg.Lines[0].Slug)
	assert.Equal(t, "sqlite", cfg.DBDriver)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("CATALOG_LINES_FILE", "")

	t.Setenv("DB_DRIVER", "mysql")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DB_DRIVER", "")
	t.Setenv("SHEET_EXPORT_URL", "https://example.com/export")
	_, err = Load()
	assert.Error(t, err)
}

func TestParseLines(t *testing.T) {
	_, err := ParseLines([]byte("lines: []"))
	assert.Error(t, err)

	_, err = ParseLines([]byte("lines:\n  - name: A\n"))
	assert.Error(t, err, "sourceId is required")

	_, err = ParseLines([]byte("lines:\n  - name: Gatos\n    sourceId: a\n  - name: gatos\n    sourceId: b\n"))
	assert.Error(t, err, "slugs must be unique")
}
