package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"catalogo-millex/models"
	"catalogo-millex/pagination"
	"catalogo-millex/utils"
)

//go:embed lines.yaml
var defaultLines []byte

// DefaultExportURL is the Google Sheets xlsx export template; %s is the file id
const DefaultExportURL = "https://docs.google.com/spreadsheets/d/%s/export?format=xlsx"

// Config holds runtime settings read from the environment
type Config struct {
	Env      string
	Port     string
	LogLevel string
	BaseURL  string

	Lines           []models.CatalogLine
	CatalogCacheDir string
	FetchTimeout    time.Duration
	ExportURL       string
	CredentialsPath string
	Prewarm         bool

	PageSize      int
	ImageCacheDir string

	DBDriver    string
	DatabaseURL string

	WhatsAppPhone      string
	OrderMessageHeader string

	ChromePath  string
	SessionIdle time.Duration
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     strings.TrimPrefix(getEnv("PORT", "8080"), ":"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		CatalogCacheDir: getEnv("CATALOG_CACHE_DIR", filepath.Join(os.TempDir(), "catalogo-millex")),
		FetchTimeout:    getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
		ExportURL:       getEnv("SHEET_EXPORT_URL", DefaultExportURL),
		CredentialsPath: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		Prewarm:         getEnvBool("PREWARM", false),

		PageSize:      getEnvInt("PAGE_SIZE", pagination.DefaultPageSize),
		ImageCacheDir: getEnv("IMAGE_CACHE_DIR", filepath.Join("cache", "images")),

		DBDriver:    strings.ToLower(os.Getenv("DB_DRIVER")),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		WhatsAppPhone:      os.Getenv("WHATSAPP_PHONE"),
		OrderMessageHeader: getEnv("ORDER_MESSAGE_HEADER", "Hola! Quiero hacer el siguiente pedido:"),

		ChromePath:  os.Getenv("CHROME_PATH"),
		SessionIdle: getEnvDuration("SESSION_IDLE", 2*time.Hour),
	}
	cfg.BaseURL = strings.TrimSuffix(getEnv("BASE_URL", "http://localhost:"+cfg.Port), "/")

	if !strings.Contains(cfg.ExportURL, "%s") {
		return nil, fmt.Errorf("SHEET_EXPORT_URL must contain a %%s placeholder for the file id")
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("PAGE_SIZE must be greater than 0, got %d", cfg.PageSize)
	}
	switch cfg.DBDriver {
	case "", "pgx", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q: expected pgx or sqlite", cfg.DBDriver)
	}

	data := defaultLines
	if path := os.Getenv("CATALOG_LINES_FILE"); path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog lines file: %w", err)
		}
	}
	lines, err := ParseLines(data)
	if err != nil {
		return nil, err
	}
	cfg.Lines = lines

	return cfg, nil
}

// IsProduction reports whether ENV is "production"
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ParseLines decodes a YAML catalog line list. Missing slugs are derived from names.
func ParseLines(data []byte) ([]models.CatalogLine, error) {
	var doc struct {
		Lines []models.CatalogLine `yaml:"lines"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog lines: %w", err)
	}
	if len(doc.Lines) == 0 {
		return nil, fmt.Errorf("catalog lines are required")
	}

	seen := make(map[string]bool, len(doc.Lines))
	for i := range doc.Lines {
		line := &doc.Lines[i]
		line.Name = strings.TrimSpace(line.Name)
		line.SourceID = strings.TrimSpace(line.SourceID)
		if line.Name == "" || line.SourceID == "" {
			return nil, fmt.Errorf("catalog line %d: name and sourceId are required", i+1)
		}
		if line.Slug == "" {
			line.Slug = utils.Slugify(line.Name)
		}
		if seen[line.Slug] {
			return nil, fmt.Errorf("duplicate catalog line slug %q", line.Slug)
		}
		seen[line.Slug] = true
	}
	return doc.Lines, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
