package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"catalogo-millex/app/controller"
	"catalogo-millex/app/router"
	"catalogo-millex/config"
	"catalogo-millex/db"
	"catalogo-millex/repository"
	"catalogo-millex/service"
)

// App holds the wired HTTP handler and the resources it owns
type App struct {
	Handler http.Handler

	conn   *sql.DB
	cancel context.CancelFunc
	logger *zap.Logger
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	downloader, err := newDownloader(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	store, err := service.NewDiskDocumentStore(cfg.CatalogCacheDir)
	if err != nil {
		return nil, err
	}
	sourceCache := service.NewSourceCache(downloader, store, cfg.FetchTimeout, logger)
	catalog := service.NewCatalogService(cfg.Lines, sourceCache, service.ParseCatalog, logger)

	images, err := service.NewImageOptimizer(cfg.ImageCacheDir, logger)
	if err != nil {
		return nil, err
	}
	renderer := service.NewCatalogRenderer(catalog, images, cfg.BaseURL, cfg.ChromePath, logger)

	// Optional order log
	var (
		conn      *sql.DB
		orderRepo repository.OrderRepositoryInterface
		sink      service.OrderSink
	)
	if cfg.DBDriver != "" {
		conn, err = db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repo := repository.NewOrderRepository(conn, cfg.DBDriver, logger)
		orderRepo, sink = repo, repo
	} else {
		logger.Info("ℹ️  DB_DRIVER not set, orders will not be recorded")
	}
	orders := service.NewOrderService(cfg.WhatsAppPhone, cfg.OrderMessageHeader, sink, logger)

	sessions := repository.NewMemorySessionStore(cfg.PageSize)

	controllers := &router.Controllers{
		Catalog: controller.NewCatalogController(catalog, images, renderer, cfg.PageSize, logger),
		Cart:    controller.NewCartController(catalog, orders, logger),
		Admin:   controller.NewAdminController(catalog, orderRepo, logger),
		Session: controller.SessionMiddleware(sessions, cfg.IsProduction(), logger),
	}

	bgCtx, cancel := context.WithCancel(context.Background())
	go sweepSessions(bgCtx, sessions, cfg.SessionIdle, logger)

	if cfg.Prewarm {
		go func() {
			if err := catalog.Prewarm(bgCtx); err != nil {
				logger.Warn("⚠️  catalog prewarm interrupted", zap.Error(err))
			}
		}()
	}

	return &App{
		Handler: router.SetupRoutes(controllers, logger),
		conn:    conn,
		cancel:  cancel,
		logger:  logger,
	}, nil
}

// Close stops background work and releases the database connection
func (a *App) Close() {
	a.cancel()
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Warn("⚠️  failed to close database", zap.Error(err))
		}
	}
}

// newDownloader uses the Drive API when credentials are configured and the
// public export URL otherwise
func newDownloader(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.Downloader, error) {
	if cfg.CredentialsPath != "" {
		return service.NewDriveDownloader(ctx, cfg.CredentialsPath, logger)
	}
	logger.Info("ℹ️  GOOGLE_APPLICATION_CREDENTIALS not set, using public export URL", zap.String("template", cfg.ExportURL))
	return service.NewHTTPExportDownloader(&http.Client{Timeout: cfg.FetchTimeout}, cfg.ExportURL), nil
}

func sweepSessions(ctx context.Context, sessions repository.SessionStore, idle time.Duration, logger *zap.Logger) {
	interval := idle / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := sessions.Sweep(idle); removed > 0 {
				logger.Info("🧹 idle sessions removed", zap.Int("removed", removed), zap.Int("active", sessions.Len()))
			}
		}
	}
}
