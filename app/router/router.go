package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"catalogo-millex/app/controller"
)

type Controllers struct {
	Catalog *controller.CatalogController
	Cart    *controller.CartController
	Admin   *controller.AdminController
	// Session wraps routes that read or change per-user state
	Session func(http.Handler) http.Handler
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes builds the HTTP handler for the whole service
func SetupRoutes(controllers *Controllers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/ping", pingHandler)

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/lines", controllers.Catalog.ListLines)
		r.Route("/{line}", func(r chi.Router) {
			r.With(controllers.Session).Get("/products", controllers.Catalog.ListProducts)
			r.Get("/products/{code}/image", controllers.Catalog.GetProductImage)
			r.Get("/render", controllers.Catalog.RenderCatalog)
			r.Get("/pdf", controllers.Catalog.ExportPDF)
		})
	})

	r.Route("/cart", func(r chi.Router) {
		r.Use(controllers.Session)
		r.Get("/", controllers.Cart.GetCart)
		r.Delete("/", controllers.Cart.ClearCart)
		r.Put("/items/{code}", controllers.Cart.SetItem)
		r.Delete("/items/{code}", controllers.Cart.RemoveItem)
		r.Post("/checkout", controllers.Cart.Checkout)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/catalog/{line}/refresh", controllers.Admin.RefreshLine)
		r.Get("/orders", controllers.Admin.ListOrders)
		r.Get("/orders/{id}", controllers.Admin.GetOrder)
	})

	return r
}

// RequestLogger logs one line per request with status, latency and size
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				fields := []zap.Field{
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", status),
					zap.Duration("latency", time.Since(start)),
					zap.Int("bytes", ww.BytesWritten()),
					zap.String("remote_ip", r.RemoteAddr),
				}
				switch {
				case status >= http.StatusInternalServerError:
					logger.Error("request completed", fields...)
				case status >= http.StatusBadRequest:
					logger.Warn("request completed", fields...)
				default:
					logger.Info("request completed", fields...)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
