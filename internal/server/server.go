package server

import (
	"context"
	"net/http"
	"time"

	"storefront/internal/admin"
	"storefront/internal/apiclient"
	"storefront/internal/cache"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/schema"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// Catalog is the read side of the product API.
type Catalog interface {
	Products(ctx context.Context, search string, policy apiclient.CachePolicy) ([]schema.Product, error)
	Product(ctx context.Context, id string, policy apiclient.CachePolicy) (schema.Product, error)
}

type Deps struct {
	Catalog Catalog
	Orders  admin.OrdersAPI
	// Cache holds the admin order listings, keyed per token.
	Cache cache.Cache

	ProductsTTL    time.Duration
	AdminOrdersTTL time.Duration
	AllowedOrigins []string

	Limiter *middleware.Limiter
	// Metrics, when set, is served on GET /api/metrics.
	Metrics func() metrics.Snapshot
}

type Server struct {
	catalog  Catalog
	admin    *admin.Service
	cache    cache.Cache
	deps     Deps
	requests metrics.Counter
}

func New(d Deps) *Server {
	if d.Cache == nil {
		d.Cache = cache.NewMemory(nil)
	}
	if d.Limiter == nil {
		d.Limiter = middleware.NewLimiter(3 * time.Minute)
	}
	if len(d.AllowedOrigins) == 0 {
		d.AllowedOrigins = []string{"*"}
	}

	return &Server{
		catalog: d.Catalog,
		// listings are cached here, per token, so the client call itself is uncached
		admin: admin.NewService(d.Orders, 0),
		cache: d.Cache,
		deps:  d,
	}
}

// Router registers every route.
func (s *Server) Router() *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", s.health)

	router.GET("/api/products", s.listProducts)
	router.GET("/api/products/:id", s.getProduct)

	router.GET("/api/admin/orders", s.adminOrders)
	router.PUT("/api/admin/orders/:id/delivered", s.markDelivered)
	router.GET("/api/admin/summary", s.adminSummary)

	if s.deps.Metrics != nil {
		router.GET("/api/metrics", s.metrics)
	}

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "not found")
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return router
}

// Handler wraps the router in the middleware chain:
// recover → request id → access log → security headers → CORS → rate limit.
func (s *Server) Handler() http.Handler {
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: s.deps.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", logger.RequestIDHeader},
		ExposedHeaders: []string{logger.RequestIDHeader, "X-Cache"},
	}).Handler(s.deps.Limiter.Middleware(s.count(s.Router())))

	return middleware.Recover(
		logger.RequestIDMiddleware(
			logger.LoggingMiddleware(
				middleware.SecurityHeaders(corsHandler),
			),
		),
	)
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Inc()
		next.ServeHTTP(w, r)
	})
}

// Requests is the number of requests that passed rate limiting.
func (s *Server) Requests() uint64 {
	return s.requests.Load()
}

// NewHTTPServer applies the timeouts used in production.
func NewHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}
}
