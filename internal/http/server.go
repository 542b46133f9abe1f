// Package http serves the derived dashboard views as a read-only JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"toheoje/internal/aggregate"
	"toheoje/internal/cache"
	"toheoje/internal/dataset"
	"toheoje/internal/log"
	"toheoje/internal/middleware/ratelimit"
	"toheoje/internal/middleware/security"
	"toheoje/internal/middleware/trace"
	"toheoje/internal/site"
	"toheoje/internal/view"
)

// Snapshotter hands out the current dataset snapshot.
type Snapshotter interface {
	Snapshot() dataset.Snapshot
}

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	Addr                string
	Logger              *log.Logger
	Site                site.Site
	CacheSize           int
	CacheTTL            time.Duration
	CleanupInterval     time.Duration
	NewRecordsLimit     int
	ExportRatePerMinute int
	AllowedOrigins      []string
	// Now replaces the clock in tests.
	Now func() time.Time
}

type Server struct {
	http.Server
	data       Snapshotter
	logger     *log.Logger
	site       site.Site
	panelLimit int
	now        func() time.Time

	dashboards *cache.Memo[view.Dashboard]
	panels     *cache.Memo[view.Panel]
	districts  *cache.Memo[view.DistrictView]
	groups     *cache.Memo[[]aggregate.AddressGroup]
	exports    *cache.Memo[[]byte]
	caches     *cache.Manager

	exportLimiter *ratelimit.Limiter
	ips           *security.IPResolver
	tracer        *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer wires the routes over data. Cache cleanup starts immediately and
// stops on Shutdown.
func NewServer(data Snapshotter, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = opts.CacheTTL
	}
	if opts.NewRecordsLimit <= 0 {
		opts.NewRecordsLimit = view.DefaultPanelLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Site.URL() == "" {
		opts.Site = site.New("")
	}

	logger := opts.Logger.WithComponent(log.ComponentHTTP)
	s := &Server{
		data:       data,
		logger:     logger,
		site:       opts.Site,
		panelLimit: opts.NewRecordsLimit,
		now:        opts.Now,
		caches:     cache.NewManager(opts.Logger),
		ips:        security.NewIPResolver(),
		exportLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.ExportRatePerMinute,
		}),
	}
	s.dashboards = newMemo[view.Dashboard](s.caches, opts.CacheSize, opts.CacheTTL)
	s.panels = newMemo[view.Panel](s.caches, opts.CacheSize, opts.CacheTTL)
	s.districts = newMemo[view.DistrictView](s.caches, opts.CacheSize, opts.CacheTTL)
	s.groups = newMemo[[]aggregate.AddressGroup](s.caches, opts.CacheSize, opts.CacheTTL)
	// Workbooks are large; keep only a few.
	s.exports = newMemo[[]byte](s.caches, 32, opts.CacheTTL)
	s.caches.StartCleanup(opts.CleanupInterval)

	s.tracer = trace.NewMiddleware(opts.Logger, s.ips.ClientIP)
	headersCfg := security.DefaultHeadersConfig()
	headersCfg.AllowedOrigins = opts.AllowedOrigins
	headers := security.NewHeadersMiddleware(headersCfg)

	mux := http.NewServeMux()
	s.routes(mux)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.tracer.Middleware(headers.Middleware(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func newMemo[T any](m *cache.Manager, size int, ttl time.Duration) *cache.Memo[T] {
	c := cache.NewLRUCache[T](size, ttl)
	m.Register(c)
	return cache.NewMemo[T](c)
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/new", s.handleNewRecords)
	mux.HandleFunc("GET /api/monthly", s.handleMonthly)
	mux.HandleFunc("GET /api/districts", s.handleDistricts)
	mux.HandleFunc("GET /api/districts/{district}", s.handleDistrict)
	mux.HandleFunc("GET /api/districts/{district}/groups/detail", s.handleGroupDetail)

	export := s.exportLimiter.Middleware(s.ips.ClientIP, s.onExportLimited)
	mux.Handle("GET /api/districts/{district}/export.xlsx", export(http.HandlerFunc(s.handleExport)))

	mux.HandleFunc("GET /data/land_contract_data.json", s.handleRawData)
	mux.Handle("GET /api/site", security.CacheControlMiddleware(3600)(http.HandlerFunc(s.handleSite)))
	mux.Handle("GET /sitemap.xml", security.CacheControlMiddleware(3600)(http.HandlerFunc(s.handleSitemap)))
}

// Shutdown stops background goroutines and then the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.exportLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
