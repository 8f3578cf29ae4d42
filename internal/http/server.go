package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/analytics"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/cache"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/middleware/ratelimit"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/middleware/security"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/middleware/trace"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/services"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/store"
	appweb "github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/web"
)

type Server struct {
	http.Server
	templates *template.Template
	svc       *services.TransactionService
	recurring *store.RecurringStore

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	headers  *security.HeadersMiddleware

	// Read-side caches keyed by data version and filter; any write bumps the
	// version so stale entries age out through LRU and TTL.
	summaryCache *cache.LRUCache[analytics.Summary]
	reportCache  *cache.LRUCache[analytics.Report]
	cacheManager *cache.Manager
	dataVersion  atomic.Int64

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run server. The recurring store may be nil; recurring routes then
// report 404. A broken embedded template or static FS is a build defect, so
// construction fails rather than serving a site where every page is a 500.
func NewServer(addr string, svc *services.TransactionService, recurring *store.RecurringStore) (*Server, error) {
	templates, err := template.New("").Funcs(template.FuncMap{
		"amount": formatAmount,
	}).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	staticFS, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mounting static assets: %w", err)
	}

	mux := http.NewServeMux()

	detector := security.NewDetector()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		templates:    templates,
		svc:          svc,
		recurring:    recurring,
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:     detector,
		tracer:       trace.NewMiddleware(detector.ExtractClientIP),
		headers:      security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		summaryCache: cache.NewLRUCache[analytics.Summary](100, 5*time.Minute),
		reportCache:  cache.NewLRUCache[analytics.Report](100, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.reportCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Static assets served from the embedded FS with a small browser cache.
	static := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
	mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.Handle("/", s.protect(http.HandlerFunc(s.handleDashboard)))
	mux.Handle("/transactions", s.protect(http.HandlerFunc(s.handleTransactions)))
	mux.Handle("/transactions/delete", s.protect(http.HandlerFunc(s.handleDeleteTransaction)))
	mux.Handle("/report", s.protect(http.HandlerFunc(s.handleReport)))
	mux.Handle("/recurring", s.protect(http.HandlerFunc(s.handleRecurring)))
	mux.Handle("/recurring/delete", s.protect(http.HandlerFunc(s.handleDeleteRecurring)))

	mux.Handle("/api/balance", s.protect(http.HandlerFunc(s.handleAPIBalance)))
	mux.Handle("/api/summary", s.protect(http.HandlerFunc(s.handleAPISummary)))
	mux.Handle("/api/transactions", s.protect(http.HandlerFunc(s.handleAPITransactions)))
	mux.Handle("/api/categories", s.protect(http.HandlerFunc(s.handleAPICategories)))
	mux.Handle("/api/charts/pie", s.protect(http.HandlerFunc(s.handleChartPie)))
	mux.Handle("/api/charts/bar", s.protect(http.HandlerFunc(s.handleChartBar)))
	mux.Handle("/api/charts/line", s.protect(http.HandlerFunc(s.handleChartLine)))

	return s, nil
}

// protect is the middleware chain for application routes: request tracing,
// security headers, suspicious-request rejection, and rate limiting on
// mutating methods.
func (s *Server) protect(next http.Handler) http.Handler {
	guarded := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Suspicious request rejected",
				"path", r.URL.Path,
				"client_ip", s.detector.ExtractClientIP(r))
			http.NotFound(w, r)
			return
		}

		if r.Method == http.MethodPost || r.Method == http.MethodDelete {
			clientIP := s.detector.ExtractClientIP(r)
			if !s.limiter.Allow(clientIP) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					"client_ip", clientIP, "method", r.Method, "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}

		next.ServeHTTP(w, r)
	})

	return s.tracer.Middleware(s.headers.Middleware(guarded))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.svc.Balance(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// invalidateCaches bumps the data version after any write. Entries under the
// old version are never requested again and fall out via LRU or TTL.
func (s *Server) invalidateCaches() {
	s.dataVersion.Add(1)
}

func (s *Server) cacheKey(f store.Filter) string {
	return fmt.Sprintf("%d|%s|%s|%s|%s|%t",
		s.dataVersion.Load(), f.Start, f.End, f.Type, f.Category, f.SortByDateDesc)
}

func (s *Server) cachedSummary(ctx context.Context, f store.Filter) (analytics.Summary, error) {
	key := s.cacheKey(f)
	if sum, ok := s.summaryCache.Get(key); ok {
		return sum, nil
	}
	sum, err := s.svc.Summary(ctx, f)
	if err != nil {
		return analytics.Summary{}, err
	}
	s.summaryCache.Set(key, sum)
	return sum, nil
}

func (s *Server) cachedReport(ctx context.Context, f store.Filter) (analytics.Report, error) {
	key := s.cacheKey(f)
	if rep, ok := s.reportCache.Get(key); ok {
		return rep, nil
	}
	rep, err := s.svc.Report(ctx, f)
	if err != nil {
		return analytics.Report{}, err
	}
	s.reportCache.Set(key, rep)
	return rep, nil
}

// Shutdown stops the background cleanup goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.cacheManager.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
