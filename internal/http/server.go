package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	applog "budgetdash/internal/log"
	"budgetdash/internal/middleware/ratelimit"
	"budgetdash/internal/middleware/security"
	"budgetdash/internal/middleware/trace"
	"budgetdash/internal/services"
)

// Deps are the services the HTTP layer exposes.
type Deps struct {
	Imports   *services.ImportService
	Budgets   *services.BudgetService
	Analytics *services.AnalyticsService
	Reports   *services.ReportService

	// Ready reports whether backing stores are reachable. Optional.
	Ready func(context.Context) error

	Logger             *applog.Logger
	RateLimitPerMinute int
	CORSAllowedOrigins []string
}

// Server serves the data service API under /budgets and the report API under /reports.
type Server struct {
	http.Server
	deps        Deps
	logger      *applog.StructuredLogger
	rateLimiter *ratelimit.Limiter
	tracer      *trace.Middleware
	startedAt   time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = applog.New(applog.DefaultConfig())
	}
	httpLogger := deps.Logger.WithComponent(applog.ComponentHTTP)

	s := &Server{
		deps:        deps,
		logger:      applog.NewStructuredLogger(httpLogger),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RateLimitPerMinute}),
		tracer:      trace.NewMiddleware(clientIP, httpLogger),
		startedAt:   time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /budgets/upload-csv", s.handleUploadCSV)
	mux.HandleFunc("DELETE /budgets/transactions/clear", s.handleClearTransactions)
	mux.HandleFunc("POST /budgets/{$}", s.handleSetBudget)
	mux.HandleFunc("POST /budgets/bulk", s.handleSetBudgets)
	mux.HandleFunc("GET /budgets/view", s.handleViewBudgets)
	mux.HandleFunc("DELETE /budgets/clear-limits", s.handleClearBudgets)
	mux.HandleFunc("GET /budgets/compute_spend", s.handleComputeSpend)
	mux.HandleFunc("GET /budgets/insights", s.handleInsights)
	mux.HandleFunc("GET /budgets/analytics", s.handleAnalytics)
	mux.Handle("GET /budgets/download-report", security.DownloadMiddleware(http.HandlerFunc(s.handleDownloadReport)))

	mux.HandleFunc("GET /reports/category-pie", s.handleCategoryPie)
	mux.HandleFunc("GET /reports/monthly-trend", s.handleMonthlyTrend)
	mux.HandleFunc("GET /reports/category-monthly", s.handleCategoryMonthly)
	mux.HandleFunc("GET /reports/merchants", s.handleMerchants)
	mux.HandleFunc("GET /reports/dashboard", s.handleDashboard)
	mux.Handle("GET /reports/summary.csv", security.DownloadMiddleware(http.HandlerFunc(s.handleSummaryCSV)))
	mux.HandleFunc("POST /reports/summary/export", s.handleRequestExport)

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(clientIP, ratelimit.Mutating, s.onRateLimit)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = security.CORSMiddleware(deps.CORSAllowedOrigins)(handler)
	handler = applog.Middleware(httpLogger, trace.GetRequestID)(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown gracefully stops the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, clientIP(r), applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
	writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]string{"store": "ok"}
	if s.deps.Ready != nil {
		if err := s.deps.Ready(ctx); err != nil {
			checks["store"] = "failed: " + err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
		}
	}
	if s.deps.Reports == nil {
		checks["reports"] = "not_configured"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["reports"] = "ok"
	}

	writeJSON(w, code, map[string]any{"status": status, "checks": checks})
}
