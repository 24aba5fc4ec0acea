package http

import (
	"context"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"subtrack/internal/core"
	"subtrack/internal/log"
	"subtrack/internal/middleware/metrics"
	"subtrack/internal/middleware/ratelimit"
	"subtrack/internal/middleware/security"
	"subtrack/internal/middleware/trace"
	"subtrack/internal/services"
	appweb "subtrack/web"
)

// SubscriptionService is what the handlers need from the service layer.
type SubscriptionService interface {
	Create(ctx context.Context, in services.NewSubscription) (core.Subscription, error)
	List(ctx context.Context) ([]core.Subscription, error)
	Delete(ctx context.Context, id int64) error
	Metrics(ctx context.Context) (core.Metrics, error)
	Renewals(ctx context.Context, days int) ([]core.Renewal, error)
	Export(ctx context.Context, w io.Writer) error
	Ready(ctx context.Context) error
	WindowDays() int
}

// Options configures the HTTP server. Zero values select defaults.
type Options struct {
	Logger             *log.Logger
	RateLimitPerMinute int
	CurrencySymbol     string
	// Registerer receives the HTTP collectors; Gatherer backs /metrics.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Now        func() time.Time
}

type Server struct {
	http.Server
	svc       SubscriptionService
	templates *template.Template
	limiter   *ratelimit.Limiter
	logger    *log.Logger
	currency  string
	now       func() time.Time

	shutdownOnce sync.Once
}

// categoryChoices seeds the dashboard category picker.
var categoryChoices = []string{"Streaming", "Music", "Software", "Cloud", "News", "Fitness", "Gaming", "Education", core.DefaultCategory}

func NewServer(addr string, svc SubscriptionService, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, err
	}
	clientIPs, err := security.NewClientIPExtractor(nil)
	if err != nil {
		return nil, err
	}

	s := &Server{
		svc:       svc,
		templates: t,
		logger:    logger.WithComponent(log.ComponentHTTP),
		currency:  opts.CurrencySymbol,
		now:       opts.Now,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(http.StripPrefix("/static/", http.FileServer(http.FS(static)))))
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /api/subscriptions", s.handleListSubscriptions)
	mux.HandleFunc("POST /api/subscriptions", s.handleCreateSubscription)
	mux.HandleFunc("DELETE /api/subscriptions/{id}", s.handleDeleteSubscription)
	mux.HandleFunc("GET /api/metrics", s.handleMetrics)
	mux.HandleFunc("GET /api/renewals", s.handleRenewals)
	mux.HandleFunc("GET /api/export", s.handleExport)

	onLimit := func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, clientIPs.ClientIP(r),
			log.FieldPath, r.URL.Path)
		TooManyRequestsError().Write(w)
	}

	// Outermost first: trace, security headers, rate limit, metrics, mux.
	// Metrics wraps the mux directly so r.Pattern is visible after routing.
	var handler http.Handler = metrics.NewHTTP(opts.Registerer).Middleware(mux)
	// A zero rate leaves writes unthrottled.
	if opts.RateLimitPerMinute > 0 {
		s.limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute})
		handler = s.limiter.Middleware(clientIPs.ClientIP, onLimit, http.MethodPost, http.MethodDelete)(handler)
	}
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = trace.NewMiddleware(logger.WithComponent(log.ComponentHTTP), clientIPs.ClientIP).Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

// Shutdown gracefully shuts down the server and the rate limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.svc.Ready(ctx); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err.Error())
		ServiceUnavailableError("storage unavailable").Write(w)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		CurrencySymbol string
		WindowDays     int
		Today          string
		Cycles         []core.BillingCycle
		Categories     []string
	}{
		CurrencySymbol: s.currency,
		WindowDays:     s.svc.WindowDays(),
		Today:          s.now().Format(core.DateLayout),
		Cycles:         core.Cycles(),
		Categories:     categoryChoices,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Index template execution failed",
			log.FieldError, err.Error())
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
