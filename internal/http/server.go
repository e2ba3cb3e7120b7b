// Package http serves the HTMX dashboard and the JSON API over a Tracker.
package http

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"ecocharge/internal/core"
	applog "ecocharge/internal/log"
	"ecocharge/internal/middleware/ratelimit"
	"ecocharge/internal/middleware/security"
	"ecocharge/internal/middleware/trace"
	"ecocharge/internal/services"
	appweb "ecocharge/web"
)

const limiterCleanupInterval = 5 * time.Minute

type Server struct {
	http.Server
	templates *template.Template
	tracker   *services.Tracker

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	events   *applog.StructuredLogger

	stopMaintenance context.CancelFunc
	shutdownOnce    sync.Once
}

// Options tune the middleware; the zero value uses defaults.
type Options struct {
	RequestsPerMinute int
	TrustedProxies    []string
}

// NewServer parses the embedded templates and wires routes and middleware.
func NewServer(addr string, tracker *services.Tracker, logger *applog.Logger, opts Options) (*Server, error) {
	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	detector := security.NewDetector()
	for _, cidr := range opts.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			return nil, err
		}
	}

	s := &Server{
		templates: t,
		tracker:   tracker,
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RequestsPerMinute}),
		detector:  detector,
		tracer:    trace.NewMiddleware(detector.ExtractClientIP),
		events:    applog.NewStructuredLogger(),
	}

	mux := http.NewServeMux()
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(
		http.StripPrefix("/static/", http.FileServer(http.FS(static)))))

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)
	mux.HandleFunc("GET /ui/dashboard", s.handleDashboard)
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("GET /api/sessions", s.handleAPISessions)
	mux.HandleFunc("GET /api/dashboard", s.handleAPIDashboard)
	mux.HandleFunc("POST /api/sessions/batch", s.handleAPIBatch)

	var h http.Handler = mux
	h = s.limiter.Middleware(detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusTooManyRequests, "Çok fazla istek. Lütfen biraz sonra tekrar deneyin.").Write(w)
	})(h)
	h = detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.tracer.Middleware(h)
	h = applog.Middleware(logger.WithComponent(applog.ComponentHTTP))(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stopMaintenance = cancel
	go s.limiter.Run(ctx, limiterCleanupInterval)

	return s, nil
}

// Shutdown stops background maintenance and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.stopMaintenance()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"lira":       formatLira,
		"number":     formatNumber,
		"longDate":   core.LongDate,
		"monthLabel": core.MonthLabel,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.events.LogError(r.Context(), "Template execution failed", err, applog.ErrorTypeInternal, applog.OpRender,
			applog.NewFields().WithComponent(applog.ComponentTemplate))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
