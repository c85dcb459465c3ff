// Package http serves the console UI: full pages plus the htmx partials that
// re-render tables and metrics as the user types, sorts, and reloads.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"rentdesk/internal/core"
	"rentdesk/internal/state"
	appweb "rentdesk/web"
)

// PaymentEventPublisher is the optional hook notified after a payment is
// created through the console. A nil publisher disables events.
type PaymentEventPublisher interface {
	PublishPaymentCreated(ctx context.Context, p core.Payment) error
}

type Server struct {
	http.Server
	templates *template.Template

	residents *state.Residents
	units     *state.Units
	payments  *state.Payments
	dashboard *state.Dashboard

	events      PaymentEventPublisher
	rateLimiter *rateLimiter

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, residents *state.Residents, units *state.Units, payments *state.Payments, dashboard *state.Dashboard, events PaymentEventPublisher) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		residents:   residents,
		units:       units,
		payments:    payments,
		dashboard:   dashboard,
		events:      events,
		rateLimiter: newRateLimiter(),
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets served from the embedded FS.
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withMiddleware(s.handleDashboardPage))
	mux.HandleFunc("/residents", s.withMiddleware(s.handleResidentsPage))
	mux.HandleFunc("/units", s.withMiddleware(s.handleUnitsPage))
	mux.HandleFunc("/payments", s.withMiddleware(s.handlePaymentsPage))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	// UI partials
	mux.HandleFunc("/ui/dashboard", s.withMiddleware(s.handleDashboardOverview))
	mux.HandleFunc("/ui/residents/table", s.withMiddleware(s.handleResidentsTable))
	mux.HandleFunc("/ui/residents/select", s.withMiddleware(s.handleResidentSelect))
	mux.HandleFunc("/ui/residents/edit", s.withMiddleware(s.handleResidentEdit))
	mux.HandleFunc("/ui/residents/delete", s.withMiddleware(s.handleResidentDelete))
	mux.HandleFunc("/ui/units/table", s.withMiddleware(s.handleUnitsTable))
	mux.HandleFunc("/ui/payments/table", s.withMiddleware(s.handlePaymentsTable))
	mux.HandleFunc("/ui/payments/form", s.withMiddleware(s.handlePaymentForm))
	mux.HandleFunc("/ui/payments/create", s.withMiddleware(s.handlePaymentCreate))

	return s
}

// Shutdown stops the server and its background cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds security headers, rate limiting on mutations, and
// request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// render executes a template, degrading to a 500 on failure.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
