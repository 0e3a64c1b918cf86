// Package server exposes the demo backend over HTTP: the JSON API with its
// Spanish-key wire contract, the embedded dashboard page, and the websocket
// notification feed.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	mrand "math/rand"
	"net/http"
	"sync"
	"time"

	"facturita/internal/dashboard"
	"facturita/internal/notify"
	"facturita/internal/store"
	appweb "facturita/web"
)

type Server struct {
	http.Server
	store     *store.Store
	container *dashboard.Container
	hub       *notify.Hub
	notifier  notify.Notifier
	templates *template.Template

	rateLimiter *rateLimiter

	// Artificial latency injected into API handlers so the demo feels
	// like a network round trip. Zero disables it.
	latencyMin time.Duration
	latencyMax time.Duration

	shutdownOnce sync.Once
}

// Options tune the server beyond its collaborators.
type Options struct {
	LatencyMin time.Duration
	LatencyMax time.Duration

	// Notifier receives billing outcomes from the HTTP submit path.
	Notifier notify.Notifier
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server. container and hub may be nil.
func NewServer(addr string, st *store.Store, container *dashboard.Container, hub *notify.Hub, opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:       st,
		container:   container,
		hub:         hub,
		notifier:    opts.Notifier,
		rateLimiter: newRateLimiter(),
		latencyMin:  opts.LatencyMin,
		latencyMax:  opts.LatencyMax,
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /api/arca/facturacion", s.withSecurityHeaders(s.withLatency(s.handleTaxTotals)))
	mux.HandleFunc("GET /api/arca/ultimoNumero", s.withSecurityHeaders(s.withLatency(s.handleLastNumber)))
	mux.HandleFunc("GET /api/gastos", s.withSecurityHeaders(s.withLatency(s.handleExpenses)))
	mux.HandleFunc("GET /api/recaudaciones", s.withSecurityHeaders(s.withLatency(s.handleCollections)))
	mux.HandleFunc("POST /api/facturar", s.withSecurityHeaders(s.withLatency(s.handleBill)))
	mux.HandleFunc("POST /api/demo/reset", s.withSecurityHeaders(s.handleReset))
	mux.HandleFunc("POST /api/demo/generate", s.withSecurityHeaders(s.handleRegenerate))

	mux.HandleFunc("GET /api/export/recaudaciones", s.withSecurityHeaders(s.handleExportCollections))
	mux.HandleFunc("GET /api/export/gastos", s.withSecurityHeaders(s.handleExportExpenses))
	mux.HandleFunc("GET /facturas/{id}/imprimir", s.withSecurityHeaders(s.handlePrintInvoice))
	mux.HandleFunc("GET /gastos/{id}/imprimir", s.withSecurityHeaders(s.handlePrintExpense))

	if hub != nil {
		mux.Handle("GET /ws", hub)
	}

	return s
}

// Shutdown stops the rate limiter cleanup and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		if s.hub != nil {
			s.hub.Close()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withLatency delays the handler by a random duration in the configured
// window, simulating backend round-trip time.
func (s *Server) withLatency(next http.HandlerFunc) http.HandlerFunc {
	if s.latencyMax <= 0 {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		delay := s.latencyMin
		if span := s.latencyMax - s.latencyMin; span > 0 {
			delay += time.Duration(mrand.Int63n(int64(span)))
		}
		select {
		case <-r.Context().Done():
			return
		case <-time.After(delay):
		}
		next(w, r)
	}
}

// withSecurityHeaders adds security headers, rate limiting on mutations, and
// request logging.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
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

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self' ws: wss:")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
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

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Simple in-memory rate limiter, 60 POSTs per client per minute.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]
	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}
	client.requests++
	client.lastRequest = now
	return client.requests <= 60
}
