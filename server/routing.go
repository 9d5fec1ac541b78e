package server

import (
	"bufio"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/logger"
)

// setupHTTPRoutes configures all HTTP handlers
func (s *KinServer) setupHTTPRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	api := func(h http.HandlerFunc) http.HandlerFunc {
		return s.corsMiddleware(s.requestIDMiddleware(s.rateLimitMiddleware(h)))
	}

	mux.HandleFunc("/api/parse", api(s.HandleParse))     // Resolve a phrase (GET ?q=)
	mux.HandleFunc("/api/suggest", api(s.HandleSuggest)) // Complete a prefix (GET ?q=&limit=)
	mux.HandleFunc("/api/graph", api(s.HandleGraph))     // Family tree (GET ?q=&format=dot|json)
	mux.HandleFunc("/ws", api(s.HandleWebSocket))        // Type-ahead websocket
	mux.HandleFunc("/health", s.corsMiddleware(s.HandleHealth))
	mux.Handle("/metrics", s.metrics.handler())

	return mux
}

// corsMiddleware adds CORS headers to HTTP responses using configured allowed origins.
// Uses the same origin validation as WebSocket connections (server.allowed_origins config).
func (s *KinServer) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if !s.checkOrigin(r) {
				writeError(w, http.StatusForbidden, "origin not allowed")
				return
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

// requestIDMiddleware tags the request context and response with a request ID
func (s *KinServer) requestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		r = r.WithContext(logger.WithRequest(r.Context(), id, clientIP(r)))

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		s.requestLogger(r).Infow("Request",
			logger.FieldMethod, r.Method,
			logger.FieldPath, r.URL.Path,
			logger.FieldStatus, rec.status,
			logger.FieldDurationMS, time.Since(start).Milliseconds(),
		)
	}
}

// rateLimitMiddleware rejects clients that exceed server.rate_limit
func (s *KinServer) rateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !s.limiter.allow(ip) {
			s.metrics.rateLimited.Inc()
			writeWrappedError(w, s.requestLogger(r),
				errors.Wrapf(errors.ErrRateLimited, "client %s", ip))
			return
		}
		next(w, r)
	}
}

// requestLogger returns the server logger tagged with the request's context fields
func (s *KinServer) requestLogger(r *http.Request) *zap.SugaredLogger {
	fields := logger.FieldsFromContext(r.Context())
	if len(fields) == 0 {
		return s.logger
	}
	return s.logger.With(fields...)
}

// statusRecorder captures the status code for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrader take over the connection
func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := sr.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	sr.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}
