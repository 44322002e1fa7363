package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pickarena/backend/internal/api/handlers"
	"github.com/pickarena/backend/pkg/logger"
	"github.com/pickarena/backend/pkg/metrics"
)

// Handlers groups the route handlers the router wires up.
type Handlers struct {
	Stocks   *handlers.StockHandler
	Contests *handlers.ContestHandler
	Refresh  *handlers.RefreshHandler
	Jobs     *handlers.JobsHandler
	Live     *handlers.LiveHandler
}

// NewRouter creates and configures the HTTP router.
func NewRouter(h Handlers, log *logger.Logger, m *metrics.Manager, metricsEnabled bool) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler).Methods("GET")
	if metricsEnabled {
		r.Handle("/metrics", m.Handler()).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/stocks/search", h.Stocks.Search).Methods("GET")

	api.HandleFunc("/contests", h.Contests.List).Methods("GET")
	api.HandleFunc("/contests/{id}", h.Contests.Get).Methods("GET")
	api.HandleFunc("/contests/{id}/leaderboard", h.Contests.Leaderboard).Methods("GET")
	api.HandleFunc("/contests/{id}/picks", h.Contests.Join).Methods("POST")

	api.HandleFunc("/refresh", h.Refresh.Trigger).Methods("POST")
	api.HandleFunc("/jobs", h.Jobs.Get).Methods("GET")

	r.HandleFunc("/ws/contests/{id}", h.Live.Watch).Methods("GET")

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	r.Use(metricsMiddleware(m))

	return r
}

// healthCheckHandler returns server health status.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "pickarena-api",
	})
}

// statusRecorder captures the response status for middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics.
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// metricsMiddleware records request counts and latency. The route
// template keeps the path label cardinality bounded. Websocket routes
// are skipped; the wrapped writer would hide the http.Hijacker the
// upgrade needs.
func metricsMiddleware(m *metrics.Manager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tmpl, err := route.GetPathTemplate(); err == nil {
					path = tmpl
				}
			}

			if websocketRequest(r) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			m.ObserveHTTP(r.Method, path, rec.status, time.Since(start))
		})
	}
}

func websocketRequest(r *http.Request) bool {
	return r.Header.Get("Upgrade") == "websocket"
}
