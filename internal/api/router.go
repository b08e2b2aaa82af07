package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/finhealth/internal/api/handlers"
	"github.com/wonny/finhealth/pkg/logger"
	"github.com/wonny/finhealth/pkg/redis"
)

// Handlers groups the endpoint handlers mounted by NewRouter
type Handlers struct {
	Health      *handlers.HealthHandler
	Businesses  *handlers.BusinessHandler
	Financials  *handlers.FinancialHandler
	Assessments *handlers.AssessmentHandler
	Events      *handlers.EventHub
}

// RateLimit configures the per-client API limit. A nil Limiter disables it.
type RateLimit struct {
	Limiter   *redis.RateLimiter
	PerMinute int
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, rl RateLimit, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", h.Health.Check).Methods("GET")

	// Event stream
	if h.Events != nil {
		r.HandleFunc("/ws/events", h.Events.ServeWS).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()
	if rl.Limiter != nil && rl.PerMinute > 0 {
		api.Use(rateLimitMiddleware(rl, log))
	}

	// Businesses
	api.HandleFunc("/businesses", h.Businesses.Create).Methods("POST")
	api.HandleFunc("/businesses", h.Businesses.List).Methods("GET")
	api.HandleFunc("/businesses/{id:[0-9]+}", h.Businesses.Get).Methods("GET")

	// Financial data
	api.HandleFunc("/financial-data/upload", h.Financials.Upload).Methods("POST")
	api.HandleFunc("/financial-data", h.Financials.List).Methods("GET")
	api.HandleFunc("/financial-data/{id:[0-9]+}", h.Financials.Get).Methods("GET")
	api.HandleFunc("/financial-data/{id:[0-9]+}", h.Financials.Delete).Methods("DELETE")

	// Assessments
	api.HandleFunc("/assessments/preview", h.Assessments.Preview).Methods("POST")
	api.HandleFunc("/assessments/business/{id:[0-9]+}", h.Assessments.ListByBusiness).Methods("GET")
	api.HandleFunc("/assessments/latest/{id:[0-9]+}", h.Assessments.Latest).Methods("GET")
	api.HandleFunc("/assessments/{id:[0-9]+}", h.Assessments.Get).Methods("GET")
	api.HandleFunc("/assessments/{id:[0-9]+}/report", h.Assessments.Report).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// statusRecorder captures the response code for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Unwrap exposes the underlying writer to http.ResponseController
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Hijack is required by the websocket upgrader
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
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

// rateLimitMiddleware applies the Redis sliding window per client IP.
// Limiter errors let the request through.
func rateLimitMiddleware(rl RateLimit, log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cfg := redis.APIRateLimit(clientIP(r), rl.PerMinute)
			allowed, remaining, err := rl.Limiter.Allow(r.Context(), cfg)
			if err != nil {
				log.WithError(err).Warn("Rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Rate limit exceeded",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
