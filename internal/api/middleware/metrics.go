// metrics.go — Prometheus HTTP метрики для Employee Module.
// Регистрирует метрики: em_http_requests_total, em_http_request_duration_seconds.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "em_http_requests_total",
			Help: "Общее количество HTTP-запросов к Employee Module",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "em_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к Employee Module в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// knownPaths — пути, попадающие в метки как есть.
// Команда передаётся в query string и в путь не входит.
var knownPaths = map[string]bool{
	"/":             true,
	"/top":          true,
	"/employee":     true,
	"/set-language": true,
	"/health/live":  true,
	"/health/ready": true,
	"/metrics":      true,
}

// normalizePath сводит произвольные пути к ограниченному набору меток:
// статика → /static/*, неизвестные action → /{action}.
func normalizePath(path string) string {
	if knownPaths[path] {
		return path
	}
	if len(path) >= len("/static/") && path[:len("/static/")] == "/static/" {
		return "/static/*"
	}
	return "/{action}"
}
