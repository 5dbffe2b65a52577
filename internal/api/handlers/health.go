// health.go — обработчики health endpoints Employee Module.
// /health/live — liveness probe (процесс жив)
// /health/ready — readiness probe (PostgreSQL доступен)
// /metrics — Prometheus метрики
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigkaa/goartstore/employee-module/internal/config"
	"github.com/bigkaa/goartstore/employee-module/internal/service"
)

// ServiceName — имя сервиса в ответах health endpoints.
const ServiceName = "employee-module"

// ReadinessChecker — интерфейс проверки готовности зависимости.
type ReadinessChecker interface {
	// CheckReady возвращает статус ("ok", "degraded", "fail") и сообщение.
	CheckReady(ctx context.Context) (status string, message string)
}

// DependencyMonitor — фоновый мониторинг зависимостей (topologymetrics).
type DependencyMonitor interface {
	DependencyHealthy(name string) (healthy, known bool)
}

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	pgChecker   ReadinessChecker
	monitor     DependencyMonitor
	promHandler http.Handler
}

// NewHealthHandler создаёт обработчик health endpoints.
// pgChecker == nil — readiness всегда "fail"; monitor может быть nil.
func NewHealthHandler(pgChecker ReadinessChecker, monitor DependencyMonitor) *HealthHandler {
	return &HealthHandler{
		pgChecker:   pgChecker,
		monitor:     monitor,
		promHandler: promhttp.Handler(),
	}
}

// healthCheckResult — результат проверки одной зависимости.
type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// healthLiveResponse — ответ liveness probe.
type healthLiveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

// healthReadyResponse — ответ readiness probe.
type healthReadyResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
	Checks    struct {
		PostgreSQL healthCheckResult `json:"postgresql"`
	} `json:"checks"`
}

// HealthLive — liveness probe. Возвращает 200 если процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthLiveResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   ServiceName,
	})
}

// HealthReady — readiness probe. Проверяет PostgreSQL.
// Возвращает 200 (ok/degraded) или 503 (fail).
func (h *HealthHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	resp := healthReadyResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   ServiceName,
	}

	if h.pgChecker != nil {
		status, msg := h.pgChecker.CheckReady(r.Context())
		resp.Checks.PostgreSQL = healthCheckResult{Status: status, Message: msg}
	} else {
		resp.Checks.PostgreSQL = healthCheckResult{Status: "fail", Message: "не инициализирован"}
	}

	// Ping прошёл, но фоновые проверки SDK видят сбой — degraded
	if h.monitor != nil && resp.Checks.PostgreSQL.Status == "ok" {
		if healthy, known := h.monitor.DependencyHealthy(service.DependencyPostgres); known && !healthy {
			resp.Checks.PostgreSQL = healthCheckResult{
				Status:  "degraded",
				Message: "фоновая проверка зависимости неуспешна",
			}
		}
	}

	resp.Status = overallStatus(resp.Checks.PostgreSQL.Status)

	status := http.StatusOK
	if resp.Status == "fail" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// overallStatus определяет итоговый статус из статусов зависимостей.
// Если хотя бы одна зависимость fail — итог fail.
// Если хотя бы одна degraded — итог degraded.
// Иначе — ok.
func overallStatus(statuses ...string) string {
	hasDegraded := false
	for _, s := range statuses {
		if s == "fail" {
			return "fail"
		}
		if s == "degraded" {
			hasDegraded = true
		}
	}
	if hasDegraded {
		return "degraded"
	}
	return "ok"
}
