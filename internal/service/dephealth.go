// dephealth.go — интеграция с topologymetrics SDK для мониторинга зависимостей.
//
// Employee Module зависит только от PostgreSQL: SQL checker работает через
// существующий pgxpool (connection pool mode, critical).
//
// Метрики доступны на /metrics вместе с остальными Prometheus-метриками:
//   - app_dependency_health — состояние зависимости (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds — задержка проверки
//   - app_dependency_status — категория статуса
package service

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"
	"github.com/prometheus/client_golang/prometheus"
)

// DependencyPostgres — имя зависимости PostgreSQL в метриках.
const DependencyPostgres = "postgresql"

// DephealthService — сервис мониторинга зависимостей через topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService создаёт сервис мониторинга зависимостей.
// Метрики регистрируются в глобальном Prometheus registry.
//
// Параметры:
//   - serviceID — имя вершины графа текущего приложения ("employee-module")
//   - group — имя группы в метриках (EM_DEPHEALTH_GROUP)
//   - db — *sql.DB, полученный из pgxpool через stdlib.OpenDBFromPool()
//   - pgConnURL — URL PostgreSQL (для меток, не для подключения)
//   - checkInterval — интервал проверки (EM_DEPHEALTH_CHECK_INTERVAL)
func NewDephealthService(
	serviceID string,
	group string,
	db *sql.DB,
	pgConnURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, db, pgConnURL, checkInterval, logger)
}

// NewDephealthServiceWithRegisterer создаёт сервис с указанным Prometheus registerer.
// Используется в тестах для изоляции метрик.
func NewDephealthServiceWithRegisterer(
	serviceID string,
	group string,
	db *sql.DB,
	pgConnURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, db, pgConnURL, checkInterval, logger,
		dephealth.WithRegisterer(registerer))
}

func newDephealthService(
	serviceID string,
	group string,
	db *sql.DB,
	pgConnURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	extraOpts ...dephealth.Option,
) (*DephealthService, error) {
	opts := []dephealth.Option{
		dephealth.WithLogger(logger),
		// pgcheck.New + AddDependency напрямую, без contrib/sqldb и его MySQL-зависимости
		dephealth.AddDependency(DependencyPostgres, dephealth.TypePostgres,
			pgcheck.New(pgcheck.WithDB(db)),
			dephealth.FromURL(pgConnURL),
			dephealth.CheckInterval(checkInterval),
			dephealth.Critical(true),
		),
	}
	opts = append(opts, extraOpts...)

	dh, err := dephealth.New(serviceID, group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает периодическую проверку зависимостей.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг зависимостей запущен (PostgreSQL)")
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг зависимостей.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг зависимостей остановлен")
}

// Health возвращает текущее состояние зависимостей.
// Ключ — имя зависимости, значение — true если ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}

// DependencyHealthy сообщает состояние зависимости name.
// known=false, если SDK ещё не выполнил ни одной проверки.
func (ds *DephealthService) DependencyHealthy(name string) (healthy, known bool) {
	return healthByPrefix(ds.Health(), name)
}

// healthByPrefix ищет статус зависимости по имени.
// Health() возвращает ключи формата "dependency:host:port";
// при нескольких эндпоинтах зависимость здорова, только если здоровы все.
func healthByPrefix(health map[string]bool, name string) (healthy, known bool) {
	healthy = true
	for key, ok := range health {
		if key == name || strings.HasPrefix(key, name+":") {
			known = true
			healthy = healthy && ok
		}
	}
	return healthy && known, known
}
