package service

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
)

// TestHealthByPrefix проверяет поиск состояния зависимости по ключам SDK.
func TestHealthByPrefix(t *testing.T) {
	tests := []struct {
		name        string
		health      map[string]bool
		wantHealthy bool
		wantKnown   bool
	}{
		{
			name:   "нет проверок",
			health: map[string]bool{},
		},
		{
			name:        "здорова",
			health:      map[string]bool{"postgresql:db:5432": true},
			wantHealthy: true,
			wantKnown:   true,
		},
		{
			name:      "недоступна",
			health:    map[string]bool{"postgresql:db:5432": false},
			wantKnown: true,
		},
		{
			name:      "один из эндпоинтов недоступен",
			health:    map[string]bool{"postgresql:db1:5432": true, "postgresql:db2:5432": false},
			wantKnown: true,
		},
		{
			name:        "ключ без хоста",
			health:      map[string]bool{"postgresql": true},
			wantHealthy: true,
			wantKnown:   true,
		},
		{
			name:   "похожее имя не совпадает",
			health: map[string]bool{"postgresql-replica:db:5432": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			healthy, known := healthByPrefix(tt.health, DependencyPostgres)
			if healthy != tt.wantHealthy || known != tt.wantKnown {
				t.Errorf("healthByPrefix() = (%v, %v), ожидалось (%v, %v)",
					healthy, known, tt.wantHealthy, tt.wantKnown)
			}
		})
	}
}

// TestNewDephealthServiceIsolatedRegistry проверяет, что сервисы с разными
// registry создаются без конфликта регистрации метрик.
// Подключение к БД не требуется: SDK обращается к ней только после Start.
func TestNewDephealthServiceIsolatedRegistry(t *testing.T) {
	db, err := sql.Open("pgx", "postgres://em:em@127.0.0.1:5432/em")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	for i := 0; i < 2; i++ {
		_, err := NewDephealthServiceWithRegisterer(
			"employee-module", "test", db,
			"postgres://em:em@127.0.0.1:5432/em", 15*time.Second,
			logger, prometheus.NewRegistry(),
		)
		if err != nil {
			t.Fatalf("NewDephealthServiceWithRegisterer() #%d ошибка: %v", i, err)
		}
	}
}
