// Пакет server — HTTP-сервер Employee Module с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на API Gateway.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/goartstore/employee-module/internal/api/errors"
	"github.com/bigkaa/goartstore/employee-module/internal/api/handlers"
	"github.com/bigkaa/goartstore/employee-module/internal/api/middleware"
	"github.com/bigkaa/goartstore/employee-module/internal/config"
	"github.com/bigkaa/goartstore/employee-module/internal/dispatch"
	uihandlers "github.com/bigkaa/goartstore/employee-module/internal/ui/handlers"
	"github.com/bigkaa/goartstore/employee-module/internal/ui/i18n"
	"github.com/bigkaa/goartstore/employee-module/internal/ui/static"
)

// Server — HTTP-сервер Employee Module.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными routes и middleware.
// pages — граница диспетчера команд (dispatch.HTTPHandler).
func New(cfg *config.Config, logger *slog.Logger, health *handlers.HealthHandler, pages http.Handler) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(logger, health, pages),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger.With(slog.String("component", "server")),
		cfg:        cfg,
	}
}

// NewRouter собирает маршруты:
//   - /health/live, /health/ready, /metrics — без определения языка;
//   - /static/* — встроенные CSS;
//   - POST /set-language — переключение языка;
//   - / и /{action} — команды диспетчера (GET и POST).
func NewRouter(logger *slog.Logger, health *handlers.HealthHandler, pages http.Handler) http.Handler {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		apierrors.NotFound(w, "Маршрут не найден")
	})

	router.Get("/health/live", health.HealthLive)
	router.Get("/health/ready", health.HealthReady)
	router.Get("/metrics", health.GetMetrics)

	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.FileSystem())))

	router.Group(func(r chi.Router) {
		r.Use(i18n.Middleware())

		r.Post("/set-language", uihandlers.HandleSetLanguage)

		r.Get("/", pages.ServeHTTP)
		r.Post("/", pages.ServeHTTP)
		r.Get("/{"+dispatch.URLParamAction+"}", pages.ServeHTTP)
		r.Post("/{"+dispatch.URLParamAction+"}", pages.ServeHTTP)
	})

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM)
// или отмены ctx. Затем выполняется graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case <-ctx.Done():
		s.logger.Info("Контекст сервера отменён")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
