// Точка входа Employee Module — управление сотрудниками через веб-формы.
// Загружает конфигурацию, применяет миграции, подключается к PostgreSQL,
// собирает сервисный слой, диспетчер команд и представления,
// запускает мониторинг зависимостей и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bigkaa/goartstore/employee-module/internal/actions"
	"github.com/bigkaa/goartstore/employee-module/internal/api/handlers"
	"github.com/bigkaa/goartstore/employee-module/internal/config"
	"github.com/bigkaa/goartstore/employee-module/internal/database"
	"github.com/bigkaa/goartstore/employee-module/internal/dispatch"
	"github.com/bigkaa/goartstore/employee-module/internal/repository"
	"github.com/bigkaa/goartstore/employee-module/internal/scope"
	"github.com/bigkaa/goartstore/employee-module/internal/server"
	"github.com/bigkaa/goartstore/employee-module/internal/service"
	"github.com/bigkaa/goartstore/employee-module/internal/ui/auth"
	"github.com/bigkaa/goartstore/employee-module/internal/ui/i18n"
	"github.com/bigkaa/goartstore/employee-module/internal/ui/views"
	"github.com/bigkaa/goartstore/employee-module/internal/validation"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Employee Module запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	if cfg.SessionSecret == "" {
		logger.Warn("EM_SESSION_SECRET не задан, сессии не переживут рестарт")
	}
	if cfg.PasswordPepper == "" {
		logger.Warn("EM_PASSWORD_PEPPER не задан, пароли хешируются без pepper")
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode)
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Локализация (en, ja)
	bundle := i18n.Init(logger)
	if err := i18n.LoadFromEmbedFS(bundle, logger); err != nil {
		logger.Error("Ошибка загрузки каталогов сообщений", slog.String("error", err.Error()))
		os.Exit(1)
	}
	i18n.SetDefaultLang(cfg.DefaultLang)
	for _, lang := range []string{i18n.LangEnglish, i18n.LangJapanese} {
		if missing := bundle.MissingKeys(lang, requiredMessageKeys()); len(missing) > 0 {
			logger.Warn("В каталоге сообщений нет ключей",
				slog.String("lang", lang),
				slog.Any("keys", missing),
			)
		}
	}

	// 6. Сессии: cookie (AES-256-GCM) + серверное хранилище областей видимости
	sessionMgr, err := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionSecure, cfg.SessionTTL)
	if err != nil {
		logger.Error("Ошибка создания Session Manager", slog.String("error", err.Error()))
		os.Exit(1)
	}
	sessions := scope.NewSessionStore(cfg.SessionCapacity, cfg.SessionTTL)

	// 7. Repository и сервисы
	employeeRepo := repository.NewEmployeeRepository(pool)
	hasher := service.NewPasswordHasher(cfg.PasswordPepper, cfg.PasswordCost)
	employeeSvc := service.NewEmployeeService(employeeRepo, hasher, cfg.PageSize, logger)

	// 8. Диспетчер команд: top (по умолчанию) и employee
	dispatcher := dispatch.New(actions.ActionTop, logger)
	dispatcher.Register(actions.NewTopAction())
	dispatcher.Register(actions.NewEmployeeAction(employeeSvc))
	logger.Info("Обработчики зарегистрированы", slog.Any("actions", dispatcher.Actions()))

	renderer := views.NewRenderer()
	logger.Debug("Представления загружены", slog.Any("views", renderer.Views()))
	pages := dispatch.NewHTTPHandler(dispatcher, sessions, sessionMgr, renderer, service.IsUnavailable, logger)

	// 9. topologymetrics — мониторинг PostgreSQL
	var monitor handlers.DependencyMonitor
	dephealthSvc, dephealthErr := service.NewDephealthService(
		handlers.ServiceName,
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
		dephealthSvc = nil
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics",
			slog.String("error", startErr.Error()),
		)
		dephealthSvc = nil
	} else {
		monitor = dephealthSvc
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	// 10. Health endpoints
	healthHandler := handlers.NewHealthHandler(database.NewReadinessChecker(pool), monitor)

	// 11. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, healthHandler, pages)
	if err := srv.Run(ctx); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 12. Остановка фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Employee Module остановлен")
}

// requiredMessageKeys — ключи, без которых пользователь увидит сырой ключ
// вместо сообщения: ошибки валидации, flash и страницы ошибок.
func requiredMessageKeys() []string {
	keys := []string{
		actions.FlashRegistered,
		actions.FlashUpdated,
		actions.FlashDeleted,
		"error.unknown",
		"error.unavailable",
	}
	for _, k := range []validation.Kind{
		validation.MissingCode,
		validation.DuplicateCode,
		validation.MissingName,
		validation.MissingSecret,
	} {
		keys = append(keys, k.MessageKey())
	}
	return keys
}
