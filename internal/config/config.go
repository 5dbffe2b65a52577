// Пакет config — загрузка и валидация конфигурации Employee Module
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Employee Module.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- Сессии ---

	// Ключ шифрования session cookie (пустой — случайный при каждом старте)
	SessionSecret string
	// Secure flag для session cookie (true за HTTPS)
	SessionSecure bool
	// Время жизни неактивной сессии
	SessionTTL time.Duration
	// Максимальное число одновременно хранимых сессий
	SessionCapacity int

	// --- Сотрудники ---

	// Размер страницы списка сотрудников
	PageSize int
	// Секрет, добавляемый к паролю перед хешированием
	PasswordPepper string
	// Стоимость bcrypt
	PasswordCost int

	// --- UI ---

	// Язык интерфейса по умолчанию (en, ja)
	DefaultLang string

	// --- topologymetrics ---

	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration
	// Имя группы в метриках зависимостей
	DephealthGroup string

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// EM_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("EM_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("EM_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("EM_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// EM_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("EM_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("EM_LOG_LEVEL: %w", err)
	}

	// EM_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("EM_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("EM_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	// EM_DB_HOST — обязательный
	cfg.DBHost, err = getEnvRequired("EM_DB_HOST")
	if err != nil {
		return nil, err
	}

	// EM_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("EM_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("EM_DB_PORT: %w", err)
	}

	// EM_DB_NAME — обязательный
	cfg.DBName, err = getEnvRequired("EM_DB_NAME")
	if err != nil {
		return nil, err
	}

	// EM_DB_USER — обязательный
	cfg.DBUser, err = getEnvRequired("EM_DB_USER")
	if err != nil {
		return nil, err
	}

	// EM_DB_PASSWORD — обязательный
	cfg.DBPassword, err = getEnvRequired("EM_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// EM_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("EM_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("EM_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- Сессии ---

	// EM_SESSION_SECRET — ключ шифрования cookie (опционально)
	cfg.SessionSecret = getEnvDefault("EM_SESSION_SECRET", "")

	// EM_SESSION_SECURE — Secure flag cookie (по умолчанию false)
	cfg.SessionSecure, err = getEnvBool("EM_SESSION_SECURE", false)
	if err != nil {
		return nil, fmt.Errorf("EM_SESSION_SECURE: %w", err)
	}

	// EM_SESSION_TTL — время жизни неактивной сессии (по умолчанию 30m)
	cfg.SessionTTL, err = getEnvDuration("EM_SESSION_TTL", 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("EM_SESSION_TTL: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("EM_SESSION_TTL: значение должно быть положительным")
	}

	// EM_SESSION_CAPACITY — максимум сессий в памяти (по умолчанию 10000)
	cfg.SessionCapacity, err = getEnvInt("EM_SESSION_CAPACITY", 10000)
	if err != nil {
		return nil, fmt.Errorf("EM_SESSION_CAPACITY: %w", err)
	}
	if cfg.SessionCapacity < 1 {
		return nil, fmt.Errorf("EM_SESSION_CAPACITY: значение %d должно быть не меньше 1", cfg.SessionCapacity)
	}

	// --- Сотрудники ---

	// EM_PAGE_SIZE — размер страницы списка (по умолчанию 20)
	cfg.PageSize, err = getEnvInt("EM_PAGE_SIZE", 20)
	if err != nil {
		return nil, fmt.Errorf("EM_PAGE_SIZE: %w", err)
	}
	if cfg.PageSize < 1 || cfg.PageSize > 500 {
		return nil, fmt.Errorf("EM_PAGE_SIZE: значение %d вне допустимого диапазона 1-500", cfg.PageSize)
	}

	// EM_PASSWORD_PEPPER — секрет для хеширования паролей (опционально)
	cfg.PasswordPepper = getEnvDefault("EM_PASSWORD_PEPPER", "")

	// EM_PASSWORD_COST — стоимость bcrypt (по умолчанию 10)
	cfg.PasswordCost, err = getEnvInt("EM_PASSWORD_COST", 10)
	if err != nil {
		return nil, fmt.Errorf("EM_PASSWORD_COST: %w", err)
	}
	if cfg.PasswordCost < 4 || cfg.PasswordCost > 31 {
		return nil, fmt.Errorf("EM_PASSWORD_COST: значение %d вне допустимого диапазона 4-31", cfg.PasswordCost)
	}

	// --- UI ---

	// EM_DEFAULT_LANG — язык по умолчанию (по умолчанию en)
	cfg.DefaultLang = strings.ToLower(getEnvDefault("EM_DEFAULT_LANG", "en"))
	if cfg.DefaultLang != "en" && cfg.DefaultLang != "ja" {
		return nil, fmt.Errorf("EM_DEFAULT_LANG: недопустимое значение %q, допустимые: en, ja", cfg.DefaultLang)
	}

	// --- topologymetrics ---

	// EM_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("EM_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("EM_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// EM_DEPHEALTH_GROUP — группа в метриках (по умолчанию employee-module)
	cfg.DephealthGroup = getEnvDefault("EM_DEPHEALTH_GROUP", "employee-module")

	// --- Graceful shutdown ---

	// EM_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("EM_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("EM_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL PostgreSQL для меток метрик зависимостей.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// MigrateURL возвращает адрес БД для golang-migrate (схема pgx5://).
func (c *Config) MigrateURL() string {
	return fmt.Sprintf(
		"pgx5://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvBool возвращает логическое значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное логическое значение: %q", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
