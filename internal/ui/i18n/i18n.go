// Пакет i18n — тексты интерфейса и сообщений об ошибках.
// Предоставляет функции T(ctx, key) и Tf(ctx, key, args...) для получения
// переведённых строк из контекста HTTP-запроса.
// Поддерживаемые языки: English (en), 日本語 (ja).
// Язык определяется middleware: cookie "lang" → Accept-Language → язык по умолчанию.
package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/text/language"
)

// Поддерживаемые языки
var (
	// SupportedLanguages — список поддерживаемых тегов языков.
	SupportedLanguages = []language.Tag{
		language.English,
		language.Japanese,
	}

	// matcher — языковой matcher для Accept-Language.
	matcher = language.NewMatcher(SupportedLanguages)
)

// Коды поддерживаемых языков.
const (
	LangEnglish  = "en"
	LangJapanese = "ja"
)

// contextKey — тип ключа для контекста (избегаем коллизий).
type contextKey string

const (
	// contextKeyLang — текущий язык в контексте запроса.
	contextKeyLang contextKey = "i18n_lang"
)

// defaultLang — язык по умолчанию, задаётся через SetDefaultLang при старте.
var defaultLang = LangEnglish

// SetDefaultLang задаёт язык по умолчанию (en или ja).
func SetDefaultLang(lang string) {
	if IsSupported(lang) {
		defaultLang = lang
	}
}

// DefaultLang возвращает язык по умолчанию.
func DefaultLang() string {
	return defaultLang
}

// IsSupported сообщает, поддерживается ли язык.
func IsSupported(lang string) bool {
	return lang == LangEnglish || lang == LangJapanese
}

// Bundle — хранилище переводов для всех языков.
// Загружается один раз при старте приложения.
type Bundle struct {
	mu       sync.RWMutex
	catalogs map[string]map[string]string // lang → key → translation
	logger   *slog.Logger
}

// NewBundle создаёт пустой Bundle.
func NewBundle(logger *slog.Logger) *Bundle {
	return &Bundle{
		catalogs: make(map[string]map[string]string),
		logger:   logger,
	}
}

// LoadMessages загружает JSON-каталог переводов для указанного языка.
// JSON формат: {"key": "translation", ...} (плоский).
func (b *Bundle) LoadMessages(lang string, data []byte) error {
	var messages map[string]string
	if err := json.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("i18n: ошибка парсинга каталога %s: %w", lang, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalogs[lang] = messages

	if b.logger != nil {
		b.logger.Info("i18n каталог загружен",
			slog.String("lang", lang),
			slog.Int("keys", len(messages)),
		)
	}
	return nil
}

// Translate возвращает перевод по ключу для указанного языка.
// Если ключ не найден — возвращает ключ как есть (для отладки).
func (b *Bundle) Translate(lang, key string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	// Ищем в запрошенном языке
	if catalog, ok := b.catalogs[lang]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}

	// Fallback на английский
	if lang != LangEnglish {
		if catalog, ok := b.catalogs[LangEnglish]; ok {
			if msg, ok := catalog[key]; ok {
				return msg
			}
		}
	}

	// Ключ не найден ни в одном каталоге
	return key
}

// Translatef возвращает перевод по ключу с подстановкой аргументов (fmt.Sprintf).
func (b *Bundle) Translatef(lang, key string, args ...any) string {
	template := b.Translate(lang, key)
	if len(args) == 0 {
		return template
	}
	return formatFunc(template, args...)
}

// MissingKeys возвращает ключи из keys, отсутствующие в каталоге lang.
// Используется при старте для проверки полноты сообщений об ошибках.
func (b *Bundle) MissingKeys(lang string, keys []string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	catalog := b.catalogs[lang]
	var missing []string
	for _, k := range keys {
		if _, ok := catalog[k]; !ok {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	return missing
}

// Resolver — тексты одного языка; реализует validation.MessageResolver.
type Resolver struct {
	bundle *Bundle
	lang   string
}

// Resolver возвращает источник текстов для языка lang.
func (b *Bundle) Resolver(lang string) Resolver {
	return Resolver{bundle: b, lang: lang}
}

// Resolve возвращает перевод ключа.
func (r Resolver) Resolve(key string) string {
	if r.bundle == nil {
		return key
	}
	return r.bundle.Translate(r.lang, key)
}

// --- Глобальный Bundle (singleton) ---

var (
	globalBundle *Bundle
	globalOnce   sync.Once
)

// Init инициализирует глобальный Bundle. Вызывается один раз при старте.
func Init(logger *slog.Logger) *Bundle {
	globalOnce.Do(func() {
		globalBundle = NewBundle(logger)
	})
	return globalBundle
}

// --- Функции для использования в шаблонах и обработчиках ---

// WithLang помещает язык в контекст.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, contextKeyLang, lang)
}

// LangFromContext извлекает язык из контекста.
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(contextKeyLang).(string); ok && lang != "" {
		return lang
	}
	return defaultLang
}

// FromContext возвращает источник текстов для языка запроса.
func FromContext(ctx context.Context) Resolver {
	return Resolver{bundle: globalBundle, lang: LangFromContext(ctx)}
}

// T возвращает перевод по ключу, используя язык из контекста.
func T(ctx context.Context, key string) string {
	if globalBundle == nil {
		return key
	}
	return globalBundle.Translate(LangFromContext(ctx), key)
}

// Tf возвращает перевод по ключу с аргументами (fmt.Sprintf).
// Формат-строка загружается из JSON-каталога, поэтому go vet printf-проверка
// не применяется — используется обёртка formatFunc.
func Tf(ctx context.Context, key string, args ...any) string {
	if globalBundle == nil {
		if len(args) == 0 {
			return key
		}
		return formatFunc(key, args...)
	}
	return globalBundle.Translatef(LangFromContext(ctx), key, args...)
}

// formatFunc — ссылка на fmt.Sprintf через переменную для обхода go vet printf-анализатора.
//
//nolint:govet // формат-строки загружаются из каталогов во время выполнения
var formatFunc = fmt.Sprintf

// MatchLanguage определяет лучший язык из Accept-Language заголовка.
// Возвращает "en" или "ja".
func MatchLanguage(acceptLanguage string) string {
	tag, _ := language.MatchStrings(matcher, acceptLanguage)
	base, _ := tag.Base()

	if base.String() == LangJapanese {
		return LangJapanese
	}
	return LangEnglish
}
