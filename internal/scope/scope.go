// Пакет scope — хранилища атрибутов с двумя временами жизни:
// запрос (Request) и сессия (Session).
// Атрибуты запроса видны только в текущем запросе, атрибуты сессии
// живут до явного удаления или до окончания сессии.
package scope

// Scope — время жизни атрибута.
type Scope int

const (
	// Request — атрибут живёт в рамках одного цикла запрос/ответ.
	Request Scope = iota
	// Session — атрибут живёт между запросами одной сессии.
	Session
)

// String возвращает имя области видимости для логов.
func (s Scope) String() string {
	switch s {
	case Request:
		return "request"
	case Session:
		return "session"
	default:
		return "unknown"
	}
}

// Store — доступ к атрибутам обеих областей видимости текущего запроса.
// Значения непрозрачны для хранилища.
type Store interface {
	// Get возвращает значение по ключу и признак наличия.
	Get(s Scope, key string) (any, bool)
	// Put записывает значение.
	Put(s Scope, key string, value any)
	// Remove удаляет значение (отсутствие ключа — не ошибка).
	Remove(s Scope, key string)
}

// Values — атрибуты уровня запроса.
// Создаётся на каждый запрос и не переживает его, поэтому без блокировок.
type Values struct {
	m map[string]any
}

// NewValues создаёт пустой набор атрибутов запроса.
func NewValues() *Values {
	return &Values{m: make(map[string]any)}
}

// Get возвращает значение по ключу.
func (v *Values) Get(key string) (any, bool) {
	val, ok := v.m[key]
	return val, ok
}

// Put записывает значение.
func (v *Values) Put(key string, value any) {
	v.m[key] = value
}

// Remove удаляет значение.
func (v *Values) Remove(key string) {
	delete(v.m, key)
}

// All возвращает копию всех атрибутов (для передачи в шаблон).
func (v *Values) All() map[string]any {
	out := make(map[string]any, len(v.m))
	for k, val := range v.m {
		out[k] = val
	}
	return out
}

// Snapshotter — Store, способный отдать копию атрибутов запроса
// (для передачи в слой отображения при forward).
type Snapshotter interface {
	RequestAttributes() map[string]any
}

// RequestAttributes возвращает копию атрибутов запроса s.
// Для Store без Snapshotter возвращается пустой набор.
func RequestAttributes(s Store) map[string]any {
	if sn, ok := s.(Snapshotter); ok {
		return sn.RequestAttributes()
	}
	return map[string]any{}
}

// bound — Store поверх атрибутов запроса и корзины сессии.
type bound struct {
	request *Values
	session *Bucket
}

// New связывает атрибуты запроса и корзину сессии в один Store.
// session может быть nil — тогда операции с Session игнорируются
// (запрос без сессии, например health-check).
func New(request *Values, session *Bucket) Store {
	return &bound{request: request, session: session}
}

func (b *bound) RequestAttributes() map[string]any {
	return b.request.All()
}

func (b *bound) Get(s Scope, key string) (any, bool) {
	switch s {
	case Request:
		return b.request.Get(key)
	case Session:
		if b.session == nil {
			return nil, false
		}
		return b.session.Get(key)
	}
	return nil, false
}

func (b *bound) Put(s Scope, key string, value any) {
	switch s {
	case Request:
		b.request.Put(key, value)
	case Session:
		if b.session != nil {
			b.session.Put(key, value)
		}
	}
}

func (b *bound) Remove(s Scope, key string) {
	switch s {
	case Request:
		b.request.Remove(key)
	case Session:
		if b.session != nil {
			b.session.Remove(key)
		}
	}
}
