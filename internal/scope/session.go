// session.go — серверное хранилище сессий.
// Обёртка над hashicorp/golang-lru/v2/expirable: корзина атрибутов на каждый
// session ID, ограниченный размер и TTL простоя (окончание сессии).
package scope

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// sessionsActive — количество живых корзин сессий.
var sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "em_sessions_active",
	Help: "Количество активных серверных сессий Employee Module.",
})

// Bucket — атрибуты одной сессии.
// Несколько запросов одной сессии могут обращаться к ней параллельно.
type Bucket struct {
	mu sync.Mutex
	m  map[string]any
}

func newBucket() *Bucket {
	return &Bucket{m: make(map[string]any)}
}

// Get возвращает значение по ключу.
func (b *Bucket) Get(key string) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.m[key]
	return v, ok
}

// Put записывает значение.
func (b *Bucket) Put(key string, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.m[key] = value
}

// Remove удаляет значение.
func (b *Bucket) Remove(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.m, key)
}

// Take атомарно читает и удаляет значение.
func (b *Bucket) Take(key string) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.m[key]
	if ok {
		delete(b.m, key)
	}
	return v, ok
}

// Len возвращает количество атрибутов сессии.
func (b *Bucket) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.m)
}

// SessionStore — корзины атрибутов, проиндексированные по session ID.
type SessionStore struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *Bucket]
}

// NewSessionStore создаёт хранилище сессий.
// maxSessions — максимальное количество одновременных сессий (старые вытесняются).
// idleTTL — время жизни сессии с момента создания корзины.
func NewSessionStore(maxSessions int, idleTTL time.Duration) *SessionStore {
	onEvict := func(_ string, _ *Bucket) {
		sessionsActive.Dec()
	}
	return &SessionStore{
		cache: expirable.NewLRU[string, *Bucket](maxSessions, onEvict, idleTTL),
	}
}

// Bucket возвращает корзину сессии, создавая её при первом обращении.
func (s *SessionStore) Bucket(sessionID string) *Bucket {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.cache.Get(sessionID); ok {
		return b
	}
	b := newBucket()
	s.cache.Add(sessionID, b)
	sessionsActive.Inc()
	return b
}

// Lookup возвращает корзину сессии без создания.
func (s *SessionStore) Lookup(sessionID string) (*Bucket, bool) {
	return s.cache.Get(sessionID)
}

// Drop завершает сессию и удаляет все её атрибуты.
func (s *SessionStore) Drop(sessionID string) {
	s.cache.Remove(sessionID)
}

// Len возвращает количество живых сессий.
func (s *SessionStore) Len() int {
	return s.cache.Len()
}
