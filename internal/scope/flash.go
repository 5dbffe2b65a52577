// flash.go — flash-сообщения: значение, записанное в сессию перед redirect,
// показывается ровно один раз на следующей странице.
package scope

// KeyFlush — ключ flash-сообщения в обеих областях видимости.
const KeyFlush = "flush"

// SetFlash кладёт flash-сообщение в сессию для показа после redirect.
func SetFlash(s Store, value any) {
	s.Put(Session, KeyFlush, value)
}

// MoveFlash переносит значение key из сессии в атрибуты запроса и удаляет
// его из сессии. Повторный вызов без новой записи ничего не находит,
// поэтому сообщение не показывается дважды.
func MoveFlash(s Store, key string) (any, bool) {
	if b, ok := s.(*bound); ok && b.session != nil {
		// Чтение и удаление под одной блокировкой: два параллельных
		// запроса сессии не покажут одно сообщение дважды.
		v, found := b.session.Take(key)
		if found {
			b.request.Put(key, v)
		}
		return v, found
	}

	v, found := s.Get(Session, key)
	if !found {
		return nil, false
	}
	s.Put(Request, key, v)
	s.Remove(Session, key)
	return v, true
}
