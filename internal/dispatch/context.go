// context.go — контекст выполнения команды: доступ к областям видимости,
// полям формы и выбор forward/redirect.
package dispatch

import (
	"context"
	"crypto/subtle"
	"net/url"

	"github.com/bigkaa/goartstore/employee-module/internal/scope"
)

// Имена служебных полей запроса.
const (
	// ParamCommand — имя поля с командой.
	ParamCommand = "command"
	// ParamToken — имя поля с токеном формы.
	ParamToken = "_token"
)

// Context — всё, что команда может сделать с запросом.
// Обработчик не обращается к хранилищам и слою отображения напрямую.
type Context struct {
	ctx     context.Context
	req     Request
	action  string
	command string
	store   scope.Store
	state   State
	outcome *Outcome
	err     error
}

// NewContext создаёт контекст для вызова команды вне диспетчера (в тестах обработчиков).
func NewContext(ctx context.Context, req Request, store scope.Store) *Context {
	return &Context{ctx: ctx, req: req, action: req.Action, command: req.Command, store: store, state: StateExecuting}
}

// Ctx возвращает context.Context запроса.
func (c *Context) Ctx() context.Context {
	return c.ctx
}

// Action возвращает имя выполняемого обработчика.
func (c *Context) Action() string {
	return c.action
}

// Command возвращает имя выполняемой команды.
func (c *Context) Command() string {
	return c.command
}

// Form возвращает поля формы запроса.
func (c *Context) Form() url.Values {
	if c.req.Form == nil {
		return url.Values{}
	}
	return c.req.Form
}

// FormValue возвращает первое значение поля формы.
func (c *Context) FormValue(key string) string {
	return c.req.Form.Get(key)
}

// GetRequestScope читает атрибут запроса.
func (c *Context) GetRequestScope(key string) (any, bool) {
	return c.store.Get(scope.Request, key)
}

// PutRequestScope записывает атрибут запроса (виден представлению при forward).
func (c *Context) PutRequestScope(key string, value any) {
	c.store.Put(scope.Request, key, value)
}

// GetSessionScope читает атрибут сессии.
func (c *Context) GetSessionScope(key string) (any, bool) {
	return c.store.Get(scope.Session, key)
}

// PutSessionScope записывает атрибут сессии.
func (c *Context) PutSessionScope(key string, value any) {
	c.store.Put(scope.Session, key, value)
}

// RemoveSessionScope удаляет атрибут сессии.
func (c *Context) RemoveSessionScope(key string) {
	c.store.Remove(scope.Session, key)
}

// MoveFlash переносит flash-сообщение из сессии в атрибуты запроса.
func (c *Context) MoveFlash() {
	scope.MoveFlash(c.store, scope.KeyFlush)
}

// SetFlash сохраняет flash-сообщение в сессии для следующей страницы.
func (c *Context) SetFlash(message string) {
	scope.SetFlash(c.store, message)
}

// Token возвращает токен формы текущей сессии.
func (c *Context) Token() string {
	return c.req.SessionID
}

// CheckToken сверяет токен формы с токеном сессии.
// Запросы без сессии токен не проходят.
func (c *Context) CheckToken() bool {
	if c.req.SessionID == "" {
		return false
	}
	got := c.FormValue(ParamToken)
	return subtle.ConstantTimeCompare([]byte(got), []byte(c.req.SessionID)) == 1
}

// Forward выбирает отрисовку представления view в текущем запросе.
// Атрибуты запроса на момент вызова передаются представлению.
func (c *Context) Forward(view string) {
	if c.outcome != nil {
		c.err = ErrOutcomeAlreadySet
		return
	}
	c.outcome = &Outcome{
		Mode:       ModeForward,
		Target:     view,
		Attributes: scope.RequestAttributes(c.store),
	}
	c.state = StateForwardIssued
}

// Redirect выбирает перенаправление на action/command с параметрами.
// Атрибуты запроса теряются; для сообщений используйте SetFlash.
func (c *Context) Redirect(action, command string, params url.Values) {
	if c.outcome != nil {
		c.err = ErrOutcomeAlreadySet
		return
	}
	c.outcome = &Outcome{
		Mode:   ModeRedirect,
		Target: BuildURL(action, command, params),
	}
	c.state = StateRedirectIssued
}

// Outcome возвращает выбранный итог (nil, если ещё не выбран).
func (c *Context) Outcome() *Outcome {
	return c.outcome
}

// BuildURL строит адрес команды: /{action}?command=...&params.
func BuildURL(action, command string, params url.Values) string {
	q := url.Values{}
	for k, v := range params {
		q[k] = append([]string(nil), v...)
	}
	if command != "" {
		q.Set(ParamCommand, command)
	}
	u := url.URL{Path: "/" + action, RawQuery: q.Encode()}
	return u.String()
}
