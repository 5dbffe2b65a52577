// http.go — граница HTTP: запрос → Dispatch → отрисовка или redirect.
// Здесь перехватываются все ошибки диспетчеризации и сбои внешних зависимостей.
package dispatch

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/goartstore/employee-module/internal/api/errors"
	"github.com/bigkaa/goartstore/employee-module/internal/scope"
)

// Представления страниц ошибок.
const (
	// ViewError — страница ошибки запроса (404/500).
	ViewError = "error/unknown"
	// ViewUnavailable — страница недоступности внешней зависимости (503).
	ViewUnavailable = "error/unavailable"
)

// Имена атрибутов страницы ошибки.
const (
	AttrStatus = "status"
)

// URLParamAction — имя параметра маршрута chi с именем action.
const URLParamAction = "action"

// Renderer — слой отображения: отрисовка представления по идентификатору.
type Renderer interface {
	Render(ctx context.Context, w io.Writer, view string, attrs map[string]any) error
}

// SessionResolver — определение сессии запроса (создаёт новую при отсутствии).
type SessionResolver interface {
	EnsureSessionID(w http.ResponseWriter, r *http.Request) (string, error)
}

// HTTPHandler — HTTP-обработчик поверх Dispatcher.
type HTTPHandler struct {
	dispatcher *Dispatcher
	sessions   *scope.SessionStore
	resolver   SessionResolver
	renderer   Renderer
	// isUnavailable — признак сбоя внешней зависимости (хранилища и т.п.)
	isUnavailable func(error) bool
	logger        *slog.Logger
}

// NewHTTPHandler создаёт HTTP-обработчик.
// isUnavailable может быть nil — тогда все сбои команд отдаются как 500.
func NewHTTPHandler(
	dispatcher *Dispatcher,
	sessions *scope.SessionStore,
	resolver SessionResolver,
	renderer Renderer,
	isUnavailable func(error) bool,
	logger *slog.Logger,
) *HTTPHandler {
	if isUnavailable == nil {
		isUnavailable = func(error) bool { return false }
	}
	return &HTTPHandler{
		dispatcher:    dispatcher,
		sessions:      sessions,
		resolver:      resolver,
		renderer:      renderer,
		isUnavailable: isUnavailable,
		logger:        logger.With(slog.String("component", "dispatch.http")),
	}
}

// ServeHTTP обрабатывает GET/POST /{action}?command=...
func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		apierrors.ValidationError(w, "Ошибка разбора формы: "+err.Error())
		return
	}

	sessionID, err := h.resolver.EnsureSessionID(w, r)
	if err != nil {
		h.logger.Error("Ошибка создания сессии",
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Ошибка создания сессии")
		return
	}

	req := Request{
		Action:    chi.URLParam(r, URLParamAction),
		Command:   r.Form.Get(ParamCommand),
		Form:      r.Form,
		SessionID: sessionID,
	}
	store := scope.New(scope.NewValues(), h.sessions.Bucket(sessionID))

	out, err := h.dispatcher.Dispatch(ctx, req, store)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	switch out.Mode {
	case ModeRedirect:
		http.Redirect(w, r, out.Target, http.StatusSeeOther)
	case ModeForward:
		h.render(w, r, forwardStatus(out.Attributes), out.Target, out.Attributes)
	}
}

// writeError превращает ошибку диспетчеризации в страницу ошибки.
func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	view := ViewError

	switch {
	case IsKind(err, UnknownOperation):
		status = http.StatusNotFound
		h.logger.Warn("Неизвестная операция",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	case h.isUnavailable(err):
		status = http.StatusServiceUnavailable
		view = ViewUnavailable
		h.logger.Error("Внешняя зависимость недоступна",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	default:
		h.logger.Error("Ошибка выполнения команды",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}

	h.render(w, r, status, view, map[string]any{AttrStatus: status})
}

// forwardStatus — код ответа forward: команда может выставить AttrStatus
// (например, страница ошибки при неверном токене формы).
func forwardStatus(attrs map[string]any) int {
	if s, ok := attrs[AttrStatus].(int); ok && s >= http.StatusBadRequest {
		return s
	}
	return http.StatusOK
}

// render отрисовывает представление в буфер и только потом пишет ответ,
// чтобы ошибка шаблона не оставляла клиенту половину страницы.
func (h *HTTPHandler) render(w http.ResponseWriter, r *http.Request, status int, view string, attrs map[string]any) {
	var buf bytes.Buffer
	if err := h.renderer.Render(r.Context(), &buf, view, attrs); err != nil {
		h.logger.Error("Ошибка рендеринга",
			slog.String("view", view),
			slog.String("error", err.Error()),
		)
		if status == http.StatusServiceUnavailable {
			apierrors.ServiceUnavailable(w, "Хранилище временно недоступно")
			return
		}
		apierrors.InternalError(w, "Ошибка рендеринга страницы")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
