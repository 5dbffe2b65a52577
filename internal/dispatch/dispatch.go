// Пакет dispatch — выбор и выполнение операции обработчика по имени команды.
// Каждый запрос выполняет ровно одну команду ровно одного обработчика и
// заканчивается ровно одним решением: forward (отрисовать представление в том же
// запросе) или redirect (новый цикл запроса, атрибуты запроса теряются).
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/goartstore/employee-module/internal/scope"
)

// dispatchTotal — количество обработанных запросов по action/command/результату.
var dispatchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "em_dispatch_total",
		Help: "Количество запросов, прошедших через диспетчер команд",
	},
	[]string{"action", "command", "outcome"},
)

// Mode — способ передачи управления слою отображения.
type Mode int

const (
	// ModeForward — отрисовка представления в текущем запросе.
	ModeForward Mode = iota + 1
	// ModeRedirect — новый цикл запроса; атрибуты запроса не переносятся.
	ModeRedirect
)

func (m Mode) String() string {
	switch m {
	case ModeForward:
		return "forward"
	case ModeRedirect:
		return "redirect"
	default:
		return "none"
	}
}

// State — состояние обработки запроса.
// Received → Resolved → Executing → {ForwardIssued | RedirectIssued | Failed}.
type State int

const (
	StateReceived State = iota
	StateResolved
	StateExecuting
	StateForwardIssued
	StateRedirectIssued
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StateResolved:
		return "resolved"
	case StateExecuting:
		return "executing"
	case StateForwardIssued:
		return "forward_issued"
	case StateRedirectIssued:
		return "redirect_issued"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CommandFunc — операция обработчика без аргументов, кроме контекста диспетчера.
type CommandFunc func(c *Context) error

// Commands — таблица команд обработчика: имя команды → операция.
type Commands map[string]CommandFunc

// Handler — обработчик одной функциональной области (action).
// Таблица команд строится один раз в конструкторе обработчика.
type Handler interface {
	// Name — имя action, по которому маршрутизируются запросы.
	Name() string
	// Commands — таблица доступных команд.
	Commands() Commands
	// DefaultCommand — команда, выполняемая при отсутствии имени команды.
	DefaultCommand() string
}

// Request — входящий запрос в терминах диспетчера.
type Request struct {
	// Action — имя обработчика (пустое — обработчик по умолчанию)
	Action string
	// Command — имя команды (пустое — команда по умолчанию)
	Command string
	// Form — поля формы и query string
	Form url.Values
	// SessionID — идентификатор сессии (используется как токен формы)
	SessionID string
}

// Outcome — итог выполнения команды.
type Outcome struct {
	// Mode — forward или redirect
	Mode Mode
	// Target — идентификатор представления (forward) или URL (redirect)
	Target string
	// Attributes — атрибуты запроса для отрисовки (только forward)
	Attributes map[string]any
	// State — конечное состояние обработки
	State State
	// Action, Command — фактически выполненная команда
	Action  string
	Command string
}

// ErrorKind — вид ошибки диспетчеризации.
type ErrorKind int

const (
	// UnknownOperation — обработчик или команда не найдены.
	UnknownOperation ErrorKind = iota + 1
	// HandlerFailure — команда завершилась ошибкой.
	HandlerFailure
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownOperation:
		return "UnknownOperation"
	case HandlerFailure:
		return "HandlerFailure"
	default:
		return "Unknown"
	}
}

// Error — ошибка диспетчеризации. Перехватывается на границе HTTP
// и превращается в страницу ошибки.
type Error struct {
	Kind    ErrorKind
	Action  string
	Command string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dispatch %s/%s: %s: %v", e.Action, e.Command, e.Kind, e.Err)
	}
	return fmt.Sprintf("dispatch %s/%s: %s", e.Action, e.Command, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind сообщает, является ли err ошибкой диспетчеризации вида kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}

// Ошибки контракта forward/redirect.
var (
	// ErrNoOutcome — команда завершилась, не выбрав forward или redirect.
	ErrNoOutcome = errors.New("команда не выбрала forward или redirect")
	// ErrOutcomeAlreadySet — повторный выбор forward/redirect в одном запросе.
	ErrOutcomeAlreadySet = errors.New("forward/redirect уже выбран")
	// ErrPanic — паника внутри команды.
	ErrPanic = errors.New("паника в обработчике")
)

// registered — обработчик с кэшированной таблицей команд.
type registered struct {
	handler  Handler
	commands Commands
}

// Dispatcher — реестр обработчиков и выполнение команд.
type Dispatcher struct {
	handlers      map[string]registered
	defaultAction string
	logger        *slog.Logger
}

// New создаёт диспетчер. defaultAction — обработчик для запросов без action.
func New(defaultAction string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers:      make(map[string]registered),
		defaultAction: defaultAction,
		logger:        logger.With(slog.String("component", "dispatcher")),
	}
}

// Register добавляет обработчик. Повторная регистрация имени заменяет обработчик.
// Регистрация выполняется при старте, до обслуживания запросов.
func (d *Dispatcher) Register(h Handler) {
	cmds := make(Commands, len(h.Commands()))
	for name, fn := range h.Commands() {
		cmds[name] = fn
	}
	d.handlers[h.Name()] = registered{handler: h, commands: cmds}

	d.logger.Debug("Обработчик зарегистрирован",
		slog.String("action", h.Name()),
		slog.Any("commands", commandNames(cmds)),
	)
}

// Dispatch выполняет одну команду одного обработчика.
// store — области видимости текущего запроса.
// Ошибки всегда имеют тип *Error; паника команды превращается в HandlerFailure.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request, store scope.Store) (out *Outcome, err error) {
	// Received
	action := req.Action
	if action == "" {
		action = d.defaultAction
	}

	reg, ok := d.handlers[action]
	if !ok {
		dispatchTotal.WithLabelValues("unknown", "unknown", UnknownOperation.String()).Inc()
		return nil, &Error{Kind: UnknownOperation, Action: action, Command: req.Command}
	}

	command := req.Command
	if command == "" {
		command = reg.handler.DefaultCommand()
	}

	fn, ok := reg.commands[command]
	if !ok {
		dispatchTotal.WithLabelValues(action, "unknown", UnknownOperation.String()).Inc()
		return nil, &Error{Kind: UnknownOperation, Action: action, Command: command}
	}

	// Resolved → Executing
	c := &Context{
		ctx:     ctx,
		req:     req,
		action:  action,
		command: command,
		store:   store,
		state:   StateResolved,
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Паника в обработчике",
				slog.String("action", action),
				slog.String("command", command),
				slog.Any("panic", r),
			)
			out = nil
			err = &Error{Kind: HandlerFailure, Action: action, Command: command, Err: fmt.Errorf("%w: %v", ErrPanic, r)}
		}
		label := "ok"
		if err != nil {
			label = HandlerFailure.String()
		}
		dispatchTotal.WithLabelValues(action, command, label).Inc()
	}()

	c.state = StateExecuting
	if runErr := fn(c); runErr != nil {
		c.state = StateFailed
		return nil, &Error{Kind: HandlerFailure, Action: action, Command: command, Err: runErr}
	}

	if c.outcome == nil {
		c.state = StateFailed
		return nil, &Error{Kind: HandlerFailure, Action: action, Command: command, Err: ErrNoOutcome}
	}
	if c.err != nil {
		c.state = StateFailed
		return nil, &Error{Kind: HandlerFailure, Action: action, Command: command, Err: c.err}
	}

	c.outcome.State = c.state
	c.outcome.Action = action
	c.outcome.Command = command
	return c.outcome, nil
}

// Actions возвращает имена зарегистрированных обработчиков (отсортированные).
func (d *Dispatcher) Actions() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func commandNames(cmds Commands) []string {
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
