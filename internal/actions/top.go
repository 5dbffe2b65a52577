// Пакет actions — обработчики команд (action) Employee Module.
// Каждый обработчик строит таблицу команд один раз в конструкторе
// и регистрируется в dispatch.Dispatcher.
package actions

import (
	"github.com/bigkaa/goartstore/employee-module/internal/dispatch"
	"github.com/bigkaa/goartstore/employee-module/internal/ui/views"
)

// Имена action.
const (
	ActionTop      = "top"
	ActionEmployee = "employee"
)

// CommandIndex — команда по умолчанию у всех обработчиков.
const CommandIndex = "index"

// TopAction — стартовая страница.
type TopAction struct {
	commands dispatch.Commands
}

// NewTopAction создаёт обработчик стартовой страницы.
func NewTopAction() *TopAction {
	a := &TopAction{}
	a.commands = dispatch.Commands{
		CommandIndex: a.index,
	}
	return a
}

// Name возвращает имя action.
func (a *TopAction) Name() string { return ActionTop }

// DefaultCommand возвращает команду по умолчанию.
func (a *TopAction) DefaultCommand() string { return CommandIndex }

// Commands возвращает таблицу команд.
func (a *TopAction) Commands() dispatch.Commands { return a.commands }

// index — flash переносится в атрибуты запроса, затем отрисовка стартовой страницы.
func (a *TopAction) index(c *dispatch.Context) error {
	c.MoveFlash()
	c.Forward(views.TopIndex)
	return nil
}
