package actions

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/bigkaa/goartstore/employee-module/internal/dispatch"
	"github.com/bigkaa/goartstore/employee-module/internal/domain/model"
	"github.com/bigkaa/goartstore/employee-module/internal/service"
	"github.com/bigkaa/goartstore/employee-module/internal/ui/i18n"
	"github.com/bigkaa/goartstore/employee-module/internal/ui/views"
	"github.com/bigkaa/goartstore/employee-module/internal/validation"
)

// Команды обработчика сотрудников.
const (
	CommandEntryNew = "entryNew"
	CommandCreate   = "create"
	CommandShow     = "show"
	CommandEdit     = "edit"
	CommandUpdate   = "update"
	CommandDestroy  = "destroy"
)

// ParamPage — номер страницы списка.
const ParamPage = "page"

// Ключи flash-сообщений.
const (
	FlashRegistered = "flash.registered"
	FlashUpdated    = "flash.updated"
	FlashDeleted    = "flash.deleted"
)

// EmployeeService — операции над сотрудниками, нужные обработчику.
type EmployeeService interface {
	Create(ctx context.Context, ev *model.EmployeeView) (validation.Errors, error)
	Update(ctx context.Context, ev *model.EmployeeView) (validation.Errors, error)
	Get(ctx context.Context, id int64) (*model.EmployeeView, error)
	List(ctx context.Context, page int) (*service.EmployeePage, error)
	Destroy(ctx context.Context, id int64) error
}

// EmployeeAction — регистрация, просмотр, изменение и удаление сотрудников.
type EmployeeAction struct {
	svc      EmployeeService
	commands dispatch.Commands
}

// NewEmployeeAction создаёт обработчик сотрудников.
func NewEmployeeAction(svc EmployeeService) *EmployeeAction {
	a := &EmployeeAction{svc: svc}
	a.commands = dispatch.Commands{
		CommandIndex:    a.index,
		CommandEntryNew: a.entryNew,
		CommandCreate:   a.create,
		CommandShow:     a.show,
		CommandEdit:     a.edit,
		CommandUpdate:   a.update,
		CommandDestroy:  a.destroy,
	}
	return a
}

// Name возвращает имя action.
func (a *EmployeeAction) Name() string { return ActionEmployee }

// DefaultCommand возвращает команду по умолчанию.
func (a *EmployeeAction) DefaultCommand() string { return CommandIndex }

// Commands возвращает таблицу команд.
func (a *EmployeeAction) Commands() dispatch.Commands { return a.commands }

// index — список сотрудников постранично.
func (a *EmployeeAction) index(c *dispatch.Context) error {
	c.MoveFlash()

	page, err := strconv.Atoi(c.FormValue(ParamPage))
	if err != nil {
		page = 1
	}

	p, err := a.svc.List(c.Ctx(), page)
	if err != nil {
		return err
	}

	c.PutRequestScope(views.AttrEmployees, p.Items)
	c.PutRequestScope(views.AttrTotal, p.Total)
	c.PutRequestScope(views.AttrPage, p.Page)
	c.PutRequestScope(views.AttrPageCount, p.PageCount)
	c.Forward(views.EmployeesIndex)
	return nil
}

// entryNew — пустая форма регистрации.
func (a *EmployeeAction) entryNew(c *dispatch.Context) error {
	a.forwardForm(c, views.EmployeesNew, &model.EmployeeView{}, nil)
	return nil
}

// create — регистрация сотрудника из формы.
func (a *EmployeeAction) create(c *dispatch.Context) error {
	if !c.CheckToken() {
		rejectRequest(c, http.StatusBadRequest)
		return nil
	}

	ev := model.BindEmployee(c.Form())
	errs, err := a.svc.Create(c.Ctx(), ev)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		a.forwardForm(c, views.EmployeesNew, ev, errs)
		return nil
	}

	c.SetFlash(FlashRegistered)
	c.Redirect(ActionEmployee, CommandIndex, nil)
	return nil
}

// show — карточка сотрудника (в том числе удалённого).
func (a *EmployeeAction) show(c *dispatch.Context) error {
	ev, ok, err := a.load(c)
	if err != nil || !ok {
		return err
	}

	c.PutRequestScope(views.AttrEmployee, ev)
	c.PutRequestScope(views.AttrToken, c.Token())
	c.Forward(views.EmployeesShow)
	return nil
}

// edit — форма изменения. Удалённого сотрудника изменить нельзя.
func (a *EmployeeAction) edit(c *dispatch.Context) error {
	ev, ok, err := a.load(c)
	if err != nil || !ok {
		return err
	}
	if ev.DeleteFlag {
		rejectRequest(c, http.StatusNotFound)
		return nil
	}

	a.forwardForm(c, views.EmployeesEdit, ev, nil)
	return nil
}

// update — сохранение формы изменения.
func (a *EmployeeAction) update(c *dispatch.Context) error {
	if !c.CheckToken() {
		rejectRequest(c, http.StatusBadRequest)
		return nil
	}

	id, ok := model.ParseID(c.FormValue(model.FieldID))
	if !ok {
		rejectRequest(c, http.StatusNotFound)
		return nil
	}

	ev := &model.EmployeeView{ID: &id}
	ev.ApplyForm(c.Form())

	errs, err := a.svc.Update(c.Ctx(), ev)
	switch {
	case errors.Is(err, service.ErrNotFound):
		rejectRequest(c, http.StatusNotFound)
		return nil
	case err != nil:
		return err
	}
	if len(errs) > 0 {
		a.forwardForm(c, views.EmployeesEdit, ev, errs)
		return nil
	}

	c.SetFlash(FlashUpdated)
	c.Redirect(ActionEmployee, CommandIndex, nil)
	return nil
}

// destroy — логическое удаление.
func (a *EmployeeAction) destroy(c *dispatch.Context) error {
	if !c.CheckToken() {
		rejectRequest(c, http.StatusBadRequest)
		return nil
	}

	id, ok := model.ParseID(c.FormValue(model.FieldID))
	if !ok {
		rejectRequest(c, http.StatusNotFound)
		return nil
	}

	err := a.svc.Destroy(c.Ctx(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		rejectRequest(c, http.StatusNotFound)
		return nil
	case err != nil:
		return err
	}

	c.SetFlash(FlashDeleted)
	c.Redirect(ActionEmployee, CommandIndex, nil)
	return nil
}

// load читает сотрудника по параметру id.
// ok=false — итог уже выбран (страница ошибки), команде остаётся вернуть nil.
func (a *EmployeeAction) load(c *dispatch.Context) (*model.EmployeeView, bool, error) {
	id, ok := model.ParseID(c.FormValue(model.FieldID))
	if !ok {
		rejectRequest(c, http.StatusNotFound)
		return nil, false, nil
	}

	ev, err := a.svc.Get(c.Ctx(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		rejectRequest(c, http.StatusNotFound)
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return ev, true, nil
}

// forwardForm отрисовывает форму сотрудника с токеном и сообщениями об ошибках.
func (a *EmployeeAction) forwardForm(c *dispatch.Context, view string, ev *model.EmployeeView, errs validation.Errors) {
	ev.Password = ""
	c.PutRequestScope(views.AttrEmployee, ev)
	c.PutRequestScope(views.AttrToken, c.Token())
	if len(errs) > 0 {
		c.PutRequestScope(views.AttrErrors, errs.Messages(i18n.FromContext(c.Ctx())))
	}
	c.Forward(view)
}

// rejectRequest — страница ошибки без изменения данных.
func rejectRequest(c *dispatch.Context, status int) {
	c.PutRequestScope(views.AttrStatus, status)
	c.Forward(views.ErrorUnknown)
}
