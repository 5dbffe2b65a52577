// Пакет views — представления UI на templ-компонентах.
// Представление выбирается по идентификатору (например, "employees/index"),
// данные приходят из атрибутов запроса.
package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/a-h/templ"

	"github.com/bigkaa/goartstore/employee-module/internal/domain/model"
)

// ErrUnknownView — запрошено представление, которого нет в реестре.
var ErrUnknownView = errors.New("неизвестное представление")

// Идентификаторы представлений.
const (
	TopIndex         = "topPage/index"
	EmployeesIndex   = "employees/index"
	EmployeesNew     = "employees/new"
	EmployeesEdit    = "employees/edit"
	EmployeesShow    = "employees/show"
	ErrorUnknown     = "error/unknown"
	ErrorUnavailable = "error/unavailable"
)

// Имена атрибутов запроса, которые читают представления.
const (
	AttrFlush     = "flush"
	AttrStatus    = "status"
	AttrToken     = "_token"
	AttrEmployee  = "employee"
	AttrEmployees = "employees"
	AttrTotal     = "totalCount"
	AttrPage      = "page"
	AttrPageCount = "pageCount"
	AttrErrors    = "errors"
)

// Attrs — атрибуты запроса с типизированным доступом.
type Attrs map[string]any

// String возвращает строковый атрибут ("" если нет или другой тип).
func (a Attrs) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// Int возвращает целочисленный атрибут.
func (a Attrs) Int(key string) int {
	switch v := a[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

// Employee возвращает редактируемую/просматриваемую запись.
func (a Attrs) Employee() *model.EmployeeView {
	if ev, ok := a[AttrEmployee].(*model.EmployeeView); ok && ev != nil {
		return ev
	}
	return &model.EmployeeView{}
}

// Employees возвращает список записей для страницы списка.
func (a Attrs) Employees() []*model.EmployeeView {
	list, _ := a[AttrEmployees].([]*model.EmployeeView)
	return list
}

// Errors возвращает сообщения об ошибках ввода.
func (a Attrs) Errors() []string {
	msgs, _ := a[AttrErrors].([]string)
	return msgs
}

// page — построитель тела страницы.
type page func(Attrs) templ.Component

// Renderer отрисовывает представления в общем макете.
// Реализует dispatch.Renderer.
type Renderer struct {
	pages map[string]page
}

// NewRenderer создаёт Renderer со всеми представлениями приложения.
func NewRenderer() *Renderer {
	return &Renderer{
		pages: map[string]page{
			TopIndex:         TopPage,
			EmployeesIndex:   EmployeeList,
			EmployeesNew:     EmployeeNew,
			EmployeesEdit:    EmployeeEdit,
			EmployeesShow:    EmployeeShow,
			ErrorUnknown:     ErrorPage,
			ErrorUnavailable: UnavailablePage,
		},
	}
}

// Render отрисовывает представление view с атрибутами attrs.
func (r *Renderer) Render(ctx context.Context, w io.Writer, view string, attrs map[string]any) error {
	build, ok := r.pages[view]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownView, view)
	}
	a := Attrs(attrs)
	return Layout(a, build(a)).Render(ctx, w)
}

// Views возвращает отсортированный список идентификаторов представлений.
func (r *Renderer) Views() []string {
	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
