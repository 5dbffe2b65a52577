package views

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/bigkaa/goartstore/employee-module/internal/domain/model"
	"github.com/bigkaa/goartstore/employee-module/internal/ui/i18n"
)

const timeLayout = "2006-01-02 15:04"

// employeeURL — адрес команды обработчика employee.
func employeeURL(command string, id *int64) string {
	q := url.Values{}
	q.Set("command", command)
	if id != nil {
		q.Set(model.FieldID, strconv.FormatInt(*id, 10))
	}
	return "/employee?" + q.Encode()
}

// roleKey возвращает ключ текста роли.
func roleKey(admin bool) string {
	if admin {
		return "employee.role.admin"
	}
	return "employee.role.general"
}

// EmployeeList — список сотрудников с постраничной навигацией.
func EmployeeList(a Attrs) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		list := a.Employees()

		h.raw(`<h1>`)
		h.text(i18n.T(ctx, "employee.list.heading"))
		h.raw(`</h1><p class="total">`)
		h.text(i18n.Tf(ctx, "pagination.total", a.Int(AttrTotal)))
		h.raw(`</p>`)

		if len(list) == 0 {
			h.raw(`<p>`)
			h.text(i18n.T(ctx, "employee.list.empty"))
			h.raw(`</p>`)
		} else {
			h.raw(`<table><thead><tr><th>`)
			h.text(i18n.T(ctx, "employee.field.code"))
			h.raw(`</th><th>`)
			h.text(i18n.T(ctx, "employee.field.name"))
			h.raw(`</th><th>`)
			h.text(i18n.T(ctx, "employee.field.admin_flag"))
			h.raw(`</th><th></th></tr></thead><tbody>`)
			for _, ev := range list {
				h.raw(`<tr><td>`)
				h.text(ev.Code)
				h.raw(`</td><td>`)
				h.text(ev.Name)
				if ev.DeleteFlag {
					h.raw(` <span class="deleted">(`)
					h.text(i18n.T(ctx, "employee.status.deleted"))
					h.raw(`)</span>`)
				}
				h.raw(`</td><td>`)
				h.text(i18n.T(ctx, roleKey(ev.AdminFlag)))
				h.raw(`</td><td><a href="`)
				h.text(employeeURL("show", ev.ID))
				h.raw(`">`)
				h.text(i18n.T(ctx, "employee.action.show"))
				h.raw(`</a></td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}

		if pages := a.Int(AttrPageCount); pages > 1 {
			current := a.Int(AttrPage)
			h.raw(`<nav class="pagination">`)
			for p := 1; p <= pages; p++ {
				if p == current {
					h.raw(`<span>`)
					h.text(strconv.Itoa(p))
					h.raw(`</span> `)
					continue
				}
				h.raw(`<a href="/employee?command=index&amp;page=`)
				h.text(strconv.Itoa(p))
				h.raw(`">`)
				h.text(strconv.Itoa(p))
				h.raw(`</a> `)
			}
			h.raw(`</nav>`)
		}

		h.raw(`<p><a href="`)
		h.text(employeeURL("entryNew", nil))
		h.raw(`">`)
		h.text(i18n.T(ctx, "employee.list.new"))
		h.raw(`</a></p>`)
		return h.err
	})
}

// EmployeeNew — форма регистрации сотрудника.
func EmployeeNew(a Attrs) templ.Component {
	return employeeForm(a, "employee.new.heading", "create")
}

// EmployeeEdit — форма изменения сотрудника.
func EmployeeEdit(a Attrs) templ.Component {
	return employeeForm(a, "employee.edit.heading", "update")
}

func employeeForm(a Attrs, headingKey, command string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		ev := a.Employee()

		h.raw(`<h1>`)
		h.text(i18n.T(ctx, headingKey))
		h.raw(`</h1><form method="post" action="/employee">`)
		hidden(h, "command", command)
		hidden(h, AttrToken, a.String(AttrToken))
		if ev.ID != nil {
			hidden(h, model.FieldID, strconv.FormatInt(*ev.ID, 10))
		}

		h.raw(`<label>`)
		h.text(i18n.T(ctx, "employee.field.code"))
		h.raw(`<input type="text" name="`)
		h.text(model.FieldCode)
		h.raw(`" value="`)
		h.text(ev.Code)
		h.raw(`"></label>`)

		h.raw(`<label>`)
		h.text(i18n.T(ctx, "employee.field.name"))
		h.raw(`<input type="text" name="`)
		h.text(model.FieldName)
		h.raw(`" value="`)
		h.text(ev.Name)
		h.raw(`"></label>`)

		h.raw(`<label>`)
		h.text(i18n.T(ctx, "employee.field.password"))
		h.raw(`<input type="password" name="`)
		h.text(model.FieldPassword)
		h.raw(`" value=""></label>`)
		if ev.IsPersisted() {
			h.raw(`<small>`)
			h.text(i18n.T(ctx, "employee.field.password_hint"))
			h.raw(`</small>`)
		}

		h.raw(`<label>`)
		h.text(i18n.T(ctx, "employee.field.admin_flag"))
		h.raw(`<select name="`)
		h.text(model.FieldAdminFlag)
		h.raw(`">`)
		option(h, "0", i18n.T(ctx, "employee.role.general"), !ev.AdminFlag)
		option(h, "1", i18n.T(ctx, "employee.role.admin"), ev.AdminFlag)
		h.raw(`</select></label>`)

		h.raw(`<button type="submit">`)
		h.text(i18n.T(ctx, "employee.action.save"))
		h.raw(`</button></form>`)
		backLink(ctx, h)
		return h.err
	})
}

// EmployeeShow — карточка сотрудника с кнопками изменения и удаления.
func EmployeeShow(a Attrs) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		ev := a.Employee()

		h.raw(`<h1>`)
		h.text(i18n.T(ctx, "employee.show.heading"))
		h.raw(`</h1><dl>`)
		field(ctx, h, "employee.field.code", ev.Code)
		field(ctx, h, "employee.field.name", ev.Name)
		field(ctx, h, "employee.field.admin_flag", i18n.T(ctx, roleKey(ev.AdminFlag)))
		field(ctx, h, "employee.field.created_at", formatTime(ev.CreatedAt))
		field(ctx, h, "employee.field.updated_at", formatTime(ev.UpdatedAt))
		h.raw(`</dl>`)

		if ev.DeleteFlag {
			h.raw(`<p class="deleted">`)
			h.text(i18n.T(ctx, "employee.status.deleted"))
			h.raw(`</p>`)
		} else {
			h.raw(`<p><a href="`)
			h.text(employeeURL("edit", ev.ID))
			h.raw(`">`)
			h.text(i18n.T(ctx, "employee.action.edit"))
			h.raw(`</a></p><form method="post" action="/employee">`)
			hidden(h, "command", "destroy")
			hidden(h, AttrToken, a.String(AttrToken))
			if ev.ID != nil {
				hidden(h, model.FieldID, strconv.FormatInt(*ev.ID, 10))
			}
			h.raw(`<button type="submit">`)
			h.text(i18n.T(ctx, "employee.action.destroy"))
			h.raw(`</button></form>`)
		}
		backLink(ctx, h)
		return h.err
	})
}

func hidden(h *html, name, value string) {
	h.raw(`<input type="hidden" name="`)
	h.text(name)
	h.raw(`" value="`)
	h.text(value)
	h.raw(`">`)
}

func option(h *html, value, label string, selected bool) {
	h.raw(`<option value="`)
	h.text(value)
	h.raw(`"`)
	if selected {
		h.raw(` selected`)
	}
	h.raw(`>`)
	h.text(label)
	h.raw(`</option>`)
}

func field(ctx context.Context, h *html, labelKey, value string) {
	h.raw(`<dt>`)
	h.text(i18n.T(ctx, labelKey))
	h.raw(`</dt><dd>`)
	h.text(value)
	h.raw(`</dd>`)
}

func backLink(ctx context.Context, h *html) {
	h.raw(`<p><a href="/employee">`)
	h.text(i18n.T(ctx, "employee.action.back"))
	h.raw(`</a></p>`)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}
