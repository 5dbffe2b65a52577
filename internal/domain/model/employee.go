// Пакет model — доменные модели Employee Module.
package model

import (
	"net/url"
	"strconv"
	"time"
)

// Имена полей формы сотрудника.
const (
	FieldID        = "id"
	FieldCode      = "code"
	FieldName      = "name"
	FieldPassword  = "password"
	FieldAdminFlag = "admin_flag"
)

// EmployeeView — представление сотрудника, передаваемое между обработчиком,
// валидацией и слоем отображения. Поведения не содержит.
//
// После BindEmployee/ApplyForm значение считается неизменяемым:
// валидация и шаблоны только читают его.
type EmployeeView struct {
	// ID — идентификатор записи (nil для ещё не сохранённого сотрудника)
	ID *int64
	// Code — табельный номер, уникален среди всех сотрудников
	Code string
	// Name — ФИО
	Name string
	// Password — пароль в открытом виде из формы (пустая строка — не задан)
	Password string
	// AdminFlag — есть ли права администратора
	AdminFlag bool
	// CreatedAt — время регистрации
	CreatedAt time.Time
	// UpdatedAt — время последнего изменения
	UpdatedAt time.Time
	// DeleteFlag — сотрудник удалён (логическое удаление)
	DeleteFlag bool
}

// IsPersisted сообщает, сохранён ли сотрудник в БД.
func (e *EmployeeView) IsPersisted() bool {
	return e.ID != nil
}

// BindEmployee создаёт EmployeeView из полей формы.
// ID из формы не читается: идентичность назначает только хранилище.
func BindEmployee(form url.Values) *EmployeeView {
	ev := &EmployeeView{}
	ev.ApplyForm(form)
	return ev
}

// ApplyForm переносит редактируемые поля формы на существующее представление.
// ID, CreatedAt и DeleteFlag не меняются.
func (e *EmployeeView) ApplyForm(form url.Values) {
	e.Code = form.Get(FieldCode)
	e.Name = form.Get(FieldName)
	e.Password = form.Get(FieldPassword)
	e.AdminFlag = parseFlag(form.Get(FieldAdminFlag))
}

// ParseID разбирает идентификатор сотрудника из строки запроса.
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseFlag — чекбоксы и select формы: "1", "true", "on".
func parseFlag(v string) bool {
	switch v {
	case "1", "true", "on":
		return true
	default:
		return false
	}
}
