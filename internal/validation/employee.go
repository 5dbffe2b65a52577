// Пакет validation — проверка значений EmployeeView перед сохранением.
// Все применимые правила выполняются всегда, ошибки собираются в
// фиксированном порядке: табельный номер, ФИО, пароль.
package validation

import (
	"context"
	"fmt"

	"github.com/bigkaa/goartstore/employee-module/internal/domain/model"
)

// Kind — вид ошибки валидации.
type Kind int

const (
	// MissingCode — табельный номер не введён.
	MissingCode Kind = iota + 1
	// DuplicateCode — табельный номер уже занят другим сотрудником.
	DuplicateCode
	// MissingName — ФИО не введено.
	MissingName
	// MissingSecret — пароль не введён (обязателен при регистрации).
	MissingSecret
)

// String возвращает имя вида ошибки.
func (k Kind) String() string {
	switch k {
	case MissingCode:
		return "MissingCode"
	case DuplicateCode:
		return "DuplicateCode"
	case MissingName:
		return "MissingName"
	case MissingSecret:
		return "MissingSecret"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MessageKey возвращает ключ i18n-каталога для вида ошибки.
func (k Kind) MessageKey() string {
	switch k {
	case MissingCode:
		return "error.no_code"
	case DuplicateCode:
		return "error.code_exists"
	case MissingName:
		return "error.no_name"
	case MissingSecret:
		return "error.no_password"
	default:
		return "error.unknown"
	}
}

// Errors — упорядоченный список ошибок валидации. Пустой — проверка пройдена.
type Errors []Kind

// MessageResolver — источник локализованных текстов ошибок.
type MessageResolver interface {
	Resolve(key string) string
}

// ResolverFunc — адаптер функции к MessageResolver.
type ResolverFunc func(key string) string

// Resolve вызывает f(key).
func (f ResolverFunc) Resolve(key string) string {
	return f(key)
}

// Messages возвращает тексты ошибок в исходном порядке.
func (e Errors) Messages(r MessageResolver) []string {
	out := make([]string, 0, len(e))
	for _, k := range e {
		out = append(out, r.Resolve(k.MessageKey()))
	}
	return out
}

// Has сообщает, есть ли в списке ошибка указанного вида.
func (e Errors) Has(k Kind) bool {
	for _, v := range e {
		if v == k {
			return true
		}
	}
	return false
}

// CodeCounter — хранилище, умеющее считать сотрудников с данным табельным номером.
// excludeID (если не nil) исключается из подсчёта: редактируемая запись
// не считается дубликатом самой себя.
// Отсутствие совпадений — 0, а не ошибка.
type CodeCounter interface {
	CountByCode(ctx context.Context, code string, excludeID *int64) (int64, error)
}

// CollaboratorError — хранилище не смогло ответить на запрос проверки дубликата.
// Это не ошибка ввода: вызывающая сторона должна показать страницу сбоя.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("validation: %s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// Options — переключатели проверок, выставляемые вызывающей стороной.
type Options struct {
	// CheckUniqueCode — запрашивать хранилище о занятости табельного номера.
	CheckUniqueCode bool
	// RequireSecret — пароль обязателен (регистрация; при редактировании — нет).
	RequireSecret bool
}

// Validate проверяет ev и возвращает все найденные ошибки в фиксированном порядке.
// Ошибка хранилища прерывает проверку и возвращается как *CollaboratorError.
// counter вызывается не более одного раза и только при CheckUniqueCode.
func Validate(ctx context.Context, counter CodeCounter, ev *model.EmployeeView, opts Options) (Errors, error) {
	errs := Errors{}

	kind, err := validateCode(ctx, counter, ev, opts.CheckUniqueCode)
	if err != nil {
		return nil, err
	}
	if kind != 0 {
		errs = append(errs, kind)
	}

	if kind := validateName(ev.Name); kind != 0 {
		errs = append(errs, kind)
	}

	if kind := validatePassword(ev.Password, opts.RequireSecret); kind != 0 {
		errs = append(errs, kind)
	}

	return errs, nil
}

// validateCode — табельный номер обязателен и, при checkUnique, не должен быть занят.
func validateCode(ctx context.Context, counter CodeCounter, ev *model.EmployeeView, checkUnique bool) (Kind, error) {
	if ev.Code == "" {
		return MissingCode, nil
	}

	if !checkUnique {
		return 0, nil
	}

	count, err := counter.CountByCode(ctx, ev.Code, ev.ID)
	if err != nil {
		return 0, &CollaboratorError{Op: "count by code", Err: err}
	}
	if count > 0 {
		return DuplicateCode, nil
	}
	return 0, nil
}

func validateName(name string) Kind {
	if name == "" {
		return MissingName
	}
	return 0
}

func validatePassword(password string, required bool) Kind {
	if required && password == "" {
		return MissingSecret
	}
	return 0
}
