package actions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigkaa/goartstore/employee-module/internal/dispatch"
	"github.com/bigkaa/goartstore/employee-module/internal/domain/model"
	"github.com/bigkaa/goartstore/employee-module/internal/scope"
	"github.com/bigkaa/goartstore/employee-module/internal/service"
	"github.com/bigkaa/goartstore/employee-module/internal/ui/views"
	"github.com/bigkaa/goartstore/employee-module/internal/validation"
)

const testSession = "sid-1"

// fakeService — EmployeeService в памяти с записью вызовов.
type fakeService struct {
	employees map[int64]*model.EmployeeView
	nextID    int64
	errs      validation.Errors
	fail      error
	calls     []string
	lastPage  int
}

func newFakeService() *fakeService {
	return &fakeService{employees: make(map[int64]*model.EmployeeView), nextID: 1}
}

func (f *fakeService) add(code string, deleted bool) int64 {
	id := f.nextID
	f.nextID++
	f.employees[id] = &model.EmployeeView{ID: &id, Code: code, Name: "Name " + code, DeleteFlag: deleted}
	return id
}

func (f *fakeService) Create(_ context.Context, ev *model.EmployeeView) (validation.Errors, error) {
	f.calls = append(f.calls, "create")
	if f.fail != nil || len(f.errs) > 0 {
		return f.errs, f.fail
	}
	id := f.add(ev.Code, false)
	ev.ID = &id
	return nil, nil
}

func (f *fakeService) Update(_ context.Context, ev *model.EmployeeView) (validation.Errors, error) {
	f.calls = append(f.calls, "update")
	if f.fail != nil || len(f.errs) > 0 {
		return f.errs, f.fail
	}
	stored, ok := f.employees[*ev.ID]
	if !ok || stored.DeleteFlag {
		return nil, service.ErrNotFound
	}
	stored.Code, stored.Name = ev.Code, ev.Name
	return nil, nil
}

func (f *fakeService) Get(_ context.Context, id int64) (*model.EmployeeView, error) {
	f.calls = append(f.calls, "get")
	if f.fail != nil {
		return nil, f.fail
	}
	e, ok := f.employees[id]
	if !ok {
		return nil, fmt.Errorf("сотрудник %d: %w", id, service.ErrNotFound)
	}
	cp := *e
	return &cp, nil
}

func (f *fakeService) List(_ context.Context, page int) (*service.EmployeePage, error) {
	f.calls = append(f.calls, "list")
	f.lastPage = page
	if f.fail != nil {
		return nil, f.fail
	}
	items := make([]*model.EmployeeView, 0, len(f.employees))
	for _, e := range f.employees {
		items = append(items, e)
	}
	return &service.EmployeePage{Items: items, Total: int64(len(items)), Page: 1, PageCount: 1}, nil
}

func (f *fakeService) Destroy(_ context.Context, id int64) error {
	f.calls = append(f.calls, "destroy")
	if f.fail != nil {
		return f.fail
	}
	e, ok := f.employees[id]
	if !ok || e.DeleteFlag {
		return service.ErrNotFound
	}
	e.DeleteFlag = true
	return nil
}

// harness — диспетчер с зарегистрированными обработчиками и одной сессией.
type harness struct {
	t        *testing.T
	svc      *fakeService
	d        *dispatch.Dispatcher
	sessions *scope.SessionStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	svc := newFakeService()
	d := dispatch.New(ActionTop, slog.New(slog.NewTextHandler(io.Discard, nil)))
	d.Register(NewTopAction())
	d.Register(NewEmployeeAction(svc))
	return &harness{t: t, svc: svc, d: d, sessions: scope.NewSessionStore(10, 0)}
}

func (h *harness) do(action, command string, form url.Values) (*dispatch.Outcome, error) {
	h.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	req := dispatch.Request{Action: action, Command: command, Form: form, SessionID: testSession}
	store := scope.New(scope.NewValues(), h.sessions.Bucket(testSession))
	return h.d.Dispatch(context.Background(), req, store)
}

func (h *harness) flash() (any, bool) {
	return h.sessions.Bucket(testSession).Get(scope.KeyFlush)
}

func withToken(form url.Values) url.Values {
	form.Set(dispatch.ParamToken, testSession)
	return form
}

func assertRejected(t *testing.T, out *dispatch.Outcome, status int) {
	t.Helper()
	require.NotNil(t, out)
	assert.Equal(t, dispatch.ModeForward, out.Mode)
	assert.Equal(t, views.ErrorUnknown, out.Target)
	assert.Equal(t, status, out.Attributes[views.AttrStatus])
}

func TestTopIndexShowsFlashOnce(t *testing.T) {
	h := newHarness(t)
	h.sessions.Bucket(testSession).Put(scope.KeyFlush, FlashRegistered)

	out, err := h.do(ActionTop, "", nil)
	require.NoError(t, err)
	assert.Equal(t, views.TopIndex, out.Target)
	assert.Equal(t, FlashRegistered, out.Attributes[views.AttrFlush])

	_, ok := h.flash()
	assert.False(t, ok, "flash должен быть удалён из сессии")

	out, err = h.do(ActionTop, CommandIndex, nil)
	require.NoError(t, err)
	assert.NotContains(t, out.Attributes, views.AttrFlush)
}

func TestEmployeeIndex(t *testing.T) {
	h := newHarness(t)
	h.svc.add("E001", false)

	out, err := h.do(ActionEmployee, "", url.Values{ParamPage: {"3"}})
	require.NoError(t, err)
	assert.Equal(t, views.EmployeesIndex, out.Target)
	assert.Equal(t, 3, h.svc.lastPage)
	assert.Equal(t, int64(1), out.Attributes[views.AttrTotal])
	assert.Len(t, out.Attributes[views.AttrEmployees], 1)
}

func TestEmployeeIndexBadPage(t *testing.T) {
	h := newHarness(t)

	_, err := h.do(ActionEmployee, CommandIndex, url.Values{ParamPage: {"abc"}})
	require.NoError(t, err)
	assert.Equal(t, 1, h.svc.lastPage)
}

func TestEmployeeIndexStorageFailure(t *testing.T) {
	h := newHarness(t)
	h.svc.fail = fmt.Errorf("list: %w", service.ErrStorageUnavailable)

	_, err := h.do(ActionEmployee, CommandIndex, nil)
	require.Error(t, err)
	assert.True(t, dispatch.IsKind(err, dispatch.HandlerFailure))
	assert.True(t, service.IsUnavailable(err))
}

func TestEmployeeEntryNew(t *testing.T) {
	h := newHarness(t)

	out, err := h.do(ActionEmployee, CommandEntryNew, nil)
	require.NoError(t, err)
	assert.Equal(t, views.EmployeesNew, out.Target)
	assert.Equal(t, testSession, out.Attributes[views.AttrToken])
	ev, ok := out.Attributes[views.AttrEmployee].(*model.EmployeeView)
	require.True(t, ok)
	assert.False(t, ev.IsPersisted())
}

func TestEmployeeCreate(t *testing.T) {
	h := newHarness(t)

	form := withToken(url.Values{
		model.FieldCode:     {"E100"},
		model.FieldName:     {"Taro"},
		model.FieldPassword: {"secret"},
	})
	out, err := h.do(ActionEmployee, CommandCreate, form)
	require.NoError(t, err)
	assert.Equal(t, dispatch.ModeRedirect, out.Mode)
	assert.Equal(t, "/employee?command=index", out.Target)

	flash, ok := h.flash()
	require.True(t, ok)
	assert.Equal(t, FlashRegistered, flash)
	assert.Len(t, h.svc.employees, 1)
}

func TestEmployeeCreateValidationErrors(t *testing.T) {
	h := newHarness(t)
	h.svc.errs = validation.Errors{validation.MissingCode, validation.MissingName}

	form := withToken(url.Values{model.FieldPassword: {"secret"}})
	out, err := h.do(ActionEmployee, CommandCreate, form)
	require.NoError(t, err)
	assert.Equal(t, views.EmployeesNew, out.Target)
	// Без загруженного каталога тексты совпадают с ключами
	assert.Equal(t, []string{"error.no_code", "error.no_name"}, out.Attributes[views.AttrErrors])

	ev := out.Attributes[views.AttrEmployee].(*model.EmployeeView)
	assert.Empty(t, ev.Password, "пароль не возвращается в форму")

	_, ok := h.flash()
	assert.False(t, ok)
}

func TestEmployeeMutationsRequireToken(t *testing.T) {
	for _, command := range []string{CommandCreate, CommandUpdate, CommandDestroy} {
		t.Run(command, func(t *testing.T) {
			h := newHarness(t)
			id := h.svc.add("E001", false)

			form := url.Values{
				model.FieldID:       {fmt.Sprint(id)},
				model.FieldCode:     {"E002"},
				model.FieldName:     {"Jiro"},
				dispatch.ParamToken: {"forged"},
			}
			out, err := h.do(ActionEmployee, command, form)
			require.NoError(t, err)
			assertRejected(t, out, http.StatusBadRequest)
			assert.Empty(t, h.svc.calls, "сервис не должен вызываться")
		})
	}
}

func TestEmployeeShow(t *testing.T) {
	h := newHarness(t)
	id := h.svc.add("E001", true)

	out, err := h.do(ActionEmployee, CommandShow, url.Values{model.FieldID: {fmt.Sprint(id)}})
	require.NoError(t, err)
	assert.Equal(t, views.EmployeesShow, out.Target)
	ev := out.Attributes[views.AttrEmployee].(*model.EmployeeView)
	assert.Equal(t, "E001", ev.Code)
	assert.True(t, ev.DeleteFlag)
}

func TestEmployeeShowMissing(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"нет параметра", ""},
		{"не число", "x"},
		{"отрицательный", "-1"},
		{"нет записи", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			out, err := h.do(ActionEmployee, CommandShow, url.Values{model.FieldID: {tt.id}})
			require.NoError(t, err)
			assertRejected(t, out, http.StatusNotFound)
		})
	}
}

func TestEmployeeEdit(t *testing.T) {
	h := newHarness(t)
	id := h.svc.add("E001", false)

	out, err := h.do(ActionEmployee, CommandEdit, url.Values{model.FieldID: {fmt.Sprint(id)}})
	require.NoError(t, err)
	assert.Equal(t, views.EmployeesEdit, out.Target)
	assert.Equal(t, testSession, out.Attributes[views.AttrToken])
}

func TestEmployeeEditDeleted(t *testing.T) {
	h := newHarness(t)
	id := h.svc.add("E001", true)

	out, err := h.do(ActionEmployee, CommandEdit, url.Values{model.FieldID: {fmt.Sprint(id)}})
	require.NoError(t, err)
	assertRejected(t, out, http.StatusNotFound)
}

func TestEmployeeUpdate(t *testing.T) {
	h := newHarness(t)
	id := h.svc.add("E001", false)

	form := withToken(url.Values{
		model.FieldID:   {fmt.Sprint(id)},
		model.FieldCode: {"E009"},
		model.FieldName: {"Hanako"},
	})
	out, err := h.do(ActionEmployee, CommandUpdate, form)
	require.NoError(t, err)
	assert.Equal(t, dispatch.ModeRedirect, out.Mode)
	assert.Equal(t, "E009", h.svc.employees[id].Code)

	flash, _ := h.flash()
	assert.Equal(t, FlashUpdated, flash)
}

func TestEmployeeUpdateValidationErrors(t *testing.T) {
	h := newHarness(t)
	id := h.svc.add("E001", false)
	h.svc.errs = validation.Errors{validation.DuplicateCode}

	form := withToken(url.Values{
		model.FieldID:   {fmt.Sprint(id)},
		model.FieldCode: {"E002"},
		model.FieldName: {"Hanako"},
	})
	out, err := h.do(ActionEmployee, CommandUpdate, form)
	require.NoError(t, err)
	assert.Equal(t, views.EmployeesEdit, out.Target)
	assert.Equal(t, []string{"error.code_exists"}, out.Attributes[views.AttrErrors])

	ev := out.Attributes[views.AttrEmployee].(*model.EmployeeView)
	require.True(t, ev.IsPersisted())
	assert.Equal(t, id, *ev.ID)
	assert.Equal(t, "E002", ev.Code)
}

func TestEmployeeUpdateMissing(t *testing.T) {
	h := newHarness(t)

	out, err := h.do(ActionEmployee, CommandUpdate, withToken(url.Values{model.FieldID: {"7"}}))
	require.NoError(t, err)
	assertRejected(t, out, http.StatusNotFound)
}

func TestEmployeeDestroy(t *testing.T) {
	h := newHarness(t)
	id := h.svc.add("E001", false)

	out, err := h.do(ActionEmployee, CommandDestroy, withToken(url.Values{model.FieldID: {fmt.Sprint(id)}}))
	require.NoError(t, err)
	assert.Equal(t, dispatch.ModeRedirect, out.Mode)
	assert.True(t, h.svc.employees[id].DeleteFlag)

	flash, _ := h.flash()
	assert.Equal(t, FlashDeleted, flash)

	// Повторное удаление — запись уже удалена
	out, err = h.do(ActionEmployee, CommandDestroy, withToken(url.Values{model.FieldID: {fmt.Sprint(id)}}))
	require.NoError(t, err)
	assertRejected(t, out, http.StatusNotFound)
}

func TestEmployeeDestroyStorageFailure(t *testing.T) {
	h := newHarness(t)
	id := h.svc.add("E001", false)
	h.svc.fail = errors.Join(service.ErrStorageUnavailable, errors.New("conn refused"))

	_, err := h.do(ActionEmployee, CommandDestroy, withToken(url.Values{model.FieldID: {fmt.Sprint(id)}}))
	require.Error(t, err)
	assert.True(t, service.IsUnavailable(err))
	assert.False(t, h.svc.employees[id].DeleteFlag)
}
