package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigkaa/goartstore/employee-module/internal/domain/model"
)

// stubCounter — хранилище с фиксированным ответом.
type stubCounter struct {
	count    int64
	err      error
	calls    int
	lastCode string
	lastExcl *int64
}

func (s *stubCounter) CountByCode(_ context.Context, code string, excludeID *int64) (int64, error) {
	s.calls++
	s.lastCode = code
	s.lastExcl = excludeID
	return s.count, s.err
}

func TestValidate_AllEmptyReturnsThreeErrorsInOrder(t *testing.T) {
	counter := &stubCounter{}
	ev := &model.EmployeeView{}

	errs, err := Validate(context.Background(), counter, ev, Options{CheckUniqueCode: true, RequireSecret: true})
	require.NoError(t, err)
	assert.Equal(t, Errors{MissingCode, MissingName, MissingSecret}, errs)
	assert.Zero(t, counter.calls, "пустой код не должен проверяться в хранилище")
}

func TestValidate_DuplicateCheck(t *testing.T) {
	tests := []struct {
		name  string
		count int64
		want  Errors
	}{
		{name: "код свободен", count: 0, want: Errors{}},
		{name: "код занят", count: 1, want: Errors{DuplicateCode}},
		{name: "код занят несколько раз", count: 3, want: Errors{DuplicateCode}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := &stubCounter{count: tt.count}
			ev := &model.EmployeeView{Code: "E-1", Name: "Name", Password: "pw"}
			opts := Options{CheckUniqueCode: true, RequireSecret: true}

			for i := 0; i < 3; i++ {
				errs, err := Validate(context.Background(), counter, ev, opts)
				require.NoError(t, err)
				assert.Equal(t, tt.want, errs)
			}
			assert.Equal(t, 3, counter.calls, "ровно один запрос к хранилищу на проверку")
			assert.Equal(t, "E-1", counter.lastCode)
		})
	}
}

func TestValidate_SkipUniqueNeverCallsCounter(t *testing.T) {
	for _, code := range []string{"", "E-1", "taken"} {
		counter := &stubCounter{count: 5, err: errors.New("не должен вызываться")}
		ev := &model.EmployeeView{Code: code, Name: "n"}

		_, err := Validate(context.Background(), counter, ev, Options{CheckUniqueCode: false})
		require.NoError(t, err)
		assert.Zero(t, counter.calls, "code=%q", code)
	}
}

func TestValidate_ExcludesOwnID(t *testing.T) {
	id := int64(12)
	counter := &stubCounter{}
	ev := &model.EmployeeView{ID: &id, Code: "E-12", Name: "n"}

	_, err := Validate(context.Background(), counter, ev, Options{CheckUniqueCode: true})
	require.NoError(t, err)
	require.NotNil(t, counter.lastExcl)
	assert.Equal(t, int64(12), *counter.lastExcl)
}

func TestValidate_SecretOnlyWhenRequired(t *testing.T) {
	ev := &model.EmployeeView{Code: "E-1", Name: "n"}

	errs, err := Validate(context.Background(), &stubCounter{}, ev, Options{RequireSecret: false})
	require.NoError(t, err)
	assert.Empty(t, errs)

	errs, err = Validate(context.Background(), &stubCounter{}, ev, Options{RequireSecret: true})
	require.NoError(t, err)
	assert.Equal(t, Errors{MissingSecret}, errs)
}

func TestValidate_WhitespaceIsNotEmpty(t *testing.T) {
	ev := &model.EmployeeView{Code: " ", Name: " ", Password: " "}

	errs, err := Validate(context.Background(), &stubCounter{}, ev, Options{RequireSecret: true})
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidate_CollaboratorFailurePropagates(t *testing.T) {
	dbErr := errors.New("connection refused")
	counter := &stubCounter{err: dbErr}
	ev := &model.EmployeeView{Code: "E-1"}

	errs, err := Validate(context.Background(), counter, ev, Options{CheckUniqueCode: true, RequireSecret: true})
	require.Error(t, err)
	assert.Nil(t, errs, "при сбое хранилища ошибки ввода не возвращаются")

	var collab *CollaboratorError
	require.ErrorAs(t, err, &collab)
	assert.ErrorIs(t, err, dbErr)
}

func TestValidate_PassingInputIsIdempotent(t *testing.T) {
	counter := &stubCounter{}
	ev := &model.EmployeeView{Code: "E-1", Name: "n", Password: "pw"}
	opts := Options{CheckUniqueCode: true, RequireSecret: true}

	first, err := Validate(context.Background(), counter, ev, opts)
	require.NoError(t, err)
	second, err := Validate(context.Background(), counter, ev, opts)
	require.NoError(t, err)

	assert.Empty(t, first)
	assert.Equal(t, first, second)
}

func TestErrorsMessages(t *testing.T) {
	catalog := map[string]string{
		"error.no_code":     "no code",
		"error.code_exists": "code exists",
		"error.no_name":     "no name",
		"error.no_password": "no password",
	}
	resolver := ResolverFunc(func(key string) string { return catalog[key] })

	errs := Errors{DuplicateCode, MissingName, MissingSecret}
	assert.Equal(t, []string{"code exists", "no name", "no password"}, errs.Messages(resolver))
	assert.True(t, errs.Has(MissingName))
	assert.False(t, errs.Has(MissingCode))
	assert.Empty(t, Errors{}.Messages(resolver))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "MissingCode", MissingCode.String())
	assert.Equal(t, "DuplicateCode", DuplicateCode.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
	assert.Equal(t, "error.unknown", Kind(99).MessageKey())
}
