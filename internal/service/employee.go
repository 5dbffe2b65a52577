// employee.go — сервис управления сотрудниками.
// Регистрация и изменение проходят через validation.Validate;
// пароли хранятся только в виде bcrypt-хеша.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bigkaa/goartstore/employee-module/internal/domain/model"
	"github.com/bigkaa/goartstore/employee-module/internal/repository"
	"github.com/bigkaa/goartstore/employee-module/internal/validation"
)

// EmployeePage — одна страница списка сотрудников.
type EmployeePage struct {
	Items     []*model.EmployeeView
	Total     int64
	Page      int
	PageCount int
}

// EmployeeService — сервис управления сотрудниками.
type EmployeeService struct {
	repo     repository.EmployeeRepository
	hasher   *PasswordHasher
	pageSize int
	logger   *slog.Logger
}

// NewEmployeeService создаёт сервис сотрудников.
func NewEmployeeService(
	repo repository.EmployeeRepository,
	hasher *PasswordHasher,
	pageSize int,
	logger *slog.Logger,
) *EmployeeService {
	if pageSize < 1 {
		pageSize = 20
	}
	return &EmployeeService{
		repo:     repo,
		hasher:   hasher,
		pageSize: pageSize,
		logger:   logger.With(slog.String("component", "employee_service")),
	}
}

// CountByCode считает сотрудников с кодом code, исключая excludeID.
// Реализует validation.CodeCounter.
func (s *EmployeeService) CountByCode(ctx context.Context, code string, excludeID *int64) (int64, error) {
	n, err := s.repo.CountByCode(ctx, code, excludeID)
	if err != nil {
		return 0, storageErr("подсчёт сотрудников по коду", err)
	}
	return n, nil
}

// Create регистрирует нового сотрудника.
// Ошибки ввода возвращаются как validation.Errors с nil-ошибкой.
// При успехе ev получает ID и временные метки, пароль в ev очищается.
func (s *EmployeeService) Create(ctx context.Context, ev *model.EmployeeView) (validation.Errors, error) {
	errs, err := validation.Validate(ctx, s, ev, validation.Options{
		CheckUniqueCode: true,
		RequireSecret:   true,
	})
	if err != nil || len(errs) > 0 {
		return errs, err
	}

	hash, err := s.hasher.Hash(ev.Password)
	if err != nil {
		return nil, err
	}

	stored := &model.EmployeeView{
		Code:      ev.Code,
		Name:      ev.Name,
		Password:  hash,
		AdminFlag: ev.AdminFlag,
	}
	if err := s.repo.Create(ctx, stored); err != nil {
		// Код заняли между проверкой и вставкой
		if errors.Is(err, repository.ErrConflict) {
			return validation.Errors{validation.DuplicateCode}, nil
		}
		return nil, storageErr("создание сотрудника", err)
	}

	ev.ID = stored.ID
	ev.Password = ""
	ev.CreatedAt = stored.CreatedAt
	ev.UpdatedAt = stored.UpdatedAt

	s.logger.Info("Сотрудник зарегистрирован",
		slog.Int64("id", *stored.ID),
		slog.String("code", stored.Code),
	)
	return nil, nil
}

// Update изменяет существующего сотрудника.
// Уникальность кода проверяется только при его изменении;
// пустой пароль сохраняет прежний хеш.
func (s *EmployeeService) Update(ctx context.Context, ev *model.EmployeeView) (validation.Errors, error) {
	if ev.ID == nil {
		return nil, ErrNotFound
	}

	stored, err := s.load(ctx, *ev.ID)
	if err != nil {
		return nil, err
	}
	if stored.DeleteFlag {
		return nil, ErrNotFound
	}

	errs, err := validation.Validate(ctx, s, ev, validation.Options{
		CheckUniqueCode: ev.Code != stored.Code,
		RequireSecret:   false,
	})
	if err != nil || len(errs) > 0 {
		return errs, err
	}

	hash := stored.Password
	if ev.Password != "" {
		if hash, err = s.hasher.Hash(ev.Password); err != nil {
			return nil, err
		}
	}

	updated := &model.EmployeeView{
		ID:        stored.ID,
		Code:      ev.Code,
		Name:      ev.Name,
		Password:  hash,
		AdminFlag: ev.AdminFlag,
	}
	if err := s.repo.Update(ctx, updated); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return validation.Errors{validation.DuplicateCode}, nil
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		}
		return nil, storageErr("обновление сотрудника", err)
	}

	ev.Password = ""
	ev.CreatedAt = stored.CreatedAt
	ev.UpdatedAt = updated.UpdatedAt

	s.logger.Info("Сотрудник обновлён",
		slog.Int64("id", *stored.ID),
		slog.String("code", updated.Code),
		slog.Bool("password_changed", hash != stored.Password),
	)
	return nil, nil
}

// Get возвращает сотрудника по ID (в том числе удалённого) без хеша пароля.
func (s *EmployeeService) Get(ctx context.Context, id int64) (*model.EmployeeView, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Password = ""
	return e, nil
}

// List возвращает страницу page (с 1) списка сотрудников.
// Номер страницы за пределами списка приводится к ближайшему допустимому.
func (s *EmployeeService) List(ctx context.Context, page int) (*EmployeePage, error) {
	total, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}

	pageCount := int((total + int64(s.pageSize) - 1) / int64(s.pageSize))
	if page > pageCount {
		page = pageCount
	}
	if page < 1 {
		page = 1
	}

	items, err := s.repo.List(ctx, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return nil, storageErr("получение списка сотрудников", err)
	}
	for _, e := range items {
		e.Password = ""
	}

	return &EmployeePage{
		Items:     items,
		Total:     total,
		Page:      page,
		PageCount: pageCount,
	}, nil
}

// Count возвращает общее количество сотрудников.
func (s *EmployeeService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, storageErr("подсчёт сотрудников", err)
	}
	return n, nil
}

// Destroy помечает сотрудника удалённым.
func (s *EmployeeService) Destroy(ctx context.Context, id int64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return storageErr("удаление сотрудника", err)
	}
	s.logger.Info("Сотрудник удалён", slog.Int64("id", id))
	return nil
}

// load читает сотрудника вместе с хешем пароля.
func (s *EmployeeService) load(ctx context.Context, id int64) (*model.EmployeeView, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("сотрудник %d: %w", id, ErrNotFound)
		}
		return nil, storageErr("получение сотрудника", err)
	}
	return e, nil
}
