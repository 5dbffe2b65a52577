package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/goartstore/employee-module/internal/domain/model"
)

// EmployeeRepository — интерфейс CRUD для таблицы employees.
// Поле Password хранит хеш пароля.
type EmployeeRepository interface {
	// Create сохраняет нового сотрудника, заполняет ID и временные метки.
	Create(ctx context.Context, e *model.EmployeeView) error
	// GetByID возвращает сотрудника (включая удалённых).
	GetByID(ctx context.Context, id int64) (*model.EmployeeView, error)
	// List возвращает страницу сотрудников, новые первыми.
	List(ctx context.Context, limit, offset int) ([]*model.EmployeeView, error)
	// Count возвращает общее количество сотрудников.
	Count(ctx context.Context) (int64, error)
	// Update обновляет неудалённого сотрудника.
	Update(ctx context.Context, e *model.EmployeeView) error
	// SoftDelete помечает сотрудника удалённым.
	SoftDelete(ctx context.Context, id int64) error
	// CountByCode считает записи с кодом code, кроме записи excludeID (если задан).
	CountByCode(ctx context.Context, code string, excludeID *int64) (int64, error)
}

// employeeRepo — реализация EmployeeRepository.
type employeeRepo struct {
	db DBTX
}

// NewEmployeeRepository создаёт репозиторий сотрудников.
func NewEmployeeRepository(db DBTX) EmployeeRepository {
	return &employeeRepo{db: db}
}

const employeeColumns = `id, code, name, password, admin_flag, created_at, updated_at, delete_flag`

// scanEmployee сканирует строку результата в EmployeeView.
func scanEmployee(row pgx.Row) (*model.EmployeeView, error) {
	e := &model.EmployeeView{}
	var id int64
	err := row.Scan(
		&id, &e.Code, &e.Name, &e.Password, &e.AdminFlag,
		&e.CreatedAt, &e.UpdatedAt, &e.DeleteFlag,
	)
	e.ID = &id
	return e, err
}

func (r *employeeRepo) Create(ctx context.Context, e *model.EmployeeView) error {
	query := `
		INSERT INTO employees (code, name, password, admin_flag)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	var id int64
	err := r.db.QueryRow(ctx, query, e.Code, e.Name, e.Password, e.AdminFlag).
		Scan(&id, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: сотрудник с кодом %q уже существует", ErrConflict, e.Code)
		}
		return fmt.Errorf("ошибка создания сотрудника: %w", err)
	}
	e.ID = &id
	e.DeleteFlag = false
	return nil
}

func (r *employeeRepo) GetByID(ctx context.Context, id int64) (*model.EmployeeView, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE id = $1`, employeeColumns)
	e, err := scanEmployee(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения сотрудника: %w", err)
	}
	return e, nil
}

func (r *employeeRepo) List(ctx context.Context, limit, offset int) ([]*model.EmployeeView, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM employees
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`, employeeColumns)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка сотрудников: %w", err)
	}
	defer rows.Close()

	var result []*model.EmployeeView
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования сотрудника: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *employeeRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта сотрудников: %w", err)
	}
	return count, nil
}

func (r *employeeRepo) Update(ctx context.Context, e *model.EmployeeView) error {
	if e.ID == nil {
		return fmt.Errorf("%w: у сотрудника нет ID", ErrNotFound)
	}

	query := `
		UPDATE employees
		SET code = $2, name = $3, password = $4, admin_flag = $5, updated_at = NOW()
		WHERE id = $1 AND delete_flag = FALSE
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query, *e.ID, e.Code, e.Name, e.Password, e.AdminFlag).
		Scan(&e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: сотрудник с кодом %q уже существует", ErrConflict, e.Code)
		}
		return fmt.Errorf("ошибка обновления сотрудника: %w", err)
	}
	return nil
}

func (r *employeeRepo) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE employees
		SET delete_flag = TRUE, updated_at = NOW()
		WHERE id = $1 AND delete_flag = FALSE`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления сотрудника: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *employeeRepo) CountByCode(ctx context.Context, code string, excludeID *int64) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM employees
		WHERE code = $1 AND ($2::BIGINT IS NULL OR id <> $2)`

	var count int64
	if err := r.db.QueryRow(ctx, query, code, excludeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта сотрудников по коду: %w", err)
	}
	return count, nil
}
