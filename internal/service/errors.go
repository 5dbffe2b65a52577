// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound — сотрудник не найден или уже удалён.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrStorageUnavailable — хранилище не ответило; запрос можно повторить позже.
	ErrStorageUnavailable = errors.New("хранилище недоступно")
)

// IsUnavailable сообщает, вызвана ли ошибка недоступностью хранилища.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

// storageErr оборачивает ошибку хранилища в ErrStorageUnavailable.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
