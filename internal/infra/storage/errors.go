package storage

import (
	"errors"

	"github.com/lib/pq"
)

// Общие ошибки хранилища. Ошибки конкретных репозиториев оборачивают их,
// поэтому use case может проверять errors.Is(err, storage.ErrNotFound)
// независимо от драйвера (postgres или memory).
var (
	// ErrNotFound запись не найдена
	ErrNotFound = errors.New("storage: record not found")

	// ErrDuplicate нарушение уникального ключа
	ErrDuplicate = errors.New("storage: duplicate key")

	// ErrStatusMismatch статус записи изменился между чтением и обновлением
	ErrStatusMismatch = errors.New("storage: status mismatch")
)

const codeUniqueViolation = "23505"

// IsUniqueViolation true для ошибки Postgres unique_violation
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeUniqueViolation
}
