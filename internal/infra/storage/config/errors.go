package config

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage"
)

var (
	// ErrConfigNotFound возвращается, когда календарь еще не сохранялся
	ErrConfigNotFound = fmt.Errorf("%w: calendar config", storage.ErrNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("config.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("config.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("config.repository: failed to scan row")
)
