package storage

import "github.com/m04kA/SMC-ClinicBookingService/pkg/dbmetrics"

// DBExecutor исполнитель запросов репозиториев (*dbmetrics.DB или транзакция из контекста)
type DBExecutor = dbmetrics.DBExecutor
