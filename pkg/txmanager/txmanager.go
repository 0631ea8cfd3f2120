package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/metrics"
)

const (
	DefaultMaxAttempts = 5
	DefaultBackoff     = 20 * time.Millisecond

	// SQLSTATE, после которых транзакцию безопасно повторить целиком
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

var (
	// ErrBeginTx ошибка открытия транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommit ошибка фиксации транзакции
	ErrCommit = errors.New("txmanager: failed to commit transaction")

	// ErrRetriesExhausted транзакция не прошла после всех повторов
	ErrRetriesExhausted = errors.New("txmanager: retries exhausted")
)

// TxBeginner источник транзакций (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функции в транзакции, передавая её через контекст.
// Вложенный вызов переиспользует уже открытую транзакцию.
type TransactionManager struct {
	db          TxBeginner
	maxAttempts int
	backoff     time.Duration
	timeout     time.Duration
	metrics     *metrics.Metrics
}

type Option func(*TransactionManager)

// WithMaxAttempts ограничивает число попыток сериализуемой транзакции
func WithMaxAttempts(n int) Option {
	return func(m *TransactionManager) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// WithBackoff базовая пауза между попытками (растет линейно, с джиттером)
func WithBackoff(d time.Duration) Option {
	return func(m *TransactionManager) {
		if d >= 0 {
			m.backoff = d
		}
	}
}

// WithTimeout ограничивает длительность одной попытки транзакции; 0 - без ограничения
func WithTimeout(d time.Duration) Option {
	return func(m *TransactionManager) {
		if d >= 0 {
			m.timeout = d
		}
	}
}

func WithMetrics(mc *metrics.Metrics) Option {
	return func(m *TransactionManager) {
		m.metrics = mc
	}
}

func NewTransactionManager(db TxBeginner, opts ...Option) *TransactionManager {
	m := &TransactionManager{
		db:          db,
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultBackoff,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do выполняет fn в транзакции READ COMMITTED без повторов
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, 1, fn)
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE.
// При конфликте сериализации или дедлоке транзакция повторяется целиком.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, m.maxAttempts, fn)
}

// DoReadOnly выполняет fn в читающей транзакции с согласованным снимком
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, 1, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, attempts int, fn func(ctx context.Context) error) error {
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := m.once(ctx, opts, fn)
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		lastErr = err
		if attempt == attempts {
			break
		}

		m.metrics.IncTxRetry(opts.Isolation.String())
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrRetriesExhausted, ctx.Err())
		case <-time.After(m.pause(attempt)):
		}
	}

	return fmt.Errorf("%w: after %d attempts: %w", ErrRetriesExhausted, attempts, lastErr)
}

func (m *TransactionManager) once(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	txCtx := dbmetrics.WithTx(ctx, tx)
	if opts.ReadOnly {
		txCtx = dbmetrics.WithReadOnly(txCtx)
	}

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommit, err)
	}
	return nil
}

func (m *TransactionManager) pause(attempt int) time.Duration {
	if m.backoff == 0 {
		return 0
	}
	base := m.backoff * time.Duration(attempt)
	return base + time.Duration(rand.Int63n(int64(m.backoff)))
}

// IsRetryable true для ошибок Postgres, после которых транзакцию можно повторить
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == codeSerializationFailure || pqErr.Code == codeDeadlockDetected
}
