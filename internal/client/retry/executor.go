// Package retry реализует исполнитель асинхронных операций с повторами:
// ограниченный exponential backoff с jitter, таймаут на попытку,
// отмена и single-flight на инстанс исполнителя.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/iudanet/crmsync/pkg/api"
)

// Значения опций по умолчанию
const (
	DefaultMaxRetries = 2
	DefaultBaseDelay  = 1 * time.Second
	DefaultMaxDelay   = 5 * time.Second
	DefaultTimeout    = 10 * time.Second
)

// Operation представляет одну асинхронную операцию без собственных повторов.
// Контекст отменяется по таймауту попытки или при Cancel/новом Execute.
type Operation func(ctx context.Context) (any, error)

// Options настраивает поведение исполнителя
type Options struct {
	RetryOn    func(err error) bool            // предикат: повторять ли после этой ошибки (nil = DefaultRetryOn)
	OnRetry    func(attempt int, err error)    // side-effect перед каждым повтором (attempt начинается с 1)
	MaxRetries int                             // количество повторов после первой попытки
	BaseDelay  time.Duration                   // базовая задержка перед первым повтором
	MaxDelay   time.Duration                   // потолок задержки
	Timeout    time.Duration                   // таймаут одной попытки
}

// State представляет наблюдаемое состояние исполнителя для UI-привязки
type State struct {
	LastAttempt time.Time // время начала последней попытки
	Data        any       // результат последнего успешного Execute
	Err         error     // терминальная ошибка последнего Execute
	RetryCount  int       // количество выполненных повторов в текущем/последнем запуске
	Loading     bool      // true пока запуск не завершился
}

// Executor выполняет операции с повторами. Один исполнитель обслуживает
// один логический запрос: новый Execute отменяет предыдущий запуск
// (single-flight), попытки внутри запуска строго последовательны.
type Executor struct {
	logger *slog.Logger
	cancel context.CancelFunc
	lastOp Operation
	opts   Options
	state  State
	gen    uint64
	mu     sync.Mutex
}

// New creates a new retry executor.
// Нулевые поля опций заменяются значениями по умолчанию.
func New(opts Options, logger *slog.Logger) *Executor {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = DefaultMaxDelay
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RetryOn == nil {
		opts.RetryOn = DefaultRetryOn
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		opts:   opts,
		logger: logger,
	}
}

// Execute выполняет операцию с повторами.
// Предыдущий незавершенный запуск этого исполнителя отменяется.
// Возвращает результат успешной попытки либо nil и последнюю ошибку
// после исчерпания повторов или неповторяемой ошибки.
// Ошибка никогда не приходит паникой: вызывающий проверяет возврат и State().
func (e *Executor) Execute(ctx context.Context, op Operation) (any, error) {
	e.mu.Lock()
	// Отменяем предыдущий in-flight запуск (single-flight per instance)
	if e.cancel != nil {
		e.cancel()
	}
	e.gen++
	gen := e.gen
	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.lastOp = op
	e.state = State{Loading: true}
	e.mu.Unlock()

	data, err := e.run(runCtx, gen, op)
	cancel()

	e.mu.Lock()
	defer e.mu.Unlock()
	// Результат устаревшего запуска не должен перетирать состояние более нового
	if gen != e.gen {
		return nil, err
	}
	e.state.Loading = false
	e.state.Data = data
	e.state.Err = err
	e.cancel = nil
	return data, err
}

// Retry повторяет последнюю выполнявшуюся операцию
func (e *Executor) Retry(ctx context.Context) (any, error) {
	e.mu.Lock()
	op := e.lastOp
	e.mu.Unlock()
	if op == nil {
		return nil, errors.New("retry: no operation to retry")
	}
	return e.Execute(ctx, op)
}

// Cancel отменяет in-flight запуск: прерывает сетевой вызов и ожидание
// backoff. Флаг Loading гарантированно сбрасывается завершением запуска.
func (e *Executor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
}

// Reset отменяет in-flight запуск и очищает наблюдаемое состояние
func (e *Executor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.gen++
	e.state = State{}
	e.lastOp = nil
}

// State возвращает снимок наблюдаемого состояния
func (e *Executor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// run выполняет цикл попыток. Попытка N+1 не начинается,
// пока попытка N не завершилась.
func (e *Executor) run(ctx context.Context, gen uint64, op Operation) (any, error) {
	var lastErr error

	for attempt := 0; attempt <= e.opts.MaxRetries; attempt++ {
		e.recordAttempt(gen, attempt)

		// Каждая попытка ограничена собственным таймаутом
		attemptCtx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
		data, err := op(attemptCtx)
		cancel()

		if err == nil {
			return data, nil
		}
		lastErr = err

		// Внешняя отмена (Cancel или новый Execute) завершает запуск немедленно
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt == e.opts.MaxRetries {
			break
		}
		// Неповторяемая ошибка завершает запуск без дальнейших попыток
		if !e.opts.RetryOn(err) {
			break
		}

		if e.opts.OnRetry != nil {
			e.opts.OnRetry(attempt+1, err)
		}

		delay := backoffDelay(attempt, e.opts.BaseDelay, e.opts.MaxDelay)
		e.logger.Debug("Retrying operation",
			"attempt", attempt+1,
			"delay_ms", delay.Milliseconds(),
			"error", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// recordAttempt обновляет наблюдаемые счетчики текущего запуска
func (e *Executor) recordAttempt(gen uint64, attempt int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return
	}
	e.state.RetryCount = attempt
	e.state.LastAttempt = time.Now()
}

// backoffDelay вычисляет задержку перед повтором номер attempt+1:
// min(base * 2^attempt + jitter, max), где jitter равномерен
// в пределах 10% экспоненциальной составляющей.
func backoffDelay(attempt int, base, max time.Duration) time.Duration {
	// Ограничиваем сдвиг, чтобы не переполниться на больших attempt
	if attempt > 16 {
		attempt = 16
	}
	exp := base << uint(attempt)
	if exp <= 0 || exp > max {
		return max
	}
	jitter := time.Duration(0)
	if upper := int64(exp) / 10; upper > 0 {
		jitter = time.Duration(rand.Int63n(upper + 1))
	}
	delay := exp + jitter
	if delay > max {
		delay = max
	}
	return delay
}

// DefaultRetryOn классифицирует ошибку как транзиентную.
// Повторяются: сетевые ошибки транспортного уровня, таймаут/отмена попытки,
// 5xx и 429 от сервера. Остальные 4xx (ошибки валидации) не повторяются.
func DefaultRetryOn(err error) bool {
	if err == nil {
		return false
	}

	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// url.Error без StatusError внутри означает ошибку соединения
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
