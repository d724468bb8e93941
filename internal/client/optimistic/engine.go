// Package optimistic реализует протокол оптимистичных мутаций:
// локальное изменение применяется немедленно, удаленная операция
// выполняется следом, при успехе состояние подтверждается каноничными
// данными сервера, при ошибке выполняется откат к снимку до мутации.
package optimistic

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/iudanet/crmsync/internal/models"
)

// Kind представляет вид мутации
type Kind string

// Виды мутаций
const (
	KindCreate Kind = "create"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
)

// Token представляет типизированный корреляционный токен оптимистичного create.
// Подставляется как id локального placeholder и однозначно связывает его
// с каноничной записью сервера на шаге подтверждения. Сравнение идет
// по значению токена, никакой строковый префикс смысла не несет.
type Token struct {
	id string
}

// NewToken создает новый корреляционный токен
func NewToken() Token {
	return Token{id: uuid.New().String()}
}

// String возвращает значение токена для использования как placeholder id
func (t Token) String() string {
	return t.id
}

// IsZero reports whether the token is empty
func (t Token) IsZero() bool {
	return t.id == ""
}

// Matches проверяет, что запись с данным id является placeholder этого токена
func (t Token) Matches(recordID string) bool {
	return t.id != "" && t.id == recordID
}

// Descriptor идентифицирует мутацию для логирования и сериализации.
// На управление потоком не влияет.
type Descriptor struct {
	Entity   models.EntityType // тип сущности
	Kind     Kind              // вид мутации
	EntityID string            // id записи, для create это значение токена
}

// key возвращает ключ сериализации мутаций по записи
func (d Descriptor) key() string {
	return string(d.Entity) + "/" + d.EntityID
}

// Mutation описывает одну оптимистичную мутацию
type Mutation struct {
	// Apply синхронно применяет локальное изменение к канонической коллекции
	Apply func()
	// Remote выполняет удаленную операцию; для create обязан вернуть
	// каноничную запись сервера для замены placeholder
	Remote func(ctx context.Context) (*models.Record, error)
	// Confirm подтверждает локальное состояние данными сервера
	// (замена placeholder, освежение полей). Опционален.
	Confirm func(canonical *models.Record)
	// Rollback восстанавливает состояние до мутации бит-в-бит.
	// Вызывается только при ошибке Remote.
	Rollback func()
	// Descriptor идентифицирует мутацию
	Descriptor Descriptor
}

// Result представляет исход мутации.
// Отклоненный Remote никогда не покидает движок паникой:
// вызывающий проверяет Success/Err.
type Result struct {
	Data    *models.Record
	Err     error
	Success bool
}

// Engine выполняет оптимистичные мутации.
// Мутации одной и той же записи сериализуются очередью по entity id,
// чтобы перемежающиеся apply/rollback не портили общую запись.
// Мутации разных записей идут независимо.
type Engine struct {
	logger *slog.Logger
	locks  map[string]*entityLock
	mu     sync.Mutex
}

// entityLock представляет блокировку одной записи со счетчиком ссылок
type entityLock struct {
	mu   sync.Mutex
	refs int
}

// New creates a new optimistic mutation engine
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger: logger,
		locks:  make(map[string]*entityLock),
	}
}

// Do выполняет мутацию: Apply немедленно, затем Remote;
// при успехе Confirm с каноничными данными, при ошибке Rollback.
// Инвариант: каноническая коллекция никогда не остается в состоянии,
// отражающем неудавшуюся удаленную операцию.
func (e *Engine) Do(ctx context.Context, m Mutation) Result {
	if m.Apply == nil || m.Remote == nil || m.Rollback == nil {
		return Result{Err: fmt.Errorf("optimistic: mutation %s %s/%s is missing apply/remote/rollback",
			m.Descriptor.Kind, m.Descriptor.Entity, m.Descriptor.EntityID)}
	}

	unlock := e.lock(m.Descriptor.key())
	defer unlock()

	m.Apply()

	canonical, err := e.performRemote(ctx, m)
	if err != nil {
		m.Rollback()
		e.logger.Warn("Optimistic mutation rolled back",
			"kind", m.Descriptor.Kind,
			"entity", m.Descriptor.Entity,
			"entity_id", m.Descriptor.EntityID,
			"error", err)
		return Result{Err: err}
	}

	if m.Confirm != nil {
		m.Confirm(canonical)
	}

	e.logger.Debug("Optimistic mutation confirmed",
		"kind", m.Descriptor.Kind,
		"entity", m.Descriptor.Entity,
		"entity_id", m.Descriptor.EntityID)

	return Result{Success: true, Data: canonical}
}

// performRemote вызывает Remote, превращая возможную панику в ошибку:
// незавершенный rollback из-за паники оставил бы коллекцию неконсистентной
func (e *Engine) performRemote(ctx context.Context, m Mutation) (rec *models.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = fmt.Errorf("remote operation panicked: %v", r)
		}
	}()
	return m.Remote(ctx)
}

// lock захватывает блокировку записи и возвращает функцию освобождения
func (e *Engine) lock(key string) func() {
	e.mu.Lock()
	l, ok := e.locks[key]
	if !ok {
		l = &entityLock{}
		e.locks[key] = l
	}
	l.refs++
	e.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()
		e.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(e.locks, key)
		}
		e.mu.Unlock()
	}
}
