// Package cachebus реализует шину инвалидации кеша: синхронный
// publish/subscribe канал, через который detail-редактор доставляет
// подтвержденное сервером состояние записи во все list-контроллеры,
// держащие ее устаревшую копию, без дополнительного сетевого вызова.
package cachebus

import (
	"log/slog"
	"sync"

	"github.com/iudanet/crmsync/internal/models"
)

// Listener вызывается при инвалидации записи.
// fresh == nil означает "изменение неизвестно": при совпадении id
// подписчик обязан сделать refetch".
type Listener func(entityID string, fresh *models.Record)

// Bus представляет шину инвалидации. Создается явно и передается контроллерам
// при композиции, а не живет глобальной переменной: тесты поднимают
// изолированную шину на кейс.
type Bus struct {
	logger    *slog.Logger
	listeners map[uint64]Listener
	order     []uint64
	nextID    uint64
	mu        sync.Mutex
}

// New creates a new invalidation bus
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		logger:    logger,
		listeners: make(map[uint64]Listener),
	}
}

// Subscribe регистрирует слушателя и возвращает идемпотентную функцию
// отписки, удаляющую ровно этого слушателя.
func (b *Bus) Subscribe(fn Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.order = append(b.order, id)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.listeners[id]; !ok {
			return
		}
		delete(b.listeners, id)
		for i, lid := range b.order {
			if lid == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
}

// Invalidate синхронно уведомляет всех подписчиков в порядке подписки.
// Слушатели вызываются на снимке списка, поэтому отписка изнутри
// слушателя не ломает итерацию. Паника слушателя изолируется:
// один неисправный подписчик не прерывает доставку остальным.
func (b *Bus) Invalidate(entityID string, fresh *models.Record) {
	b.mu.Lock()
	snapshot := make([]Listener, 0, len(b.order))
	for _, id := range b.order {
		if fn, ok := b.listeners[id]; ok {
			snapshot = append(snapshot, fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range snapshot {
		b.dispatch(fn, entityID, fresh)
	}
}

// Count возвращает текущее количество подписчиков
func (b *Bus) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

// dispatch вызывает одного слушателя под recover
func (b *Bus) dispatch(fn Listener, entityID string, fresh *models.Record) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Cache bus listener panicked",
				"entity_id", entityID,
				"panic", r)
		}
	}()
	fn(entityID, fresh)
}
