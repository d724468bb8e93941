// Package listsync реализует контроллер синхронизации списка записей:
// каноническая коллекция одной сущности под набором фильтров,
// bulk-загрузка с повторами, оптимистичные мутации и реакция
// на события инвалидации кеша.
package listsync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	httpClient "github.com/iudanet/crmsync/internal/client/api"
	"github.com/iudanet/crmsync/internal/client/cachebus"
	"github.com/iudanet/crmsync/internal/client/optimistic"
	"github.com/iudanet/crmsync/internal/client/retry"
	"github.com/iudanet/crmsync/internal/models"
	"github.com/iudanet/crmsync/pkg/api"
)

// Status представляет состояние жизненного цикла коллекции
type Status string

// Состояния контроллера
const (
	StatusIdle    Status = "idle"    // загрузка еще не запускалась
	StatusLoading Status = "loading" // bulk-загрузка в полете
	StatusLoaded  Status = "loaded"  // коллекция отражает последний успешный ответ
	StatusErrored Status = "errored" // последняя загрузка завершилась ошибкой
)

// Snapshot представляет наблюдаемое состояние контроллера.
// Records отдает глубокие копии, вызывающий может их изменять свободно.
type Snapshot struct {
	LastSync  time.Time
	Err       error
	Records   []*models.Record
	Status    Status
	FromCache bool
}

// BulkDeleteResult представляет итог массового удаления.
// Частичный отказ не является ошибкой: вызывающий проверяет FailedIDs.
type BulkDeleteResult struct {
	FailedIDs []string
	Errors    []string
	Deleted   int
	Requested int
}

// Config настраивает контроллер синхронизации
type Config struct {
	Retry         retry.Options     // настройки повторов bulk-загрузки
	SortField     string            // серверная сортировка коллекции
	SortDirection string            // asc | desc
	Entity        models.EntityType // обслуживаемая сущность
}

// Controller владеет канонической коллекцией записей одной сущности.
// Ответ сервера на bulk-загрузку авторитетен: коллекция заменяется
// целиком, без слияния с предыдущей (иначе локально остаются записи,
// удаленные другими клиентами).
type Controller struct {
	logger      *slog.Logger
	client      httpClient.ClientAPI
	bus         *cachebus.Bus
	engine      *optimistic.Engine
	executor    *retry.Executor
	unsubscribe func()
	filters     map[string]string
	records     []*models.Record
	fkey        string
	err         error
	cfg         Config
	lastSync    time.Time
	gen         uint64
	status      Status
	fromCache   bool
	suppress    atomic.Bool
	mu          sync.Mutex
	wg          sync.WaitGroup
}

// NewController создает контроллер и подписывает его на шину инвалидации
func NewController(
	cfg Config,
	client httpClient.ClientAPI,
	bus *cachebus.Bus,
	engine *optimistic.Engine,
	logger *slog.Logger,
) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if engine == nil {
		engine = optimistic.New(logger)
	}
	c := &Controller{
		logger:   logger,
		client:   client,
		bus:      bus,
		engine:   engine,
		executor: retry.New(cfg.Retry, logger),
		cfg:      cfg,
		status:   StatusIdle,
	}
	if bus != nil {
		c.unsubscribe = bus.Subscribe(c.onInvalidate)
	}
	return c
}

// Close отписывает контроллер от шины и дожидается фоновых обновлений
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	c.executor.Cancel()
	c.wg.Wait()
}

// SetFilters устанавливает фильтры коллекции и запускает загрузку.
// Набор с теми же парами ключ-значение повторную загрузку не вызывает.
func (c *Controller) SetFilters(ctx context.Context, filters map[string]string) error {
	norm := normalizeFilters(filters)
	key := filterKey(norm)

	c.mu.Lock()
	if key == c.fkey && c.status != StatusIdle {
		c.mu.Unlock()
		return nil
	}
	c.filters = norm
	c.fkey = key
	c.mu.Unlock()

	return c.load(ctx, false)
}

// Filters возвращает текущий нормализованный набор фильтров
func (c *Controller) Filters() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.filters))
	for k, v := range c.filters {
		out[k] = v
	}
	return out
}

// Refresh перезагружает коллекцию с сервера по текущим фильтрам
func (c *Controller) Refresh(ctx context.Context) error {
	return c.load(ctx, false)
}

// Revalidate перезагружает коллекцию в обход всех промежуточных кешей.
// Используется при возврате к приложению после долгого простоя
// и планировщиком периодической ресинхронизации.
func (c *Controller) Revalidate(ctx context.Context) error {
	return c.load(ctx, true)
}

// load выполняет bulk-загрузку через исполнитель повторов.
// Счетчик поколений отбрасывает ответы устаревших запусков:
// если фильтры сменились во время полета, пришедший ответ не применяется.
func (c *Controller) load(ctx context.Context, skipCache bool) error {
	c.mu.Lock()
	c.status = StatusLoading
	c.err = nil
	c.gen++
	gen := c.gen
	opts := httpClient.ListOptions{
		Filters:       c.filters,
		SortField:     c.cfg.SortField,
		SortDirection: c.cfg.SortDirection,
		SkipCache:     skipCache,
	}
	c.mu.Unlock()

	data, err := c.executor.Execute(ctx, func(ctx context.Context) (any, error) {
		return c.client.ListRecords(ctx, c.cfg.Entity, opts)
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		// Устаревший ответ, коллекцией уже владеет более поздний запуск
		return nil
	}

	if err != nil {
		// Предыдущая коллекция сохраняется: UI продолжает показывать
		// последние известные данные рядом с ошибкой
		c.status = StatusErrored
		c.err = err
		c.logger.Warn("List load failed",
			"entity", c.cfg.Entity,
			"filters", c.fkey,
			"error", err)
		return err
	}

	resp, ok := data.(*api.RecordsResponse)
	if !ok {
		c.status = StatusErrored
		c.err = fmt.Errorf("listsync: unexpected response type %T", data)
		return c.err
	}

	// Полная замена: ответ сервера авторитетен для текущих фильтров
	records := make([]*models.Record, 0, len(resp.Records))
	for i := range resp.Records {
		rec := &resp.Records[i]
		records = append(records, &models.Record{
			ID:          rec.ID,
			CreatedTime: rec.CreatedTime,
			Fields:      rec.Fields,
		})
	}
	c.records = records
	c.status = StatusLoaded
	c.err = nil
	c.lastSync = time.Now()
	c.fromCache = resp.FromCache

	c.logger.Debug("List loaded",
		"entity", c.cfg.Entity,
		"filters", c.fkey,
		"count", len(records),
		"from_cache", resp.FromCache)
	return nil
}

// Records возвращает глубокую копию текущей коллекции
func (c *Controller) Records() []*models.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cloneRecordsLocked()
}

// State возвращает снимок наблюдаемого состояния контроллера
func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		LastSync:  c.lastSync,
		Err:       c.err,
		Records:   c.cloneRecordsLocked(),
		Status:    c.status,
		FromCache: c.fromCache,
	}
}

// Create выполняет оптимистичное создание записи: placeholder с
// корреляционным токеном вместо id попадает в коллекцию немедленно
// и заменяется каноничной записью сервера после подтверждения
func (c *Controller) Create(ctx context.Context, fields map[string]any) (*models.Record, error) {
	token := optimistic.NewToken()
	placeholder := (&models.Record{
		ID:          token.String(),
		CreatedTime: time.Now(),
		Fields:      fields,
	}).Clone()

	res := c.engine.Do(ctx, optimistic.Mutation{
		Descriptor: optimistic.Descriptor{
			Entity:   c.cfg.Entity,
			Kind:     optimistic.KindCreate,
			EntityID: token.String(),
		},
		Apply: func() {
			c.mu.Lock()
			c.records = append(c.records, placeholder)
			c.mu.Unlock()
		},
		Remote: func(ctx context.Context) (*models.Record, error) {
			return c.client.CreateRecord(ctx, c.cfg.Entity, fields)
		},
		Confirm: func(canonical *models.Record) {
			c.mu.Lock()
			if i := c.indexOfLocked(token.String()); i >= 0 {
				c.records[i] = canonical.Clone()
			}
			c.mu.Unlock()
		},
		Rollback: func() {
			c.mu.Lock()
			if i := c.indexOfLocked(token.String()); i >= 0 {
				c.records = append(c.records[:i], c.records[i+1:]...)
			}
			c.mu.Unlock()
		},
	})
	if res.Err != nil {
		return nil, res.Err
	}

	c.publish(res.Data.ID, res.Data)
	return res.Data, nil
}

// Update выполняет оптимистичное частичное обновление записи
func (c *Controller) Update(ctx context.Context, id string, fields map[string]any) (*models.Record, error) {
	c.mu.Lock()
	i := c.indexOfLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return nil, fmt.Errorf("listsync: record %s/%s is not in the collection", c.cfg.Entity, id)
	}
	// Снимок до мутации для отката бит-в-бит
	prev := c.records[i].Clone()
	c.mu.Unlock()

	res := c.engine.Do(ctx, optimistic.Mutation{
		Descriptor: optimistic.Descriptor{
			Entity:   c.cfg.Entity,
			Kind:     optimistic.KindUpdate,
			EntityID: id,
		},
		Apply: func() {
			c.mu.Lock()
			if i := c.indexOfLocked(id); i >= 0 {
				rec := c.records[i].Clone()
				if rec.Fields == nil {
					rec.Fields = make(map[string]any, len(fields))
				}
				for k, v := range fields {
					rec.Fields[k] = v
				}
				c.records[i] = rec
			}
			c.mu.Unlock()
		},
		Remote: func(ctx context.Context) (*models.Record, error) {
			return c.client.UpdateRecord(ctx, c.cfg.Entity, id, fields)
		},
		Confirm: func(canonical *models.Record) {
			c.mu.Lock()
			if i := c.indexOfLocked(id); i >= 0 {
				merged := c.records[i].Clone()
				merged.Merge(canonical)
				c.records[i] = merged
			}
			c.mu.Unlock()
		},
		Rollback: func() {
			c.mu.Lock()
			if i := c.indexOfLocked(id); i >= 0 {
				c.records[i] = prev
			}
			c.mu.Unlock()
		},
	})
	if res.Err != nil {
		return nil, res.Err
	}

	c.publish(id, res.Data)
	return res.Data, nil
}

// Delete выполняет оптимистичное удаление записи
func (c *Controller) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	i := c.indexOfLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return fmt.Errorf("listsync: record %s/%s is not in the collection", c.cfg.Entity, id)
	}
	prev := c.records[i].Clone()
	pos := i
	c.mu.Unlock()

	res := c.engine.Do(ctx, optimistic.Mutation{
		Descriptor: optimistic.Descriptor{
			Entity:   c.cfg.Entity,
			Kind:     optimistic.KindDelete,
			EntityID: id,
		},
		Apply: func() {
			c.mu.Lock()
			if i := c.indexOfLocked(id); i >= 0 {
				c.records = append(c.records[:i], c.records[i+1:]...)
			}
			c.mu.Unlock()
		},
		Remote: func(ctx context.Context) (*models.Record, error) {
			return nil, c.client.DeleteRecord(ctx, c.cfg.Entity, id)
		},
		Rollback: func() {
			c.mu.Lock()
			// Возвращаем на прежнюю позицию, чтобы откат был незаметен
			at := pos
			if at > len(c.records) {
				at = len(c.records)
			}
			c.records = append(c.records[:at], append([]*models.Record{prev}, c.records[at:]...)...)
			c.mu.Unlock()
		},
	})
	if res.Err != nil {
		return res.Err
	}

	c.publish(id, nil)
	return nil
}

// DeleteMultiple выполняет оптимистичное массовое удаление.
// Все запрошенные записи убираются из коллекции немедленно; после ответа
// сервера записи, которые удалить не удалось, возвращаются на место.
// Транспортная ошибка откатывает удаление целиком.
func (c *Controller) DeleteMultiple(ctx context.Context, ids []string) (*BulkDeleteResult, error) {
	if len(ids) == 0 {
		return &BulkDeleteResult{}, nil
	}

	idset := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idset[id] = struct{}{}
	}

	// Запоминаем убранные записи вместе с позициями и поколением коллекции:
	// откат вставляет их обратно в текущую коллекцию, а не заменяет ее
	// снимком, и только если за время запроса не завершилась более
	// свежая загрузка.
	type removed struct {
		rec *models.Record
		pos int
	}

	c.mu.Lock()
	gen := c.gen
	taken := make([]removed, 0, len(ids))
	kept := make([]*models.Record, 0, len(c.records))
	for i, r := range c.records {
		if _, requested := idset[r.ID]; requested {
			taken = append(taken, removed{rec: r, pos: i})
			continue
		}
		kept = append(kept, r)
	}
	c.records = kept
	c.mu.Unlock()

	// reinsert возвращает записи на прежние позиции, пропуская те,
	// что уже есть в коллекции
	reinsert := func(entries []removed) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.gen {
			// Коллекция уже заменена свежей загрузкой, она авторитетна
			return
		}
		for _, e := range entries {
			if c.indexOfLocked(e.rec.ID) >= 0 {
				continue
			}
			at := e.pos
			if at > len(c.records) {
				at = len(c.records)
			}
			c.records = append(c.records[:at],
				append([]*models.Record{e.rec}, c.records[at:]...)...)
		}
	}

	resp, err := c.client.DeleteRecords(ctx, c.cfg.Entity, ids)
	if err != nil {
		reinsert(taken)
		return nil, fmt.Errorf("bulk delete %s failed: %w", c.cfg.Entity, err)
	}

	deleted := make(map[string]struct{}, len(resp.DeletedIDs))
	for _, id := range resp.DeletedIDs {
		deleted[id] = struct{}{}
	}

	// Частичный отказ: неудаленные записи возвращаются в коллекцию
	failedEntries := make([]removed, 0)
	for _, e := range taken {
		if _, ok := deleted[e.rec.ID]; !ok {
			failedEntries = append(failedEntries, e)
		}
	}
	if len(failedEntries) > 0 {
		reinsert(failedEntries)
	}

	failed := make([]string, 0)
	for _, id := range ids {
		if _, ok := deleted[id]; !ok {
			failed = append(failed, id)
		}
	}

	requested := resp.Requested
	if requested == 0 {
		requested = len(ids)
	}

	for _, id := range resp.DeletedIDs {
		c.publish(id, nil)
	}

	if len(failed) > 0 {
		c.logger.Warn("Bulk delete partially failed",
			"entity", c.cfg.Entity,
			"deleted", resp.Deleted,
			"failed", len(failed))
	}

	return &BulkDeleteResult{
		FailedIDs: failed,
		Errors:    resp.Errors,
		Deleted:   resp.Deleted,
		Requested: requested,
	}, nil
}

// publish рассылает событие инвалидации, помечая его как собственное:
// свой же listener это событие пропускает, локальное состояние
// уже обновлено мутацией
func (c *Controller) publish(entityID string, fresh *models.Record) {
	if c.bus == nil {
		return
	}
	c.suppress.Store(true)
	defer c.suppress.Store(false)
	c.bus.Invalidate(entityID, fresh)
}

// onInvalidate обрабатывает событие шины: известная запись со свежими
// данными сливается на месте, все остальное освежается перезагрузкой
func (c *Controller) onInvalidate(entityID string, fresh *models.Record) {
	if c.suppress.Load() {
		return
	}

	c.mu.Lock()
	if fresh != nil {
		if i := c.indexOfLocked(entityID); i >= 0 {
			merged := c.records[i].Clone()
			merged.Merge(fresh)
			c.records[i] = merged
			c.mu.Unlock()
			return
		}
	}
	active := c.status == StatusLoaded || c.status == StatusErrored
	c.mu.Unlock()

	if !active {
		// Коллекция еще не загружалась, освежать нечего
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.Refresh(context.Background()); err != nil {
			c.logger.Warn("Refresh after cache invalidation failed",
				"entity", c.cfg.Entity,
				"error", err)
		}
	}()
}

// indexOfLocked возвращает позицию записи в коллекции.
// Вызывающий держит c.mu.
func (c *Controller) indexOfLocked(id string) int {
	for i, r := range c.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// cloneRecordsLocked делает глубокую копию коллекции.
// Вызывающий держит c.mu.
func (c *Controller) cloneRecordsLocked() []*models.Record {
	out := make([]*models.Record, len(c.records))
	for i, r := range c.records {
		out[i] = r.Clone()
	}
	return out
}
