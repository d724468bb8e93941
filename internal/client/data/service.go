package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	httpClient "github.com/iudanet/crmsync/internal/client/api"
	"github.com/iudanet/crmsync/internal/client/cachebus"
	"github.com/iudanet/crmsync/internal/client/listsync"
	"github.com/iudanet/crmsync/internal/client/optimistic"
	"github.com/iudanet/crmsync/internal/client/resync"
	"github.com/iudanet/crmsync/internal/client/storage"
	"github.com/iudanet/crmsync/internal/models"
	"github.com/iudanet/crmsync/internal/validation"
)

//go:generate go tool moq -out service_mock.go . Service

// Service координирует контроллеры списков, офлайн-снапшоты и
// планировщик периодической ресинхронизации.
type Service interface {
	// Load устанавливает фильтры коллекции и загружает её с сервера.
	Load(ctx context.Context, entity models.EntityType, filters map[string]string) error
	// Records возвращает записи коллекции. Второй результат true, если
	// данные пришли из офлайн-снапшота, а не из загруженной коллекции.
	Records(ctx context.Context, entity models.EntityType) ([]*models.Record, bool, error)
	// LastSync возвращает время последней успешной синхронизации сущности.
	LastSync(ctx context.Context, entity models.EntityType) (time.Time, error)

	Create(ctx context.Context, entity models.EntityType, fields map[string]any) (*models.Record, error)
	Update(ctx context.Context, entity models.EntityType, id string, fields map[string]any) (*models.Record, error)
	Delete(ctx context.Context, entity models.EntityType, id string) error
	DeleteMultiple(ctx context.Context, entity models.EntityType, ids []string) (*listsync.BulkDeleteResult, error)

	// SyncAll принудительно перечитывает все загруженные коллекции, минуя кеш сервера.
	SyncAll(ctx context.Context) error
	// StartResync регистрирует фоновые задачи периодической ресинхронизации.
	StartResync(interval time.Duration) error
	Close()
}

type service struct {
	logger      *slog.Logger
	client      httpClient.ClientAPI
	bus         *cachebus.Bus
	engine      *optimistic.Engine
	scheduler   *resync.Scheduler
	snapshots   storage.SnapshotStorage
	metadata    storage.MetadataStorage
	controllers map[models.EntityType]*listsync.Controller
	mu          sync.Mutex
}

// NewService создает data сервис поверх API клиента и локального хранилища.
// Контроллеры списков создаются лениво при первом обращении к сущности и
// разделяют общую шину инвалидации.
func NewService(
	client httpClient.ClientAPI,
	snapshots storage.SnapshotStorage,
	metadata storage.MetadataStorage,
	logger *slog.Logger,
) Service {
	if logger == nil {
		logger = slog.Default()
	}
	bus := cachebus.New(logger)
	return &service{
		logger:      logger,
		client:      client,
		bus:         bus,
		engine:      optimistic.New(logger),
		scheduler:   resync.New(logger),
		snapshots:   snapshots,
		metadata:    metadata,
		controllers: make(map[models.EntityType]*listsync.Controller),
	}
}

// controller возвращает контроллер сущности, создавая его при необходимости.
func (s *service) controller(entity models.EntityType) *listsync.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.controllers[entity]; ok {
		return c
	}
	c := listsync.NewController(listsync.Config{Entity: entity}, s.client, s.bus, s.engine, s.logger)
	s.controllers[entity] = c
	return c
}

func (s *service) Load(ctx context.Context, entity models.EntityType, filters map[string]string) error {
	if err := validation.ValidateEntity(entity); err != nil {
		return err
	}
	c := s.controller(entity)

	before := c.State().LastSync
	if err := c.SetFilters(ctx, filters); err != nil {
		return err
	}
	// SetFilters пропускает загрузку, если набор фильтров не изменился
	if c.State().LastSync.Equal(before) {
		if err := c.Refresh(ctx); err != nil {
			return err
		}
	}

	s.persistSnapshot(ctx, entity, c)
	return nil
}

func (s *service) Records(ctx context.Context, entity models.EntityType) ([]*models.Record, bool, error) {
	if err := validation.ValidateEntity(entity); err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	c, ok := s.controllers[entity]
	s.mu.Unlock()

	if ok && c.State().Status == listsync.StatusLoaded {
		return c.Records(), false, nil
	}

	// Коллекция не загружена, пробуем офлайн-снапшот
	snap, err := s.snapshots.GetSnapshot(ctx, entity)
	if err != nil {
		if errors.Is(err, storage.ErrSnapshotNotFound) {
			return nil, false, fmt.Errorf("no local data for %s, run sync first: %w", entity, err)
		}
		return nil, false, fmt.Errorf("failed to read snapshot for %s: %w", entity, err)
	}
	return snap.Records, true, nil
}

func (s *service) LastSync(ctx context.Context, entity models.EntityType) (time.Time, error) {
	if err := validation.ValidateEntity(entity); err != nil {
		return time.Time{}, err
	}
	ts, err := s.metadata.GetLastSync(ctx, entity)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read last sync for %s: %w", entity, err)
	}
	if ts == 0 {
		return time.Time{}, nil
	}
	return time.Unix(ts, 0), nil
}

func (s *service) Create(ctx context.Context, entity models.EntityType, fields map[string]any) (*models.Record, error) {
	if err := validation.ValidateEntity(entity); err != nil {
		return nil, err
	}
	c := s.controller(entity)
	rec, err := c.Create(ctx, fields)
	if err != nil {
		return nil, err
	}
	s.persistSnapshot(ctx, entity, c)
	return rec, nil
}

func (s *service) Update(ctx context.Context, entity models.EntityType, id string, fields map[string]any) (*models.Record, error) {
	if err := validation.ValidateEntity(entity); err != nil {
		return nil, err
	}
	c := s.controller(entity)
	rec, err := c.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.persistSnapshot(ctx, entity, c)
	return rec, nil
}

func (s *service) Delete(ctx context.Context, entity models.EntityType, id string) error {
	if err := validation.ValidateEntity(entity); err != nil {
		return err
	}
	c := s.controller(entity)
	if err := c.Delete(ctx, id); err != nil {
		return err
	}
	s.persistSnapshot(ctx, entity, c)
	return nil
}

func (s *service) DeleteMultiple(ctx context.Context, entity models.EntityType, ids []string) (*listsync.BulkDeleteResult, error) {
	if err := validation.ValidateEntity(entity); err != nil {
		return nil, err
	}
	c := s.controller(entity)
	res, err := c.DeleteMultiple(ctx, ids)
	if err != nil {
		return res, err
	}
	s.persistSnapshot(ctx, entity, c)
	return res, nil
}

func (s *service) SyncAll(ctx context.Context) error {
	s.mu.Lock()
	controllers := make(map[models.EntityType]*listsync.Controller, len(s.controllers))
	for entity, c := range s.controllers {
		controllers[entity] = c
	}
	s.mu.Unlock()

	var errs []error
	for entity, c := range controllers {
		if err := c.Revalidate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("sync %s: %w", entity, err))
			continue
		}
		s.persistSnapshot(ctx, entity, c)
	}
	return errors.Join(errs...)
}

func (s *service) StartResync(interval time.Duration) error {
	for _, entity := range models.AllEntities {
		task := resync.Task{
			ID:       string(entity),
			Name:     fmt.Sprintf("%s resync", entity),
			Interval: interval,
			Enabled:  true,
			Fn: func(ctx context.Context) error {
				c := s.controller(entity)
				if err := c.Revalidate(ctx); err != nil {
					return err
				}
				s.persistSnapshot(ctx, entity, c)
				return nil
			},
		}
		if err := s.scheduler.Register(task); err != nil {
			return fmt.Errorf("failed to register resync task for %s: %w", entity, err)
		}
	}
	return nil
}

func (s *service) Close() {
	s.scheduler.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.controllers {
		c.Close()
	}
	s.controllers = make(map[models.EntityType]*listsync.Controller)
}

// persistSnapshot сохраняет текущее состояние коллекции в локальное хранилище.
// Ошибки записи не прерывают операцию, офлайн-кеш поддерживается по возможности.
func (s *service) persistSnapshot(ctx context.Context, entity models.EntityType, c *listsync.Controller) {
	state := c.State()
	if state.Status != listsync.StatusLoaded {
		return
	}

	snap := &storage.Snapshot{
		Entity:  entity,
		Filters: c.Filters(),
		Records: state.Records,
		SavedAt: state.LastSync,
	}
	if err := s.snapshots.SaveSnapshot(ctx, snap); err != nil {
		s.logger.Warn("failed to save snapshot", "entity", entity, "error", err)
		return
	}
	if err := s.metadata.SaveLastSync(ctx, entity, state.LastSync.Unix()); err != nil {
		s.logger.Warn("failed to save last sync time", "entity", entity, "error", err)
	}
}
