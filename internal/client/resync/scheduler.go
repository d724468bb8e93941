// Package resync реализует планировщик периодической ресинхронизации:
// зарегистрированные коллекции обновляются каждая по своему интервалу
// все время работы приложения, независимо от действий пользователя.
package resync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrBusy возвращается, когда предыдущий запуск задачи еще в полете
var ErrBusy = errors.New("resync: previous run still in flight")

// Func выполняет одну ресинхронизацию
type Func func(ctx context.Context) error

// Task описывает периодическую задачу ресинхронизации
type Task struct {
	Fn       Func          // выполняемая операция
	ID       string        // уникальный идентификатор задачи
	Name     string        // человекочитаемое имя для логов
	Interval time.Duration // период между запусками
	Enabled  bool          // выключенная задача остается зарегистрированной, но не запускается
}

// runner представляет одну зарегистрированную задачу со своим ticker loop
type runner struct {
	stopC   chan struct{}
	task    Task
	enabled atomic.Bool
	busy    atomic.Bool
}

// Scheduler управляет набором периодических задач.
// Тик, пришедший пока предыдущий запуск той же задачи не завершился,
// пропускается: запуски одной задачи никогда не накладываются.
type Scheduler struct {
	logger  *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	runners map[string]*runner
	mu      sync.Mutex
	wg      sync.WaitGroup
	stopped bool
}

// New создает планировщик
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		runners: make(map[string]*runner),
	}
}

// Register регистрирует задачу и запускает ее ticker loop
func (s *Scheduler) Register(task Task) error {
	if task.ID == "" {
		return errors.New("resync: task id is required")
	}
	if task.Fn == nil {
		return fmt.Errorf("resync: task %q has no function", task.ID)
	}
	if task.Interval <= 0 {
		return fmt.Errorf("resync: task %q has non-positive interval %v", task.ID, task.Interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return errors.New("resync: scheduler is stopped")
	}
	if _, exists := s.runners[task.ID]; exists {
		return fmt.Errorf("resync: task %q is already registered", task.ID)
	}

	r := &runner{
		stopC: make(chan struct{}),
		task:  task,
	}
	r.enabled.Store(task.Enabled)
	s.runners[task.ID] = r

	s.wg.Add(1)
	go s.run(r)

	s.logger.Debug("Resync task registered",
		"task", task.ID,
		"name", task.Name,
		"interval", task.Interval,
		"enabled", task.Enabled)
	return nil
}

// Deregister снимает задачу с расписания.
// Возвращает false, если задача не была зарегистрирована.
func (s *Scheduler) Deregister(id string) bool {
	s.mu.Lock()
	r, ok := s.runners[id]
	if ok {
		delete(s.runners, id)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}
	close(r.stopC)
	return true
}

// SetEnabled включает или выключает задачу, не снимая ее с расписания.
// Возвращает false, если задача не зарегистрирована.
func (s *Scheduler) SetEnabled(id string, enabled bool) bool {
	s.mu.Lock()
	r, ok := s.runners[id]
	s.mu.Unlock()
	if !ok {
		return false
	}
	r.enabled.Store(enabled)
	return true
}

// Trigger выполняет задачу немедленно, вне расписания.
// Возвращает ErrBusy, если предыдущий запуск еще не завершился.
func (s *Scheduler) Trigger(ctx context.Context, id string) error {
	s.mu.Lock()
	r, ok := s.runners[id]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("resync: task %q is not registered", id)
	}

	if !r.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer r.busy.Store(false)

	return r.task.Fn(ctx)
}

// Len возвращает количество зарегистрированных задач
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runners)
}

// Stop останавливает все ticker loops и отменяет запуски в полете
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	for id, r := range s.runners {
		close(r.stopC)
		delete(s.runners, id)
	}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// run крутит ticker loop одной задачи
func (s *Scheduler) run(r *runner) {
	defer s.wg.Done()

	ticker := time.NewTicker(r.task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.fire(r)
		case <-r.stopC:
			return
		case <-s.ctx.Done():
			return
		}
	}
}

// fire выполняет один запуск с защитой от наложения
func (s *Scheduler) fire(r *runner) {
	if !r.enabled.Load() {
		return
	}
	if !r.busy.CompareAndSwap(false, true) {
		s.logger.Debug("Resync tick skipped, previous run still in flight", "task", r.task.ID)
		return
	}
	defer r.busy.Store(false)

	start := time.Now()
	if err := r.task.Fn(s.ctx); err != nil {
		s.logger.Warn("Periodic resync failed",
			"task", r.task.ID,
			"name", r.task.Name,
			"error", err)
		return
	}
	s.logger.Debug("Periodic resync completed",
		"task", r.task.ID,
		"duration", time.Since(start))
}
