package resync

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestScheduler_Register_Validation(t *testing.T) {
	s := New(testLogger())
	defer s.Stop()

	noop := func(ctx context.Context) error { return nil }

	assert.Error(t, s.Register(Task{Fn: noop, Interval: time.Second}))
	assert.Error(t, s.Register(Task{ID: "a", Interval: time.Second}))
	assert.Error(t, s.Register(Task{ID: "a", Fn: noop}))

	require.NoError(t, s.Register(Task{ID: "a", Fn: noop, Interval: time.Second}))
	// Повторная регистрация того же id отклоняется
	assert.Error(t, s.Register(Task{ID: "a", Fn: noop, Interval: time.Second}))
	assert.Equal(t, 1, s.Len())
}

func TestScheduler_PeriodicRuns(t *testing.T) {
	s := New(testLogger())
	defer s.Stop()

	var runs atomic.Int64
	err := s.Register(Task{
		ID:       "leads",
		Name:     "Leads resync",
		Interval: 10 * time.Millisecond,
		Enabled:  true,
		Fn: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return runs.Load() >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_Disabled(t *testing.T) {
	s := New(testLogger())
	defer s.Stop()

	var runs atomic.Int64
	err := s.Register(Task{
		ID:       "leads",
		Interval: 5 * time.Millisecond,
		Enabled:  false,
		Fn: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(0), runs.Load())

	// Включение возобновляет запуски без перерегистрации
	require.True(t, s.SetEnabled("leads", true))
	assert.Eventually(t, func() bool {
		return runs.Load() >= 1
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_SkipWhileBusy(t *testing.T) {
	s := New(testLogger())
	defer s.Stop()

	release := make(chan struct{})
	var started atomic.Int64
	err := s.Register(Task{
		ID:       "slow",
		Interval: 5 * time.Millisecond,
		Enabled:  true,
		Fn: func(ctx context.Context) error {
			started.Add(1)
			select {
			case <-release:
			case <-ctx.Done():
			}
			return nil
		},
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return started.Load() == 1
	}, time.Second, time.Millisecond)

	// Тики во время выполнения пропускаются, а не накапливаются
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), started.Load())

	// Ручной запуск во время выполнения отклоняется
	assert.ErrorIs(t, s.Trigger(context.Background(), "slow"), ErrBusy)

	close(release)
}

func TestScheduler_Trigger(t *testing.T) {
	s := New(testLogger())
	defer s.Stop()

	var runs atomic.Int64
	err := s.Register(Task{
		ID:       "leads",
		Interval: time.Hour,
		Enabled:  true,
		Fn: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})
	require.NoError(t, err)

	require.NoError(t, s.Trigger(context.Background(), "leads"))
	assert.Equal(t, int64(1), runs.Load())

	err = s.Trigger(context.Background(), "unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestScheduler_Trigger_Error(t *testing.T) {
	s := New(testLogger())
	defer s.Stop()

	wantErr := errors.New("resync failed")
	require.NoError(t, s.Register(Task{
		ID:       "leads",
		Interval: time.Hour,
		Enabled:  true,
		Fn:       func(ctx context.Context) error { return wantErr },
	}))

	assert.ErrorIs(t, s.Trigger(context.Background(), "leads"), wantErr)
}

func TestScheduler_Deregister(t *testing.T) {
	s := New(testLogger())
	defer s.Stop()

	var runs atomic.Int64
	require.NoError(t, s.Register(Task{
		ID:       "leads",
		Interval: 5 * time.Millisecond,
		Enabled:  true,
		Fn: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	}))

	assert.Eventually(t, func() bool {
		return runs.Load() >= 1
	}, time.Second, time.Millisecond)

	require.True(t, s.Deregister("leads"))
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Deregister("leads"))

	// После снятия с расписания запусков больше нет
	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestScheduler_Stop(t *testing.T) {
	s := New(testLogger())

	blocked := make(chan struct{})
	require.NoError(t, s.Register(Task{
		ID:       "slow",
		Interval: time.Millisecond,
		Enabled:  true,
		Fn: func(ctx context.Context) error {
			close(blocked)
			<-ctx.Done()
			return ctx.Err()
		},
	}))

	<-blocked
	// Stop отменяет запуск в полете и дожидается завершения loops
	s.Stop()
	assert.Equal(t, 0, s.Len())

	// Регистрация после остановки отклоняется
	err := s.Register(Task{
		ID:       "late",
		Interval: time.Second,
		Fn:       func(ctx context.Context) error { return nil },
	})
	assert.Error(t, err)
}
