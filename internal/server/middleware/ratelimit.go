package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// RateLimiter ограничивает частоту запросов по ключу (IP клиента)
// по схеме token bucket: rate токенов на окно window.
type RateLimiter struct {
	buckets map[string]*bucket
	logger  *slog.Logger
	done    chan struct{}
	rate    int
	window  time.Duration
	mu      sync.RWMutex
}

type bucket struct {
	lastRefill time.Time
	tokens     int
	mu         sync.Mutex
}

// take списывает один токен, пополняя bucket если окно прошло
func (b *bucket) take(rate int, window time.Duration) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	if now.Sub(b.lastRefill) >= window {
		b.tokens = rate
		b.lastRefill = now
	}

	if b.tokens == 0 {
		return false
	}
	b.tokens--
	return true
}

// NewRateLimiter создает limiter и запускает фоновую очистку
// неактивных buckets. Остановить очистку можно через Stop.
func NewRateLimiter(rate int, window time.Duration, logger *slog.Logger) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		window:  window,
		logger:  logger,
		done:    make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupOldBuckets()
		case <-rl.done:
			return
		}
	}
}

// cleanupOldBuckets удаляет buckets, не видевшие запросов дольше
// двух окон, чтобы map не рос бесконечно по числу уникальных IP
func (rl *RateLimiter) cleanupOldBuckets() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rl.window * 2)
	for key, b := range rl.buckets {
		b.mu.Lock()
		stale := b.lastRefill.Before(cutoff)
		b.mu.Unlock()
		if stale {
			delete(rl.buckets, key)
		}
	}
}

// Stop останавливает cleanup goroutine
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

// Allow сообщает, проходит ли очередной запрос для ключа
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.RLock()
	b, ok := rl.buckets[key]
	rl.mu.RUnlock()

	if !ok {
		rl.mu.Lock()
		// Перепроверяем под write lock, bucket мог появиться
		if b, ok = rl.buckets[key]; !ok {
			b = &bucket{tokens: rl.rate, lastRefill: time.Now()}
			rl.buckets[key] = b
		}
		rl.mu.Unlock()
	}

	return b.take(rl.rate, rl.window)
}

// RateLimitMiddleware ограничивает частоту запросов по IP клиента
func RateLimitMiddleware(rate int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(rate, window, logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rejectIfLimited(limiter, logger, w, r) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// PathRateLimit задает отдельный лимит для конкретного пути.
// Auth эндпоинты обычно лимитируются жестче, чем чтение записей.
type PathRateLimit struct {
	Path   string
	Rate   int
	Window time.Duration
}

// RateLimitByPathMiddleware держит отдельный limiter на каждый путь
// из limits и общий дефолтный для всех остальных путей
func RateLimitByPathMiddleware(limits []PathRateLimit, defaultRate int, defaultWindow time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	limiters := make(map[string]*RateLimiter, len(limits))
	for _, limit := range limits {
		limiters[limit.Path] = NewRateLimiter(limit.Rate, limit.Window, logger)
	}
	defaultLimiter := NewRateLimiter(defaultRate, defaultWindow, logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter, ok := limiters[r.URL.Path]
			if !ok {
				limiter = defaultLimiter
			}

			if !rejectIfLimited(limiter, logger, w, r) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// rejectIfLimited отвечает 429, если лимит исчерпан.
// Возвращает true, когда запрос отклонен.
func rejectIfLimited(limiter *RateLimiter, logger *slog.Logger, w http.ResponseWriter, r *http.Request) bool {
	key := getClientIP(r)
	if limiter.Allow(key) {
		return false
	}

	logger.Warn("rate limit exceeded",
		"ip", key,
		"method", r.Method,
		"path", r.URL.Path,
	)
	sendError(logger, w, "rate limit exceeded, please try again later", http.StatusTooManyRequests)
	return true
}

// getClientIP извлекает IP клиента: сначала заголовки прокси,
// потом RemoteAddr соединения
func getClientIP(r *http.Request) string {
	// X-Forwarded-For содержит цепочку прокси, клиент идет первым
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for idx := 0; idx < len(xff); idx++ {
			if xff[idx] == ',' {
				return xff[:idx]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return r.RemoteAddr
}
