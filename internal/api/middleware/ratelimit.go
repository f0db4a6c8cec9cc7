package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ServiceBooking/internal/api/handlers"
)

const (
	msgTooManyRequests = "слишком много запросов, повторите позже"

	keyPrefix = "ratelimit:"
)

// Limiter решает, можно ли пропустить очередной запрос с ключом key
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RateLimit ограничивает число запросов с одного IP
// При ошибке хранилища запрос пропускается
func RateLimit(limiter Limiter, logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)

			allowed, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				logger.Error("RateLimit: limiter failed for ip=%s: %v", ip, err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				logger.Warn("RateLimit: too many requests from ip=%s to %s", ip, r.URL.Path)
				handlers.RespondTooManyRequests(w, msgTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP первый адрес из X-Forwarded-For, иначе адрес соединения
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// CounterStore команды redis, нужные ограничителю (реализуется *redis.Client)
type CounterStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisLimiter фиксированное окно на INCR + EXPIRE, общее для всех инстансов
type RedisLimiter struct {
	store  CounterStore
	limit  int64
	window time.Duration
}

func NewRedisLimiter(store CounterStore, limit int, window time.Duration) *RedisLimiter {
	if window < time.Second {
		window = time.Second
	}
	return &RedisLimiter{store: store, limit: int64(limit), window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := fmt.Sprintf("%s%s:%d", keyPrefix, key, time.Now().Unix()/int64(l.window.Seconds()))

	count, err := l.store.Incr(ctx, windowKey).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit: incr %s: %w", windowKey, err)
	}
	if count == 1 {
		if err := l.store.Expire(ctx, windowKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("ratelimit: expire %s: %w", windowKey, err)
		}
	}

	return count <= l.limit, nil
}

// MemoryLimiter счетчики в памяти процесса; корректен только для одного инстанса
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	windows map[string]*memoryWindow
}

type memoryWindow struct {
	start time.Time
	count int
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		windows: make(map[string]*memoryWindow),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		// Заодно чистим истекшие окна, чтобы карта не росла бесконечно
		for k, old := range l.windows {
			if now.Sub(old.start) >= l.window {
				delete(l.windows, k)
			}
		}
		w = &memoryWindow{start: now}
		l.windows[key] = w
	}

	w.count++
	return w.count <= l.limit, nil
}
