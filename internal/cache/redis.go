package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"pinkcollar_backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable - Redis выключен в конфиге или не ответил на Ping при старте
var ErrUnavailable = errors.New("redis unavailable")

// Options - параметры подключения (секция redis конфига)
type Options struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// Redis - тонкая обертка над go-redis. Без подключения все операции
// становятся no-op, и приложение работает без кеша.
type Redis struct {
	client *redis.Client

	warnedUnavailable atomic.Bool
}

func NewRedis(opts Options) *Redis {
	if !opts.Enabled || strings.TrimSpace(opts.Addr) == "" {
		logger.Info("Redis disabled, cache bypassed")
		return &Redis{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, bypassing cache", "addr", opts.Addr, "error", err)
		_ = client.Close()
		return &Redis{}
	}

	logger.Info("Redis connected", "addr", opts.Addr)
	return &Redis{client: client}
}

// NewFromClient - для тестов и внешнего пула соединений
func NewFromClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Available - есть живое подключение
func (r *Redis) Available() bool {
	return r != nil && r.client != nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		logger.Warn("Redis command failed, bypassing cache", "error", err)
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if !r.Available() {
		return ErrUnavailable
	}
	return r.client.Ping(ctx).Err()
}

// GetJSON возвращает false без ошибки при промахе
func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !r.Available() {
		return false, nil
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnUnavailableOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !r.Available() {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// SetString - запись с TTL, используется denylist'ом токенов
func (r *Redis) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	if !r.Available() {
		return ErrUnavailable
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *Redis) Exists(ctx context.Context, key string) (bool, error) {
	if !r.Available() {
		return false, ErrUnavailable
	}
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return false, err
	}
	return n > 0, nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if !r.Available() {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// DeleteByPattern удаляет ключи через SCAN (KEYS блокирует сервер)
func (r *Redis) DeleteByPattern(ctx context.Context, pattern string) error {
	if !r.Available() {
		return nil
	}
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		if err := r.client.Del(ctx, k).Err(); err != nil {
			logger.Warn("Redis delete error", "key", k, "pattern", pattern, "error", err)
		}
	}
	return iter.Err()
}

func (r *Redis) Close() error {
	if !r.Available() {
		return nil
	}
	return r.client.Close()
}
