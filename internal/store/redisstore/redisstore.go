// Package redisstore реализует контракт store.Store поверх Redis.
// Это основной бэкенд бота: счётчики лежат плоскими строковыми ключами,
// атомарность инкремента даёт родной INCRBY.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"clsbot.hk/points-bot/internal/common"
	"clsbot.hk/points-bot/internal/store"
)

// Store — Redis-реализация store.Store.
type Store struct {
	client *redis.Client
}

// New подключается к Redis по URL (redis://[:password@]host:port/db)
// и проверяет соединение.
func New(ctx context.Context, redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis недоступен: %w", err)
	}

	return &Store{client: client}, nil
}

// NewWithClient оборачивает готовый клиент (удобно для тестов с miniredis).
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Exists проверяет наличие ключа.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// Get возвращает значение ключа или common.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (int64, error) {
	val, err := s.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, common.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

// Set создаёт или перезаписывает ключ.
func (s *Store) Set(ctx context.Context, key string, value int64) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// IncrBy атомарно прибавляет delta и возвращает итог.
// INCRBY создаёт отсутствующий ключ со значением delta.
func (s *Store) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	total, err := s.client.IncrBy(ctx, key, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incrby: %w", err)
	}
	return total, nil
}

// Delete удаляет ключ. DEL возвращает число удалённых —
// ноль означает, что ключа не было.
func (s *Store) Delete(ctx context.Context, key string) error {
	n, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Scan перечисляет все ключи с данным префиксом через SCAN
// (без блокирующего KEYS) и читает их значения.
// Префикс экранируется: спецсимволы glob-шаблона в нём — литералы,
// как и в postgres-бэкенде.
func (s *Store) Scan(ctx context.Context, prefix string) ([]store.Entry, error) {
	var entries []store.Entry

	iter := s.client.Scan(ctx, 0, escapeGlob(prefix)+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		val, err := s.client.Get(ctx, key).Int64()
		if errors.Is(err, redis.Nil) {
			// Ключ удалили между SCAN и GET — пропускаем
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("redis scan get %q: %w", key, err)
		}
		entries = append(entries, store.Entry{Key: key, Value: val})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}

	return entries, nil
}

// escapeGlob экранирует спецсимволы MATCH-шаблона Redis,
// чтобы префикс сравнивался дословно.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '^', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Ping проверяет доступность Redis.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close закрывает соединение.
func (s *Store) Close() error {
	return s.client.Close()
}
