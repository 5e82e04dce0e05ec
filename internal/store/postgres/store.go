// Package postgres — store.go выполняет операции с таблицей counters.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clsbot.hk/points-bot/internal/common"
	"clsbot.hk/points-bot/internal/config"
	"clsbot.hk/points-bot/internal/store"
)

// Store — PostgreSQL-реализация store.Store.
type Store struct {
	pool *pgxpool.Pool
}

// New создаёт пул, применяет миграции и возвращает готовое хранилище.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewWithPool оборачивает готовый пул (для тестов и сборки приложения).
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Exists проверяет наличие ключа.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM counters WHERE key = $1)", key,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pg exists: %w", err)
	}
	return exists, nil
}

// Get возвращает значение ключа или common.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (int64, error) {
	var raw string
	err := s.pool.QueryRow(ctx,
		"SELECT value FROM counters WHERE key = $1", key,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, common.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("pg get: %w", err)
	}
	return parseValue(key, raw)
}

// Set создаёт или перезаписывает ключ.
func (s *Store) Set(ctx context.Context, key string, value int64) error {
	query := `
		INSERT INTO counters (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := s.pool.Exec(ctx, query, key, strconv.FormatInt(value, 10)); err != nil {
		return fmt.Errorf("pg set: %w", err)
	}
	return nil
}

// IncrBy атомарно прибавляет delta одним запросом-upsert.
// Конкурентные инкременты одного ключа сериализует сама БД,
// отдельных get+set здесь нет.
func (s *Store) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	query := `
		INSERT INTO counters (key, value) VALUES ($1, $2::bigint::text)
		ON CONFLICT (key) DO UPDATE
		SET value = ((counters.value)::bigint + $2)::text, updated_at = NOW()
		RETURNING value
	`
	var raw string
	if err := s.pool.QueryRow(ctx, query, key, delta).Scan(&raw); err != nil {
		return 0, fmt.Errorf("pg incrby: %w", err)
	}
	return parseValue(key, raw)
}

// Delete удаляет ключ; ноль затронутых строк означает его отсутствие.
func (s *Store) Delete(ctx context.Context, key string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM counters WHERE key = $1", key)
	if err != nil {
		return fmt.Errorf("pg delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Scan перечисляет записи по префиксу.
// Сравнение через left(), а не LIKE — префикс может содержать
// спецсимволы шаблонов.
func (s *Store) Scan(ctx context.Context, prefix string) ([]store.Entry, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT key, value FROM counters WHERE left(key, length($1)) = $1", prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("pg scan: %w", err)
	}
	defer rows.Close()

	var entries []store.Entry
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("pg scan row: %w", err)
		}
		val, err := parseValue(key, raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, store.Entry{Key: key, Value: val})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pg scan: %w", err)
	}

	return entries, nil
}

// Ping проверяет доступность базы.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close закрывает пул.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func parseValue(key, raw string) (int64, error) {
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("повреждённое значение ключа %q: %w", key, err)
	}
	return val, nil
}
