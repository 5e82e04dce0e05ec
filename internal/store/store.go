// Package store определяет контракт key-value хранилища счётчиков.
// Реестр баллов работает только через этот интерфейс и не знает,
// какой бэкенд за ним стоит (Redis или PostgreSQL).
package store

import "context"

// Entry — одна запись хранилища: полный ключ и целочисленное значение.
type Entry struct {
	Key   string
	Value int64
}

// Store — контракт key-value хранилища целочисленных счётчиков.
// Значения хранятся как десятичные строки. Все операции безопасны
// при конкурентных вызовах из нескольких обработчиков.
type Store interface {
	// Exists проверяет наличие ключа.
	Exists(ctx context.Context, key string) (bool, error)

	// Get возвращает значение ключа.
	// Возвращает common.ErrNotFound, если ключа нет.
	Get(ctx context.Context, key string) (int64, error)

	// Set создаёт или безусловно перезаписывает ключ.
	Set(ctx context.Context, key string, value int64) error

	// IncrBy атомарно прибавляет delta к значению ключа и возвращает итог.
	// Отсутствующий ключ создаётся со значением delta.
	// Именно атомарность этой операции гарантирует, что конкурентные
	// изменения одного счётчика не теряются (никакого get+set).
	IncrBy(ctx context.Context, key string, delta int64) (int64, error)

	// Delete удаляет ключ.
	// Возвращает common.ErrNotFound, если ключа нет.
	Delete(ctx context.Context, key string) error

	// Scan возвращает все записи, чьи ключи начинаются с prefix.
	// Порядок не определён; каждый вызов перечитывает хранилище заново.
	Scan(ctx context.Context, prefix string) ([]Entry, error)

	// Ping проверяет доступность бэкенда.
	Ping(ctx context.Context) error

	// Close освобождает соединения.
	Close() error
}
