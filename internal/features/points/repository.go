// Package points — repository.go выполняет операции с хранилищем счётчиков.
// Репозиторий добавляет к именам префикс пространства имён (по умолчанию
// "cls:") и работает с любым бэкендом через контракт store.Store.
package points

import (
	"context"
	"strings"

	"clsbot.hk/points-bot/internal/store"
)

// Repository работает с записями реестра в общем key-value пространстве.
type Repository struct {
	store  store.Store
	prefix string
}

// NewRepository создаёт репозиторий реестра.
// prefix отделяет ключи реестра от чужих ключей в том же хранилище.
func NewRepository(st store.Store, prefix string) *Repository {
	return &Repository{store: st, prefix: prefix}
}

func (r *Repository) key(name string) string {
	return r.prefix + name
}

// Exists проверяет, есть ли запись с таким именем.
func (r *Repository) Exists(ctx context.Context, name string) (bool, error) {
	return r.store.Exists(ctx, r.key(name))
}

// Get возвращает счёт по имени (common.ErrNotFound, если записи нет).
func (r *Repository) Get(ctx context.Context, name string) (int64, error) {
	return r.store.Get(ctx, r.key(name))
}

// Adjust атомарно изменяет счёт на delta и возвращает итог.
// Первое изменение создаёт запись со значением delta.
func (r *Repository) Adjust(ctx context.Context, name string, delta int64) (int64, error) {
	return r.store.IncrBy(ctx, r.key(name), delta)
}

// Set безусловно выставляет счёт (создаёт запись, если её не было).
func (r *Repository) Set(ctx context.Context, name string, value int64) error {
	return r.store.Set(ctx, r.key(name), value)
}

// Delete удаляет запись (common.ErrNotFound, если её не было).
func (r *Repository) Delete(ctx context.Context, name string) error {
	return r.store.Delete(ctx, r.key(name))
}

// List возвращает все записи реестра в порядке обхода хранилища.
// Префикс из имён вырезается — наружу уходят только отображаемые имена.
func (r *Repository) List(ctx context.Context) ([]ScoreEntry, error) {
	raw, err := r.store.Scan(ctx, r.prefix)
	if err != nil {
		return nil, err
	}

	entries := make([]ScoreEntry, 0, len(raw))
	for _, e := range raw {
		entries = append(entries, ScoreEntry{
			Name:  strings.TrimPrefix(e.Key, r.prefix),
			Score: e.Value,
		})
	}
	return entries, nil
}
