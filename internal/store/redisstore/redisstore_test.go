package redisstore

import (
	"context"
	"sync"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clsbot.hk/points-bot/internal/common"
)

// newTestStore поднимает miniredis и возвращает хранилище поверх него.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewWithClient(client)
}

func TestStore_SetGet(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, "cls:Alice", 42))

	val, err := st.Get(ctx, "cls:Alice")
	require.NoError(t, err)
	assert.Equal(t, int64(42), val)

	// перезапись безусловная
	require.NoError(t, st.Set(ctx, "cls:Alice", -7))
	val, err = st.Get(ctx, "cls:Alice")
	require.NoError(t, err)
	assert.Equal(t, int64(-7), val)
}

func TestStore_GetMissing(t *testing.T) {
	st := newTestStore(t)

	_, err := st.Get(context.Background(), "cls:nobody")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestStore_Exists(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	ok, err := st.Exists(ctx, "cls:Alice")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Set(ctx, "cls:Alice", 0))

	ok, err = st.Exists(ctx, "cls:Alice")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_IncrBy(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	// отсутствующий ключ создаётся со значением дельты
	total, err := st.IncrBy(ctx, "cls:Alice", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)

	total, err = st.IncrBy(ctx, "cls:Alice", -3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
}

func TestStore_DeleteMissing(t *testing.T) {
	st := newTestStore(t)

	err := st.Delete(context.Background(), "cls:nobody")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, "cls:Alice", 5))
	require.NoError(t, st.Delete(ctx, "cls:Alice"))

	_, err := st.Get(ctx, "cls:Alice")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestStore_ScanPrefix(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, "cls:Alice", 1))
	require.NoError(t, st.Set(ctx, "cls:Bob Lee", -2))
	// чужой ключ в том же хранилище — не должен попасть в обход
	require.NoError(t, st.Set(ctx, "other:Carol", 99))

	entries, err := st.Scan(ctx, "cls:")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	got := make(map[string]int64)
	for _, e := range entries {
		got[e.Key] = e.Value
	}
	assert.Equal(t, map[string]int64{"cls:Alice": 1, "cls:Bob Lee": -2}, got)
}

// Спецсимволы glob в префиксе — литералы, а не шаблон.
func TestStore_ScanGlobPrefix(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, "cls[1]:Alice", 1))
	// без экранирования "cls[1]:" совпал бы и этот ключ
	require.NoError(t, st.Set(ctx, "cls1:Bob", 2))

	entries, err := st.Scan(ctx, "cls[1]:")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cls[1]:Alice", entries[0].Key)
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, "cls:", escapeGlob("cls:"))
	assert.Equal(t, `cls\*\?\[\]:`, escapeGlob("cls*?[]:"))
	assert.Equal(t, `a\\b`, escapeGlob(`a\b`))
}

func TestStore_ScanEmpty(t *testing.T) {
	st := newTestStore(t)

	entries, err := st.Scan(context.Background(), "cls:")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// Конкурентные инкременты одного ключа не должны терять обновления.
func TestStore_ConcurrentIncrBy(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	const workers = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := st.IncrBy(ctx, "cls:Alice", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	val, err := st.Get(ctx, "cls:Alice")
	require.NoError(t, err)
	assert.Equal(t, int64(workers), val)
}
