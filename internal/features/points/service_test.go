package points

import (
	"context"
	"errors"
	"sync"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clsbot.hk/points-bot/internal/common"
	"clsbot.hk/points-bot/internal/store/redisstore"
)

const (
	testChatID  = int64(-100500)
	adminUserID = int64(1)
	plainUserID = int64(2)
)

// stubAuth — заглушка авторизации: фиксированный набор админов
// либо принудительная ошибка оракула.
type stubAuth struct {
	admins map[int64]bool
	err    error
}

func (a *stubAuth) IsAdmin(_ context.Context, _, userID int64) (bool, error) {
	if a.err != nil {
		return false, a.err
	}
	return a.admins[userID], nil
}

// newTestService собирает сервис поверх miniredis с префиксом cls:.
func newTestService(t *testing.T) (*Service, *Repository, *stubAuth) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := NewRepository(redisstore.NewWithClient(client), "cls:")
	auth := &stubAuth{admins: map[int64]bool{adminUserID: true}}
	return NewService(repo, auth), repo, auth
}

func TestShow_NeverAdjusted(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Show(context.Background(), []string{"Alice"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestShow_EmptyArgs(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Show(context.Background(), nil)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestAdjust_AccumulatesDeltas(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	adj, err := svc.Adjust(ctx, testChatID, adminUserID, []string{"Alice", "30"})
	require.NoError(t, err)
	assert.Equal(t, int64(30), adj.Total)

	adj, err = svc.Adjust(ctx, testChatID, adminUserID, []string{"Alice", "-10"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", adj.Name)
	assert.Equal(t, int64(-10), adj.Delta)
	assert.Equal(t, int64(20), adj.Total)

	entry, err := svc.Show(ctx, []string{"Alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(20), entry.Score)
}

func TestAdjust_MultiTokenName(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, testChatID, adminUserID, []string{"Alice", "Lee", "5"})
	require.NoError(t, err)

	entry, err := svc.Show(ctx, []string{"Alice", "Lee"})
	require.NoError(t, err)
	assert.Equal(t, "Alice Lee", entry.Name)
	assert.Equal(t, int64(5), entry.Score)

	// имя — точная строка: "Alice" отдельной записью не появилась
	_, err = svc.Show(ctx, []string{"Alice"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAdjust_NonAdmin(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, testChatID, plainUserID, []string{"Alice", "10"})
	assert.ErrorIs(t, err, common.ErrNotAdmin)

	// хранилище не изменилось
	exists, err := repo.Exists(ctx, "Alice")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAdjust_InvalidDelta(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, testChatID, adminUserID, []string{"Alice", "abc"})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = svc.Adjust(ctx, testChatID, adminUserID, []string{"Alice"})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	exists, err := repo.Exists(ctx, "Alice")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAdjust_AuthUnavailableFailsClosed(t *testing.T) {
	svc, repo, auth := newTestService(t)
	ctx := context.Background()
	auth.err = common.ErrAuthUnavailable

	_, err := svc.Adjust(ctx, testChatID, adminUserID, []string{"Alice", "10"})
	assert.ErrorIs(t, err, common.ErrAuthUnavailable)

	exists, err := repo.Exists(ctx, "Alice")
	require.NoError(t, err)
	assert.False(t, exists)
}

// Конкурентные Adjust по одному имени суммируются без потерь.
func TestAdjust_Concurrent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	const workers = 40

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Adjust(ctx, testChatID, adminUserID, []string{"Alice", "1"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	entry, err := svc.Show(ctx, []string{"Alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(workers), entry.Score)
}

func TestReset_ZeroIsNotAbsent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, testChatID, adminUserID, []string{"Alice", "50"})
	require.NoError(t, err)

	name, err := svc.Reset(ctx, testChatID, adminUserID, []string{"Alice"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	// после сброса запись существует со счётом 0, а не отсутствует
	entry, err := svc.Show(ctx, []string{"Alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), entry.Score)
}

func TestReset_CreatesWhenAbsent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Reset(ctx, testChatID, adminUserID, []string{"Ghost"})
	require.NoError(t, err)

	entry, err := svc.Show(ctx, []string{"Ghost"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), entry.Score)
}

func TestReset_NonAdmin(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Reset(context.Background(), testChatID, plainUserID, []string{"Alice"})
	assert.ErrorIs(t, err, common.ErrNotAdmin)
}

func TestDelete_NeverAdjusted(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Delete(context.Background(), testChatID, adminUserID, []string{"Alice"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDelete_AfterAdjust(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, testChatID, adminUserID, []string{"Alice", "5"})
	require.NoError(t, err)

	_, err = svc.Delete(ctx, testChatID, adminUserID, []string{"Alice"})
	require.NoError(t, err)

	_, err = svc.Show(ctx, []string{"Alice"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListUsers_StripsPrefix(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, testChatID, adminUserID, []string{"Alice", "1"})
	require.NoError(t, err)
	_, err = svc.Adjust(ctx, testChatID, adminUserID, []string{"Bob", "Lee", "2"})
	require.NoError(t, err)

	names, err := svc.ListUsers(ctx, testChatID, adminUserID)
	require.NoError(t, err)
	require.Len(t, names, 2)
	for _, name := range names {
		assert.NotContains(t, name, "cls:")
	}
	assert.ElementsMatch(t, []string{"Alice", "Bob Lee"}, names)
}

func TestListUsers_NonAdmin(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ListUsers(context.Background(), testChatID, plainUserID)
	assert.ErrorIs(t, err, common.ErrNotAdmin)
}

func TestListUsers_Empty(t *testing.T) {
	svc, _, _ := newTestService(t)

	names, err := svc.ListUsers(context.Background(), testChatID, adminUserID)
	require.NoError(t, err)
	assert.Empty(t, names)
}

// Заглушка авторизации не должна возвращать обёрнутые ошибки,
// которые сервис принял бы за отказ в правах.
func TestRequireAdmin_PropagatesOracleError(t *testing.T) {
	svc, _, auth := newTestService(t)
	auth.err = errors.New("telegram timeout")

	_, err := svc.ListUsers(context.Background(), testChatID, adminUserID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrNotAdmin)
}
