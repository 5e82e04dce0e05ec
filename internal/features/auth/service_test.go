package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clsbot.hk/points-bot/internal/common"
)

// fakeOracle считает обращения и отдаёт фиксированный список админов.
type fakeOracle struct {
	calls  int
	admins []int64
	err    error
}

func (o *fakeOracle) ChatAdministrators(_ context.Context, _ int64) ([]int64, error) {
	o.calls++
	if o.err != nil {
		return nil, o.err
	}
	return o.admins, nil
}

func TestIsAdmin_Membership(t *testing.T) {
	oracle := &fakeOracle{admins: []int64{1, 2}}
	svc := NewService(oracle, time.Hour)
	ctx := context.Background()

	ok, err := svc.IsAdmin(ctx, -100, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsAdmin(ctx, -100, 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsAdmin_CachesWithinTTL(t *testing.T) {
	oracle := &fakeOracle{admins: []int64{1}}
	svc := NewService(oracle, time.Hour)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.IsAdmin(ctx, -100, 1)
		require.NoError(t, err)
	}

	// все проверки одного чата обслужены одним вызовом оракула
	assert.Equal(t, 1, oracle.calls)
}

func TestIsAdmin_RefreshesAfterTTL(t *testing.T) {
	oracle := &fakeOracle{admins: []int64{1}}
	svc := NewService(oracle, time.Hour)
	ctx := context.Background()

	now := time.Now()
	svc.now = func() time.Time { return now }

	_, err := svc.IsAdmin(ctx, -100, 1)
	require.NoError(t, err)
	require.Equal(t, 1, oracle.calls)

	// состав админов поменялся, но кэш ещё свежий
	oracle.admins = []int64{2}
	now = now.Add(59 * time.Minute)

	ok, err := svc.IsAdmin(ctx, -100, 1)
	require.NoError(t, err)
	assert.True(t, ok, "до истечения TTL отвечает кэш")
	assert.Equal(t, 1, oracle.calls)

	// TTL истёк — список перечитывается
	now = now.Add(2 * time.Minute)

	ok, err = svc.IsAdmin(ctx, -100, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, oracle.calls)

	ok, err = svc.IsAdmin(ctx, -100, 2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsAdmin_SeparateChats(t *testing.T) {
	oracle := &fakeOracle{admins: []int64{1}}
	svc := NewService(oracle, time.Hour)
	ctx := context.Background()

	_, err := svc.IsAdmin(ctx, -100, 1)
	require.NoError(t, err)
	_, err = svc.IsAdmin(ctx, -200, 1)
	require.NoError(t, err)

	// кэш ключуется по чату
	assert.Equal(t, 2, oracle.calls)
}

func TestIsAdmin_FailsClosed(t *testing.T) {
	oracle := &fakeOracle{err: errors.New("telegram timeout")}
	svc := NewService(oracle, time.Hour)

	ok, err := svc.IsAdmin(context.Background(), -100, 1)
	assert.ErrorIs(t, err, common.ErrAuthUnavailable)
	assert.False(t, ok)
}

func TestAdminSet_Fresh(t *testing.T) {
	now := time.Now()
	set := NewAdminSet([]int64{1}, now)

	assert.True(t, set.Fresh(time.Hour, now.Add(59*time.Minute)))
	assert.False(t, set.Fresh(time.Hour, now.Add(time.Hour)))
}
