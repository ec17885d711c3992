package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biblioteca_portal/models"
)

func newTestStore(t *testing.T, ttl time.Duration) (*AppSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewAppSessionStore(rdb, ttl), mr
}

var ana = models.Session{
	Token: "tok-ana",
	User:  models.User{ID: 4, Username: "estudiante1", FullName: "Ana Pérez", Role: "estudiante"},
}

func TestAppSession_SaveLoadClear(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	_, err := s.Load(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, s.Save(ctx, "sid-1", ana))

	got, err := s.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, ana, got.Session())
	assert.Greater(t, got.ExpiresAt, got.IssuedAt)

	require.NoError(t, s.Clear(ctx, "sid-1"))
	_, err = s.Load(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestAppSession_Expires(t *testing.T) {
	s, mr := newTestStore(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "sid-1", ana))

	mr.FastForward(2 * time.Minute)

	_, err := s.Load(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestAppSession_CorruptRecordIsAbsent(t *testing.T) {
	s, mr := newTestStore(t, time.Hour)
	require.NoError(t, mr.Set(key("sid-x"), "{not json"))

	_, err := s.Load(context.Background(), "sid-x")
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = s.Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestAppSession_RevokeAllForUser(t *testing.T) {
	s, mr := newTestStore(t, time.Hour)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "sid-1", ana))
	require.NoError(t, s.Save(ctx, "sid-2", ana))

	require.NoError(t, s.RevokeAllForUser(ctx, ana.User.ID))

	for _, sid := range []string{"sid-1", "sid-2"} {
		_, err := s.Load(ctx, sid)
		assert.ErrorIs(t, err, ErrNoSession)
	}
	assert.False(t, mr.Exists(userSetKey(ana.User.ID)))
}

func TestFlash_PopDrains(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.PushFlash(ctx, "sid-1", Flash{Kind: FlashSuccess, Message: "✅ Reserva cancelada exitosamente"}))
	require.NoError(t, s.PushFlash(ctx, "sid-1", Flash{Kind: FlashError, Message: "otra"}))

	got, err := s.PopFlashes(ctx, "sid-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, FlashSuccess, got[0].Kind)
	assert.Equal(t, "otra", got[1].Message)

	got, err = s.PopFlashes(ctx, "sid-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileStore(t *testing.T) {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"))
	require.NoError(t, err)

	_, err = fs.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, fs.Save(ana))
	got, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, ana, *got)

	require.NoError(t, fs.Clear())
	_, err = fs.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	// 重复清除不报错
	assert.NoError(t, fs.Clear())
}
