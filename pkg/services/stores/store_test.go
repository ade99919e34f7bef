package stores

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liut/cryptopulse/pkg/models/pulse"
)

func newRedisStore(t *testing.T, lifetime time.Duration) (SessionStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })
	return NewRedisStore(rc, lifetime), mr
}

func testStoreRoundTrip(t *testing.T, sto SessionStore) {
	ctx := context.Background()

	_, err := sto.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	sess := pulse.NewSession("s1")
	sess.Ticker = "eth"
	sess.Append(pulse.RoleUser, "hi")
	sess.Append(pulse.RoleAssistant, "hello")
	sess.EnsureSurveyID()
	require.NoError(t, sto.Put(ctx, sess))

	got, err := sto.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess.Messages, got.Messages)
	assert.Equal(t, sess.SurveyID, got.SurveyID)
	assert.Equal(t, "eth", got.Ticker)

	require.NoError(t, sto.Delete(ctx, "s1"))
	_, err = sto.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	testStoreRoundTrip(t, NewMemoryStore(time.Hour))
}

func TestMemoryStoreExpire(t *testing.T) {
	sto := NewMemoryStore(time.Millisecond)
	ctx := context.Background()
	require.NoError(t, sto.Put(ctx, pulse.NewSession("s2")))
	time.Sleep(5 * time.Millisecond)
	_, err := sto.Get(ctx, "s2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreSweep(t *testing.T) {
	sto := NewMemoryStore(time.Millisecond)
	ctx := context.Background()
	for i := 0; i < 100; i++ {
		require.NoError(t, sto.Put(ctx, pulse.NewSession("")))
	}
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, sto.Put(ctx, pulse.NewSession("last")))

	ms := sto.(*memoryStore)
	ms.mu.Lock()
	defer ms.mu.Unlock()
	assert.Len(t, ms.items, 1)
	assert.Contains(t, ms.items, "last")
}

func TestRedisStore(t *testing.T) {
	sto, _ := newRedisStore(t, time.Hour)
	testStoreRoundTrip(t, sto)
}

func TestRedisStoreExpire(t *testing.T) {
	sto, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, sto.Put(ctx, pulse.NewSession("s3")))
	assert.True(t, mr.Exists(getKey("s3")))

	mr.FastForward(2 * time.Minute)
	_, err := sto.Get(ctx, "s3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad(t *testing.T) {
	sto := NewMemoryStore(0)
	ctx := context.Background()

	sess, err := Load(ctx, sto, "")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)

	sess.Append(pulse.RoleUser, "kept")
	require.NoError(t, sto.Put(ctx, sess))

	again, err := Load(ctx, sto, sess.ID)
	require.NoError(t, err)
	assert.Len(t, again.Messages, 1)

	fresh, err := Load(ctx, sto, "unknown-id")
	require.NoError(t, err)
	assert.Equal(t, "unknown-id", fresh.ID)
	assert.Empty(t, fresh.Messages)
}

func TestLoadPresetFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "preset.yaml")
	require.NoError(t, os.WriteFile(name, []byte("title: Pulse Desk\ndefaultTicker: ETH\n"), 0o600))

	doc, err := LoadPresetFile(name)
	require.NoError(t, err)
	assert.Equal(t, "Pulse Desk", doc.Title)
	assert.Equal(t, "ETH", doc.DefaultTicker)

	_, err = LoadPresetFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
