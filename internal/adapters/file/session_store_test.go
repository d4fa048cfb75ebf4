package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"medai/internal/config"
	"medai/internal/domain"
	"medai/internal/logger"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	cfg := &config.Config{LogLevel: "error", LogFormat: "text"}
	path := filepath.Join(t.TempDir(), "medai", "session.json")
	return NewSessionStore(path, logger.New(cfg))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved := domain.Session{
		Token: "t1",
		User:  domain.UserProfile{"id": "u-1", "name": "Demo Patient", "email": "demo@medai.health"},
	}
	require.NoError(t, store.Save(ctx, saved))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, saved.Token, loaded.Token)
	require.Equal(t, saved.User, loaded.User)
}

func TestLoadAbsent(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestLoadCorruptRecord(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, os.MkdirAll(filepath.Dir(store.path), 0o700))
	require.NoError(t, os.WriteFile(store.path, []byte("{not valid json"), 0o600))

	loaded, err := store.Load(ctx)
	require.NoError(t, err, "corruption must read as absent, not as an error")
	require.Nil(t, loaded)
}

func TestLoadRecordWithoutToken(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, os.MkdirAll(filepath.Dir(store.path), 0o700))
	require.NoError(t, os.WriteFile(store.path, []byte(`{"user":{"id":"u-1"}}`), 0o600))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestSaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Session{Token: "old", User: domain.UserProfile{"id": "u-1"}}))
	require.NoError(t, store.Save(ctx, domain.Session{Token: "new", User: domain.UserProfile{"id": "u-1"}}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "new", loaded.Token)
}

func TestClearIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Clear(ctx), "clear with nothing stored must not fail")

	require.NoError(t, store.Save(ctx, domain.Session{Token: "t1", User: domain.UserProfile{"id": "u-1"}}))
	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestSaveWritesPrivateFile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Session{Token: "t1", User: domain.UserProfile{"id": "u-1"}}))

	info, err := os.Stat(store.path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
