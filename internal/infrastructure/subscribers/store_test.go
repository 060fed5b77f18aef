package subscribers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
)

// exerciseStore checks the contract shared by every backend.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	ids, err := store.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, ids)

	added, err := store.Add(ctx, 42)
	require.NoError(t, err)
	require.True(t, added)

	added, err = store.Add(ctx, 42)
	require.NoError(t, err)
	require.False(t, added, "second add must be a no-op")

	added, err = store.Add(ctx, -1001234)
	require.NoError(t, err)
	require.True(t, added)

	ids, err = store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.RecipientID{-1001234, 42}, ids)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "chat_ids.json")
	exerciseStore(t, nopCloser{NewFileStore(path)})

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `[-1001234, 42]`, string(raw))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(domain.SecureFilePermissions), info.Mode().Perm())
}

func TestFileStoreReadsExistingList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_ids.json")
	require.NoError(t, os.WriteFile(path, []byte("[7674719048, 5, 5]"), 0o600))

	ids, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.RecipientID{5, 7674719048}, ids)
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_ids.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Load(context.Background())
	require.Error(t, err)
	_, err = NewFileStore(path).Add(context.Background(), 1)
	require.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "subscribers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	exerciseStore(t, store)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subscribers.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	_, err = store.Add(context.Background(), 7)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })
	ids, err := reopened.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.RecipientID{7}, ids)
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreWithClient(client, "datesmon:test")
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Ping(context.Background()))
	exerciseStore(t, store)

	members, err := mr.Members("datesmon:test")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"42", "-1001234"}, members)
}

func TestNewSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	store, err := New(domain.SubscriberSettings{Backend: domain.BackendFile, Path: filepath.Join(dir, "ids.json")})
	require.NoError(t, err)
	require.IsType(t, nopCloser{}, store)

	store, err = New(domain.SubscriberSettings{Backend: domain.BackendSQLite, Path: filepath.Join(dir, "ids.db")})
	require.NoError(t, err)
	require.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.Close())

	_, err = New(domain.SubscriberSettings{Backend: "etcd"})
	require.Error(t, err)
}
