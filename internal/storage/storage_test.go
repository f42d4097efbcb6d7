package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteGetSet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "myday.db")

	kv, err := OpenSQLite(path)
	require.NoError(t, err)

	_, ok, err := kv.Get(ctx, "mydayTasks")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "mydayTasks", []byte(`[{"id":1}]`)))
	require.NoError(t, kv.Set(ctx, "mydayTasks", []byte(`[{"id":2}]`)))

	v, ok, err := kv.Get(ctx, "mydayTasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":2}]`, string(v))
	require.NoError(t, kv.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err = reopened.Get(ctx, "mydayTasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":2}]`, string(v))
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite("")
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:", sqliteDSN("file::memory:"))

	dsn := sqliteDSN("/tmp/myday.db")
	assert.Contains(t, dsn, "file:///tmp/myday.db")
	assert.Contains(t, dsn, "mode=rwc")
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	in := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", in))
	in[0] = 'x'

	out, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", string(out))

	out[0] = 'y'
	again, _, _ := kv.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))

	_, ok, err = kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisUnreachableReturnsErrors(t *testing.T) {
	kv := NewRedisFromClient(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	}))
	defer kv.Close()

	ctx := context.Background()
	_, ok, err := kv.Get(ctx, "mydayTasks")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, kv.Set(ctx, "mydayTasks", []byte("[]")))
}
