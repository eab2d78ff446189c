package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Repositories {
	t.Helper()
	repos, err := NewRepositories(context.Background(), Config{
		DSN:             ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 30 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, repos.Close()) })
	return repos
}

func TestRepositories_Integration(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repos.Ping(ctx))

	t.Run("missing key", func(t *testing.T) {
		v, ok, err := repos.KV.Get(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("set get overwrite", func(t *testing.T) {
		require.NoError(t, repos.KV.Set(ctx, "k1", `"one"`))
		v, ok, err := repos.KV.Get(ctx, "k1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `"one"`, v)

		require.NoError(t, repos.KV.Set(ctx, "k1", `"two"`))
		v, _, err = repos.KV.Get(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, `"two"`, v)
	})

	t.Run("keys by prefix", func(t *testing.T) {
		require.NoError(t, repos.KV.Set(ctx, "tt.b", "1"))
		require.NoError(t, repos.KV.Set(ctx, "tt.a", "1"))
		require.NoError(t, repos.KV.Set(ctx, "yt_x", "1"))
		keys, err := repos.KV.Keys(ctx, "tt.")
		require.NoError(t, err)
		assert.Equal(t, []string{"tt.a", "tt.b"}, keys)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repos.KV.Delete(ctx, "k1"))
		_, ok, err := repos.KV.Get(ctx, "k1")
		require.NoError(t, err)
		assert.False(t, ok)
		require.NoError(t, repos.KV.Delete(ctx, "k1"), "deleting missing key is fine")
	})
}

func TestLoad(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()
	s := repos.Store

	type rec struct {
		Name string `json:"name"`
	}
	validate := func(r rec) error {
		if r.Name == "" {
			return errors.New("empty name")
		}
		return nil
	}
	fallback := rec{Name: "default"}

	t.Run("missing", func(t *testing.T) {
		res := Load(ctx, s, "rec", fallback, validate)
		assert.False(t, res.Valid)
		assert.Equal(t, ReasonMissing, res.Reason)
		assert.Equal(t, fallback, res.Value)
	})

	t.Run("valid", func(t *testing.T) {
		require.True(t, s.Save(ctx, "rec", rec{Name: "abc"}))
		res := Load(ctx, s, "rec", fallback, validate)
		assert.True(t, res.Valid)
		assert.Empty(t, res.Reason)
		assert.Equal(t, "abc", res.Value.Name)
	})

	t.Run("malformed", func(t *testing.T) {
		require.NoError(t, repos.KV.Set(ctx, "rec", "{not json"))
		res := Load(ctx, s, "rec", fallback, validate)
		assert.False(t, res.Valid)
		assert.Equal(t, ReasonMalformed, res.Reason)
		assert.Equal(t, fallback, res.Value)
	})

	t.Run("invalid", func(t *testing.T) {
		require.NoError(t, repos.KV.Set(ctx, "rec", `{"name":""}`))
		res := Load(ctx, s, "rec", fallback, validate)
		assert.Equal(t, ReasonInvalid, res.Reason)
		assert.Equal(t, fallback, res.Value)
	})

	t.Run("null list rejected", func(t *testing.T) {
		require.NoError(t, repos.KV.Set(ctx, "list", "null"))
		res := Load(ctx, s, "list", []string{}, ListOf[string])
		assert.Equal(t, ReasonInvalid, res.Reason)
		assert.NotNil(t, res.Value)
	})

	t.Run("null map rejected", func(t *testing.T) {
		require.NoError(t, repos.KV.Set(ctx, "map", "null"))
		res := Load(ctx, s, "map", map[string]int{}, MapOf[string, int])
		assert.Equal(t, ReasonInvalid, res.Reason)
		require.True(t, s.Save(ctx, "map", map[string]int{"a": 1}))
		res = Load(ctx, s, "map", map[string]int{}, MapOf[string, int])
		assert.True(t, res.Valid)
		assert.Equal(t, 1, res.Value["a"])
	})

	t.Run("remove", func(t *testing.T) {
		assert.True(t, s.Remove(ctx, "rec"))
		res := Load(ctx, s, "rec", fallback, validate)
		assert.Equal(t, ReasonMissing, res.Reason)
	})
}

type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingKV) Set(context.Context, string, string) error         { return f.err }
func (f failingKV) Delete(context.Context, string) error              { return f.err }

func TestStore_FailuresAreSwallowed(t *testing.T) {
	s := NewStore(failingKV{err: errors.New("disk gone")})
	ctx := context.Background()

	res := Load(ctx, s, "k", 42, nil)
	assert.False(t, res.Valid)
	assert.Equal(t, ReasonReadError, res.Reason)
	assert.Equal(t, 42, res.Value)

	assert.False(t, s.Save(ctx, "k", 1))
	assert.False(t, s.Save(ctx, "k", make(chan int)), "unencodable value")
	assert.False(t, s.Remove(ctx, "k"))
}

func TestCriticalError(t *testing.T) {
	originalErr := fmt.Errorf("test error message")
	critErr := &criticalError{err: originalErr}

	assert.Equal(t, "test error message", critErr.Error())
	assert.ErrorIs(t, critErr, originalErr)
	assert.ErrorIs(t, critErr, errStop)
	assert.NotErrorIs(t, originalErr, errStop)
}

func TestIsLockError(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.False(t, isLockError(nil))
	})

	t.Run("sqlite busy error", func(t *testing.T) {
		assert.True(t, isLockError(fmt.Errorf("SQLITE_BUSY: database is busy")))
	})

	t.Run("database locked error", func(t *testing.T) {
		assert.True(t, isLockError(fmt.Errorf("database is locked")))
	})

	t.Run("table locked error", func(t *testing.T) {
		assert.True(t, isLockError(fmt.Errorf("database table is locked")))
	})

	t.Run("non-lock error", func(t *testing.T) {
		assert.False(t, isLockError(fmt.Errorf("syntax error")))
	})
}
