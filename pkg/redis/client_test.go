package redis

import (
	"context"
	"testing"
	"time"

	"github.com/delispi/delispi-backend/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeStore) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func (f *fakeStore) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.values[key] = value.(string)
	f.ttls[key] = ttl
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeStore) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	val, ok := f.values[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(val)
	return cmd
}

func (f *fakeStore) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	if _, ok := f.values[key]; ok {
		f.ttls[key] = ttl
		cmd.SetVal(true)
	}
	return cmd
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	var removed int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			delete(f.ttls, key)
			removed++
		}
	}
	cmd.SetVal(removed)
	return cmd
}

func TestClientSetGetDel(t *testing.T) {
	store := newFakeStore()
	client := &Client{store: store}
	ctx := context.Background()

	key := client.CartKey("session-1")
	require.NoError(t, client.Set(ctx, key, `{"p1":2}`, time.Hour))

	got, err := client.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"p1":2}`, got)
	assert.Equal(t, time.Hour, store.ttls[key])

	require.NoError(t, client.Del(ctx, key))
	_, err = client.Get(ctx, key)
	assert.ErrorIs(t, err, Nil)
}

func TestClientGetMissingReturnsNil(t *testing.T) {
	client := &Client{store: newFakeStore()}
	_, err := client.Get(context.Background(), client.CartKey("absent"))
	assert.ErrorIs(t, err, Nil)
}

func TestCartKeyNamespacing(t *testing.T) {
	client := &Client{}
	assert.Equal(t, "ds:cart:abc", client.CartKey("abc"))
	assert.Equal(t, "ds:cart", client.CartKey(""))
}

func TestOptionsFromConfig(t *testing.T) {
	t.Run("requires address or url", func(t *testing.T) {
		_, err := optionsFromConfig(config.RedisConfig{})
		assert.Error(t, err)
	})

	t.Run("builds from address", func(t *testing.T) {
		opts, err := optionsFromConfig(config.RedisConfig{
			Address:  "localhost:6379",
			DB:       2,
			PoolSize: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, "localhost:6379", opts.Addr)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, 5, opts.PoolSize)
	})

	t.Run("parses url", func(t *testing.T) {
		opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://:secret@example.com:6380/3"})
		require.NoError(t, err)
		assert.Equal(t, "example.com:6380", opts.Addr)
		assert.Equal(t, "secret", opts.Password)
		assert.Equal(t, 3, opts.DB)
	})
}
