package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreExpiresEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute, func() time.Time { return now })

	require.NoError(t, store.Save(ctx, State{ID: "s1", ReturnTo: "/cart"}))
	got, ok, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/cart", got.ReturnTo)

	now = now.Add(time.Minute)
	_, ok, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour, nil)
	require.NoError(t, store.Save(ctx, State{ID: "s1"}))
	require.NoError(t, store.Delete(ctx, "s1"))
	_, ok, _ := store.Get(ctx, "s1")
	assert.False(t, ok)
	assert.NoError(t, store.Delete(ctx, "missing"))
}

type fakeKV struct {
	data map[string]string
	ttl  map[string]time.Duration
	err  error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.data[key] = value.(string)
	f.ttl[key] = ttl
	return nil
}

func (f *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	if f.err != nil {
		return f.err
	}
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeKV) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = value.(string)
	f.ttl[key] = ttl
	return true, nil
}

func (f *fakeKV) SessionKey(id string) string { return "mkt:session:" + id }

func (f *fakeKV) LoginLockKey(id string) string { return "mkt:login-lock:" + id }

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	store := NewRedisStore(kv, 2*time.Hour)

	require.NoError(t, store.Save(ctx, State{ID: "s1", Loading: true, ReturnTo: "/orders"}))
	assert.Equal(t, 2*time.Hour, kv.ttl["mkt:session:s1"])
	assert.Contains(t, kv.data["mkt:session:s1"], `"returnTo":"/orders"`)

	got, ok, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Loading)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, ok, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreErrors(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	kv.data["mkt:session:bad"] = "{not json"
	store := NewRedisStore(kv, time.Hour)

	_, _, err := store.Get(ctx, "bad")
	assert.Error(t, err)

	kv.err = errors.New("connection refused")
	assert.Error(t, store.Save(ctx, State{ID: "s1"}))
	assert.Error(t, store.Delete(ctx, "s1"))
}

func TestMemoryStoreLoginClaimExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Hour, func() time.Time { return now })

	ok, err := store.ClaimLogin(ctx, "s1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = store.ClaimLogin(ctx, "s1", time.Minute)
	assert.False(t, ok)

	now = now.Add(time.Minute)
	ok, _ = store.ClaimLogin(ctx, "s1", time.Minute)
	assert.True(t, ok, "an expired claim can be taken over")

	require.NoError(t, store.ReleaseLogin(ctx, "s1"))
	ok, _ = store.ClaimLogin(ctx, "s1", time.Minute)
	assert.True(t, ok)
}

func TestRedisStoreLoginClaim(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	store := NewRedisStore(kv, time.Hour)

	ok, err := store.ClaimLogin(ctx, "s1", 15*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 15*time.Second, kv.ttl["mkt:login-lock:s1"])

	ok, err = store.ClaimLogin(ctx, "s1", 15*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.ReleaseLogin(ctx, "s1"))
	ok, err = store.ClaimLogin(ctx, "s1", 15*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	kv.err = errors.New("redis down")
	_, err = store.ClaimLogin(ctx, "s2", time.Second)
	assert.Error(t, err)
}
