package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// KV is the subset of the redis client the session store needs.
type KV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, bool, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(sessionID string) string
	LoginLockKey(sessionID string) string
}

// RedisStore keeps JSON-encoded snapshots in redis so replicas share logins.
type RedisStore struct {
	kv  KV
	ttl time.Duration
}

// NewRedisStore builds a redis-backed store with the given entry ttl.
func NewRedisStore(kv KV, ttl time.Duration) *RedisStore {
	return &RedisStore{kv: kv, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, id string) (State, bool, error) {
	raw, ok, err := r.kv.Get(ctx, r.kv.SessionKey(id))
	if err != nil {
		return State{}, false, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return State{}, false, nil
	}
	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return State{}, false, fmt.Errorf("decode session: %w", err)
	}
	return state, true, nil
}

func (r *RedisStore) Save(ctx context.Context, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.kv.Set(ctx, r.kv.SessionKey(state.ID), string(payload), r.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.kv.Del(ctx, r.kv.SessionKey(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ClaimLogin uses SET NX so only one replica runs a login per session.
func (r *RedisStore) ClaimLogin(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	ok, err := r.kv.SetNX(ctx, r.kv.LoginLockKey(id), "1", ttl)
	if err != nil {
		return false, fmt.Errorf("claim login: %w", err)
	}
	return ok, nil
}

func (r *RedisStore) ReleaseLogin(ctx context.Context, id string) error {
	if err := r.kv.Del(ctx, r.kv.LoginLockKey(id)); err != nil {
		return fmt.Errorf("release login: %w", err)
	}
	return nil
}
