package briefs

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedisStore struct {
	values map[string]string
}

func newFakeRedisStore() *fakeRedisStore {
	return &fakeRedisStore{values: map[string]string{}}
}

func (f *fakeRedisStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeRedisStore) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeRedisStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func TestLockAcquireIsExclusive(t *testing.T) {
	store := newFakeRedisStore()
	ctx := context.Background()

	first, err := NewRedisExecutionLock(store, "lock:exec", time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	second, err := NewRedisExecutionLock(store, "lock:exec", time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}

	ok, err := first.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("expected first acquire to win, got ok=%v err=%v", ok, err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if ok {
		t.Fatal("expected second acquire to lose")
	}

	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("expected acquire after release to win, got ok=%v err=%v", ok, err)
	}
}

func TestLockReleaseOnlyByOwner(t *testing.T) {
	store := newFakeRedisStore()
	ctx := context.Background()

	lock, err := NewRedisExecutionLock(store, "lock:exec", time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	if ok, _ := lock.Acquire(ctx); !ok {
		t.Fatal("acquire should win on empty store")
	}

	// another process replaced the key, e.g. after TTL expiry
	store.values["lock:exec"] = "someone-else"
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release against foreign owner: %v", err)
	}
	if store.values["lock:exec"] != "someone-else" {
		t.Fatal("release must not remove a lock it no longer owns")
	}
}

func TestLockReleaseWithoutAcquireIsNoop(t *testing.T) {
	store := newFakeRedisStore()
	lock, err := NewRedisExecutionLock(store, "lock:exec", time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("release before acquire should be a no-op, got %v", err)
	}
}

func TestLockFactoryYieldsIndependentLocks(t *testing.T) {
	store := newFakeRedisStore()

	newLock, err := NewRedisLockFactory(store, "lock:exec", time.Minute)
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}

	a := newLock()
	b := newLock()
	if a == b {
		t.Fatal("factory must produce a fresh lock per call")
	}

	ctx := context.Background()
	if ok, _ := a.Acquire(ctx); !ok {
		t.Fatal("first lock should acquire")
	}
	if ok, _ := b.Acquire(ctx); ok {
		t.Fatal("second lock must observe the held key")
	}

	if _, err := NewRedisLockFactory(nil, "lock:exec", time.Minute); err == nil {
		t.Fatal("expected error for nil client")
	}
	if _, err := NewRedisLockFactory(store, "", time.Minute); err == nil {
		t.Fatal("expected error for empty key")
	}
}
