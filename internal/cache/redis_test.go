package cache

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := NewRedisCache(context.Background(), mr.Addr(), time.Minute, zap.NewNop().Sugar())
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

func TestRedisCache_GetSet(t *testing.T) {
	ctx := context.Background()
	rc, mr := newTestRedis(t)

	if _, err := rc.Get(ctx, "cost:apple:3"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}

	if err := rc.Set(ctx, "cost:apple:3", []byte(`"6"`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := rc.Get(ctx, "cost:apple:3")
	if err != nil || got != `"6"` {
		t.Fatalf("want %q, got %q (err %v)", `"6"`, got, err)
	}
	if ttl := mr.TTL("cost:apple:3"); ttl != time.Minute {
		t.Fatalf("expected ttl 1m, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := rc.Get(ctx, "cost:apple:3"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected expired key to miss, got %v", err)
	}
}

func TestRedisCache_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	rc, mr := newTestRedis(t)

	for _, k := range []string{"cost:apple:1", "cost:apple:3", "cost:apple+pie:1", "cost:kiwi:2"} {
		if err := rc.Set(ctx, k, []byte(`"1"`)); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}

	if err := rc.DeletePrefix(ctx, "cost:apple:"); err != nil {
		t.Fatalf("delete prefix: %v", err)
	}
	keys := mr.Keys()
	sort.Strings(keys)
	want := []string{"cost:apple+pie:1", "cost:kiwi:2"}
	if len(keys) != len(want) || keys[0] != want[0] || keys[1] != want[1] {
		t.Fatalf("want %v left, got %v", want, keys)
	}

	// пустой результат SCAN не ошибка
	if err := rc.DeletePrefix(ctx, "cost:pear:"); err != nil {
		t.Fatalf("delete missing prefix: %v", err)
	}
}

func TestRedisCache_Unavailable(t *testing.T) {
	ctx := context.Background()
	rc, mr := newTestRedis(t)
	mr.Close()

	_, err := rc.Get(ctx, "cost:apple:1")
	if err == nil || errors.Is(err, ErrMiss) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if err := rc.Set(ctx, "cost:apple:1", []byte(`"1"`)); err == nil {
		t.Fatal("expected set to fail")
	}
}
