package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/boxdancer/fruit-store-client/internal/fruit"
	"github.com/boxdancer/fruit-store-client/internal/testutil"
)

func mustHaveFruits(t *testing.T, got map[string]decimal.Decimal, names ...string) {
	t.Helper()
	for _, n := range names {
		if _, ok := got[n]; !ok {
			t.Fatalf("expected fruit %q in results", n)
		}
	}
}

func mustNotHaveFruits(t *testing.T, got map[string]decimal.Decimal, names ...string) {
	t.Helper()
	for _, n := range names {
		if _, ok := got[n]; ok {
			t.Fatalf("did not expect fruit %q in results", n)
		}
	}
}

func TestRegistry_FruitPrices(t *testing.T) {
	names := []string{"apple", "pear", "kiwi"}

	tests := []struct {
		name       string
		fake       func() *testutil.FakeEngine
		ctxFactory func() (context.Context, context.CancelFunc)
		wantErr    bool
		mustHave   []string
		mustAbsent []string
	}{
		{
			name: "all priced",
			fake: func() *testutil.FakeEngine {
				f := testutil.NewFakeEngine()
				f.Prices["apple"] = testutil.D("2")
				f.Prices["pear"] = testutil.D("0.75")
				f.Prices["kiwi"] = testutil.D("0.40")
				return f
			},
			ctxFactory: func() (context.Context, context.CancelFunc) { return context.Background(), func() {} },
			mustHave:   []string{"apple", "pear", "kiwi"},
		},
		{
			name: "unpriced fruit skipped",
			fake: func() *testutil.FakeEngine {
				f := testutil.NewFakeEngine()
				f.Prices["apple"] = testutil.D("2")
				return f
			},
			ctxFactory: func() (context.Context, context.CancelFunc) { return context.Background(), func() {} },
			mustHave:   []string{"apple"},
			mustAbsent: []string{"pear", "kiwi"},
		},
		{
			name: "partial error",
			fake: func() *testutil.FakeEngine {
				f := testutil.NewFakeEngine()
				f.Prices["apple"] = testutil.D("2")
				f.Prices["pear"] = testutil.D("1")
				f.Errors[testutil.Key{Name: "kiwi", Quantity: 1}] = testutil.Err("engine failure")
				return f
			},
			ctxFactory: func() (context.Context, context.CancelFunc) { return context.Background(), func() {} },
			wantErr:    true,
			mustAbsent: []string{"kiwi"},
		},
		{
			name: "context cancelled",
			fake: func() *testutil.FakeEngine {
				f := testutil.NewFakeEngine()
				f.Prices["apple"] = testutil.D("2")
				f.Delay = 150 * time.Millisecond
				return f
			},
			ctxFactory: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 50*time.Millisecond)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctxFactory()
			defer cancel()

			fake := tt.fake()
			r, _ := newRegistry(t, fake)
			got, err := r.FruitPrices(ctx, names)

			if tt.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr && !fruit.IsRemote(err) {
				t.Fatalf("expected remote error, got %v", err)
			}
			if tt.name == "context cancelled" && !errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("expected context-related error, got: %v", err)
			}

			mustHaveFruits(t, got, tt.mustHave...)
			mustNotHaveFruits(t, got, tt.mustAbsent...)
			if !r.Cart().Empty() {
				t.Fatalf("price lookup must not touch the cart")
			}
		})
	}
}

func TestRegistry_FruitPrices_NoEngine(t *testing.T) {
	r, _ := newRegistry(t, nil)
	got, err := r.FruitPrices(context.Background(), []string{"apple"})
	if !errors.Is(err, fruit.ErrNoEngine) {
		t.Fatalf("expected ErrNoEngine, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no prices, got %v", got)
	}
}
