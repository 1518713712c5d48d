package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/boxdancer/fruit-store-client/internal/client"
	"github.com/boxdancer/fruit-store-client/internal/fruit"
	"github.com/boxdancer/fruit-store-client/internal/testutil"
)

const engineName = "FruitComputeEngine"

func lookup(t *testing.T, fake *testutil.FakeEngine, callTimeout time.Duration) *client.GRPCEngine {
	t.Helper()
	lis := testutil.ServeEngine(t, fake, engineName)
	e, err := client.Lookup(context.Background(), client.Options{
		Addr:          testutil.BufTarget,
		Name:          engineName,
		LookupTimeout: time.Second,
		CallTimeout:   callTimeout,
	}, testutil.DialOptions(lis)...)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e
}

// Table-driven tests for GRPCEngine.CalculateFruitCost.
func TestGRPCEngine_CalculateFruitCost(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(f *testutil.FakeEngine)
		quantity    int
		callTimeout time.Duration // per-call deadline of the engine
		ctxTimeout  time.Duration // if >0 create context with timeout
		want        string
		wantCode    codes.Code
		wantErr     error
	}{
		{
			name:     "success",
			setup:    func(f *testutil.FakeEngine) { f.Prices["apple"] = testutil.D("2.00") },
			quantity: 3,
			want:     "6",
		},
		{
			name:     "unknown fruit costs zero",
			quantity: 1,
			want:     "0",
		},
		{
			name: "engine failure",
			setup: func(f *testutil.FakeEngine) {
				f.Errors[testutil.Key{Name: "apple", Quantity: 2}] = testutil.Err("boom")
			},
			quantity: 2,
			wantCode: codes.Internal,
		},
		{
			name:       "context timeout",
			setup:      func(f *testutil.FakeEngine) { f.Delay = 200 * time.Millisecond },
			quantity:   1,
			ctxTimeout: 50 * time.Millisecond,
			wantCode:   codes.DeadlineExceeded,
		},
		{
			name:        "call timeout",
			setup:       func(f *testutil.FakeEngine) { f.Delay = 200 * time.Millisecond },
			quantity:    1,
			callTimeout: 50 * time.Millisecond,
			wantCode:    codes.DeadlineExceeded,
		},
		{
			name:     "zero quantity is rejected locally",
			quantity: 0,
			wantErr:  fruit.ErrInvalidQuantity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := testutil.NewFakeEngine()
			if tc.setup != nil {
				tc.setup(fake)
			}
			e := lookup(t, fake, tc.callTimeout)

			var ctx context.Context
			var cancel context.CancelFunc
			if tc.ctxTimeout > 0 {
				ctx, cancel = context.WithTimeout(context.Background(), tc.ctxTimeout)
			} else {
				ctx, cancel = context.WithCancel(context.Background())
			}
			defer cancel()

			got, err := e.CalculateFruitCost(ctx, "apple", tc.quantity)

			switch {
			case tc.wantErr != nil:
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				if fake.Calls("calculate") != 0 {
					t.Fatalf("engine must not be called")
				}
			case tc.wantCode != codes.OK:
				if !fruit.IsRemote(err) {
					t.Fatalf("expected remote error, got %v", err)
				}
				if code := status.Code(err); code != tc.wantCode {
					t.Fatalf("expected code %s, got %s (%v)", tc.wantCode, code, err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !got.Equal(testutil.D(tc.want)) {
					t.Fatalf("wrong cost: want %s got %s", tc.want, got)
				}
			}
		})
	}
}

func TestGRPCEngine_PriceLifecycle(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeEngine()
	e := lookup(t, fake, time.Second)

	if err := e.AddFruitPrice(ctx, "pear", testutil.D("1.25")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := e.AddFruitPrice(ctx, "pear", testutil.D("1.25")); status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected duplicate add to fail with FailedPrecondition, got %v", err)
	}
	if err := e.UpdateFruitPrice(ctx, "pear", testutil.D("1.50")); err != nil {
		t.Fatalf("update: %v", err)
	}
	cost, err := e.CalculateFruitCost(ctx, "pear", 4)
	if err != nil || !cost.Equal(testutil.D("6")) {
		t.Fatalf("want cost 6, got %s (err %v)", cost, err)
	}
	if err := e.DeleteFruitPrice(ctx, "pear"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	cost, _ = e.CalculateFruitCost(ctx, "pear", 4)
	if !cost.IsZero() {
		t.Fatalf("deleted fruit must cost 0, got %s", cost)
	}
}

func TestGRPCEngine_ExecuteTask(t *testing.T) {
	fake := testutil.NewFakeEngine()
	fake.Tasks["inventory"] = json.RawMessage(`{"apple":12}`)
	e := lookup(t, fake, time.Second)

	res, err := e.ExecuteTask(context.Background(), fruit.Task{Kind: "inventory"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if string(res) != `{"apple":12}` {
		t.Fatalf("wrong result: %s", res)
	}

	_, err = e.ExecuteTask(context.Background(), fruit.Task{Kind: "nope"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestLookup_UnknownName(t *testing.T) {
	lis := testutil.ServeEngine(t, testutil.NewFakeEngine(), "SomethingElse")
	_, err := client.Lookup(context.Background(), client.Options{
		Addr:          testutil.BufTarget,
		Name:          engineName,
		LookupTimeout: time.Second,
	}, testutil.DialOptions(lis)...)
	if !fruit.IsRemote(err) {
		t.Fatalf("expected remote lookup error, got %v", err)
	}
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
