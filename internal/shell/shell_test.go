package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boxdancer/fruit-store-client/internal/store"
	"github.com/boxdancer/fruit-store-client/internal/testutil"
)

func newShell(fake *testutil.FakeEngine) (*Shell, *store.Registry, *bytes.Buffer) {
	var out bytes.Buffer
	reg := store.NewRegistry(fake, store.WithOutput(&out))
	return New(reg, &out, zap.NewNop().Sugar()), reg, &out
}

func TestShell_Session(t *testing.T) {
	fake := testutil.NewFakeEngine()
	sh, reg, out := newShell(fake)

	input := strings.Join([]string{
		"add apple 2.00",
		"buy apple 3",
		"buy kiwi 2",
		"receipt Alice Smith 10",
		"quit",
		"buy apple 1",
	}, "\n")

	require.NoError(t, sh.Run(context.Background(), strings.NewReader(input)))

	got := out.String()
	assert.Contains(t, got, "Successfully added fruit price: apple - $2.00\n")
	assert.Contains(t, got, "Added to cart: apple x 3 @ $2.00 = $6.00\n")
	assert.Contains(t, got, "Could not add item to cart - fruit not found or price is 0\n")
	assert.Contains(t, got, "Cashier: Alice Smith\n")
	assert.Contains(t, got, "Change: $4.00\n")
	assert.True(t, reg.Cart().Empty())
	// после quit ничего не выполняется
	assert.Equal(t, 2, fake.Calls("calculate"))
}

func TestShell_RunStopsOnCancelWhileWaitingForInput(t *testing.T) {
	sh, _, _ := newShell(testutil.NewFakeEngine())
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sh.Run(ctx, pr) }()

	// в pipe никто не пишет: Run ждёт ввода
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestShell_Exec(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "empty line", line: "   ", want: ""},
		{name: "unknown command", line: "steal apple", want: "Unknown command \"steal\". Type help for the command list.\n"},
		{name: "missing args", line: "buy apple", want: "Usage: buy <fruit> <quantity>\n"},
		{name: "bad quantity", line: "buy apple many", want: "Usage: buy <fruit> <quantity>\n"},
		{name: "bad price", line: "add apple cheap", want: "Usage: add <fruit> <price>\n"},
		{name: "zero quantity", line: "buy apple 0", want: "Error: fruit: quantity must be positive: got 0\n"},
		{name: "empty receipt", line: "receipt Alice 10", want: "Shopping cart is empty! Add items before printing receipt.\n"},
		{name: "empty cart", line: "cart", want: "Shopping cart is empty.\n"},
		{name: "clear", line: "CLEAR", want: "Shopping cart cleared.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh, _, out := newShell(testutil.NewFakeEngine())
			require.NoError(t, sh.Exec(context.Background(), tt.line))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestShell_Prices(t *testing.T) {
	fake := testutil.NewFakeEngine()
	fake.Prices["apple"] = testutil.D("2")
	sh, _, out := newShell(fake)

	require.NoError(t, sh.Exec(context.Background(), "prices apple kiwi"))
	assert.Equal(t, "apple: $2.00\nkiwi: not priced\n", out.String())
}

func TestShell_EngineFailureKeepsSession(t *testing.T) {
	fake := testutil.NewFakeEngine()
	fake.Err = testutil.Err("connection refused")
	sh, _, out := newShell(fake)

	require.NoError(t, sh.Run(context.Background(), strings.NewReader("buy apple 1\nhelp\n")))
	assert.Contains(t, out.String(), "Error: remote calculate fruit cost: connection refused\n")
	assert.Contains(t, out.String(), "  receipt <cashier> <amount>\n")
}
