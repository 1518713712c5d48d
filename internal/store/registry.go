package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/boxdancer/fruit-store-client/internal/fruit"
	"github.com/boxdancer/fruit-store-client/internal/observability"
)

// Registry forwards price operations to a compute engine and keeps the local cart.
// Not safe for concurrent use: the cart belongs to the calling goroutine.
type Registry struct {
	engine  fruit.Engine
	cart    Cart
	out     io.Writer
	logger  *zap.SugaredLogger
	metrics observability.Metrics
	now     func() time.Time
}

type Option func(*Registry)

// WithOutput sets where console status lines go. Defaults to stdout.
func WithOutput(w io.Writer) Option { return func(r *Registry) { r.out = w } }

func WithLogger(l *zap.SugaredLogger) Option { return func(r *Registry) { r.logger = l } }

func WithMetrics(m observability.Metrics) Option { return func(r *Registry) { r.metrics = m } }

func WithClock(now func() time.Time) Option { return func(r *Registry) { r.now = now } }

// NewRegistry uses the given engine directly (local injection).
func NewRegistry(engine fruit.Engine, opts ...Option) *Registry {
	r := &Registry{
		engine:  engine,
		out:     os.Stdout,
		logger:  zap.NewNop().Sugar(),
		metrics: observability.NewNoopMetrics(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Locator resolves the remote engine reference.
type Locator func(ctx context.Context) (fruit.Engine, error)

// Connect looks the engine up once. On failure the error is logged and the
// registry is returned without an engine; every forwarded call then fails with ErrNoEngine.
func Connect(ctx context.Context, locate Locator, opts ...Option) *Registry {
	r := NewRegistry(nil, opts...)
	engine, err := locate(ctx)
	if err != nil {
		r.logger.Errorw("compute engine lookup failed", "error", err)
		return r
	}
	r.engine = engine
	return r
}

// Connected reports whether an engine reference is held.
func (r *Registry) Connected() bool { return r.engine != nil }

// Cart exposes the cart for inspection.
func (r *Registry) Cart() *Cart { return &r.cart }

func (r *Registry) call(op string, fn func(fruit.Engine) error) error {
	if r.engine == nil {
		return fruit.ErrNoEngine
	}
	return fruit.Remote(op, fn(r.engine))
}

func (r *Registry) AddFruitPrice(ctx context.Context, p fruit.Price) error {
	err := r.call("add fruit price", func(e fruit.Engine) error {
		return e.AddFruitPrice(ctx, p.Name, p.Price)
	})
	if err != nil {
		r.logger.Errorw("error adding fruit price", "fruit", p.Name, "error", err)
		return err
	}
	r.printf("Successfully added fruit price: %s - $%s\n", p.Name, money(p.Price))
	return nil
}

func (r *Registry) UpdateFruitPrice(ctx context.Context, p fruit.Price) error {
	err := r.call("update fruit price", func(e fruit.Engine) error {
		return e.UpdateFruitPrice(ctx, p.Name, p.Price)
	})
	if err != nil {
		r.logger.Errorw("error updating fruit price", "fruit", p.Name, "error", err)
		return err
	}
	r.printf("Successfully updated fruit price: %s - $%s\n", p.Name, money(p.Price))
	return nil
}

func (r *Registry) DeleteFruitPrice(ctx context.Context, name string) error {
	err := r.call("delete fruit price", func(e fruit.Engine) error {
		return e.DeleteFruitPrice(ctx, name)
	})
	if err != nil {
		r.logger.Errorw("error deleting fruit price", "fruit", name, "error", err)
		return err
	}
	r.printf("Successfully deleted fruit price for: %s\n", name)
	return nil
}

// CalculateFruitCost asks the engine for the cost of quantity units and, when
// the cost is positive, adds the line to the cart.
func (r *Registry) CalculateFruitCost(ctx context.Context, name string, quantity int) (CartItem, error) {
	if quantity <= 0 {
		r.logger.Warnw("rejected cost calculation", "fruit", name, "quantity", quantity)
		return CartItem{}, fmt.Errorf("%w: got %d", fruit.ErrInvalidQuantity, quantity)
	}

	var cost decimal.Decimal
	err := r.call("calculate fruit cost", func(e fruit.Engine) error {
		var err error
		cost, err = e.CalculateFruitCost(ctx, name, quantity)
		return err
	})
	if err != nil {
		r.logger.Errorw("error calculating fruit cost", "fruit", name, "quantity", quantity, "error", err)
		return CartItem{}, err
	}

	if !cost.IsPositive() {
		r.printf("Could not add item to cart - fruit not found or price is 0\n")
		return CartItem{}, fruit.ErrNotPriced
	}

	item := newCartItem(name, quantity, cost)
	r.cart.add(item)
	r.printf("Added to cart: %s\n", item)
	r.printf("Cart total: $%s\n", money(r.cart.Total()))
	return item, nil
}

// RunTask passes task through to the engine and returns its raw result.
func (r *Registry) RunTask(ctx context.Context, task fruit.Task) (json.RawMessage, error) {
	var res json.RawMessage
	err := r.call("execute task", func(e fruit.Engine) error {
		var err error
		res, err = e.ExecuteTask(ctx, task)
		return err
	})
	if err != nil {
		r.logger.Errorw("error executing task", "kind", task.Kind, "error", err)
		return nil, err
	}
	return res, nil
}

// ExecuteTask runs task and discards the result.
func (r *Registry) ExecuteTask(ctx context.Context, task fruit.Task) error {
	_, err := r.RunTask(ctx, task)
	return err
}

// RunTaskAs runs task and decodes the engine result into T.
func RunTaskAs[T any](ctx context.Context, r *Registry, task fruit.Task) (T, error) {
	var out T
	raw, err := r.RunTask(ctx, task)
	if err != nil {
		return out, err
	}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode task %q result: %w", task.Kind, err)
	}
	return out, nil
}

// ViewCart prints the cart listing and returns it.
func (r *Registry) ViewCart() string {
	s := renderCart(&r.cart)
	r.printf("%s", s)
	return s
}

func (r *Registry) ClearCart() {
	r.cart.clear()
	r.printf("Shopping cart cleared.\n")
}

// PrintReceipt prints the receipt for the current cart and clears the cart.
// An empty cart yields ErrCartEmpty and no side effects.
func (r *Registry) PrintReceipt(cashier string, amountGiven decimal.Decimal) (Receipt, error) {
	if r.cart.Empty() {
		r.printf("Shopping cart is empty! Add items before printing receipt.\n")
		return Receipt{}, fruit.ErrCartEmpty
	}

	rcpt := newReceipt(cashier, &r.cart, amountGiven, r.now())
	r.printf("Receipt printed successfully!\n")
	r.printf("%s\n", rcpt)
	r.logger.Infow("receipt issued",
		"receipt_id", rcpt.ID,
		"cashier", cashier,
		"items", len(rcpt.Items),
		"total", money(rcpt.Total),
	)
	r.metrics.ReceiptIssued(rcpt.Total.InexactFloat64())

	r.ClearCart()
	return rcpt, nil
}

func (r *Registry) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(r.out, format, args...); err != nil {
		r.logger.Warnw("console write failed", "error", err)
	}
}
