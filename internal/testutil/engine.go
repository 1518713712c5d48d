package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/boxdancer/fruit-store-client/internal/fruit"
)

// Key для Costs/Errors
type Key struct {
	Name     string
	Quantity int
}

// FakeEngine: fruit.Engine в памяти. Безопасен для конкурентного использования.
// Если цена есть в Prices, стоимость считается как Prices[name]*quantity;
// Costs позволяет задать ответ для конкретной пары напрямую.
type FakeEngine struct {
	mu sync.Mutex

	Prices map[string]decimal.Decimal
	Costs  map[Key]decimal.Decimal
	Errors map[Key]error
	// Err, если задан, возвращается из любого вызова.
	Err   error
	Tasks map[string]json.RawMessage
	Delay time.Duration // опциональная задержка для имитации сети

	calls map[string]int
}

func NewFakeEngine() *FakeEngine {
	return &FakeEngine{
		Prices: map[string]decimal.Decimal{},
		Costs:  map[Key]decimal.Decimal{},
		Errors: map[Key]error{},
		Tasks:  map[string]json.RawMessage{},
	}
}

// Calls возвращает число вызовов op.
func (f *FakeEngine) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FakeEngine) enter(ctx context.Context, op string) error {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[op]++
	f.mu.Unlock()

	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.Err
}

func (f *FakeEngine) AddFruitPrice(ctx context.Context, name string, price decimal.Decimal) error {
	if err := f.enter(ctx, "add"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Prices[name]; ok {
		return fmt.Errorf("fruit %q already priced", name)
	}
	f.Prices[name] = price
	return nil
}

func (f *FakeEngine) UpdateFruitPrice(ctx context.Context, name string, price decimal.Decimal) error {
	if err := f.enter(ctx, "update"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Prices[name]; !ok {
		return fmt.Errorf("fruit %q not priced", name)
	}
	f.Prices[name] = price
	return nil
}

func (f *FakeEngine) DeleteFruitPrice(ctx context.Context, name string) error {
	if err := f.enter(ctx, "delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Prices, name)
	return nil
}

func (f *FakeEngine) CalculateFruitCost(ctx context.Context, name string, quantity int) (decimal.Decimal, error) {
	if err := f.enter(ctx, "calculate"); err != nil {
		return decimal.Zero, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	k := Key{Name: name, Quantity: quantity}
	if err, ok := f.Errors[k]; ok {
		return decimal.Zero, err
	}
	if c, ok := f.Costs[k]; ok {
		return c, nil
	}
	if p, ok := f.Prices[name]; ok {
		return p.Mul(decimal.NewFromInt(int64(quantity))), nil
	}
	// неизвестный фрукт: нулевая стоимость, как у настоящего движка
	return decimal.Zero, nil
}

func (f *FakeEngine) ExecuteTask(ctx context.Context, task fruit.Task) (json.RawMessage, error) {
	if err := f.enter(ctx, "task"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.Tasks[task.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown task %q", task.Kind)
	}
	return res, nil
}

// Утилита для быстрого создания ошибок
func Err(msg string) error { return errors.New(msg) }

// D разбирает десятичный литерал и паникует на мусоре. Только для тестов.
func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }
