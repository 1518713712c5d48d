package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/boxdancer/fruit-store-client/internal/fruit"
	"github.com/boxdancer/fruit-store-client/internal/observability"
)

// InstrumentedEngine records latency and outcome of every call to next.
type InstrumentedEngine struct {
	next    fruit.Engine
	metrics observability.Metrics
}

func NewInstrumentedEngine(next fruit.Engine, m observability.Metrics) *InstrumentedEngine {
	return &InstrumentedEngine{next: next, metrics: m}
}

func (i *InstrumentedEngine) observe(op string, start time.Time, err error) {
	i.metrics.ObserveEngineCall(op, time.Since(start), err == nil)
}

func (i *InstrumentedEngine) AddFruitPrice(ctx context.Context, name string, price decimal.Decimal) error {
	start := time.Now()
	err := i.next.AddFruitPrice(ctx, name, price)
	i.observe("add", start, err)
	return err
}

func (i *InstrumentedEngine) UpdateFruitPrice(ctx context.Context, name string, price decimal.Decimal) error {
	start := time.Now()
	err := i.next.UpdateFruitPrice(ctx, name, price)
	i.observe("update", start, err)
	return err
}

func (i *InstrumentedEngine) DeleteFruitPrice(ctx context.Context, name string) error {
	start := time.Now()
	err := i.next.DeleteFruitPrice(ctx, name)
	i.observe("delete", start, err)
	return err
}

func (i *InstrumentedEngine) CalculateFruitCost(ctx context.Context, name string, quantity int) (decimal.Decimal, error) {
	start := time.Now()
	cost, err := i.next.CalculateFruitCost(ctx, name, quantity)
	i.observe("calculate", start, err)
	return cost, err
}

func (i *InstrumentedEngine) ExecuteTask(ctx context.Context, task fruit.Task) (json.RawMessage, error) {
	start := time.Now()
	res, err := i.next.ExecuteTask(ctx, task)
	i.observe("task", start, err)
	return res, err
}
