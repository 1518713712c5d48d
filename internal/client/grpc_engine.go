package client

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/boxdancer/fruit-store-client/internal/enginepb"
	"github.com/boxdancer/fruit-store-client/internal/fruit"
)

// Options describe where and how to reach the engine.
type Options struct {
	Addr          string
	Name          string
	LookupTimeout time.Duration
	CallTimeout   time.Duration
}

// GRPCEngine is a fruit.Engine backed by the remote compute engine service.
type GRPCEngine struct {
	conn    *grpc.ClientConn
	api     enginepb.ComputeEngineClient
	timeout time.Duration
}

// Lookup dials opts.Addr and resolves opts.Name through the gRPC health
// service. The engine is returned only when the name reports SERVING.
func Lookup(ctx context.Context, opts Options, dialOpts ...grpc.DialOption) (*GRPCEngine, error) {
	base := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}
	conn, err := grpc.NewClient(opts.Addr, append(base, dialOpts...)...)
	if err != nil {
		return nil, fruit.Remote("lookup", errors.Wrapf(err, "dial %s", opts.Addr))
	}

	lctx, cancel := withTimeout(ctx, opts.LookupTimeout)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(lctx, &healthpb.HealthCheckRequest{Service: opts.Name})
	if err != nil {
		_ = conn.Close()
		return nil, fruit.Remote("lookup", errors.Wrapf(err, "lookup %q at %s", opts.Name, opts.Addr))
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		_ = conn.Close()
		return nil, fruit.Remote("lookup", fmt.Errorf("%q at %s is %s", opts.Name, opts.Addr, resp.GetStatus()))
	}

	return NewGRPCEngine(conn, opts.CallTimeout), nil
}

// NewGRPCEngine wraps an existing connection. timeout <= 0 disables the per-call deadline.
func NewGRPCEngine(conn *grpc.ClientConn, timeout time.Duration) *GRPCEngine {
	return &GRPCEngine{
		conn:    conn,
		api:     enginepb.NewComputeEngineClient(conn),
		timeout: timeout,
	}
}

func (e *GRPCEngine) AddFruitPrice(ctx context.Context, name string, price decimal.Decimal) error {
	ctx, cancel := withTimeout(ctx, e.timeout)
	defer cancel()
	_, err := e.api.AddFruitPrice(ctx, &enginepb.PriceRequest{Name: name, Price: price})
	return fruit.Remote("add fruit price", err)
}

func (e *GRPCEngine) UpdateFruitPrice(ctx context.Context, name string, price decimal.Decimal) error {
	ctx, cancel := withTimeout(ctx, e.timeout)
	defer cancel()
	_, err := e.api.UpdateFruitPrice(ctx, &enginepb.PriceRequest{Name: name, Price: price})
	return fruit.Remote("update fruit price", err)
}

func (e *GRPCEngine) DeleteFruitPrice(ctx context.Context, name string) error {
	ctx, cancel := withTimeout(ctx, e.timeout)
	defer cancel()
	_, err := e.api.DeleteFruitPrice(ctx, &enginepb.DeleteRequest{Name: name})
	return fruit.Remote("delete fruit price", err)
}

func (e *GRPCEngine) CalculateFruitCost(ctx context.Context, name string, quantity int) (decimal.Decimal, error) {
	if quantity <= 0 || quantity > math.MaxInt32 {
		return decimal.Zero, fmt.Errorf("%w: got %d", fruit.ErrInvalidQuantity, quantity)
	}
	ctx, cancel := withTimeout(ctx, e.timeout)
	defer cancel()
	resp, err := e.api.CalculateFruitCost(ctx, &enginepb.CostRequest{Name: name, Quantity: int32(quantity)})
	if err != nil {
		return decimal.Zero, fruit.Remote("calculate fruit cost", err)
	}
	return resp.Cost, nil
}

func (e *GRPCEngine) ExecuteTask(ctx context.Context, task fruit.Task) (json.RawMessage, error) {
	ctx, cancel := withTimeout(ctx, e.timeout)
	defer cancel()
	resp, err := e.api.ExecuteTask(ctx, &enginepb.TaskRequest{Kind: task.Kind, Args: task.Args})
	if err != nil {
		return nil, fruit.Remote("execute task", err)
	}
	return resp.Result, nil
}

func (e *GRPCEngine) Close() error {
	if e.conn != nil {
		return e.conn.Close()
	}
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
