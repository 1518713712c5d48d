package testutil

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/boxdancer/fruit-store-client/internal/enginepb"
	"github.com/boxdancer/fruit-store-client/internal/fruit"
)

// EngineServer exposes a fruit.Engine as the gRPC compute engine service.
type EngineServer struct {
	enginepb.UnimplementedComputeEngineServer
	Engine fruit.Engine
}

func (s *EngineServer) AddFruitPrice(ctx context.Context, in *enginepb.PriceRequest) (*enginepb.Empty, error) {
	if err := s.Engine.AddFruitPrice(ctx, in.Name, in.Price); err != nil {
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}
	return &enginepb.Empty{}, nil
}

func (s *EngineServer) UpdateFruitPrice(ctx context.Context, in *enginepb.PriceRequest) (*enginepb.Empty, error) {
	if err := s.Engine.UpdateFruitPrice(ctx, in.Name, in.Price); err != nil {
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}
	return &enginepb.Empty{}, nil
}

func (s *EngineServer) DeleteFruitPrice(ctx context.Context, in *enginepb.DeleteRequest) (*enginepb.Empty, error) {
	if err := s.Engine.DeleteFruitPrice(ctx, in.Name); err != nil {
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}
	return &enginepb.Empty{}, nil
}

func (s *EngineServer) CalculateFruitCost(ctx context.Context, in *enginepb.CostRequest) (*enginepb.CostResponse, error) {
	cost, err := s.Engine.CalculateFruitCost(ctx, in.Name, int(in.Quantity))
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &enginepb.CostResponse{Cost: cost}, nil
}

func (s *EngineServer) ExecuteTask(ctx context.Context, in *enginepb.TaskRequest) (*enginepb.TaskResponse, error) {
	res, err := s.Engine.ExecuteTask(ctx, fruit.Task{Kind: in.Kind, Args: in.Args})
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return &enginepb.TaskResponse{Result: res}, nil
}

// BufTarget is the dial target to use together with DialOption.
const BufTarget = "passthrough:///bufnet"

// ServeEngine starts an in-memory gRPC server for e, registered in the health
// service under name. The server stops when the test ends.
func ServeEngine(t testing.TB, e fruit.Engine, name string) *bufconn.Listener {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	srv := grpc.NewServer()
	enginepb.RegisterComputeEngineServer(srv, &EngineServer{Engine: e})

	hsrv := health.NewServer()
	hsrv.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hsrv)

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)
	return lis
}

// DialOptions returns the options to reach a ServeEngine listener.
func DialOptions(lis *bufconn.Listener) []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
}
