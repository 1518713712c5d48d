package enginepb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "fruit.ComputeEngine"

const (
	ComputeEngine_AddFruitPrice_FullMethodName      = "/fruit.ComputeEngine/AddFruitPrice"
	ComputeEngine_UpdateFruitPrice_FullMethodName   = "/fruit.ComputeEngine/UpdateFruitPrice"
	ComputeEngine_DeleteFruitPrice_FullMethodName   = "/fruit.ComputeEngine/DeleteFruitPrice"
	ComputeEngine_CalculateFruitCost_FullMethodName = "/fruit.ComputeEngine/CalculateFruitCost"
	ComputeEngine_ExecuteTask_FullMethodName        = "/fruit.ComputeEngine/ExecuteTask"
)

// ComputeEngineClient is the client API for the fruit.ComputeEngine service.
type ComputeEngineClient interface {
	AddFruitPrice(ctx context.Context, in *PriceRequest, opts ...grpc.CallOption) (*Empty, error)
	UpdateFruitPrice(ctx context.Context, in *PriceRequest, opts ...grpc.CallOption) (*Empty, error)
	DeleteFruitPrice(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*Empty, error)
	CalculateFruitCost(ctx context.Context, in *CostRequest, opts ...grpc.CallOption) (*CostResponse, error)
	ExecuteTask(ctx context.Context, in *TaskRequest, opts ...grpc.CallOption) (*TaskResponse, error)
}

type computeEngineClient struct {
	cc grpc.ClientConnInterface
}

func NewComputeEngineClient(cc grpc.ClientConnInterface) ComputeEngineClient {
	return &computeEngineClient{cc}
}

func (c *computeEngineClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *computeEngineClient) AddFruitPrice(ctx context.Context, in *PriceRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, ComputeEngine_AddFruitPrice_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *computeEngineClient) UpdateFruitPrice(ctx context.Context, in *PriceRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, ComputeEngine_UpdateFruitPrice_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *computeEngineClient) DeleteFruitPrice(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, ComputeEngine_DeleteFruitPrice_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *computeEngineClient) CalculateFruitCost(ctx context.Context, in *CostRequest, opts ...grpc.CallOption) (*CostResponse, error) {
	out := new(CostResponse)
	if err := c.invoke(ctx, ComputeEngine_CalculateFruitCost_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *computeEngineClient) ExecuteTask(ctx context.Context, in *TaskRequest, opts ...grpc.CallOption) (*TaskResponse, error) {
	out := new(TaskResponse)
	if err := c.invoke(ctx, ComputeEngine_ExecuteTask_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// ComputeEngineServer is the server API for the fruit.ComputeEngine service.
type ComputeEngineServer interface {
	AddFruitPrice(context.Context, *PriceRequest) (*Empty, error)
	UpdateFruitPrice(context.Context, *PriceRequest) (*Empty, error)
	DeleteFruitPrice(context.Context, *DeleteRequest) (*Empty, error)
	CalculateFruitCost(context.Context, *CostRequest) (*CostResponse, error)
	ExecuteTask(context.Context, *TaskRequest) (*TaskResponse, error)
}

// UnimplementedComputeEngineServer can be embedded to have forward compatible implementations.
type UnimplementedComputeEngineServer struct{}

func (UnimplementedComputeEngineServer) AddFruitPrice(context.Context, *PriceRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method AddFruitPrice not implemented")
}
func (UnimplementedComputeEngineServer) UpdateFruitPrice(context.Context, *PriceRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateFruitPrice not implemented")
}
func (UnimplementedComputeEngineServer) DeleteFruitPrice(context.Context, *DeleteRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteFruitPrice not implemented")
}
func (UnimplementedComputeEngineServer) CalculateFruitCost(context.Context, *CostRequest) (*CostResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CalculateFruitCost not implemented")
}
func (UnimplementedComputeEngineServer) ExecuteTask(context.Context, *TaskRequest) (*TaskResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ExecuteTask not implemented")
}

func RegisterComputeEngineServer(s grpc.ServiceRegistrar, srv ComputeEngineServer) {
	s.RegisterService(&ComputeEngine_ServiceDesc, srv)
}

func unaryHandler[Req any](method string, call func(ComputeEngineServer, context.Context, *Req) (any, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ComputeEngineServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ComputeEngineServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ComputeEngine_ServiceDesc is the grpc.ServiceDesc for the fruit.ComputeEngine service.
var ComputeEngine_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ComputeEngineServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "AddFruitPrice",
			Handler: unaryHandler(ComputeEngine_AddFruitPrice_FullMethodName,
				func(s ComputeEngineServer, ctx context.Context, in *PriceRequest) (any, error) {
					return s.AddFruitPrice(ctx, in)
				}),
		},
		{
			MethodName: "UpdateFruitPrice",
			Handler: unaryHandler(ComputeEngine_UpdateFruitPrice_FullMethodName,
				func(s ComputeEngineServer, ctx context.Context, in *PriceRequest) (any, error) {
					return s.UpdateFruitPrice(ctx, in)
				}),
		},
		{
			MethodName: "DeleteFruitPrice",
			Handler: unaryHandler(ComputeEngine_DeleteFruitPrice_FullMethodName,
				func(s ComputeEngineServer, ctx context.Context, in *DeleteRequest) (any, error) {
					return s.DeleteFruitPrice(ctx, in)
				}),
		},
		{
			MethodName: "CalculateFruitCost",
			Handler: unaryHandler(ComputeEngine_CalculateFruitCost_FullMethodName,
				func(s ComputeEngineServer, ctx context.Context, in *CostRequest) (any, error) {
					return s.CalculateFruitCost(ctx, in)
				}),
		},
		{
			MethodName: "ExecuteTask",
			Handler: unaryHandler(ComputeEngine_ExecuteTask_FullMethodName,
				func(s ComputeEngineServer, ctx context.Context, in *TaskRequest) (any, error) {
					return s.ExecuteTask(ctx, in)
				}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "enginepb",
}
