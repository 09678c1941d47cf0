package rpcgpb

import (
	"context"

	"google.golang.org/grpc"
)

const (
	RPCGame_Try_FullMethodName      = "/rpcg.RPCGame/Try"
	RPCGame_TryBatch_FullMethodName = "/rpcg.RPCGame/TryBatch"
	RPCGame_Done_FullMethodName     = "/rpcg.RPCGame/Done"
)

// RPCGameClient is the client API for the RPCGame service.
type RPCGameClient interface {
	Try(ctx context.Context, in *TryRequest, opts ...grpc.CallOption) (*TryResponse, error)
	TryBatch(ctx context.Context, in *TryBatchRequest, opts ...grpc.CallOption) (*TryBatchResponse, error)
	Done(ctx context.Context, in *DoneRequest, opts ...grpc.CallOption) (*DoneResponse, error)
}

type rPCGameClient struct {
	cc grpc.ClientConnInterface
}

// NewRPCGameClient creates a client stub on cc. Every call is sent with
// the msgpack content-subtype.
func NewRPCGameClient(cc grpc.ClientConnInterface) RPCGameClient {
	return &rPCGameClient{cc}
}

func (c *rPCGameClient) Try(ctx context.Context, in *TryRequest, opts ...grpc.CallOption) (*TryResponse, error) {
	out := new(TryResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, RPCGame_Try_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rPCGameClient) TryBatch(ctx context.Context, in *TryBatchRequest, opts ...grpc.CallOption) (*TryBatchResponse, error) {
	out := new(TryBatchResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, RPCGame_TryBatch_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rPCGameClient) Done(ctx context.Context, in *DoneRequest, opts ...grpc.CallOption) (*DoneResponse, error) {
	out := new(DoneResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, RPCGame_Done_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RPCGameServer is the server API for the RPCGame service.
type RPCGameServer interface {
	Try(context.Context, *TryRequest) (*TryResponse, error)
	TryBatch(context.Context, *TryBatchRequest) (*TryBatchResponse, error)
	Done(context.Context, *DoneRequest) (*DoneResponse, error)
}

// RegisterRPCGameServer registers srv on s.
func RegisterRPCGameServer(s grpc.ServiceRegistrar, srv RPCGameServer) {
	s.RegisterService(&RPCGame_ServiceDesc, srv)
}

func _RPCGame_Try_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(TryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RPCGameServer).Try(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: RPCGame_Try_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RPCGameServer).Try(ctx, req.(*TryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RPCGame_TryBatch_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(TryBatchRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RPCGameServer).TryBatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: RPCGame_TryBatch_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RPCGameServer).TryBatch(ctx, req.(*TryBatchRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RPCGame_Done_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(DoneRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RPCGameServer).Done(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: RPCGame_Done_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RPCGameServer).Done(ctx, req.(*DoneRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// RPCGame_ServiceDesc is the grpc.ServiceDesc for the RPCGame service.
var RPCGame_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "rpcg.RPCGame",
	HandlerType: (*RPCGameServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Try",
			Handler:    _RPCGame_Try_Handler,
		},
		{
			MethodName: "TryBatch",
			Handler:    _RPCGame_TryBatch_Handler,
		},
		{
			MethodName: "Done",
			Handler:    _RPCGame_Done_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rpcgame",
}
