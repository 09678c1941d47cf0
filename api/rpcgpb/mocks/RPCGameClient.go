// Package mocks holds testify mocks of the rpcgpb client interface.
// Call options are not recorded: expectations match on ctx and in only.
package mocks

import (
	context "context"

	rpcgpb "rpcg/api/rpcgpb"

	grpc "google.golang.org/grpc"

	mock "github.com/stretchr/testify/mock"
)

// RPCGameClient is a mock type for the RPCGameClient type
type RPCGameClient struct {
	mock.Mock
}

// Done provides a mock function with given fields: ctx, in, opts
func (_m *RPCGameClient) Done(ctx context.Context, in *rpcgpb.DoneRequest, opts ...grpc.CallOption) (*rpcgpb.DoneResponse, error) {
	ret := _m.Called(ctx, in)

	var r0 *rpcgpb.DoneResponse
	if rf, ok := ret.Get(0).(func(context.Context, *rpcgpb.DoneRequest) *rpcgpb.DoneResponse); ok {
		r0 = rf(ctx, in)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*rpcgpb.DoneResponse)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, *rpcgpb.DoneRequest) error); ok {
		r1 = rf(ctx, in)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Try provides a mock function with given fields: ctx, in, opts
func (_m *RPCGameClient) Try(ctx context.Context, in *rpcgpb.TryRequest, opts ...grpc.CallOption) (*rpcgpb.TryResponse, error) {
	ret := _m.Called(ctx, in)

	var r0 *rpcgpb.TryResponse
	if rf, ok := ret.Get(0).(func(context.Context, *rpcgpb.TryRequest) *rpcgpb.TryResponse); ok {
		r0 = rf(ctx, in)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*rpcgpb.TryResponse)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, *rpcgpb.TryRequest) error); ok {
		r1 = rf(ctx, in)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// TryBatch provides a mock function with given fields: ctx, in, opts
func (_m *RPCGameClient) TryBatch(ctx context.Context, in *rpcgpb.TryBatchRequest, opts ...grpc.CallOption) (*rpcgpb.TryBatchResponse, error) {
	ret := _m.Called(ctx, in)

	var r0 *rpcgpb.TryBatchResponse
	if rf, ok := ret.Get(0).(func(context.Context, *rpcgpb.TryBatchRequest) *rpcgpb.TryBatchResponse); ok {
		r0 = rf(ctx, in)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*rpcgpb.TryBatchResponse)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, *rpcgpb.TryBatchRequest) error); ok {
		r1 = rf(ctx, in)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
