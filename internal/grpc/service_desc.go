// catalog-service/internal/grpc/service_desc.go
package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Messages are protobuf well-known types, so the service needs no generated
// code of its own.
const (
	ContentInterServiceName = "catalog.v1.ContentInterService"

	getContentInfoMethod     = "/" + ContentInterServiceName + "/GetContentInfo"
	checkContentExistsMethod = "/" + ContentInterServiceName + "/CheckContentExists"
)

// ContentInterServiceServer is the server API for the inter-service catalog surface.
type ContentInterServiceServer interface {
	GetContentInfo(ctx context.Context, id *wrapperspb.Int64Value) (*structpb.Struct, error)
	CheckContentExists(ctx context.Context, id *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error)
}

// RegisterContentInterServiceServer registers srv with s.
func RegisterContentInterServiceServer(s grpc.ServiceRegistrar, srv ContentInterServiceServer) {
	s.RegisterService(&contentInterServiceDesc, srv)
}

var contentInterServiceDesc = grpc.ServiceDesc{
	ServiceName: ContentInterServiceName,
	HandlerType: (*ContentInterServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetContentInfo", Handler: getContentInfoHandler},
		{MethodName: "CheckContentExists", Handler: checkContentExistsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "catalog/v1/content.proto",
}

func getContentInfoHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ContentInterServiceServer).GetContentInfo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getContentInfoMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ContentInterServiceServer).GetContentInfo(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

func checkContentExistsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ContentInterServiceServer).CheckContentExists(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: checkContentExistsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ContentInterServiceServer).CheckContentExists(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}
