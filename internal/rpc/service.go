package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "mymoment.v1.MomentService"

// Full method names, used by interceptors to tell public calls apart.
const (
	MethodRegister      = "/" + ServiceName + "/Register"
	MethodLogin         = "/" + ServiceName + "/Login"
	MethodRefreshToken  = "/" + ServiceName + "/RefreshToken"
	MethodPing          = "/" + ServiceName + "/Ping"
	MethodAddEntry      = "/" + ServiceName + "/AddEntry"
	MethodUpdateEntry   = "/" + ServiceName + "/UpdateEntry"
	MethodDeleteEntry   = "/" + ServiceName + "/DeleteEntry"
	MethodWatchEntries  = "/" + ServiceName + "/WatchEntries"
	MethodExportEntries = "/" + ServiceName + "/ExportEntries"
)

// PublicMethods do not require an access token.
var PublicMethods = map[string]bool{
	MethodRegister:     true,
	MethodLogin:        true,
	MethodRefreshToken: true,
	MethodPing:         true,
}

// WatchEntriesServer is the server side of the WatchEntries stream.
type WatchEntriesServer interface {
	Send(*EntriesSnapshot) error
	grpc.ServerStream
}

type MomentServiceServer interface {
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	AddEntry(context.Context, *AddEntryRequest) (*AddEntryResponse, error)
	UpdateEntry(context.Context, *UpdateEntryRequest) (*UpdateEntryResponse, error)
	DeleteEntry(context.Context, *DeleteEntryRequest) (*DeleteEntryResponse, error)
	WatchEntries(*WatchEntriesRequest, WatchEntriesServer) error
	ExportEntries(context.Context, *ExportEntriesRequest) (*ExportEntriesResponse, error)
}

// UnimplementedMomentServiceServer can be embedded to satisfy the interface
// while only some methods are served.
type UnimplementedMomentServiceServer struct{}

func (UnimplementedMomentServiceServer) Register(context.Context, *RegisterRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedMomentServiceServer) Login(context.Context, *LoginRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedMomentServiceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshToken not implemented")
}
func (UnimplementedMomentServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedMomentServiceServer) AddEntry(context.Context, *AddEntryRequest) (*AddEntryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddEntry not implemented")
}
func (UnimplementedMomentServiceServer) UpdateEntry(context.Context, *UpdateEntryRequest) (*UpdateEntryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateEntry not implemented")
}
func (UnimplementedMomentServiceServer) DeleteEntry(context.Context, *DeleteEntryRequest) (*DeleteEntryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteEntry not implemented")
}
func (UnimplementedMomentServiceServer) WatchEntries(*WatchEntriesRequest, WatchEntriesServer) error {
	return status.Error(codes.Unimplemented, "method WatchEntries not implemented")
}
func (UnimplementedMomentServiceServer) ExportEntries(context.Context, *ExportEntriesRequest) (*ExportEntriesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ExportEntries not implemented")
}

func RegisterMomentServiceServer(s grpc.ServiceRegistrar, srv MomentServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unaryHandler builds a grpc method handler for a typed unary call.
func unaryHandler[Req any, Resp any](method string, call func(MomentServiceServer, context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MomentServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(MomentServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type watchEntriesServer struct {
	grpc.ServerStream
}

func (x *watchEntriesServer) Send(m *EntriesSnapshot) error {
	return x.ServerStream.SendMsg(m)
}

func watchEntriesHandler(srv any, stream grpc.ServerStream) error {
	in := new(WatchEntriesRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(MomentServiceServer).WatchEntries(in, &watchEntriesServer{stream})
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MomentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(MethodRegister, MomentServiceServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(MethodLogin, MomentServiceServer.Login)},
		{MethodName: "RefreshToken", Handler: unaryHandler(MethodRefreshToken, MomentServiceServer.RefreshToken)},
		{MethodName: "Ping", Handler: unaryHandler(MethodPing, MomentServiceServer.Ping)},
		{MethodName: "AddEntry", Handler: unaryHandler(MethodAddEntry, MomentServiceServer.AddEntry)},
		{MethodName: "UpdateEntry", Handler: unaryHandler(MethodUpdateEntry, MomentServiceServer.UpdateEntry)},
		{MethodName: "DeleteEntry", Handler: unaryHandler(MethodDeleteEntry, MomentServiceServer.DeleteEntry)},
		{MethodName: "ExportEntries", Handler: unaryHandler(MethodExportEntries, MomentServiceServer.ExportEntries)},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "WatchEntries", Handler: watchEntriesHandler, ServerStreams: true},
	},
	Metadata: "mymoment/v1/moment.proto",
}
