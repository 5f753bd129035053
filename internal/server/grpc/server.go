// Package grpc serves the MyMoment backend API over gRPC with the JSON codec
// of internal/rpc.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/mymoment/internal/logging"
	"github.com/dmitrijs2005/mymoment/internal/rpc"
	"github.com/dmitrijs2005/mymoment/internal/server/events"
	"github.com/dmitrijs2005/mymoment/internal/server/models"
	"github.com/dmitrijs2005/mymoment/internal/server/services"
	"google.golang.org/grpc"
)

type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error)
	Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

type EntryService interface {
	Add(ctx context.Context, userID string, e *models.Entry) (string, error)
	Update(ctx context.Context, userID string, e *models.Entry) error
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string) ([]*models.Entry, error)
}

type ExportService interface {
	Export(ctx context.Context, userID string) (key string, url string, err error)
}

// ChangeFeed tells a watch stream when the user's entries changed.
type ChangeFeed interface {
	Subscribe(ctx context.Context, userID string) (<-chan events.Change, error)
}

type GRPCServer struct {
	rpc.UnimplementedMomentServiceServer
	address   string
	users     UserService
	entries   EntryService
	exports   ExportService
	changes   ChangeFeed
	logger    logging.Logger
	jwtSecret []byte
}

// NewGRPCServer wires the handlers. exports may be nil, in which case
// ExportEntries reports Unimplemented.
func NewGRPCServer(a string, l logging.Logger, us UserService, es EntryService, ex ExportService, feed ChangeFeed, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		entries:   es,
		exports:   ex,
		changes:   feed,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor),
		grpc.ChainStreamInterceptor(s.streamAccessTokenInterceptor),
	)
	rpc.RegisterMomentServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops
// gracefully. Open watch streams end when their clients' contexts do.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
