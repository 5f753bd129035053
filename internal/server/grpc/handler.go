package grpc

import (
	"context"

	"github.com/dmitrijs2005/mymoment/internal/common"
	"github.com/dmitrijs2005/mymoment/internal/rpc"
	"github.com/dmitrijs2005/mymoment/internal/server/models"
	"github.com/dmitrijs2005/mymoment/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func authResponse(u *models.User, pair *services.TokenPair) *rpc.AuthResponse {
	return &rpc.AuthResponse{
		UserID:       u.ID,
		Email:        u.Email,
		CreatedAt:    u.CreatedAt.UnixMilli(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}

func (s *GRPCServer) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.AuthResponse, error) {
	u, pair, err := s.users.Register(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	s.logger.Info(ctx, "user registered", "user", u.ID)
	return authResponse(u, pair), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.AuthResponse, error) {
	u, pair, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return authResponse(u, pair), nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *rpc.RefreshTokenRequest) (*rpc.RefreshTokenResponse, error) {
	pair, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.RefreshTokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *GRPCServer) Ping(context.Context, *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}

// caller returns the user the interceptor authenticated.
func caller(ctx context.Context) (string, error) {
	id, ok := userIDFrom(ctx)
	if !ok {
		return "", toStatus(common.ErrNotAuthenticated)
	}
	return id, nil
}

func (s *GRPCServer) AddEntry(ctx context.Context, req *rpc.AddEntryRequest) (*rpc.AddEntryResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	id, err := s.entries.Add(ctx, userID, fromWire("", req.Entry))
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.AddEntryResponse{ID: id}, nil
}

func (s *GRPCServer) UpdateEntry(ctx context.Context, req *rpc.UpdateEntryRequest) (*rpc.UpdateEntryResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.entries.Update(ctx, userID, fromWire(req.ID, req.Entry)); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.UpdateEntryResponse{}, nil
}

func (s *GRPCServer) DeleteEntry(ctx context.Context, req *rpc.DeleteEntryRequest) (*rpc.DeleteEntryResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.entries.Delete(ctx, userID, req.ID); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.DeleteEntryResponse{}, nil
}

// WatchEntries sends the current snapshot, then a fresh one after every
// change of the caller's entries, until the client goes away. Changes that
// pile up while a snapshot is being sent collapse into one.
func (s *GRPCServer) WatchEntries(_ *rpc.WatchEntriesRequest, stream rpc.WatchEntriesServer) error {
	ctx := stream.Context()
	userID, err := caller(ctx)
	if err != nil {
		return err
	}

	changes, err := s.changes.Subscribe(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "watch subscribe failed", "user", userID, "error", err)
		return toStatus(err)
	}

	send := func() error {
		list, err := s.entries.List(ctx, userID)
		if err != nil {
			return toStatus(err)
		}
		return stream.Send(toSnapshot(list))
	}

	if err := send(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
		drain:
			for {
				select {
				case _, ok := <-changes:
					if !ok {
						break drain
					}
				default:
					break drain
				}
			}
			if err := send(); err != nil {
				return err
			}
		}
	}
}

func (s *GRPCServer) ExportEntries(ctx context.Context, _ *rpc.ExportEntriesRequest) (*rpc.ExportEntriesResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if s.exports == nil {
		return nil, status.Error(codes.Unimplemented, "export is not configured")
	}
	key, url, err := s.exports.Export(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "export failed", "user", userID, "error", err)
		return nil, toStatus(err)
	}
	return &rpc.ExportEntriesResponse{Key: key, URL: url}, nil
}
