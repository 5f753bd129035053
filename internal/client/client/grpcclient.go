package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/mymoment/internal/client/models"
	"github.com/dmitrijs2005/mymoment/internal/common"
	"github.com/dmitrijs2005/mymoment/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpc.MomentServiceClient

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (access, refresh string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	s.accessToken = access
	s.refreshToken = refresh
	s.mu.Unlock()
}

func isTokenExpired(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.Unauthenticated && st.Message() == common.ErrTokenExpired.Error()
}

// refresh exchanges the refresh token for a new pair. It reports false when
// there is nothing to refresh with or the exchange failed.
func (s *GRPCClient) refresh(ctx context.Context) bool {
	_, refreshToken := s.tokens()
	if refreshToken == "" {
		return false
	}

	resp, err := s.client.RefreshToken(ctx, &rpc.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return false
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return true
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if rpc.PublicMethods[method] {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	accessToken, _ := s.tokens()
	err := invoker(withAccessToken(ctx, accessToken), method, req, reply, cc, opts...)
	if err == nil || !isTokenExpired(err) {
		return err
	}

	if !s.refresh(ctx) {
		return err
	}

	accessToken, _ = s.tokens()
	return invoker(withAccessToken(ctx, accessToken), method, req, reply, cc, opts...)
}

func (s *GRPCClient) streamAccessTokenInterceptor(
	ctx context.Context,
	desc *grpc.StreamDesc,
	cc *grpc.ClientConn,
	method string,
	streamer grpc.Streamer,
	opts ...grpc.CallOption,
) (grpc.ClientStream, error) {
	accessToken, _ := s.tokens()
	return streamer(withAccessToken(ctx, accessToken), desc, cc, method, opts...)
}

func NewMomentClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rpc.CodecName)),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
		grpc.WithStreamInterceptor(s.streamAccessTokenInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpc.NewMomentServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) session(resp *rpc.AuthResponse) *models.Session {
	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return &models.Session{
		User: models.User{
			ID:        resp.UserID,
			Email:     resp.Email,
			CreatedAt: time.UnixMilli(resp.CreatedAt),
		},
		Token: resp.AccessToken,
	}
}

func (s *GRPCClient) Register(ctx context.Context, email, password string) (*models.Session, error) {
	resp, err := s.client.Register(ctx, &rpc.RegisterRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	return s.session(resp), nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	resp, err := s.client.Login(ctx, &rpc.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	return s.session(resp), nil
}

// Logout forgets the tokens. The server keeps no session state beyond the
// refresh token, which simply expires.
func (s *GRPCClient) Logout() {
	s.setTokens("", "")
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &rpc.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return common.ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) AddEntry(ctx context.Context, e rpc.Entry) (string, error) {
	resp, err := s.client.AddEntry(ctx, &rpc.AddEntryRequest{Entry: e})
	if err != nil {
		return "", s.mapDocError(err)
	}
	return resp.ID, nil
}

func (s *GRPCClient) UpdateEntry(ctx context.Context, id string, e rpc.Entry) error {
	if _, err := s.client.UpdateEntry(ctx, &rpc.UpdateEntryRequest{ID: id, Entry: e}); err != nil {
		return s.mapDocError(err)
	}
	return nil
}

func (s *GRPCClient) DeleteEntry(ctx context.Context, id string) error {
	if _, err := s.client.DeleteEntry(ctx, &rpc.DeleteEntryRequest{ID: id}); err != nil {
		return s.mapDocError(err)
	}
	return nil
}

func (s *GRPCClient) ExportEntries(ctx context.Context) (string, string, error) {
	resp, err := s.client.ExportEntries(ctx, &rpc.ExportEntriesRequest{})
	if err != nil {
		return "", "", s.mapDocError(err)
	}
	return resp.Key, resp.URL, nil
}

func (s *GRPCClient) WatchEntries(ctx context.Context, fn func([]rpc.Entry)) error {
	refreshed := false
	for {
		err := s.watchOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !refreshed && isTokenExpired(err) && s.refresh(ctx) {
			refreshed = true
			continue
		}
		return s.mapDocError(err)
	}
}

func (s *GRPCClient) watchOnce(ctx context.Context, fn func([]rpc.Entry)) error {
	stream, err := s.client.WatchEntries(ctx, &rpc.WatchEntriesRequest{})
	if err != nil {
		return err
	}
	for {
		snap, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fn(snap.Entries)
	}
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return common.ErrUnauthorized
	case codes.NotFound:
		return common.ErrNotFound
	case codes.AlreadyExists:
		return common.ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrValidation, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return common.ErrUnavailable
	case codes.Canceled:
		return context.Canceled
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

// mapDocError is mapError for calls made on behalf of a session: a rejected
// token means the session is gone.
func (s *GRPCClient) mapDocError(err error) error {
	err = s.mapError(err)
	if errors.Is(err, common.ErrUnauthorized) {
		return common.ErrNotAuthenticated
	}
	return err
}
