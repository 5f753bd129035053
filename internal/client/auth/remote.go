package auth

import (
	"context"

	"github.com/dmitrijs2005/mymoment/internal/client/client"
	"github.com/dmitrijs2005/mymoment/internal/client/models"
)

// RemoteProvider signs in against the MyMoment server. Sessions are not
// remembered across restarts.
type RemoteProvider struct {
	authState
	client client.Client
}

func NewRemoteProvider(c client.Client) *RemoteProvider {
	return &RemoteProvider{authState: newAuthState(nil), client: c}
}

func (p *RemoteProvider) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	s, err := p.client.Login(ctx, normalizeEmail(email), password)
	if err != nil {
		return nil, err
	}
	p.set(s)
	return s, nil
}

func (p *RemoteProvider) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	s, err := p.client.Register(ctx, normalizeEmail(email), password)
	if err != nil {
		return nil, err
	}
	p.set(s)
	return s, nil
}

func (p *RemoteProvider) SignOut(ctx context.Context) error {
	p.client.Logout()
	p.set(nil)
	return nil
}
