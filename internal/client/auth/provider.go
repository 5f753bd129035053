// Package auth provides the identity backends behind the session gate: local
// demo accounts and the remote MyMoment server.
package auth

import (
	"context"

	"github.com/dmitrijs2005/mymoment/internal/client/models"
	"github.com/dmitrijs2005/mymoment/internal/observable"
)

// Provider signs users in and out and reports the current session. The
// listener passed to OnAuthStateChanged is called right away with the
// current session (nil when signed out) and again after every change.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignUp(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context) error
	CurrentSession() *models.Session
	OnAuthStateChanged(fn func(*models.Session)) (remove func())
}

// authState is the session holder shared by the providers.
type authState struct {
	session *observable.Value[*models.Session]
}

func newAuthState(initial *models.Session) authState {
	return authState{session: observable.NewValue(initial)}
}

func (a authState) CurrentSession() *models.Session {
	return a.session.Get()
}

func (a authState) OnAuthStateChanged(fn func(*models.Session)) func() {
	return a.session.Subscribe(fn)
}

func (a authState) set(s *models.Session) {
	a.session.Set(s)
}
