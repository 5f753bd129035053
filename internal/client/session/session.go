// Package session is the single source of truth for "who is signed in". It
// validates credentials, delegates to an auth provider and publishes session
// transitions to the rest of the client.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/mymoment/internal/client/auth"
	"github.com/dmitrijs2005/mymoment/internal/client/models"
	"github.com/dmitrijs2005/mymoment/internal/common"
	"github.com/dmitrijs2005/mymoment/internal/logging"
	"github.com/dmitrijs2005/mymoment/internal/observable"
	"github.com/go-playground/validator/v10"
)

var (
	ErrEmptyFields  = fmt.Errorf("%w: email and password are required", common.ErrValidation)
	ErrInvalidEmail = fmt.Errorf("%w: email is malformed", common.ErrValidation)
)

type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// LoginFlag persists the legacy "logged in" preference.
type LoginFlag interface {
	SetLoggedIn(ctx context.Context, on bool) error
}

type Gate struct {
	provider auth.Provider
	flag     LoginFlag
	logger   logging.Logger
	validate *validator.Validate
	state    *observable.Value[*models.Session]

	mu     sync.Mutex
	remove func()
}

type Option func(*Gate)

func WithLoginFlag(f LoginFlag) Option {
	return func(g *Gate) { g.flag = f }
}

func New(p auth.Provider, logger logging.Logger, opts ...Option) *Gate {
	g := &Gate{
		provider: p,
		logger:   logger.With("module", "session"),
		validate: validator.New(),
		state:    observable.NewValue[*models.Session](nil),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Start follows the provider's auth state. A session that already exists
// is published immediately.
func (g *Gate) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.remove != nil {
		return
	}
	g.remove = g.provider.OnAuthStateChanged(g.apply)
}

func (g *Gate) Close() {
	g.mu.Lock()
	remove := g.remove
	g.remove = nil
	g.mu.Unlock()
	if remove != nil {
		remove()
	}
}

// apply publishes s unless it carries the same user as the current session.
func (g *Gate) apply(s *models.Session) {
	g.state.Change(func(cur *models.Session) (*models.Session, bool) {
		return s, cur.UserID() != s.UserID()
	})
}

func (g *Gate) Current() *models.Session {
	return g.state.Get()
}

// Subscribe calls fn with the current session and on every transition.
func (g *Gate) Subscribe(fn func(*models.Session)) func() {
	return g.state.Subscribe(fn)
}

func (g *Gate) check(c Credentials) (Credentials, error) {
	c.Email = strings.TrimSpace(c.Email)
	if c.Email == "" || c.Password == "" {
		return c, ErrEmptyFields
	}
	if err := g.validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Tag() == "required" {
					return c, ErrEmptyFields
				}
			}
			return c, ErrInvalidEmail
		}
		return c, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return c, nil
}

func (g *Gate) SignIn(ctx context.Context, c Credentials) (*models.Session, error) {
	return g.enter(ctx, c, g.provider.SignIn)
}

func (g *Gate) SignUp(ctx context.Context, c Credentials) (*models.Session, error) {
	return g.enter(ctx, c, g.provider.SignUp)
}

func (g *Gate) enter(ctx context.Context, c Credentials, call func(ctx context.Context, email, password string) (*models.Session, error)) (*models.Session, error) {
	c, err := g.check(c)
	if err != nil {
		return nil, err
	}

	s, err := call(ctx, c.Email, c.Password)
	if err != nil {
		g.logger.Info(ctx, "sign in failed", "email", c.Email, "error", err)
		return nil, err
	}

	g.apply(s)
	g.setFlag(ctx, true)
	return s, nil
}

func (g *Gate) SignOut(ctx context.Context) error {
	if err := g.provider.SignOut(ctx); err != nil {
		return err
	}
	g.apply(nil)
	g.setFlag(ctx, false)
	return nil
}

func (g *Gate) setFlag(ctx context.Context, on bool) {
	if g.flag == nil {
		return
	}
	if err := g.flag.SetLoggedIn(ctx, on); err != nil {
		g.logger.Warn(ctx, "failed to store login flag", "error", err)
	}
}
