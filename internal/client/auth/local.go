package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/mymoment/internal/client/models"
	"github.com/dmitrijs2005/mymoment/internal/common"
	"github.com/dmitrijs2005/mymoment/internal/cryptox"
	"github.com/dmitrijs2005/mymoment/internal/logging"
	"github.com/google/uuid"
)

// LocalProvider authenticates against accounts stored on this machine. The
// signed-in user is remembered, so a restart resumes the session.
type LocalProvider struct {
	authState
	accounts *AccountStore
	logger   logging.Logger

	// serialises sign-up so two calls cannot claim one email
	mu  sync.Mutex
	now func() time.Time
}

// NewLocalProvider restores a remembered session if its account still
// exists.
func NewLocalProvider(ctx context.Context, accounts *AccountStore, logger logging.Logger) (*LocalProvider, error) {
	p := &LocalProvider{
		accounts: accounts,
		logger:   logger.With("module", "local_auth"),
		now:      time.Now,
	}

	var initial *models.Session
	userID, err := accounts.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if userID != "" {
		a, err := accounts.AccountByID(ctx, userID)
		switch {
		case err == nil:
			initial = p.session(a)
		case errors.Is(err, common.ErrNotFound):
			p.logger.Warn(ctx, "remembered user has no account", "user_id", userID)
		default:
			return nil, fmt.Errorf("restore session: %w", err)
		}
	}

	p.authState = newAuthState(initial)
	return p, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *LocalProvider) session(a *Account) *models.Session {
	token, err := common.MakeRandHexString(16)
	if err != nil {
		token = uuid.NewString()
	}
	return &models.Session{
		User:  models.User{ID: a.UserID, Email: a.Email, CreatedAt: a.CreatedAt},
		Token: token,
	}
}

func (p *LocalProvider) signedIn(ctx context.Context, a *Account) (*models.Session, error) {
	if err := p.accounts.SetCurrentUser(ctx, a.UserID); err != nil {
		return nil, err
	}
	s := p.session(a)
	p.set(s)
	p.logger.Info(ctx, "signed in", "user_id", a.UserID)
	return s, nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	a, err := p.accounts.Account(ctx, normalizeEmail(email))
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !cryptox.VerifyPassword([]byte(password), a.Salt, a.Hash) {
		return nil, common.ErrUnauthorized
	}
	return p.signedIn(ctx, a)
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	email = normalizeEmail(email)

	p.mu.Lock()
	defer p.mu.Unlock()

	_, err := p.accounts.Account(ctx, email)
	if err == nil {
		return nil, common.ErrAlreadyExists
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	salt, hash, err := cryptox.HashPassword([]byte(password))
	if err != nil {
		return nil, err
	}
	a := &Account{
		UserID:    uuid.NewString(),
		Email:     email,
		Salt:      salt,
		Hash:      hash,
		CreatedAt: p.now().UTC(),
	}
	if err := p.accounts.SaveAccount(ctx, a); err != nil {
		return nil, err
	}
	if err := p.accounts.SaveProfile(ctx, a.UserID, &Profile{Email: a.Email, CreatedAt: a.CreatedAt}); err != nil {
		return nil, err
	}
	return p.signedIn(ctx, a)
}

func (p *LocalProvider) SignOut(ctx context.Context) error {
	if err := p.accounts.SetCurrentUser(ctx, ""); err != nil {
		return err
	}
	p.set(nil)
	return nil
}
