package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mymoment/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/mymoment/internal/common"
)

const (
	accountKeyPrefix = "account:"
	profileKeyPrefix = "profile:"
	currentUserKey   = "session:current"
)

// Account is a local demo account. Only the argon2id hash of the password
// is kept.
type Account struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Salt      []byte    `json:"salt"`
	Hash      []byte    `json:"hash"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the user document written on sign-up.
type Profile struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AccountStore keeps local accounts, profiles and the remembered session
// in the metadata repository.
type AccountStore struct {
	repo metadata.Repository
}

func NewAccountStore(repo metadata.Repository) *AccountStore {
	return &AccountStore{repo: repo}
}

func getJSON[T any](ctx context.Context, repo metadata.Repository, key string) (*T, error) {
	raw, err := repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, common.ErrNotFound
	}
	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

func setJSON(ctx context.Context, repo metadata.Repository, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return repo.Set(ctx, key, raw)
}

// Account returns common.ErrNotFound for unknown emails.
func (s *AccountStore) Account(ctx context.Context, email string) (*Account, error) {
	return getJSON[Account](ctx, s.repo, accountKeyPrefix+email)
}

// AccountByID scans the accounts for userID.
func (s *AccountStore) AccountByID(ctx context.Context, userID string) (*Account, error) {
	all, err := s.repo.List(ctx, accountKeyPrefix)
	if err != nil {
		return nil, err
	}
	for _, raw := range all {
		var a Account
		if err := json.Unmarshal(raw, &a); err != nil {
			continue
		}
		if a.UserID == userID {
			return &a, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *AccountStore) SaveAccount(ctx context.Context, a *Account) error {
	return setJSON(ctx, s.repo, accountKeyPrefix+a.Email, a)
}

func (s *AccountStore) Profile(ctx context.Context, userID string) (*Profile, error) {
	return getJSON[Profile](ctx, s.repo, profileKeyPrefix+userID)
}

func (s *AccountStore) SaveProfile(ctx context.Context, userID string, p *Profile) error {
	return setJSON(ctx, s.repo, profileKeyPrefix+userID, p)
}

// CurrentUser returns the remembered signed-in user id, or "".
func (s *AccountStore) CurrentUser(ctx context.Context) (string, error) {
	raw, err := s.repo.Get(ctx, currentUserKey)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (s *AccountStore) SetCurrentUser(ctx context.Context, userID string) error {
	if userID == "" {
		return s.repo.Delete(ctx, currentUserKey)
	}
	return s.repo.Set(ctx, currentUserKey, []byte(userID))
}
