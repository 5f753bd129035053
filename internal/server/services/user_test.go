package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/mymoment/internal/common"
	"github.com/dmitrijs2005/mymoment/internal/cryptox"
	"github.com/dmitrijs2005/mymoment/internal/server/config"
	"github.com/dmitrijs2005/mymoment/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, *fakeRepoManager) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	cfg := &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
	return NewUserService(db, rm, cfg), rm
}

func TestRegister_CreatesUserAndSignsIn(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	s := NewUserService(db, rm, &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour, RefreshTokenValidityDuration: time.Hour})

	user, pair, err := s.Register(context.Background(), "  Alice@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, cryptox.VerifyPassword([]byte("secret1"), user.Salt, user.Verifier))

	uid, err := s.UserID(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, uid)

	_, err = rm.r.Find(context.Background(), pair.RefreshToken)
	assert.NoError(t, err, "refresh token stored")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"empty email", "", "secret1", common.ErrValidation},
		{"bad email", "not-an-email", "secret1", common.ErrValidation},
		{"short password", "a@b.co", "123", common.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newUserService(t)
			_, _, err := s.Register(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegister_DuplicateEmailRollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := newFakeRepoManager()
	rm.u.byEmail["a@b.co"] = &models.User{ID: "u1", Email: "a@b.co"}
	s := NewUserService(db, rm, &config.Config{SecretKey: "k"})

	_, _, err := s.Register(context.Background(), "a@b.co", "secret1")
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_Flows(t *testing.T) {
	salt, hash, err := cryptox.HashPassword([]byte("secret1"))
	require.NoError(t, err)

	s, rm := newUserService(t)
	rm.u.byEmail["a@b.co"] = &models.User{ID: "u1", Email: "a@b.co", Salt: salt, Verifier: hash}

	t.Run("ok", func(t *testing.T) {
		user, pair, err := s.Login(context.Background(), "A@B.co", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		assert.NotEmpty(t, pair.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := s.Login(context.Background(), "a@b.co", "nope")
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := s.Login(context.Background(), "ghost@b.co", "secret1")
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})

	t.Run("db failure", func(t *testing.T) {
		rm.u.err = errBoom{}
		defer func() { rm.u.err = nil }()
		_, _, err := s.Login(context.Background(), "a@b.co", "secret1")
		assert.ErrorIs(t, err, common.ErrInternal)
	})
}

func TestRefreshToken_Rotates(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	s := NewUserService(db, rm, &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour, RefreshTokenValidityDuration: time.Hour})
	require.NoError(t, rm.r.Create(context.Background(), "u1", "old", time.Now().Add(time.Minute)))

	pair, err := s.RefreshToken(context.Background(), "old")
	require.NoError(t, err)
	assert.NotEqual(t, "old", pair.RefreshToken)

	_, err = rm.r.Find(context.Background(), "old")
	assert.ErrorIs(t, err, common.ErrNotFound, "old token consumed")
	_, err = rm.r.Find(context.Background(), pair.RefreshToken)
	assert.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshToken_Failures(t *testing.T) {
	t.Run("unknown", func(t *testing.T) {
		s, _ := newUserService(t)
		_, err := s.RefreshToken(context.Background(), "missing")
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		s, rm := newUserService(t)
		require.NoError(t, rm.r.Create(context.Background(), "u1", "r", time.Now().Add(-time.Minute)))
		_, err := s.RefreshToken(context.Background(), "r")
		assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
	})

	t.Run("find error", func(t *testing.T) {
		s, rm := newUserService(t)
		rm.r.findErr = errBoom{}
		_, err := s.RefreshToken(context.Background(), "r")
		require.Error(t, err)
		assert.Regexp(t, `error searching refresh token: .*boom`, err.Error())
	})

	t.Run("consumed concurrently", func(t *testing.T) {
		db, mock := newSQLMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()
		rm := newFakeRepoManager()
		rm.r.tokens["r"] = &models.RefreshToken{UserID: "u1", Expires: time.Now().Add(time.Minute)}
		rm.r.delErr = common.ErrNotFound
		s := NewUserService(db, rm, &config.Config{SecretKey: "k"})

		_, err := s.RefreshToken(context.Background(), "r")
		assert.ErrorIs(t, err, common.ErrUnauthorized)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("create error", func(t *testing.T) {
		db, mock := newSQLMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()
		rm := newFakeRepoManager()
		rm.r.tokens["r"] = &models.RefreshToken{UserID: "u1", Expires: time.Now().Add(time.Minute)}
		rm.r.createErr = errBoom{}
		s := NewUserService(db, rm, &config.Config{SecretKey: "k"})

		_, err := s.RefreshToken(context.Background(), "r")
		assert.ErrorIs(t, err, common.ErrInternal)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPurgeExpiredTokens(t *testing.T) {
	s, rm := newUserService(t)
	ctx := context.Background()
	require.NoError(t, rm.r.Create(ctx, "u1", "dead", time.Now().Add(-time.Hour)))
	require.NoError(t, rm.r.Create(ctx, "u1", "live", time.Now().Add(time.Hour)))

	n, err := s.PurgeExpiredTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
