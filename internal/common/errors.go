// Package common defines the sentinel errors and constants shared by the
// MyMoment client and backend. Callers match the errors with errors.Is.
package common

import "errors"

var (
	// Session errors.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUnauthorized     = errors.New("invalid email or password")

	// Store errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Local validation, never sent to a store.
	ErrValidation = errors.New("validation error")

	// Token errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	ErrUnavailable = errors.New("server unavailable")
	ErrInternal    = errors.New("internal error")
)
