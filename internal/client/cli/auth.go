package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mymoment/internal/client/session"
	"github.com/dmitrijs2005/mymoment/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) credentials() (session.Credentials, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return session.Credentials{}, err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return session.Credentials{}, err
	}
	defer common.WipeByteArray(password)

	return session.Credentials{Email: email, Password: string(password)}, nil
}

// Register prompts for an email and password and creates an account. A new
// account is signed in right away.
func (a *App) Register(ctx context.Context) error {
	c, err := a.credentials()
	if err != nil {
		return err
	}

	if _, err := a.gate.SignUp(ctx, c); err != nil {
		printlnFn(authMessage(err))
		return err
	}

	printlnFn("Success!")
	return nil
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	c, err := a.credentials()
	if err != nil {
		return err
	}

	s, err := a.gate.SignIn(ctx, c)
	if err != nil {
		a.logger.Info(ctx, "login unsuccessful", "error", err)
		printlnFn(authMessage(err))
		return err
	}

	a.logger.Info(ctx, "login successful", "user_id", s.User.ID)
	printlnFn("Signed in as", s.User.Email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.gate.SignOut(ctx); err != nil {
		printlnFn("Logout failed:", err)
		return err
	}
	printlnFn("Signed out")
	return nil
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, session.ErrEmptyFields):
		return "Email and password are required"
	case errors.Is(err, session.ErrInvalidEmail):
		return "Email address is not valid"
	case errors.Is(err, common.ErrUnauthorized):
		return "Wrong email or password"
	case errors.Is(err, common.ErrAlreadyExists):
		return "An account with this email already exists"
	case errors.Is(err, common.ErrUnavailable):
		return "Server unavailable, try again later"
	default:
		return "Error: " + err.Error()
	}
}
