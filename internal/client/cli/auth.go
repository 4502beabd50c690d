package cli

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/docshelf/internal/client/services"
	"github.com/dmitrijs2005/docshelf/internal/client/session"
	"github.com/dmitrijs2005/docshelf/internal/common"
)

// getSimpleText, getMultiline and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getMultiline  = GetMultiline
	getPassword   = GetPassword
)

var errPasswordMismatch = fmt.Errorf("%w: passwords do not match", common.ErrInvalidInput)

// Onboard shows the introduction and marks it as seen.
func (a *App) Onboard(ctx context.Context) error {
	if a.hasOnboarded() {
		fmt.Fprintln(a.out, "You have already seen the introduction. Use 'reset' to see it again.")
		return nil
	}

	fmt.Fprintln(a.out, "docshelf keeps your course documents in one place.")
	fmt.Fprintln(a.out, "  - search documents shared by other students")
	fmt.Fprintln(a.out, "  - download them into your archive and open them offline")
	fmt.Fprintln(a.out, "  - upload your own notes and slides")

	a.session.CompleteOnboarding(ctx)
	return nil
}

// Reset clears the onboarding flag and the session, taking the user back to
// the introduction.
func (a *App) Reset(ctx context.Context) error {
	a.session.ResetOnboarding(ctx)
	fmt.Fprintln(a.out, "Local session cleared.")
	return nil
}

// Register prompts for the signup fields and creates an account. The user
// is sent to the login screen afterwards; registering does not log in.
func (a *App) Register(ctx context.Context) error {
	if !a.goTo(ctx, session.Signup) {
		return nil
	}

	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Full name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := a.readNewPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.auth.Register(ctx, services.RegisterRequest{
		Username: username,
		Email:    email,
		Password: string(password),
		FullName: fullName,
	}); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Account created. You can log in now.")
	a.location = session.Login
	return nil
}

// Login prompts for credentials and starts a session. On success the guard
// moves the user to home.
func (a *App) Login(ctx context.Context) error {
	if !a.goTo(ctx, session.Login) {
		return nil
	}

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		a.logger.Info(ctx, "login unsuccessful", "error", err)
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", u.DisplayName())
	return nil
}

// Logout ends the session.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return services.ErrNotLoggedIn
	}
	a.auth.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// Whoami prints the session user and when their token expires.
func (a *App) Whoami(ctx context.Context) error {
	u := a.session.State().User
	if u == nil {
		return services.ErrNotLoggedIn
	}

	fmt.Fprintf(a.out, "%s (@%s)\n", u.DisplayName(), u.Username)
	if u.Email != "" {
		fmt.Fprintf(a.out, "Email: %s\n", u.Email)
	}
	fmt.Fprintf(a.out, "Role:  %s\n", u.Role)
	if exp, ok := a.session.TokenExpiry(); ok {
		fmt.Fprintf(a.out, "Session valid until %s\n", exp.Local().Format(time.DateTime))
	}
	return nil
}

// readNewPassword asks for a password twice. The caller wipes the result.
func (a *App) readNewPassword() ([]byte, error) {
	pw, err := getPassword(a.out, "New password: ")
	if err != nil {
		return nil, err
	}
	confirm, err := getPassword(a.out, "Confirm password: ")
	if err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(pw, confirm) {
		common.WipeByteArray(pw)
		return nil, errPasswordMismatch
	}
	return pw, nil
}

