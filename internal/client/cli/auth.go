package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/socialhub/internal/api"
	"github.com/dmitrijs2005/socialhub/internal/client/client"
	"github.com/dmitrijs2005/socialhub/internal/common"
)

var errAlreadyLoggedIn = errors.New("already logged in, logout first")

// readNewPassword asks for a password and its confirmation.
func (a *App) readNewPassword() (string, string, error) {
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return "", "", err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.out, "Confirm password")
	if err != nil {
		return "", "", err
	}
	defer common.WipeByteArray(confirm)

	return string(password), string(confirm), nil
}

func (a *App) Register(ctx context.Context) error {
	if a.isLoggedIn() {
		return errAlreadyLoggedIn
	}

	req := &api.RegisterRequest{}
	var err error
	if req.Name, err = getSimpleText(a.reader, "Enter name", a.out); err != nil {
		return err
	}
	if req.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if req.DateOfBirth, err = getSimpleText(a.reader, "Enter date of birth (YYYY-MM-DD)", a.out); err != nil {
		return err
	}
	if req.Password, req.ConfirmPassword, err = a.readNewPassword(); err != nil {
		return err
	}

	ctx, cancel := a.rpc(ctx)
	defer cancel()

	msg, err := a.client.Register(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, msg)
	fmt.Fprintln(a.out, "Check your inbox for the verification link, then run verify-email.")
	a.refreshUserName(ctx)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.rpc(ctx)
	defer cancel()

	msg, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, msg)
	a.refreshUserName(ctx)
	return nil
}

// GoogleLogin exchanges an authorization code obtained from the Google
// consent screen.
func (a *App) GoogleLogin(ctx context.Context, args []string) error {
	code, err := a.argOrPrompt(args, "Enter Google authorization code")
	if err != nil {
		return err
	}

	ctx, cancel := a.rpc(ctx)
	defer cancel()

	resp, err := a.client.LoginWithExternalIdentity(ctx, code)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, resp.Message)
	if resp.NewUser {
		fmt.Fprintln(a.out, "A new account was created for this Google identity.")
	}
	a.refreshUserName(ctx)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	ctx, cancel := a.rpc(ctx)
	defer cancel()

	msg, err := a.client.Logout(ctx)
	a.setUserName("")
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) VerifyEmail(ctx context.Context, args []string) error {
	token, err := a.argOrPrompt(args, "Enter email verify token")
	if err != nil {
		return err
	}

	ctx, cancel := a.rpc(ctx)
	defer cancel()

	msg, err := a.client.VerifyEmail(ctx, token)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) ResendVerify(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}

	ctx, cancel := a.rpc(ctx)
	defer cancel()

	msg, err := a.client.ResendEmailVerify(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, msg)
	return nil
}
