package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/socialhub/internal/client/client"
	"github.com/dmitrijs2005/socialhub/internal/common"
)

func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.rpc(ctx)
	defer cancel()

	msg, err := a.client.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) VerifyForgotPassword(ctx context.Context, args []string) error {
	token, err := a.argOrPrompt(args, "Enter forgot password token")
	if err != nil {
		return err
	}

	ctx, cancel := a.rpc(ctx)
	defer cancel()

	msg, err := a.client.VerifyForgotPassword(ctx, token)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) ResetPassword(ctx context.Context, args []string) error {
	token, err := a.argOrPrompt(args, "Enter forgot password token")
	if err != nil {
		return err
	}

	password, confirm, err := a.readNewPassword()
	if err != nil {
		return err
	}

	ctx, cancel := a.rpc(ctx)
	defer cancel()

	msg, err := a.client.ResetPassword(ctx, token, password, confirm)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}

	old, err := getPassword(a.out, "Current password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(old)

	password, confirm, err := a.readNewPassword()
	if err != nil {
		return err
	}

	ctx, cancel := a.rpc(ctx)
	defer cancel()

	msg, err := a.client.ChangePassword(ctx, string(old), password, confirm)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, msg)
	return nil
}
