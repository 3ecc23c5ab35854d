package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. Commands that
// accept an optional argument receive the rest of the line.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	GoogleLogin(ctx context.Context, args []string) error
	Logout(ctx context.Context) error

	VerifyEmail(ctx context.Context, args []string) error
	ResendVerify(ctx context.Context) error

	ForgotPassword(ctx context.Context) error
	VerifyForgotPassword(ctx context.Context, args []string) error
	ResetPassword(ctx context.Context, args []string) error
	ChangePassword(ctx context.Context) error

	Me(ctx context.Context) error
	UpdateMe(ctx context.Context) error
	Profile(ctx context.Context, args []string) error
	Follow(ctx context.Context, args []string) error
	Unfollow(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: register, login, google-login, verify-email, forgot-password, " +
		"verify-forgot-password, reset-password, profile, exit"
	helpLoggedIn = "Available commands: me, update-me, profile, follow, unfollow, change-password, " +
		"verify-email, resend-verify, logout, exit"
)

// runREPL reads commands from scanner until EOF or "exit"/"quit". Command
// errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sh %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "google-login":
			err = a.GoogleLogin(ctx, args)
		case "logout":
			err = a.Logout(ctx)

		case "verify-email":
			err = a.VerifyEmail(ctx, args)
		case "resend-verify":
			err = a.ResendVerify(ctx)

		case "forgot-password":
			err = a.ForgotPassword(ctx)
		case "verify-forgot-password":
			err = a.VerifyForgotPassword(ctx, args)
		case "reset-password":
			err = a.ResetPassword(ctx, args)
		case "change-password":
			err = a.ChangePassword(ctx)

		case "me":
			err = a.Me(ctx)
		case "update-me":
			err = a.UpdateMe(ctx)
		case "profile":
			err = a.Profile(ctx, args)
		case "follow":
			err = a.Follow(ctx, args)
		case "unfollow":
			err = a.Unfollow(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
