package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/socialhub/internal/api"
	"github.com/dmitrijs2005/socialhub/internal/client/client"
)

func verifyLabel(v int) string {
	switch v {
	case 0:
		return "unverified"
	case 1:
		return "verified"
	case 2:
		return "banned"
	default:
		return fmt.Sprintf("unknown(%d)", v)
	}
}

func printProfile(w io.Writer, p *api.Profile) {
	if p == nil {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(tw, "%s\t%s\n", k, v)
		}
	}
	row("id", p.ID)
	row("username", p.Username)
	row("name", p.Name)
	row("email", p.Email)
	if !p.DateOfBirth.IsZero() {
		row("date of birth", p.DateOfBirth.Format("2006-01-02"))
	}
	row("bio", p.Bio)
	row("location", p.Location)
	row("website", p.Website)
	row("avatar", p.Avatar)
	row("cover photo", p.CoverPhoto)
	row("status", verifyLabel(p.Verify))
	_ = tw.Flush()
}

func (a *App) Me(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}

	ctx, cancel := a.rpc(ctx)
	defer cancel()

	p, err := a.client.GetMe(ctx)
	if err != nil {
		return err
	}

	printProfile(a.out, p)
	return nil
}

func (a *App) UpdateMe(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}

	req := &api.UpdateMeRequest{}
	fields := []struct {
		prompt string
		dst    **string
	}{
		{"Name", &req.Name},
		{"Username", &req.Username},
		{"Date of birth (YYYY-MM-DD)", &req.DateOfBirth},
		{"Bio", &req.Bio},
		{"Location", &req.Location},
		{"Website", &req.Website},
		{"Avatar URL", &req.Avatar},
		{"Cover photo URL", &req.CoverPhoto},
	}
	for _, f := range fields {
		v, err := a.optional(f.prompt)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	ctx, cancel := a.rpc(ctx)
	defer cancel()

	p, err := a.client.UpdateMe(ctx, req)
	if err != nil {
		return err
	}

	if p != nil {
		a.setUserName(p.Username)
	}
	printProfile(a.out, p)
	return nil
}

func (a *App) Profile(ctx context.Context, args []string) error {
	username, err := a.argOrPrompt(args, "Enter username")
	if err != nil {
		return err
	}

	ctx, cancel := a.rpc(ctx)
	defer cancel()

	p, err := a.client.GetProfile(ctx, username)
	if err != nil {
		return err
	}

	printProfile(a.out, p)
	return nil
}

func (a *App) Follow(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}
	id, err := a.argOrPrompt(args, "Enter user id to follow")
	if err != nil {
		return err
	}

	ctx, cancel := a.rpc(ctx)
	defer cancel()

	msg, err := a.client.Follow(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) Unfollow(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}
	id, err := a.argOrPrompt(args, "Enter user id to unfollow")
	if err != nil {
		return err
	}

	ctx, cancel := a.rpc(ctx)
	defer cancel()

	msg, err := a.client.Unfollow(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, msg)
	return nil
}
