// Package notify delivers out-of-band account notifications (email
// verification and password reset links). Delivery is fire-and-forget:
// failures are logged and counted but never reach the caller.
package notify

import (
	"context"
	"net/url"
	"strings"
)

type Kind string

const (
	KindEmailVerify    Kind = "email_verify"
	KindForgotPassword Kind = "forgot_password"
)

// path returns the client page that consumes a token of this kind.
func (k Kind) path() string {
	switch k {
	case KindEmailVerify:
		return "/verify-email"
	case KindForgotPassword:
		return "/reset-password"
	default:
		return "/"
	}
}

type Notification struct {
	Kind      Kind   `json:"kind"`
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Token     string `json:"token"`
	Link      string `json:"link,omitempty"`
}

// Sink delivers a single notification.
type Sink interface {
	Send(ctx context.Context, n Notification) error
}

// BuildLink returns <baseURL><page>?token=<token>, or "" when baseURL is empty.
func BuildLink(baseURL string, kind Kind, token string) string {
	if baseURL == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + kind.path() + "?token=" + url.QueryEscape(token)
}
