package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendSink emails the notification link through the Resend API.
type ResendSink struct {
	client *resend.Client
	from   string
}

func NewResendSink(client *resend.Client, from string) *ResendSink {
	return &ResendSink{client: client, from: from}
}

func subjectFor(kind Kind) string {
	switch kind {
	case KindEmailVerify:
		return "Verify your email"
	case KindForgotPassword:
		return "Reset your password"
	default:
		return "Account notification"
	}
}

func bodyFor(n Notification) string {
	target := n.Link
	if target == "" {
		target = n.Token
	}
	switch n.Kind {
	case KindEmailVerify:
		return fmt.Sprintf("Hi %s,\n\nConfirm your email address: %s\n", n.Name, target)
	case KindForgotPassword:
		return fmt.Sprintf("Hi %s,\n\nReset your password: %s\n\nIf you did not ask for this, ignore this email.\n", n.Name, target)
	default:
		return target
	}
}

func (s *ResendSink) Send(ctx context.Context, n Notification) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{n.Email},
		Subject: subjectFor(n.Kind),
		Text:    bodyFor(n),
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}
