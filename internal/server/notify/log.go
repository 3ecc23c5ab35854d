package notify

import (
	"context"

	"github.com/dmitrijs2005/socialhub/internal/logging"
)

// LogSink writes notifications to the log. The token itself is not logged.
type LogSink struct {
	log logging.Logger
}

func NewLogSink(log logging.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Send(ctx context.Context, n Notification) error {
	s.log.Info(ctx, "notification", "kind", n.Kind, "account_id", n.AccountID, "email", n.Email, "link_set", n.Link != "")
	return nil
}
