package notify

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/nats-io/nats.go"
)

// Publisher is the part of *nats.Conn used by NATSSink.
type Publisher interface {
	Publish(subj string, data []byte) error
}

var _ Publisher = (*nats.Conn)(nil)

// NATSSink publishes notifications as JSON on <prefix>.<kind> for a mailer
// service to pick up.
type NATSSink struct {
	pub    Publisher
	prefix string
}

func NewNATSSink(pub Publisher, prefix string) *NATSSink {
	if prefix == "" {
		prefix = "socialhub.notify"
	}
	return &NATSSink{pub: pub, prefix: prefix}
}

// ConnectNATS opens a named connection to url.
func ConnectNATS(url string) (*nats.Conn, error) {
	return nats.Connect(url, nats.Name("socialhub"), nats.MaxReconnects(-1))
}

func (s *NATSSink) Subject(kind Kind) string {
	return s.prefix + "." + string(kind)
}

func (s *NATSSink) Send(ctx context.Context, n Notification) error {
	if s == nil || s.pub == nil {
		return errors.New("nil nats publisher")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return s.pub.Publish(s.Subject(n.Kind), data)
}
