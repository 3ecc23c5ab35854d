package notify

import (
	"context"
	"errors"
)

// MultiSink sends to every sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) Send(ctx context.Context, n Notification) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
