package notify

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/logging"
	"github.com/dmitrijs2005/socialhub/internal/server/metrics"
)

const defaultSendTimeout = 10 * time.Second

// Dispatcher hands notifications to a Sink on background goroutines.
type Dispatcher struct {
	sink    Sink
	log     logging.Logger
	metrics *metrics.Metrics
	baseURL string
	timeout time.Duration
	wg      sync.WaitGroup
}

type DispatcherOption func(*Dispatcher)

// WithBaseURL sets the public client URL used to build notification links.
func WithBaseURL(u string) DispatcherOption {
	return func(d *Dispatcher) { d.baseURL = u }
}

func WithMetrics(m *metrics.Metrics) DispatcherOption {
	return func(d *Dispatcher) { d.metrics = m }
}

func WithTimeout(t time.Duration) DispatcherOption {
	return func(d *Dispatcher) { d.timeout = t }
}

func NewDispatcher(sink Sink, log logging.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		sink:    sink,
		log:     log.With("module", "notify"),
		timeout: defaultSendTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch schedules delivery of n and returns immediately. The send runs
// with its own deadline, detached from the caller's cancellation.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) {
	if n.Link == "" {
		n.Link = BuildLink(d.baseURL, n.Kind, n.Token)
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()

		err := d.sink.Send(sendCtx, n)
		d.metrics.NotificationSent(string(n.Kind), err)
		if err != nil {
			d.log.Error(sendCtx, "notification delivery failed",
				"kind", n.Kind, "account_id", n.AccountID, "error", err)
			return
		}
		d.log.Debug(sendCtx, "notification delivered", "kind", n.Kind, "account_id", n.AccountID)
	}()
}

// Wait blocks until every scheduled delivery has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
