package notify

import (
	"context"
	"log"

	"github.com/fossawork/fossawork/pkg/infrastructure/metrics"
)

// Notifier delivers one payload over one channel.
type Notifier interface {
	Name() string
	Send(ctx context.Context, p Payload) error
}

// Dispatcher fans a payload out to every configured sink. A failing sink
// never blocks the others; failures are logged, counted, and returned.
type Dispatcher struct {
	sinks []Notifier
}

// NewDispatcher creates a dispatcher over the given sinks.
func NewDispatcher(sinks ...Notifier) *Dispatcher {
	return &Dispatcher{sinks: sinks}
}

// Sinks returns the number of configured sinks.
func (d *Dispatcher) Sinks() int {
	return len(d.sinks)
}

// SinkError pairs a failed delivery with its channel name.
type SinkError struct {
	Channel string
	Err     error
}

func (e SinkError) Error() string {
	return e.Channel + ": " + e.Err.Error()
}

func (e SinkError) Unwrap() error {
	return e.Err
}

// Dispatch sends the payload to every sink and returns the per-sink
// failures.
func (d *Dispatcher) Dispatch(ctx context.Context, p Payload) []SinkError {
	var failed []SinkError
	for _, sink := range d.sinks {
		if err := sink.Send(ctx, p); err != nil {
			log.Printf("[notify] %s delivery failed: %v", sink.Name(), err)
			metrics.NotificationsTotal.WithLabelValues(sink.Name(), "error").Inc()
			failed = append(failed, SinkError{Channel: sink.Name(), Err: err})
			continue
		}
		metrics.NotificationsTotal.WithLabelValues(sink.Name(), "ok").Inc()
	}
	return failed
}
