package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSNotifier publishes the JSON payload to a NATS subject. Desktop
// clients and other subscribers consume the feed; delivery to them is
// their concern.
type NATSNotifier struct {
	nc      *nats.Conn
	subject string
}

// NewNATSNotifier connects to a NATS server.
func NewNATSNotifier(url, subject string) (*NATSNotifier, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSNotifier{nc: nc, subject: subject}, nil
}

func (n *NATSNotifier) Name() string {
	return "nats"
}

func (n *NATSNotifier) Send(ctx context.Context, p Payload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := n.nc.Publish(n.subject, data); err != nil {
		return fmt.Errorf("publish payload: %w", err)
	}
	return nil
}

// Close drains and closes the NATS connection.
func (n *NATSNotifier) Close() {
	n.nc.Close()
}
