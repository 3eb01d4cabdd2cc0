package notify

import (
	"context"
	"fmt"

	"github.com/gregdel/pushover"
)

// PushoverNotifier sends the payload as a Pushover push notification.
type PushoverNotifier struct {
	app       *pushover.Pushover
	recipient *pushover.Recipient
}

// NewPushoverNotifier creates a Pushover sink from an application token
// and a user key.
func NewPushoverNotifier(token, userKey string) *PushoverNotifier {
	return &PushoverNotifier{
		app:       pushover.New(token),
		recipient: pushover.NewRecipient(userKey),
	}
}

func (n *PushoverNotifier) Name() string {
	return "pushover"
}

func (n *PushoverNotifier) Send(ctx context.Context, p Payload) error {
	message := pushover.NewMessageWithTitle(p.Body, p.Subject)
	if _, err := n.app.SendMessage(message, n.recipient); err != nil {
		return fmt.Errorf("pushover send error: %w", err)
	}
	return nil
}
