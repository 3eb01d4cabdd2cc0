package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailNotifier sends the payload as an email via SendGrid.
type EmailNotifier struct {
	apiKey string
	from   string
	to     string
}

// NewEmailNotifier creates an email sink.
func NewEmailNotifier(apiKey, from, to string) *EmailNotifier {
	return &EmailNotifier{apiKey: apiKey, from: from, to: to}
}

func (n *EmailNotifier) Name() string {
	return "email"
}

func (n *EmailNotifier) Send(ctx context.Context, p Payload) error {
	if n.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if n.from == "" || n.to == "" {
		return fmt.Errorf("email from/to address is empty")
	}

	fromEmail := mail.NewEmail("FossaWork", n.from)
	toEmail := mail.NewEmail("", n.to)
	htmlContent := fmt.Sprintf("<pre>%s</pre>", p.Body)
	message := mail.NewSingleEmail(fromEmail, p.Subject, toEmail, p.Body, htmlContent)

	client := sendgrid.NewSendClient(n.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}
	return nil
}
