package adapter

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/MKhiriev/go-tour-booking/internal/config"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/internal/utils"
	"github.com/MKhiriev/go-tour-booking/models"
)

const defaultSendGridURL = "https://api.sendgrid.com"

type sendGridMailer struct {
	client *utils.HTTPClient
	apiKey string
	logger *logger.Logger
}

// NewSendGridMailer constructs a [Mailer] backed by the SendGrid v3 mail
// API. cfg.SendGridURL overrides the API host.
func NewSendGridMailer(cfg config.Mail, log *logger.Logger) Mailer {
	baseURL := cfg.SendGridURL
	if baseURL == "" {
		baseURL = defaultSendGridURL
	}

	return &sendGridMailer{
		client: utils.NewHTTPClient(baseURL, cfg.Timeout),
		apiKey: cfg.SendGridAPIKey,
		logger: log,
	}
}

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

func (m *sendGridMailer) Send(ctx context.Context, email models.Email) error {
	log := logger.FromContext(ctx)

	from, err := mail.ParseAddress(email.From)
	if err != nil {
		return fmt.Errorf("%w: invalid sender %q: %w", ErrMailDelivery, email.From, err)
	}

	payload := sendGridRequest{
		Personalizations: []sendGridPersonalization{{To: []sendGridAddress{{Email: email.To}}}},
		From:             sendGridAddress{Email: from.Address, Name: from.Name},
		Subject:          email.Subject,
		Content: []sendGridContent{
			{Type: "text/plain", Value: email.Text},
			{Type: "text/html", Value: email.HTML},
		},
	}

	resp, err := m.client.R().
		SetContext(ctx).
		SetAuthToken(m.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post("/v3/mail/send")
	if err != nil {
		log.Err(err).Str("func", "sendGridMailer.Send").Msg("mail api request failed")
		return fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}
	if err = mapHTTPError(resp); err != nil {
		log.Err(err).Str("func", "sendGridMailer.Send").Int("status", resp.StatusCode()).Msg("mail api rejected the email")
		return fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}

	log.Debug().Str("func", "sendGridMailer.Send").Str("subject", email.Subject).Msg("email accepted by mail api")
	return nil
}
