package adapter

import (
	"fmt"
	"io"

	"github.com/MKhiriev/go-tour-booking/internal/config"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewMailer builds the [Mailer] selected by cfg.Transport. The returned
// closer releases broker connections and must be called on shutdown.
func NewMailer(cfg config.Mail, log *logger.Logger) (Mailer, io.Closer, error) {
	switch cfg.Transport {
	case config.MailTransportSMTP:
		return NewSMTPMailer(cfg, log), nopCloser{}, nil
	case config.MailTransportSendGrid:
		return NewSendGridMailer(cfg, log), nopCloser{}, nil
	case config.MailTransportAMQP:
		m, err := NewQueueMailer(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return m, m, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownTransport, cfg.Transport)
}
