package adapter

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/MKhiriev/go-tour-booking/internal/config"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/models"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// smtpMailer sends through a plain SMTP relay such as Mailtrap. Used in
// development.
type smtpMailer struct {
	addr     string
	auth     smtp.Auth
	sendMail sendMailFunc
	logger   *logger.Logger
}

// NewSMTPMailer constructs a [Mailer] relaying through cfg.Host:cfg.Port.
// PLAIN authentication is used when a username is configured.
func NewSMTPMailer(cfg config.Mail, log *logger.Logger) Mailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &smtpMailer{
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		auth:     auth,
		sendMail: smtp.SendMail,
		logger:   log,
	}
}

func (m *smtpMailer) Send(ctx context.Context, email models.Email) error {
	log := logger.FromContext(ctx)

	from, err := mail.ParseAddress(email.From)
	if err != nil {
		return fmt.Errorf("%w: invalid sender %q: %w", ErrMailDelivery, email.From, err)
	}

	msg, err := buildMIMEMessage(email, time.Now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}

	if err = m.sendMail(m.addr, m.auth, from.Address, []string{email.To}, msg); err != nil {
		log.Err(err).Str("func", "smtpMailer.Send").Str("addr", m.addr).Msg("failed to send email")
		return fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}

	log.Debug().Str("func", "smtpMailer.Send").Str("subject", email.Subject).Msg("email sent")
	return nil
}

// buildMIMEMessage renders email as a multipart/alternative message with a
// plain-text and an HTML part.
func buildMIMEMessage(email models.Email, date time.Time) ([]byte, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=UTF-8", email.Text},
		{"text/html; charset=UTF-8", email.HTML},
	}
	for _, p := range parts {
		pw, err := w.CreatePart(textproto.MIMEHeader{"Content-Type": {p.contentType}})
		if err != nil {
			return nil, err
		}
		if _, err = pw.Write([]byte(p.content)); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", email.From)
	fmt.Fprintf(&msg, "To: %s\r\n", email.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", email.Subject))
	fmt.Fprintf(&msg, "Date: %s\r\n", date.Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", w.Boundary())
	msg.Write(body.Bytes())

	return msg.Bytes(), nil
}
