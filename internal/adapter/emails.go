package adapter

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/MKhiriev/go-tour-booking/internal/config"
	"github.com/MKhiriev/go-tour-booking/models"
	"github.com/microcosm-cc/bluemonday"
)

const (
	SubjectWelcome       = "Welcome to the Natours Family!"
	SubjectPasswordReset = "Your password reset token (valid for only 10 minutes)"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailComposer renders the transactional emails. Every email carries an
// HTML body and a plain-text alternative derived from it.
type EmailComposer struct {
	from      string
	welcome   *template.Template
	reset     *template.Template
	plainText *bluemonday.Policy
}

// NewEmailComposer parses the embedded templates. The sender is rendered as
// "FromName <From>".
func NewEmailComposer(cfg config.Mail) (*EmailComposer, error) {
	welcome, err := template.ParseFS(templateFS, "templates/base.html", "templates/welcome.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing welcome template: %w", err)
	}
	reset, err := template.ParseFS(templateFS, "templates/base.html", "templates/password_reset.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing password reset template: %w", err)
	}

	from := cfg.From
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.From)
	}

	return &EmailComposer{
		from:      from,
		welcome:   welcome,
		reset:     reset,
		plainText: bluemonday.StrictPolicy(),
	}, nil
}

type emailData struct {
	Subject   string
	FirstName string
	URL       string
}

// Welcome greets a new user and links to the account page at url.
func (c *EmailComposer) Welcome(user models.User, url string) (models.Email, error) {
	return c.compose(c.welcome, user, SubjectWelcome, url)
}

// PasswordReset sends the reset link at url.
func (c *EmailComposer) PasswordReset(user models.User, url string) (models.Email, error) {
	return c.compose(c.reset, user, SubjectPasswordReset, url)
}

func (c *EmailComposer) compose(tmpl *template.Template, user models.User, subject, url string) (models.Email, error) {
	data := emailData{
		Subject:   subject,
		FirstName: firstName(user.Name),
		URL:       url,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return models.Email{}, fmt.Errorf("error rendering %q: %w", subject, err)
	}

	return models.Email{
		From:    c.from,
		To:      user.Email,
		Subject: subject,
		HTML:    buf.String(),
		Text:    c.toText(buf.String()),
	}, nil
}

// toText strips every tag and collapses the remaining whitespace.
func (c *EmailComposer) toText(body string) string {
	// the title duplicates the subject
	if i := strings.Index(body, "<body"); i >= 0 {
		body = body[i:]
	}
	stripped := html.UnescapeString(c.plainText.Sanitize(body))

	lines := strings.Split(stripped, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}

	return strings.Join(out, "\n")
}

func firstName(name string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}
	return name
}
