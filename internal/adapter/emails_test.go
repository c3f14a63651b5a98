package adapter

import (
	"testing"

	"github.com/MKhiriev/go-tour-booking/internal/config"
	"github.com/MKhiriev/go-tour-booking/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestComposer(t *testing.T) *EmailComposer {
	t.Helper()
	c, err := NewEmailComposer(config.Mail{From: "hello@natours.io", FromName: "Jonas Schmedtmann"})
	require.NoError(t, err)
	return c
}

func TestEmailComposer_Welcome(t *testing.T) {
	c := newTestComposer(t)
	user := models.User{Name: "Leo Gillespie", Email: "leo@example.com"}

	email, err := c.Welcome(user, "http://127.0.0.1:3000/me")
	require.NoError(t, err)

	assert.Equal(t, "Jonas Schmedtmann <hello@natours.io>", email.From)
	assert.Equal(t, "leo@example.com", email.To)
	assert.Equal(t, SubjectWelcome, email.Subject)
	assert.Contains(t, email.HTML, `href="http://127.0.0.1:3000/me"`)
	assert.Contains(t, email.HTML, "Hi Leo,")
	assert.Contains(t, email.Text, "Hi Leo,")
	assert.NotContains(t, email.Text, "<p>")
	assert.NotContains(t, email.Text, SubjectWelcome)
}

func TestEmailComposer_PasswordReset(t *testing.T) {
	c := newTestComposer(t)
	user := models.User{Name: "Leo", Email: "leo@example.com"}
	url := "http://127.0.0.1:3000/api/v1/users/resetPassword/abc123"

	email, err := c.PasswordReset(user, url)
	require.NoError(t, err)

	assert.Equal(t, SubjectPasswordReset, email.Subject)
	assert.Contains(t, email.Text, url)
	assert.Contains(t, email.Text, "If you didn't forget your password, please ignore this email!")
}

func TestEmailComposer_EscapesUserInput(t *testing.T) {
	c := newTestComposer(t)

	email, err := c.Welcome(models.User{Name: "<script>alert(1)</script>", Email: "x@example.com"}, "/me")
	require.NoError(t, err)
	assert.NotContains(t, email.HTML, "<script>")
}

func TestEmailComposer_SenderWithoutName(t *testing.T) {
	c, err := NewEmailComposer(config.Mail{From: "hello@natours.io"})
	require.NoError(t, err)

	email, err := c.Welcome(models.User{Name: "Leo", Email: "leo@example.com"}, "/me")
	require.NoError(t, err)
	assert.Equal(t, "hello@natours.io", email.From)
}
