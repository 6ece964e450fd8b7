package mail

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"hearth/config"
	"hearth/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestNew_FallsBackToLogMailerWithoutSMTPHost(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{}
	_, ok := New(cfg, logger).(*logMailer)
	assert.True(t, ok)

	cfg.SMTP = &config.SMTPConfig{}
	_, ok = New(cfg, logger).(*logMailer)
	assert.True(t, ok)

	cfg.SMTP = &config.SMTPConfig{Host: "smtp.example.com", Port: 587}
	_, ok = New(cfg, logger).(*smtpMailer)
	assert.True(t, ok)
}

func TestLogMailer_NeverFails(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mailer := &logMailer{logger: logger}

	err := mailer.SendInviteMail(context.Background(), &entity.Invite{
		Email: "new@example.com",
		Token: "c2VjcmV0.1767268800",
	})
	assert.NoError(t, err)

	err = mailer.SendRecoveryMail(context.Background(), &entity.User{
		Email: "kim@example.com",
	}, "c2VjcmV0")
	assert.NoError(t, err)
}

func TestBuildLink(t *testing.T) {
	link := buildLink("https://hearth.example.com", "auth/register", map[string]string{
		"token": "c2VjcmV0.1767268800",
	})
	assert.Equal(t, "https://hearth.example.com/auth/register?token=c2VjcmV0.1767268800", link)

	// Recovery links carry both the GUID and the secret.
	link = buildLink("https://hearth.example.com", "auth/reset-password", map[string]string{
		"guid":  "2c61dcbf",
		"token": "c2VjcmV0",
	})
	assert.Equal(t, "https://hearth.example.com/auth/reset-password?guid=2c61dcbf&token=c2VjcmV0", link)

	// No base URL degrades to a relative link.
	link = buildLink("", "auth/register", map[string]string{"token": "t"})
	assert.Equal(t, "auth/register?token=t", link)
}
