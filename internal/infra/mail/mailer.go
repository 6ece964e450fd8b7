// Package mail delivers the outbound mails the auth flows produce.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"net/url"
	"strconv"
	"strings"

	"hearth/config"
	"hearth/internal/domain/entity"
	"hearth/internal/domain/service"

	"github.com/pkg/errors"
)

// New selects the mailer implementation from configuration. Without an
// SMTP host the log-only mailer stands in, which keeps local development
// working with no mail server.
func New(cfg *config.Config, logger *slog.Logger) service.Mailer {
	if cfg.SMTP == nil || cfg.SMTP.Host == "" {
		return &logMailer{logger: logger}
	}

	return &smtpMailer{cfg: cfg.SMTP}
}

// smtpMailer sends mail through a plain SMTP relay.
type smtpMailer struct {
	cfg *config.SMTPConfig
}

func (m *smtpMailer) SendInviteMail(ctx context.Context, invite *entity.Invite) error {
	link := buildLink(m.cfg.BaseURL, "auth/register", map[string]string{"token": invite.Token})

	body := "You have been invited to create an account.\r\n\r\n" +
		"Open the following link to register:\r\n" + link + "\r\n"

	return m.send(invite.Email, "You are invited to register", body)
}

func (m *smtpMailer) SendRecoveryMail(ctx context.Context, user *entity.User, secret string) error {
	link := buildLink(m.cfg.BaseURL, "auth/reset-password", map[string]string{
		"guid":  user.GUID,
		"token": secret,
	})

	body := "A password reset was requested for your account.\r\n\r\n" +
		"Open the following link to choose a new password:\r\n" + link + "\r\n\r\n" +
		"If you did not request this, you can ignore this mail.\r\n"

	return m.send(user.Email, "Reset your password", body)
}

func (m *smtpMailer) send(to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := m.cfg.Host + ":" + strconv.Itoa(m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return errors.Wrapf(err, "failed to send mail to %s", to)
	}

	return nil
}

// logMailer writes mails to the log instead of sending them.
type logMailer struct {
	logger *slog.Logger
}

func (m *logMailer) SendInviteMail(ctx context.Context, invite *entity.Invite) error {
	m.logger.Info("Invite mail (log-only delivery)",
		slog.String("email", invite.Email),
		slog.String("token", invite.Token))

	return nil
}

func (m *logMailer) SendRecoveryMail(ctx context.Context, user *entity.User, secret string) error {
	m.logger.Info("Recovery mail (log-only delivery)",
		slog.String("email", user.Email),
		slog.String("guid", user.GUID),
		slog.String("token", secret))

	return nil
}

// buildLink joins the public base URL with a path and query parameters.
// A missing base URL degrades to a relative link.
func buildLink(baseURL, path string, params map[string]string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = &url.URL{}
	}

	base = base.JoinPath(strings.Split(path, "/")...)
	query := base.Query()
	for k, v := range params {
		query.Set(k, v)
	}
	base.RawQuery = query.Encode()

	return base.String()
}
