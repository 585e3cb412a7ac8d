// Package notify delivers rendered reports by e-mail.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"

	"rankwatch/internal/report"
)

type SMTPConfig struct {
	Server   string
	Port     int
	From     string
	Password string
	To       []string
}

// Enabled reports whether enough is configured to send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Server != "" && c.From != "" && len(c.To) > 0
}

type Mailer struct {
	cfg    SMTPConfig
	send   func(addr string, a smtp.Auth, e *email.Email) error
	logger *slog.Logger
}

func NewMailer(cfg SMTPConfig, logger *slog.Logger) *Mailer {
	return &Mailer{
		cfg: cfg,
		send: func(addr string, a smtp.Auth, e *email.Email) error {
			return e.Send(addr, a)
		},
		logger: logger.With("component", "mailer"),
	}
}

func (m *Mailer) message(n report.Notification) *email.Email {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("rankwatch <%s>", m.cfg.From)
	mail.To = m.cfg.To
	mail.Subject = n.Subject
	mail.Text = []byte(n.Text)
	if n.HTML != "" {
		mail.HTML = []byte(n.HTML)
	}
	return mail
}

// Notify sends n to every configured recipient. The SMTP exchange itself is
// not cancellable; ctx is only checked before dialing.
func (m *Mailer) Notify(ctx context.Context, n report.Notification) error {
	if !m.cfg.Enabled() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Server, m.cfg.Port)
	mail := m.message(n)

	err := m.send(addr, smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Server), mail)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = m.send(addr, nil, mail)
	}
	if err != nil {
		return fmt.Errorf("send report mail: %w", err)
	}

	m.logger.Info("report mailed", "subject", n.Subject, "recipients", len(m.cfg.To))
	return nil
}
