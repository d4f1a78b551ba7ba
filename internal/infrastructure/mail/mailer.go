// Package mail adaptadores de correo saliente (SMTP, SendGrid, log) y el notificador
// asíncrono de eventos de pedidos.
package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	gomail "gopkg.in/gomail.v2"

	"github.com/jhoicas/vendofy-api/internal/application/ports"
	"github.com/jhoicas/vendofy-api/pkg/config"
	"github.com/jhoicas/vendofy-api/pkg/logger"
)

var (
	_ ports.Mailer = (*SMTPMailer)(nil)
	_ ports.Mailer = (*SendGridMailer)(nil)
	_ ports.Mailer = (*LogMailer)(nil)
)

// New elige la implementación según MAIL_PROVIDER.
func New(cfg config.MailConfig, log *logger.Logger) (ports.Mailer, error) {
	switch cfg.Provider {
	case config.MailProviderSMTP:
		return NewSMTPMailer(cfg), nil
	case config.MailProviderSendGrid:
		return NewSendGridMailer(cfg), nil
	case config.MailProviderLog, "":
		return NewLogMailer(log), nil
	}
	return nil, fmt.Errorf("mail: proveedor desconocido %q", cfg.Provider)
}

// SMTPMailer envío por SMTP con gomail.
type SMTPMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

// NewSMTPMailer construye el mailer SMTP.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

// Send abre una conexión por mensaje. gomail no acepta context: solo se respeta la cancelación previa.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}

// SendGridMailer envío vía API de SendGrid.
type SendGridMailer struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

// NewSendGridMailer construye el mailer SendGrid.
func NewSendGridMailer(cfg config.MailConfig) *SendGridMailer {
	return &SendGridMailer{
		client:   sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

// Send envía un correo HTML. Cualquier respuesta fuera de 2xx es error.
func (m *SendGridMailer) Send(ctx context.Context, to, subject, html string) error {
	msg := sgmail.NewSingleEmail(sgmail.NewEmail(m.fromName, m.from), subject, sgmail.NewEmail("", to), "", html)
	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogMailer no envía nada: registra el correo (desarrollo).
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer construye el mailer de desarrollo.
func NewLogMailer(log *logger.Logger) *LogMailer {
	if log == nil {
		log = logger.Nop()
	}
	return &LogMailer{log: log.Component("mail")}
}

// Send registra destinatario y asunto.
func (m *LogMailer) Send(_ context.Context, to, subject, html string) error {
	m.log.Info().Str("to", to).Str("subject", subject).Int("bytes", len(html)).Msg("correo (no enviado, MAIL_PROVIDER=log)")
	return nil
}
