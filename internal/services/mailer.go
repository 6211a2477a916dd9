package services

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"workorder-system/pkg/config"
	apperrors "workorder-system/pkg/errors"
)

// MailerInterface es el notificador de mejor esfuerzo: ninguno de sus errores
// es fatal para la creación de la orden. El destinatario llega ya validado
// por quien llama; acá no se re-valida.
type MailerInterface interface {
	Send(recipient, subject, body, attachmentPath string) error
}

type Mailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

func NewMailer(cfg config.SMTPConfig, logger *zap.Logger) MailerInterface {
	return &Mailer{cfg: cfg, logger: logger}
}

func (m *Mailer) Send(recipient, subject, body, attachmentPath string) error {
	if m.cfg.Host == "" {
		return apperrors.ErrSMTPNotConfigured
	}

	if _, err := os.Stat(attachmentPath); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrAttachmentMissing, attachmentPath)
	}

	sender := m.cfg.Sender
	if sender == "" {
		sender = m.cfg.User
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", sender)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	msg.Attach(attachmentPath)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("error de transporte SMTP: %w", err)
	}

	m.logger.Info("Email enviado correctamente", zap.String("recipient", recipient))
	return nil
}
