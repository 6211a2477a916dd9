package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"workorder-system/pkg/config"
	apperrors "workorder-system/pkg/errors"
)

func TestMailer_NotConfigured(t *testing.T) {
	m := NewMailer(config.SMTPConfig{}, zap.NewNop())

	err := m.Send("alguien@hospital.cl", "asunto", "cuerpo", "pdfs/orden.pdf")
	require.ErrorIs(t, err, apperrors.ErrSMTPNotConfigured)
}

func TestMailer_AttachmentMissing(t *testing.T) {
	m := NewMailer(config.SMTPConfig{
		Host:   "smtp.ejemplo.cl",
		Port:   587,
		Sender: "servicio@novamedical.cl",
	}, zap.NewNop())

	err := m.Send("alguien@hospital.cl", "asunto", "cuerpo",
		filepath.Join(t.TempDir(), "no_existe.pdf"))
	require.ErrorIs(t, err, apperrors.ErrAttachmentMissing)
}

func TestMailer_TransportFailure(t *testing.T) {
	attachment := filepath.Join(t.TempDir(), "orden.pdf")
	require.NoError(t, os.WriteFile(attachment, []byte("%PDF-1.4"), 0o644))

	// Puerto cerrado en localhost: el dial falla rápido.
	m := NewMailer(config.SMTPConfig{
		Host:   "127.0.0.1",
		Port:   1,
		Sender: "servicio@novamedical.cl",
	}, zap.NewNop())

	err := m.Send("alguien@hospital.cl", "asunto", "cuerpo", attachment)
	require.Error(t, err)
	require.NotErrorIs(t, err, apperrors.ErrSMTPNotConfigured)
	require.NotErrorIs(t, err, apperrors.ErrAttachmentMissing)
}
