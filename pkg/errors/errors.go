package errors

import (
	"fmt"
	"strings"
)

var (
	// Almacenamiento
	ErrNotFound   = fmt.Errorf("registro no encontrado")
	ErrBadRequest = fmt.Errorf("solicitud inválida")

	// Firmas
	ErrBadSignatureFormat = fmt.Errorf("formato de imagen de firma no válido")
	ErrSignatureTooLarge  = fmt.Errorf("imagen de firma demasiado grande")

	// Renderizado
	ErrRenderFailed = fmt.Errorf("no se pudo escribir el documento")

	// Notificador
	ErrSMTPNotConfigured = fmt.Errorf("servidor SMTP no configurado")
	ErrAttachmentMissing = fmt.Errorf("archivo adjunto no encontrado")
)

// HttpError transporta el código HTTP junto con el mensaje para el usuario
// y la causa técnica que va al log.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

// ValidationError agrupa los motivos de rechazo de un formulario.
// Cada motivo es un mensaje legible para el usuario.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "validación fallida: " + strings.Join(e.Reasons, "; ")
}

func NewValidationError(reasons ...string) *ValidationError {
	return &ValidationError{Reasons: reasons}
}
