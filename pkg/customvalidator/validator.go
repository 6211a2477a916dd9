package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegisterCustomValidations registra las reglas propias en el validador.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("email", isGoodEmailFormat); err != nil {
		return err
	}
	if err := v.RegisterValidation("fecha", isISODate); err != nil {
		return err
	}
	return nil
}

// IsValidEmail aplica el mismo chequeo sintáctico que la regla "email":
// local@dominio con dominio punteado. Se usa en la resolución de destinatario.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

var fechaRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func isISODate(fl validator.FieldLevel) bool {
	return fechaRegex.MatchString(fl.Field().String())
}
