package customvalidator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"contacto@hospital.cl",
		"maria.gonzalez+equipo@clinica-davila.cl",
		"a@b.co",
	}
	for _, s := range valid {
		assert.True(t, IsValidEmail(s), s)
	}

	invalid := []string{
		"",
		"+56 9 1234 5678",
		"María González",
		"sin-arroba.cl",
		"a@b",
		"a@.cl",
		"con espacios@dominio.cl",
	}
	for _, s := range invalid {
		assert.False(t, IsValidEmail(s), s)
	}
}

func TestFechaRule(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))

	type payload struct {
		Fecha string `validate:"fecha"`
	}

	assert.NoError(t, v.Struct(payload{Fecha: "2026-03-15"}))
	assert.Error(t, v.Struct(payload{Fecha: "15/03/2026"}))
	assert.Error(t, v.Struct(payload{Fecha: "2026-3-15"}))
	assert.Error(t, v.Struct(payload{Fecha: "hoy"}))
}
