package utils

import "github.com/go-playground/validator/v10"

// Validator es la envoltura para usar go-playground/validator desde Echo.
type Validator struct {
	validate *validator.Validate
}

func NewValidator(v *validator.Validate) *Validator {
	return &Validator{validate: v}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func (v *Validator) Engine() *validator.Validate {
	return v.validate
}
