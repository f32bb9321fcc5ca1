package validator

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator plugs go-playground/validator into echo's Validator hook,
// so handlers can call c.Validate on bound DTOs
type CustomValidator struct {
	v *validator.Validate
}

// New builds a validator with the default tag set
func New() *CustomValidator {
	return &CustomValidator{v: validator.New()}
}

// Validate runs the struct tag rules on a bound request
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
