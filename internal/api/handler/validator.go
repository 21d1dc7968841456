package handler

import "github.com/smmpanel/smm-client/internal/core/validation"

// echoValidator lets Echo call c.Validate(req) with the same rules and
// messages the client forms use.
type echoValidator struct {
	v *validation.Validator
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validation.New()}
}

// Validate satisfies the echo.Validator interface. Failures match
// domain.ErrValidation.
func (ev *echoValidator) Validate(i any) error {
	return ev.v.Struct(i)
}
