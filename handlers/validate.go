package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator plugs go-playground/validator into echo's Context.Validate
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return invalidParameter("%v", err)
	}
	return nil
}

type credentials struct {
	Username string `form:"username" validate:"required,max=64,alphanumunicode"`
	Password string `form:"password" validate:"required,min=4"`
}

type compressParams struct {
	Thresh float64 `form:"thresh" validate:"lte=0"`
	Ratio  float64 `form:"ratio" validate:"gte=1"`
}

type cutParams struct {
	Start string `form:"start" validate:"required,numeric"`
	End   string `form:"end" validate:"required,numeric"`
}

// bindAndValidate fills p from the request and checks it
func bindAndValidate(c echo.Context, p interface{}) error {
	if err := c.Bind(p); err != nil {
		return invalidParameter("%v", err)
	}
	return c.Validate(p)
}
