package util

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payloads that can check their own
// required fields.
type Validatable interface {
	Validate() error
}

// BindAndValidateBody binds the request body into v and runs its validation.
// Binding or validation failures surface as 400s.
func BindAndValidateBody(c echo.Context, v Validatable) error {
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := v.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// ValidateAndReturn writes the response payload with the given status.
func ValidateAndReturn(c echo.Context, code int, v interface{}) error {
	return c.JSON(code, v)
}
