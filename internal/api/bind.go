package api

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindJSON decodes the request body into dst. An empty body is accepted when optional is set,
// which lets partial updates carry no fields at all.
// required is the message used when a required field is missing.
func bindJSON(c *gin.Context, dst any, optional bool, required string) error {
	err := c.ShouldBindJSON(dst)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalidInput("Invalid request")
	}
	switch verrs[0].Tag() {
	case "required":
		return invalidInput(required)
	case "email":
		return invalidInput("Invalid email address")
	case "oneof":
		return invalidInput("Invalid role")
	default:
		return invalidInput("Invalid request")
	}
}
