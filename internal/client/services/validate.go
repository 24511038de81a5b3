package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/petalert/internal/common"
	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// validateInput runs struct validation and converts failures into a
// *common.ValidationError whose text can be shown as is.
func validateInput(v *validator.Validate, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate input: %w", err)
	}

	ve := &common.ValidationError{}
	for _, fe := range fieldErrs {
		ve.Fields = append(ve.Fields, common.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	label := fe.StructField()

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return label + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	}
	if strings.Contains(fe.Tag(), "e164") {
		return label + " must be a valid phone number"
	}
	return label + " is invalid"
}
