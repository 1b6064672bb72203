package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/learnpoke/internal/common"
	"github.com/go-playground/validator/v10"
)

type registerInput struct {
	Username       string `json:"username" validate:"required,notblank,max=64"`
	Password       string `json:"password" validate:"required"`
	RecoveryAnswer string `json:"recoveryAnswer" validate:"required,notblank"`
}

type resetInput struct {
	Username       string `json:"username" validate:"required"`
	RecoveryAnswer string `json:"recoveryAnswer" validate:"required,notblank"`
	NewPassword    string `json:"newPassword" validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// validateInput returns a common.ErrorValidation wrapping a message built
// from the first failing field.
func validateInput(v *validator.Validate, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", common.ErrorValidation, fe.Field())
	case "notblank":
		return fmt.Errorf("%w: %s must not be blank", common.ErrorValidation, fe.Field())
	case "max":
		return fmt.Errorf("%w: %s must be at most %s characters", common.ErrorValidation, fe.Field(), fe.Param())
	default:
		return fmt.Errorf("%w: %s is invalid", common.ErrorValidation, fe.Field())
	}
}
