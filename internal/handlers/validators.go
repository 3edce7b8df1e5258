package handlers

import (
	"fmt"
	"regexp"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var numericCodePattern = regexp.MustCompile(`^[0-9]{1,12}$`)

// registerValidators adds the custom binding tags used by the request DTOs.
func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("numeric_code", func(fl validator.FieldLevel) bool {
		return numericCodePattern.MatchString(fl.Field().String())
	})
}

// parseOptionalDate leaves the date zero when absent so the service applies its clock.
func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return domain.ParseDate(s, time.Time{})
}
