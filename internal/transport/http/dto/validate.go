package dto

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/universitas/manuales-backend/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their json name, not the Go identifier
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("strongpw", strongPassword)
	return v
}

// strongPassword requires at least 8 characters with one letter and one
// digit.
func strongPassword(fl validator.FieldLevel) bool {
	pw := fl.Field().String()
	if len(pw) < 8 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// check runs struct validation and translates the first failure into a
// domain error.
func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return domain.ErrMissingField(fe.Field())
		case "strongpw":
			return domain.ErrWeakPassword("min 8 characters with a letter and a digit")
		default:
			return domain.ErrInvalidField(fe.Field(), fe.Tag())
		}
	}
	return domain.ErrInvalidField("body", "invalid")
}

// normalizeEmail is the single place emails are canonicalised before they
// reach the application layer: the sheet lookup is an exact string match.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
