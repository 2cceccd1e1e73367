// Package validate checks form input before it reaches a repository.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fekuna/stroymaterials/internal/apperr"
	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z](.*)(@)(.+)(\.)(.+)`)
	phonePattern = regexp.MustCompile(`^[+]?[0-9]{10,15}$`)
)

// phoneFormatting is stripped before a phone number is checked.
var phoneFormatting = strings.NewReplacer(" ", "", "(", "", ")", "", "-", "")

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	_ = val.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})
	_ = val.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	return val
}

// Struct validates s against its `validate` tags and reports failures as an
// *apperr.ValidationError keyed by field name.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	return apperr.NewValidation(fields)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "phone":
		return "invalid phone number"
	case "loose_email":
		return "invalid email"
	case "oneof":
		return "must be one of " + fe.Param()
	case "gt", "gte", "lt", "lte", "min", "max":
		return fmt.Sprintf("must be %s %s", fe.Tag(), fe.Param())
	}
	return "invalid"
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPhone accepts 10 to 15 digits with an optional leading plus.
// Spaces, parentheses and dashes are ignored.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phoneFormatting.Replace(phone))
}

// ParseQuantity accepts a strictly positive decimal, with either separator.
func ParseQuantity(s string) (float64, error) {
	q, err := parseNumber(s)
	if err != nil || q <= 0 {
		return 0, apperr.NewValidation(map[string]string{"Quantity": "must be a positive number"})
	}
	return q, nil
}

// ParsePrice accepts zero or a positive decimal.
func ParsePrice(s string) (float64, error) {
	p, err := parseNumber(s)
	if err != nil || p < 0 {
		return 0, apperr.NewValidation(map[string]string{"Price": "must be a non-negative number"})
	}
	return p, nil
}

// ParseDecimal accepts any decimal, with either separator, and reports a
// failure against field.
func ParseDecimal(field, s string) (float64, error) {
	v, err := parseNumber(s)
	if err != nil {
		return 0, apperr.NewValidation(map[string]string{field: "must be a number"})
	}
	return v, nil
}

func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	return strconv.ParseFloat(s, 64)
}
