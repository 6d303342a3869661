// Package validation runs the input validation chains shared by the services.
// Rules are declared with `validate` struct tags; the first failing rule is
// reported as an apperrors.MissingParamError or apperrors.InvalidParamError.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"bomberquiz/internal/apperrors"

	"github.com/go-playground/validator/v10"
)

// Validator wraps a configured go-playground validator.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// New builds a Validator with JSON field names and the custom rules registered.
func New() *Validator {
	return newWithClock(time.Now)
}

func newWithClock(now func() time.Time) *Validator {
	val := &Validator{
		v:   validator.New(validator.WithRequiredStructEnabled()),
		now: now,
	}
	val.v.RegisterTagNameFunc(jsonFieldName)
	val.mustRegister(tagPhone, validatePhone)
	val.mustRegister(tagPassword, validatePassword)
	val.mustRegister(tagBirthdate, val.validateBirthdate)
	return val
}

func (val *Validator) mustRegister(tag string, fn validator.Func) {
	if err := val.v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Struct validates s against its `validate` tags.
func (val *Validator) Struct(s any) error {
	return translate(val.v.Struct(s), "")
}

// Field validates a single value (e.g. a path parameter) under the given name.
func (val *Validator) Field(name string, value any, tag string) error {
	return translate(val.v.Var(value, tag), name)
}

func translate(err error, name string) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	field := fe.Field()
	if name != "" {
		field = name
	}
	if fe.Tag() == "required" {
		return apperrors.NewMissingParamError(field)
	}
	return apperrors.NewInvalidParamError(field, reason(fe))
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return "must be a valid email address"
	case tagPhone:
		return "must contain 10 to 13 digits, optionally prefixed by +"
	case tagBirthdate:
		return "must be a past date in YYYY-MM-DD format"
	case tagPassword:
		return fmt.Sprintf("must have %d to %d characters including a letter and a digit", minPasswordLen, maxPasswordLen)
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind() == reflect.String {
			return "must have at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must have at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "uuid":
		return "must be a valid id"
	case "eqfield":
		return "does not match"
	default:
		return "failed " + fe.Tag() + " rule"
	}
}
