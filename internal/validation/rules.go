package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	tagPhone     = "phone"
	tagPassword  = "password"
	tagBirthdate = "birthdate"

	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt ignores anything past 72 bytes

	dateLayout = "2006-01-02"
)

var (
	phonePattern  = regexp.MustCompile(`^\+?[0-9]{10,13}$`)
	earliestBirth = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
)

func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

func validatePassword(fl validator.FieldLevel) bool {
	pw := fl.Field().String()
	if len(pw) < minPasswordLen || len(pw) > maxPasswordLen {
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

func (val *Validator) validateBirthdate(fl validator.FieldLevel) bool {
	d, err := time.ParseInLocation(dateLayout, fl.Field().String(), time.UTC)
	if err != nil {
		return false
	}
	today := val.now().UTC().Truncate(24 * time.Hour)
	return !d.Before(earliestBirth) && d.Before(today)
}

// NormalizePhone strips the usual formatting characters from a phone number.
func NormalizePhone(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
