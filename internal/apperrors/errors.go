// Package apperrors defines the typed errors shared by the service and HTTP layers.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// MissingParamError reports a required input that was not provided.
type MissingParamError struct {
	Param string
}

func NewMissingParamError(param string) *MissingParamError {
	return &MissingParamError{Param: param}
}

func (e *MissingParamError) Error() string {
	return "missing param: " + e.Param
}

// InvalidParamError reports an input that was provided but is malformed.
type InvalidParamError struct {
	Param  string
	Reason string
}

func NewInvalidParamError(param, reason string) *InvalidParamError {
	return &InvalidParamError{Param: param, Reason: reason}
}

func (e *InvalidParamError) Error() string {
	if e.Reason == "" {
		return "invalid param: " + e.Param
	}
	return fmt.Sprintf("invalid param: %s: %s", e.Param, e.Reason)
}

// DuplicatedKeyError reports a uniqueness violation on Key.
type DuplicatedKeyError struct {
	Key string
}

func NewDuplicatedKeyError(key string) *DuplicatedKeyError {
	return &DuplicatedKeyError{Key: key}
}

func (e *DuplicatedKeyError) Error() string {
	return "duplicated key: " + e.Key
}

// NotRegisteredError reports a lookup of an entity that does not exist.
type NotRegisteredError struct {
	Entity string
}

func NewNotRegisteredError(entity string) *NotRegisteredError {
	return &NotRegisteredError{Entity: entity}
}

func (e *NotRegisteredError) Error() string {
	return e.Entity + " not registered"
}

// IsValidation reports whether err is a MissingParamError or an InvalidParamError.
func IsValidation(err error) bool {
	var missing *MissingParamError
	var invalid *InvalidParamError
	return errors.As(err, &missing) || errors.As(err, &invalid)
}

func IsDuplicatedKey(err error) bool {
	var dup *DuplicatedKeyError
	return errors.As(err, &dup)
}

func IsNotRegistered(err error) bool {
	var nr *NotRegisteredError
	return errors.As(err, &nr)
}
