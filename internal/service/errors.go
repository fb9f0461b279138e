package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned on duplicate membership or uniqueness
	// conflicts.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrForbidden is returned when a non-author, non-staff user attempts
	// to mutate a recipe.
	ErrForbidden = errors.New("operation not allowed")
	// ErrSelfFollow is returned when a user tries to follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrEmptyCart signals that a shopping list was requested for an
	// empty cart.
	ErrEmptyCart = errors.New("shopping cart is empty")
	// ErrInvalidCredentials is returned on failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError is a field-keyed validation failure; handlers render it as
// a 400 response keyed by Field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
