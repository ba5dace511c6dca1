package service

import (
	"errors"
	"fmt"
)

// Базовые классы ошибок. Транспорт сопоставляет их со статусами через errors.Is.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrTooManyRequests = errors.New("too many requests")
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrEmailExists        = fmt.Errorf("%w: email already exists", ErrConflict)
	ErrProductInUse       = fmt.Errorf("%w: product is referenced by orders", ErrConflict)
	ErrComponentInUse     = fmt.Errorf("%w: component is referenced by custom cakes", ErrConflict)

	ErrOrderNotFound        = fmt.Errorf("order %w", ErrNotFound)
	ErrProductNotFound      = fmt.Errorf("product %w", ErrNotFound)
	ErrComponentNotFound    = fmt.Errorf("component %w", ErrNotFound)
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrReviewNotFound       = fmt.Errorf("review %w", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", ErrNotFound)
	ErrCartItemNotFound     = fmt.Errorf("cart item %w", ErrNotFound)

	ErrRoleNotSeeded = errors.New("role is not seeded, run migrations")
)

// ValidationError несёт человекочитаемое сообщение, которое уходит клиенту как есть.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return ErrValidation.Error() + ": " + e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func validationError(msg string) error {
	return &ValidationError{Message: msg}
}
