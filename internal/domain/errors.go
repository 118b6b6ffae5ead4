package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound       = errors.New("record not found")
	ErrPasswordMissMatch    = errors.New("password mismatch")
	ErrDuplicateKey         = errors.New("duplicate key")
	ErrForeignKeyViolation  = errors.New("foreign key violation")
	ErrUnknown              = errors.New("unknown error")
	ErrAccountInactive      = errors.New("account inactive")
	ErrTooManyLoginAttempts = errors.New("too many login attempts")
	ErrForbidden            = errors.New("forbidden")

	ErrNotEnoughBalance      = errors.New("not enough balance")
	ErrOutOfStock            = errors.New("product out of stock")
	ErrProductUnavailable    = errors.New("product unavailable")
	ErrUndeliveredItems      = errors.New("order has undelivered items")
	ErrAlreadyDelivered      = errors.New("order item already delivered")
	ErrCommissionAlreadyPaid = errors.New("commission already paid")
	ErrSelfModification      = errors.New("admins cannot modify their own account")
)

// InvalidStatusError возвращается, когда сущность не находится в статусе, допускающем операцию.
type InvalidStatusError struct {
	Entity string
	Status string
	Want   string
}

func NewInvalidStatusError(entity, status, want string) error {
	return &InvalidStatusError{Entity: entity, Status: status, Want: want}
}

func (e *InvalidStatusError) Error() string {
	if e.Want == "" {
		return fmt.Sprintf("%s in status %s cannot be changed", e.Entity, e.Status)
	}
	return fmt.Sprintf("%s is %s, expected %s", e.Entity, e.Status, e.Want)
}

// ValidationError ошибка бизнес-валидации входных данных.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
