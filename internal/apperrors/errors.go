// Package apperrors defines the error taxonomy shared by the data-access layer and the HTTP
// handlers. Ownership mismatches are deliberately not part of it: they surface as nil lookups or
// zero affected rows, exactly like a missing row.
package apperrors

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is the server error number for a violated unique or primary key.
const mysqlDuplicateEntry = 1062

var (
	// ErrAuthentication is returned by mutations that run without a signed-in user.
	ErrAuthentication = &AuthenticationError{Message: "authentication required"}

	// ErrForbidden is returned when a signed-in user lacks the admin flag.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned by single-row store lookups that match nothing.
	ErrNotFound = errors.New("not found")
)

// AuthenticationError reports a missing or invalid session where one is required.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// ValidationError reports the first schema rule an input violated.
type ValidationError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a specific field.
func NewValidationError(field, rule, message string) *ValidationError {
	return &ValidationError{Field: field, Rule: rule, Message: message}
}

// StoreError wraps a failure reported by the database. The original message is kept so it can be
// logged; Duplicate is set when a unique constraint rejected the statement.
type StoreError struct {
	Op        string
	Duplicate bool
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("db error: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err for operation op. It returns nil for a nil error and passes sentinel
// errors of this package through unchanged.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	var mysqlErr *mysql.MySQLError
	duplicate := errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
	return &StoreError{Op: op, Duplicate: duplicate, Err: err}
}

// IsDuplicate reports whether err was caused by a duplicate key.
func IsDuplicate(err error) bool {
	var storeErr *StoreError
	return errors.As(err, &storeErr) && storeErr.Duplicate
}

// ConfigurationError reports a missing deployment setting. It is fatal at startup.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Key)
}
