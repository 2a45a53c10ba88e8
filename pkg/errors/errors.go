package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Custom error types for better error handling
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountLocked      = errors.New("account locked due to too many failed logins")
	ErrCSRFMismatch       = errors.New("invalid CSRF token")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrUnauthorized       = errors.New("unauthorized access")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrWeakPassword = errors.New("password does not meet requirements")

	// Resource errors. Ownership mismatch and a missing record collapse
	// into the same outcome so non-owners cannot probe for existence.
	ErrProjectNotFound = errors.New("project not found")

	// Session errors
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionNotFound = errors.New("session not found")

	// Database errors
	ErrDatabaseConnection = errors.New("database connection failed")
	ErrTransactionFailed  = errors.New("transaction failed")
	ErrStorage            = errors.New("storage failure")

	// Rate limiting errors
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// Backup errors
	ErrBackupFailed = errors.New("backup operation failed")
)

// AppError wraps errors with additional context
type AppError struct {
	Err     error
	Message string
	Code    int
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error
func NewAppError(err error, message string, code int) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Code:    code,
	}
}

// ValidationErrors carries every violated rule in the order the rules
// were checked, so forms can list all problems at once instead of only
// the first.
type ValidationErrors struct {
	Messages []string
}

func (e *ValidationErrors) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Add appends a violation message.
func (e *ValidationErrors) Add(msg string) {
	e.Messages = append(e.Messages, msg)
}

// HasErrors reports whether any rule was violated.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Messages) > 0
}

// AsValidation unwraps err as *ValidationErrors if possible.
func AsValidation(err error) (*ValidationErrors, bool) {
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
