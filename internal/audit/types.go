package audit

import "time"

type LogLevel string

const (
	LevelInfo     LogLevel = "INFO"
	LevelWarning  LogLevel = "WARNING"
	LevelError    LogLevel = "ERROR"
	LevelCritical LogLevel = "CRITICAL"
)

// Domain actions recorded by the services. Storage failures are always
// logged here with full detail before the user sees a generic message.
const (
	ActionRegisterSuccess   = "REGISTER_SUCCESS"
	ActionRegisterInvalid   = "REGISTER_INVALID"
	ActionRegisterDuplicate = "REGISTER_DUPLICATE"
	ActionRegisterRateLimit = "REGISTER_RATE_LIMITED"
	ActionLoginSuccess      = "LOGIN_SUCCESS"
	ActionLoginFailed       = "LOGIN_FAILED"
	ActionLoginLocked       = "LOGIN_LOCKED"
	ActionLoginRateLimit    = "LOGIN_RATE_LIMITED"
	ActionPasswordChanged   = "PASSWORD_CHANGED"
	ActionPasswordRehashed  = "PASSWORD_REHASHED"
	ActionCSRFMismatch      = "CSRF_MISMATCH"
	ActionProjectCreated    = "PROJECT_CREATED"
	ActionProjectUpdated    = "PROJECT_UPDATED"
	ActionProjectDeleted    = "PROJECT_DELETED"
	ActionStorageError      = "STORAGE_ERROR"
)

type Event struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     LogLevel  `json:"level"`
	UserID    *int      `json:"user_id,omitempty"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	IPAddress string    `json:"ip_address,omitempty"`
	Success   bool      `json:"success"`
	ErrorMsg  string    `json:"error_msg,omitempty"`
	Metadata  string    `json:"metadata,omitempty"`
}

type QueryFilters struct {
	StartTime *time.Time
	EndTime   *time.Time
	UserID    *int
	Action    string
	Level     LogLevel
	Limit     int
}
