package audit

import (
	"fmt"
	"log"
	"time"
)

type Monitor struct {
	logger *Logger
}

// NewMonitor creates a new security monitor
func NewMonitor(logger *Logger) *Monitor {
	return &Monitor{
		logger: logger,
	}
}

// DetectFailedLogins flags users with repeated failed login attempts in
// the last five minutes. This complements the per-user lockout: the
// lockout stops the attempts, the monitor makes them visible.
func (m *Monitor) DetectFailedLogins() error {
	now := time.Now()
	fiveMinutesAgo := now.Add(-5 * time.Minute)

	filters := QueryFilters{
		StartTime: &fiveMinutesAgo,
		EndTime:   &now,
		Action:    ActionLoginFailed,
		Limit:     1000,
	}

	events, err := m.logger.QueryLogs(filters)
	if err != nil {
		return fmt.Errorf("failed to query audit logs: %w", err)
	}

	// Count failed attempts per user
	failedAttempts := make(map[int]int)

	for _, event := range events {
		if event.UserID == nil {
			continue
		}
		failedAttempts[*event.UserID]++
		if failedAttempts[*event.UserID] == 5 {
			log.Printf("SECURITY ALERT: user %d has %d failed login attempts in last 5 minutes",
				*event.UserID, failedAttempts[*event.UserID])

			m.logger.Log(&Event{
				Level:    LevelCritical,
				UserID:   event.UserID,
				Action:   "FAILED_LOGIN_THRESHOLD",
				Resource: "auth",
				Success:  false,
				ErrorMsg: fmt.Sprintf("%d failed attempts detected", failedAttempts[*event.UserID]),
			})
		}
	}

	return nil
}

// DetectSuspiciousActivity runs all security checks
func (m *Monitor) DetectSuspiciousActivity() error {
	if err := m.DetectFailedLogins(); err != nil {
		log.Printf("Failed to detect failed logins: %v", err)
	}

	return nil
}
