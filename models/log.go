package models

import (
	"encoding/json"
	"time"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

func (l LogLevel) Valid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	}
	return false
}

// LogEntry is an append-only application log row.
type LogEntry struct {
	ID            int64           `json:"id" db:"id"`
	Level         LogLevel        `json:"level" db:"level"`
	Message       string          `json:"message" db:"message"`
	CorrelationID string          `json:"correlationId" db:"correlation_id"`
	Context       string          `json:"context" db:"context"`
	UserID        *int            `json:"userId,omitempty" db:"user_id"`
	Meta          json.RawMessage `json:"meta,omitempty" db:"meta"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
}

type LogFilter struct {
	UserID *int
	Level  *LogLevel
	Limit  int
	Offset int
}
