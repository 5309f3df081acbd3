package models

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited
type AuditAction string

const (
	AuditActionMovieCreated AuditAction = "movie_created"
	AuditActionMovieUpdated AuditAction = "movie_updated"
	AuditActionMovieDeleted AuditAction = "movie_deleted"
	AuditActionActorCreated AuditAction = "actor_created"
	AuditActionActorUpdated AuditAction = "actor_updated"
	AuditActionActorDeleted AuditAction = "actor_deleted"
)

// AuditLog represents an audit trail entry for a catalogue change
type AuditLog struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Subject      string          `json:"subject" db:"subject"` // sub claim of the caller's token
	Action       AuditAction     `json:"action" db:"action"`
	ResourceType string          `json:"resource_type" db:"resource_type"` // movie or actor
	ResourceID   string          `json:"resource_id" db:"resource_id"`
	Details      json.RawMessage `json:"details" db:"details"` // JSONB
	RequestID    string          `json:"request_id" db:"request_id"`
	Timestamp    time.Time       `json:"timestamp" db:"timestamp"`
}

// NewAuditLog creates a new AuditLog instance
func NewAuditLog(subject string, action AuditAction, resourceType string, resourceID int64) *AuditLog {
	return &AuditLog{
		ID:           uuid.New(),
		Subject:      subject,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   strconv.FormatInt(resourceID, 10),
		Timestamp:    time.Now().UTC(),
	}
}

// WithDetails sets the details
func (a *AuditLog) WithDetails(details interface{}) *AuditLog {
	if data, err := json.Marshal(details); err == nil {
		a.Details = data
	}
	return a
}

// WithRequest sets the request ID used for log correlation
func (a *AuditLog) WithRequest(requestID string) *AuditLog {
	a.RequestID = requestID
	return a
}
