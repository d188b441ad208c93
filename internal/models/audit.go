package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditKind classifies a security/audit event
type AuditKind string

const (
	AuditKindAuthentication AuditKind = "authentication"
	AuditKindAccessDenied   AuditKind = "access_denied"
	AuditKindQuotaExceeded  AuditKind = "quota_exceeded"
)

// AuditSeverity grades an audit event
type AuditSeverity string

const (
	AuditSeverityLow    AuditSeverity = "low"
	AuditSeverityMedium AuditSeverity = "medium"
	AuditSeverityHigh   AuditSeverity = "high"
)

// AuditEvent is a security event published fire-and-forget to the audit
// queue. The worker persists events; the request pipeline never waits on or
// fails because of them.
type AuditEvent struct {
	ID        uuid.UUID      `json:"id"`
	Kind      AuditKind      `json:"kind"`
	Severity  AuditSeverity  `json:"severity"`
	UserID    *uuid.UUID     `json:"user_id,omitempty"`
	ClientIP  string         `json:"client_ip,omitempty"`
	Detail    string         `json:"detail"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewAuditEvent creates an audit event stamped with a fresh id and time.
func NewAuditEvent(kind AuditKind, severity AuditSeverity, detail string) *AuditEvent {
	return &AuditEvent{
		ID:        uuid.New(),
		Kind:      kind,
		Severity:  severity,
		Detail:    detail,
		Metadata:  make(map[string]any),
		CreatedAt: time.Now().UTC(),
	}
}
