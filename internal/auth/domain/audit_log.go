package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records vault operations for compliance and security monitoring.
// Captures the acting client, the action, and the namespace/key it touched.
// Entries are append-only; nothing in the system updates or deletes them.
type AuditLog struct {
	ID            uuid.UUID
	ClientID      string
	Action        Action
	Namespace     string
	Key           string
	Detail        string
	SourceAddress string
	CreatedAt     time.Time
}

// AuditLogFilter narrows an audit log query. Zero values mean "no filter";
// Limit is applied after filtering, newest entries first.
type AuditLogFilter struct {
	ClientID  string
	Namespace string
	Limit     int
}
