package models

import "time"

// Decision is the backend's verdict for a single audited request.
type Decision string

const (
	DecisionAllow Decision = "allow"
	DecisionDeny  Decision = "deny"
	DecisionLog   Decision = "log"
)

// AuditEvent represents a single request-audit record reported by the
// backend. Events are immutable once received; identity is ID.
type AuditEvent struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	Endpoint   string    `json:"endpoint"`
	EventType  string    `json:"event_type"`
	RiskScore  int       `json:"risk_score"`
	Decision   Decision  `json:"decision"`
	Suspicious bool      `json:"suspicious"`
	IP         string    `json:"ip"`
	Timestamp  time.Time `json:"timestamp"`
}
