package models

// PollSnapshot is an atomically published, internally consistent view of the
// latest audit-log poll. Events hold the windowed newest-first working set,
// Alerts the suspicious subset of those events, and MaxRiskScore the maximum
// risk across the full set the backend returned. A failed poll carries the
// extracted error message and empty event sets.
type PollSnapshot struct {
	Events       []AuditEvent
	MaxRiskScore int
	Alerts       []AuditEvent
	Error        string
}

// OK reports whether the snapshot came from a successful poll.
func (s PollSnapshot) OK() bool {
	return s.Error == ""
}
