package models

import (
	"encoding/json"
	"testing"
)

// Test CreateUserForm validation
func TestCreateUserFormValidation(t *testing.T) {
	// Test valid form
	validForm := CreateUserForm{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "hunter2",
		Role:     RoleUser,
	}
	errors := validForm.Validate()
	if len(errors) != 0 {
		t.Errorf("Expected no errors for valid form, got: %v", errors)
	}

	// Test invalid form
	invalidForm := CreateUserForm{
		Username: "", // Empty username
		Email:    "invalid-email",
		Password: "",
		Role:     Role("superuser"),
	}
	errors = invalidForm.Validate()
	if len(errors) != 4 {
		t.Errorf("Expected 4 errors for invalid form, got: %v", errors)
	}
}

// Test role validity
func TestRoleValid(t *testing.T) {
	if !RoleUser.Valid() || !RoleAdmin.Valid() {
		t.Error("Expected user and admin to be valid roles")
	}
	if Role("root").Valid() {
		t.Error("Expected unknown role to be invalid")
	}
	if Role("").Valid() {
		t.Error("Expected empty role to be invalid")
	}
}

// Test AuditEvent unmarshalling uses the backend's field names
func TestAuditEventFieldNames(t *testing.T) {
	payload := `{
		"id": 7,
		"username": "adminuser",
		"role": "admin",
		"endpoint": "/admin/logs",
		"event_type": "api_call",
		"risk_score": 35,
		"decision": "log",
		"suspicious": true,
		"ip": "10.0.0.9",
		"timestamp": "2025-11-02T10:30:00Z"
	}`

	var event AuditEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		t.Fatalf("Failed to unmarshal audit event: %v", err)
	}

	if event.ID != 7 {
		t.Errorf("Expected ID 7, got %d", event.ID)
	}
	if event.EventType != "api_call" {
		t.Errorf("Expected event_type api_call, got %s", event.EventType)
	}
	if event.RiskScore != 35 {
		t.Errorf("Expected risk_score 35, got %d", event.RiskScore)
	}
	if event.Decision != DecisionLog {
		t.Errorf("Expected decision log, got %s", event.Decision)
	}
	if !event.Suspicious {
		t.Error("Expected suspicious to be true")
	}
}

// Test snapshot success flag
func TestPollSnapshotOK(t *testing.T) {
	if !(PollSnapshot{}).OK() {
		t.Error("Expected snapshot without error to be OK")
	}
	if (PollSnapshot{Error: "Status 500"}).OK() {
		t.Error("Expected snapshot with error not to be OK")
	}
}
