package stubserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/accessguard/console/models"
)

// endpointSensitivity mirrors the production risk engine's sensitivity map.
var endpointSensitivity = map[string]int{
	"/admin/logs":         30,
	"/admin/users/create": 30,
	"/user/settings":      10,
}

// riskScore computes a 0-100 risk score for a request: base 5, +40 for a
// role mismatch on admin paths, endpoint sensitivity, and request-frequency
// thresholds.
func riskScore(role models.Role, endpoint string, requestCount int) int {
	score := 5 // base risk

	if strings.HasPrefix(endpoint, "/admin") && role != models.RoleAdmin {
		score += 40
	}

	score += endpointSensitivity[endpoint]

	// Behavior risk based on frequency
	switch {
	case requestCount > 20:
		score += 30
	case requestCount > 10:
		score += 20
	case requestCount > 5:
		score += 10
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// decisionFor maps a risk score to the backend's verdict.
func decisionFor(score int) models.Decision {
	switch {
	case score <= 30:
		return models.DecisionAllow
	case score <= 60:
		return models.DecisionLog
	default:
		return models.DecisionDeny
	}
}

// recordRequest risk-scores the request and prepends an audit event. The
// emulator records deny decisions without enforcing them, so a chatty
// console stays usable while still producing alert-worthy events.
func (s *Server) recordRequest(r *http.Request, claims *models.UserClaims, eventType string) {
	username := "anonymous"
	role := models.Role("anonymous")
	if claims != nil {
		username = claims.Username
		role = claims.Role
	}

	endpoint := r.URL.Path

	s.mu.Lock()
	defer s.mu.Unlock()

	countKey := username + "|" + endpoint
	s.requestCounts[countKey]++
	count := s.requestCounts[countKey]

	score := riskScore(role, endpoint, count)
	suspicious := r.Header.Get("X-Suspicious") == "1" || score > 60

	s.nextEventID++
	event := models.AuditEvent{
		ID:         s.nextEventID,
		Username:   username,
		Role:       string(role),
		Endpoint:   endpoint,
		EventType:  eventType,
		RiskScore:  score,
		Decision:   decisionFor(score),
		Suspicious: suspicious,
		IP:         getIPAddress(r),
		Timestamp:  time.Now().UTC(),
	}

	// Newest first, capped
	s.events = append([]models.AuditEvent{event}, s.events...)
	if len(s.events) > maxEvents {
		s.events = s.events[:maxEvents]
	}
}

// getIPAddress extracts IP address from request, checking X-Forwarded-For first
func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header (proxy/load balancer)
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		// Take first IP if multiple
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}

	// Check X-Real-IP header
	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	// Fall back to RemoteAddr
	ip := r.RemoteAddr
	// Remove port if present
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
