package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Response is the normalized result of any backend call: the HTTP status and
// the parsed body, whatever the status was. HTTP-level failures never
// surface as errors; only true network faults do.
type Response struct {
	Status int
	Data   any

	body []byte
}

func newResponse(status int, body []byte) *Response {
	r := &Response{Status: status, body: body}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		// An empty body parses to no data, same as a JSON null
		return r
	}
	if err := json.Unmarshal(trimmed, &r.Data); err != nil {
		r.Data = map[string]any{"error": "Invalid JSON response", "raw": string(body)}
	}
	return r
}

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// IsArray reports whether the body parsed to a JSON array.
func (r *Response) IsArray() bool {
	_, ok := r.Data.([]any)
	return ok
}

// DecodeInto unmarshals the raw response body into v.
func (r *Response) DecodeInto(v any) error {
	trimmed := bytes.TrimSpace(r.body)
	if len(trimmed) == 0 {
		return errors.New("empty response body")
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// BackendError returns the backend-reported error message, preferring the
// detail field over error. It returns "" when the body carries neither.
func (r *Response) BackendError() string {
	obj, ok := r.Data.(map[string]any)
	if !ok {
		return ""
	}
	if detail, ok := obj["detail"].(string); ok && detail != "" {
		return detail
	}
	if msg, ok := obj["error"].(string); ok && msg != "" {
		return msg
	}
	return ""
}

// ErrorMessage returns the most specific message available for a failed
// response: the backend's detail or error field, else "Status <code>".
func (r *Response) ErrorMessage() string {
	if msg := r.BackendError(); msg != "" {
		return msg
	}
	return fmt.Sprintf("Status %d", r.Status)
}
