package model

import (
	"bytes"
	"encoding/json"
)

// CreateTaskRequest represents the request body for creating a task.
// Minutes may be sent as a JSON number or as a string, the way a form
// field would carry it.
type CreateTaskRequest struct {
	Title   string          `json:"title"`
	Minutes json.RawMessage `json:"minutes"`
}

// MinutesText returns the raw minutes value as text for validation.
func (r *CreateTaskRequest) MinutesText() string {
	raw := bytes.TrimSpace(r.Minutes)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	return string(raw)
}

// Validate checks the request with the same rules as the task form.
func (r *CreateTaskRequest) Validate() (Draft, FieldErrors) {
	return Validate(r.Title, r.MinutesText())
}
