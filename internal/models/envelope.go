package models

import "encoding/json"

// Envelope is the common backend response wrapper.
type Envelope struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	Result      json.RawMessage `json:"result"`
	AccessToken string          `json:"access_token,omitempty"`
}

// HasResult reports whether result carries a non-null payload.
func (e *Envelope) HasResult() bool {
	return len(e.Result) > 0 && string(e.Result) != "null"
}
