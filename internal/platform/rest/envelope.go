package rest

import "encoding/json"

// Envelope is the uniform JSON response shape of the backend API.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Err converts a non-success envelope into the matching typed error.
// It returns nil when the envelope reports success.
func (e *Envelope) Err(status int) error {
	if e.Success {
		return nil
	}
	if len(e.Errors) > 0 {
		return &ValidationError{Message: e.Message, Fields: e.Errors}
	}
	return &APIError{Status: status, Message: e.Message}
}

// Decode unmarshals the envelope payload into dest. A missing payload
// leaves dest untouched.
func (e *Envelope) Decode(dest any) error {
	if dest == nil || len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, dest)
}
