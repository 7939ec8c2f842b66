package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Page is the backend's paged result: content plus totals, page numbers 0-based.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// Last reports whether no page follows this one.
func (p Page[T]) Last() bool {
	return p.Number+1 >= p.TotalPages
}

// envelope is the {success,message,data} wrapper some endpoints use.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decodeBody unmarshals body into out, unwrapping the envelope when present.
// Endpoints are inconsistent about wrapping so both shapes are accepted everywhere.
func decodeBody(body []byte, out any, method, path string) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}

	payload, err := Unwrap(body)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			apiErr.Method, apiErr.Path = method, path
		}
		return err
	}
	if out == nil || len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return nil
	}
	if err = json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrDecode, method, path, err)
	}
	return nil
}

// Unwrap returns the "data" member of an enveloped body, or body itself when it
// is not an envelope. An envelope with success=false becomes an *Error.
func Unwrap(body []byte) (json.RawMessage, error) {
	if len(body) == 0 || body[0] != '{' {
		return body, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	_, hasData := probe["data"]
	_, hasSuccess := probe["success"]
	if !hasData && !hasSuccess {
		return body, nil
	}
	// a plain record that happens to have a "data" field has neither success nor message
	if _, hasMessage := probe["message"]; hasData && !hasSuccess && !hasMessage {
		return body, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return nil, &Error{StatusCode: 200, Message: msg}
	}
	return env.Data, nil
}
