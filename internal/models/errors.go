package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across storage implementations.
var (
	// ErrNotFound signals an absent record where absence is a normal outcome.
	ErrNotFound = errors.New("not found")

	// ErrCorruptStore signals a durable store that exists but fails to
	// deserialize. Never treated as "start empty": silently dropping a
	// previous snapshot would reclassify every current position as NEW and
	// fabricate sale records.
	ErrCorruptStore = errors.New("corrupt store")
)

// APIError represents a non-2xx response from an external API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}
