package models

import "time"

// KVEntry is a system-level key-value pair stored in the internal database.
// Used for cycle bookkeeping such as the last processed transition and the
// latest report pointer. Version increments on every write.
type KVEntry struct {
	Key       string    `json:"key" badgerhold:"key"`
	Value     string    `json:"value"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}
