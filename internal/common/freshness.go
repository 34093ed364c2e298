// Package common provides shared utilities for Whaletrack
package common

import "time"

// Freshness TTLs for data components
const (
	FreshnessPrice   = 1 * time.Hour       // live quote data
	FreshnessFiling  = 24 * time.Hour      // 13F holdings move quarterly; daily check is plenty
	FreshnessSaleAge = 30 * 24 * time.Hour // window for the "recent sales" report view
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}

// IsFreshAt is IsFresh against an explicit reference time, for callers
// that carry their own clock.
func IsFreshAt(updated, now time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return now.Sub(updated) < ttl
}
