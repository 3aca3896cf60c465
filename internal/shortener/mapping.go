package shortener

import "time"

// Code represents a short URL code.
type Code string

// URLHash represents a hash of a normalized URL.
type URLHash string

// Mapping represents a short code to original URL mapping.
// Mappings are immutable once inserted; only expiry classification
// changes over time.
type Mapping struct {
	Code        Code
	OriginalURL string
	URLHash     URLHash
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the mapping is past its expiration at the
// given instant.
func (m *Mapping) Expired(now time.Time) bool {
	return now.After(m.ExpiresAt)
}

// RemainingLife returns how long the mapping stays valid from the
// given instant. Zero or negative means expired.
func (m *Mapping) RemainingLife(now time.Time) time.Duration {
	return m.ExpiresAt.Sub(now)
}
