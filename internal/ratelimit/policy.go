package ratelimit

import "time"

// Scope categorizes a request for rate limiting purposes. The shorten
// and resolve paths have different abuse profiles, so each scope keeps
// independent counters per client.
type Scope string

const (
	// ScopeShorten applies to short URL creation requests.
	ScopeShorten Scope = "shorten"
	// ScopeResolve applies to short URL resolution requests.
	ScopeResolve Scope = "resolve"
)

// LimitConfig defines a single rate limit window.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// Policy maps scopes to their limit configuration. Scopes without an
// entry are not limited.
type Policy struct {
	Limits map[Scope]LimitConfig
}

// NewPolicy creates a policy with the same limit for both scopes.
func NewPolicy(maxRequests int64, window time.Duration) *Policy {
	return &Policy{
		Limits: map[Scope]LimitConfig{
			ScopeShorten: {Window: window, Max: maxRequests},
			ScopeResolve: {Window: window, Max: maxRequests},
		},
	}
}

// DefaultPolicy allows 10 requests per 60 seconds on each scope.
func DefaultPolicy() *Policy {
	return NewPolicy(10, time.Minute)
}
