package expiration

import (
	"math/rand/v2"
	"time"
)

// ExpirationPolicy is the interface for the expiration time checker.
// Implementations determine when cached responses should be considered expired.
type ExpirationPolicy interface {
	// IsExpired returns true if the response is expired.
	// The now parameter represents the current time, and expiresAt is the
	// stored expiration time of the response.
	IsExpired(now, expiresAt time.Time) bool
}

// GeneralExpirationPolicy expires a response at its stored expiration time:
// a response is expired once the current time reaches expiresAt.
type GeneralExpirationPolicy struct{}

var _ ExpirationPolicy = GeneralExpirationPolicy{}

// IsExpired returns true if the current time is at or after the expiration time.
func (GeneralExpirationPolicy) IsExpired(now, expiresAt time.Time) bool {
	return !expiresAt.After(now)
}

// NeverExpirationPolicy never expires a response.
// This is useful for responses that are only removed by explicit invalidation.
type NeverExpirationPolicy struct{}

var _ ExpirationPolicy = NeverExpirationPolicy{}

// IsExpired always returns false, ignoring the stored expiration time.
func (NeverExpirationPolicy) IsExpired(now, expiresAt time.Time) bool {
	return false
}

// EarlyExpirationPolicy can expire a response before its stored expiration
// time. Expiring early with some probability makes different clients
// regenerate a popular response at different times instead of all at once
// when it expires.
type EarlyExpirationPolicy struct {
	// Duration is how much earlier the response can expire.
	Duration time.Duration

	// Percentage is the chance (between 0 and 1) that the response expires
	// early. 0 means never expire early, 1 means always.
	Percentage float64

	// Random is the random number generator used to decide early expiration.
	// If not set, the default system random generator is used. Setting it
	// allows deterministic behavior in tests.
	Random *rand.Rand
}

var _ ExpirationPolicy = (*EarlyExpirationPolicy)(nil)

// IsExpired checks if the response is expired.
// With probability Percentage the expiration time is moved Duration earlier;
// otherwise the check behaves like GeneralExpirationPolicy.
func (p *EarlyExpirationPolicy) IsExpired(now, expiresAt time.Time) bool {
	if p.randFloat64() > p.Percentage {
		return now.After(expiresAt)
	}
	return now.Add(p.Duration).After(expiresAt)
}

func (p *EarlyExpirationPolicy) randFloat64() float64 {
	if p.Random == nil {
		return rand.Float64()
	}
	return p.Random.Float64()
}
