package expiration_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/karupanerura/response-cache/expiration"
)

func TestGeneralExpirationPolicy(t *testing.T) {
	t.Parallel()

	policy := expiration.GeneralExpirationPolicy{}
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "fresh while expiry is in the future",
			expiresAt: now.Add(1),
			want:      false,
		},
		{
			name:      "expired exactly at the expiration time",
			expiresAt: now,
			want:      true,
		},
		{
			name:      "expired when expiry is in the past",
			expiresAt: now.Add(-1),
			want:      true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := policy.IsExpired(now, tt.expiresAt); got != tt.want {
				t.Errorf("GeneralExpirationPolicy.IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNeverExpirationPolicy(t *testing.T) {
	t.Parallel()

	policy := expiration.NeverExpirationPolicy{}
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for _, expiresAt := range []time.Time{
		now.Add(time.Hour),
		now,
		now.Add(-time.Hour),
		now.Add(-1000 * time.Hour),
	} {
		if policy.IsExpired(now, expiresAt) {
			t.Errorf("NeverExpirationPolicy.IsExpired(%v, %v) = true, want false", now, expiresAt)
		}
	}
}

func TestEarlyExpirationPolicy(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	earlyDuration := 10 * time.Minute

	t.Run("default random generator", func(t *testing.T) {
		t.Parallel()

		policy := &expiration.EarlyExpirationPolicy{
			Duration:   earlyDuration,
			Percentage: 0.5,
		}

		// Randomized either way, so just ensure the call works.
		policy.IsExpired(now, now.Add(5*time.Minute))
	})

	t.Run("percentage zero behaves like the general policy", func(t *testing.T) {
		t.Parallel()

		policy := &expiration.EarlyExpirationPolicy{
			Duration:   earlyDuration,
			Percentage: 0,
			Random:     rand.New(rand.NewPCG(1, 2)),
		}

		if policy.IsExpired(now, now.Add(5*time.Minute)) {
			t.Error("should not be expired while expiry is in the future")
		}
		if !policy.IsExpired(now, now.Add(-time.Second)) {
			t.Error("should be expired when expiry is in the past")
		}
	})

	t.Run("percentage one always expires early", func(t *testing.T) {
		t.Parallel()

		policy := &expiration.EarlyExpirationPolicy{
			Duration:   earlyDuration,
			Percentage: 1,
			Random:     rand.New(rand.NewPCG(1, 2)),
		}

		if !policy.IsExpired(now, now.Add(5*time.Minute)) {
			t.Error("should be expired early when expiry is within the early window")
		}
		if policy.IsExpired(now, now.Add(earlyDuration+time.Second)) {
			t.Error("should not be expired when expiry is beyond the early window")
		}
	})

	t.Run("deterministic generator decides early expiration", func(t *testing.T) {
		t.Parallel()

		random := rand.New(rand.NewPCG(42, 7))
		policy := &expiration.EarlyExpirationPolicy{
			Duration:   earlyDuration,
			Percentage: 0.5,
			Random:     random,
		}

		// With a seeded generator the sequence of decisions is reproducible.
		expiresAt := now.Add(5 * time.Minute)
		var early int
		for i := 0; i < 100; i++ {
			if policy.IsExpired(now, expiresAt) {
				early++
			}
		}
		if early == 0 || early == 100 {
			t.Errorf("a 0.5 percentage should sometimes expire early, got %d/100", early)
		}
	})
}
