// Package latency simulates network round trips around local operations.
package latency

import (
	"context"
	"time"
)

// Base delays taken by each kind of call
const (
	Default = 500 * time.Millisecond
	Short   = 100 * time.Millisecond
	Get     = 200 * time.Millisecond
	List    = 300 * time.Millisecond

	// Assistant "thinking" time
	Suggest = 1000 * time.Millisecond
	Think   = 1500 * time.Millisecond
	Analyze = 2000 * time.Millisecond
)

// Simulator sleeps for scaled durations. The zero value never sleeps.
type Simulator struct {
	enabled bool
	scale   float64
}

// New creates a simulator. scale multiplies every delay.
func New(enabled bool, scale float64) *Simulator {
	return &Simulator{enabled: enabled, scale: scale}
}

// Disabled returns a simulator that never sleeps
func Disabled() *Simulator {
	return &Simulator{}
}

// Duration returns the effective delay for base
func (s *Simulator) Duration(base time.Duration) time.Duration {
	if s == nil || !s.enabled || s.scale <= 0 {
		return 0
	}
	return time.Duration(float64(base) * s.scale)
}

// Wait blocks for the scaled delay or until ctx is done
func (s *Simulator) Wait(ctx context.Context, base time.Duration) error {
	d := s.Duration(base)
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
