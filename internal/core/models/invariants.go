package models

import "github.com/pkg/errors"

// CheckInvariants returns one error per violated rule, each wrapping
// ErrInvariantViolated. A consistent car yields nil.
func (c Car) CheckInvariants() []error {
	var violations []error
	fail := func(format string, args ...any) {
		violations = append(violations, errors.Wrapf(ErrInvariantViolated, format, args...))
	}

	if c.HasDoubleJumped && !c.HasJumped {
		fail("has_double_jumped without has_jumped")
	}
	if c.HasFlipped && !c.HasJumped {
		fail("has_flipped without has_jumped")
	}
	if c.HasDoubleJumped && c.HasFlipped {
		fail("has_double_jumped and has_flipped both set")
	}
	if c.IsJumping && !c.HasJumped {
		fail("is_jumping without has_jumped")
	}
	if c.IsSupersonic {
		if speed := c.Speed(); speed <= SupersonicMaintainSpeed {
			fail("is_supersonic at speed %.2f", speed)
		}
	}
	if c.IsDemoed && c.DemoRespawnTimer < 0 {
		fail("demoed with respawn timer %.3f", c.DemoRespawnTimer)
	}
	if !c.IsDemoed && c.DemoRespawnTimer != 0 {
		fail("alive with respawn timer %.3f", c.DemoRespawnTimer)
	}
	if c.Boost < 0 || c.Boost > BoostMax {
		fail("boost %.3f out of range", c.Boost)
	}
	return violations
}
