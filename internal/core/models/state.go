package models

import (
	"github.com/pkg/errors"

	"github.com/zeusync/carball/internal/core/systems/physics"
)

// The flat flags on Car are the serialized form. The types below are the
// explicit per-concern states derived from them, and the methods after them
// are the only legal ways to move between states.

type GroundState uint8

const (
	Grounded GroundState = iota
	Airborne
)

func (s GroundState) String() string {
	if s == Grounded {
		return "grounded"
	}
	return "airborne"
}

type AbilityPhase uint8

const (
	// PhaseReady has no jump used in the current airborne episode.
	PhaseReady AbilityPhase = iota
	PhaseJumping
	// PhaseJumped is airborne after the first jump, second jump still open.
	PhaseJumped
	PhaseDoubleJumped
	PhaseFlipped
)

func (p AbilityPhase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseJumping:
		return "jumping"
	case PhaseJumped:
		return "jumped"
	case PhaseDoubleJumped:
		return "double_jumped"
	case PhaseFlipped:
		return "flipped"
	default:
		return "unknown"
	}
}

type DemoState uint8

const (
	Alive DemoState = iota
	Demoed
)

type SpeedState uint8

const (
	Subsonic SpeedState = iota
	Supersonic
)

func (c Car) GroundState() GroundState {
	if c.IsOnGround {
		return Grounded
	}
	return Airborne
}

func (c Car) Phase() AbilityPhase {
	switch {
	case c.HasFlipped:
		return PhaseFlipped
	case c.HasDoubleJumped:
		return PhaseDoubleJumped
	case c.IsJumping:
		return PhaseJumping
	case c.HasJumped:
		return PhaseJumped
	default:
		return PhaseReady
	}
}

func (c Car) DemoState() DemoState {
	if c.IsDemoed {
		return Demoed
	}
	return Alive
}

func (c Car) SpeedState() SpeedState {
	if c.IsSupersonic {
		return Supersonic
	}
	return Subsonic
}

func illegal(op string, c *Car) error {
	return errors.Wrapf(ErrIllegalTransition, "%s while %s/%s demoed=%t", op, c.GroundState(), c.Phase(), c.IsDemoed)
}

// Land re-establishes ground contact and clears the airborne episode.
func (c *Car) Land() error {
	if c.IsDemoed {
		return illegal("land", c)
	}
	c.IsOnGround = true
	c.HasJumped = false
	c.HasDoubleJumped = false
	c.HasFlipped = false
	c.IsJumping = false
	c.JumpTime = 0
	c.FlipTime = 0
	c.AirTimeSinceJump = 0
	return nil
}

// LeaveGround is losing ground contact without jumping.
func (c *Car) LeaveGround() error {
	if c.IsDemoed || !c.IsOnGround {
		return illegal("leave ground", c)
	}
	c.IsOnGround = false
	return nil
}

// BeginJump starts the first jump, from the ground or from the air when no
// jump has been used yet.
func (c *Car) BeginJump() error {
	if c.IsDemoed || c.HasJumped {
		return illegal("jump", c)
	}
	c.IsOnGround = false
	c.HasJumped = true
	c.IsJumping = true
	c.JumpTime = 0
	c.AirTimeSinceJump = 0
	return nil
}

// TickJump advances a held jump. The jump ends on its own at JumpMaxTime,
// or once released after JumpMinTime.
func (c *Car) TickJump(dt float32, held bool) error {
	if !c.IsJumping {
		return illegal("tick jump", c)
	}
	c.JumpTime += dt
	if c.JumpTime >= JumpMaxTime || (!held && c.JumpTime >= JumpMinTime) {
		c.IsJumping = false
	}
	return nil
}

func (c *Car) EndJump() error {
	if !c.IsJumping {
		return illegal("end jump", c)
	}
	c.IsJumping = false
	return nil
}

// CanUseSecondJump reports whether a double jump or flip is available.
func (c Car) CanUseSecondJump() bool {
	return !c.IsDemoed && !c.IsOnGround && c.HasJumped &&
		!c.HasDoubleJumped && !c.HasFlipped &&
		c.AirTimeSinceJump < DoubleJumpMaxDelay
}

func (c *Car) DoubleJump() error {
	if !c.CanUseSecondJump() {
		return illegal("double jump", c)
	}
	c.HasDoubleJumped = true
	c.IsJumping = false
	return nil
}

// Flip spends the second jump on a dodge. torque is the dodge direction in
// the car's local frame.
func (c *Car) Flip(torque physics.Vec3) error {
	if !c.CanUseSecondJump() {
		return illegal("flip", c)
	}
	c.HasFlipped = true
	c.IsJumping = false
	c.FlipTime = 0
	c.LastRelDodgeTorque = torque
	return nil
}

// TickAirborne advances the airborne timers.
func (c *Car) TickAirborne(dt float32) error {
	if c.IsOnGround || c.IsDemoed {
		return illegal("tick airborne", c)
	}
	if c.HasJumped && !c.IsJumping {
		c.AirTimeSinceJump += dt
	}
	if c.HasFlipped {
		c.FlipTime += dt
	}
	return nil
}

// IsFlipActive reports whether the flip torque is still being applied.
func (c Car) IsFlipActive() bool {
	return c.HasFlipped && c.FlipTime < FlipTorqueTime
}

// BeginAutoFlip starts upright recovery. dir is +1 or -1, the roll
// direction that rights the car.
func (c *Car) BeginAutoFlip(dir float32) error {
	if c.IsDemoed || c.IsAutoFlipping {
		return illegal("auto flip", c)
	}
	c.IsAutoFlipping = true
	c.AutoFlipTimer = AutoFlipTime
	c.AutoFlipTorqueScale = dir
	return nil
}

func (c *Car) TickAutoFlip(dt float32) error {
	if !c.IsAutoFlipping {
		return illegal("tick auto flip", c)
	}
	c.AutoFlipTimer -= dt
	if c.AutoFlipTimer <= 0 {
		c.clearAutoFlip()
	}
	return nil
}

// CancelAutoFlip is the manual-input override.
func (c *Car) CancelAutoFlip() error {
	if !c.IsAutoFlipping {
		return illegal("cancel auto flip", c)
	}
	c.clearAutoFlip()
	return nil
}

func (c *Car) clearAutoFlip() {
	c.IsAutoFlipping = false
	c.AutoFlipTimer = 0
	c.AutoFlipTorqueScale = 0
}

// ConsumeBoost spends one tick of boost. It reports false, without error,
// when the tank is empty.
func (c *Car) ConsumeBoost(dt float32) (bool, error) {
	if c.IsDemoed {
		return false, illegal("boost", c)
	}
	if c.Boost <= 0 {
		return false, nil
	}
	c.Boost -= BoostUsedPerSecond * dt
	if c.Boost < 0 {
		c.Boost = 0
	}
	c.TimeSpentBoosting += dt
	return true, nil
}

// AddBoost refills from a pad, capped at BoostMax.
func (c *Car) AddBoost(amount float32) {
	c.Boost += amount
	if c.Boost > BoostMax {
		c.Boost = BoostMax
	}
}

// UpdateSupersonic applies the speed hysteresis for this tick.
func (c *Car) UpdateSupersonic(speed, dt float32) {
	if c.IsSupersonic {
		c.IsSupersonic = speed > SupersonicMaintainSpeed
	} else {
		c.IsSupersonic = speed >= SupersonicStartSpeed
	}
	if c.IsSupersonic {
		c.SupersonicTime += dt
	}
}

// Demolish eliminates the car until respawn seconds have passed.
func (c *Car) Demolish(respawn float32) error {
	if c.IsDemoed {
		return illegal("demolish", c)
	}
	c.IsDemoed = true
	c.DemoRespawnTimer = respawn
	c.Vel = physics.Vec3{}
	c.AngVel = physics.Vec3{}
	c.IsOnGround = false
	c.IsJumping = false
	c.IsSupersonic = false
	c.HasContact = false
	c.ContactNormal = physics.Vec3{}
	c.OtherCarID = 0
	c.clearAutoFlip()
	return nil
}

// TickDemo counts down to respawn and reports when the car may respawn.
func (c *Car) TickDemo(dt float32) (bool, error) {
	if !c.IsDemoed {
		return false, illegal("tick demo", c)
	}
	c.DemoRespawnTimer -= dt
	if c.DemoRespawnTimer < 0 {
		c.DemoRespawnTimer = 0
	}
	return c.DemoRespawnTimer == 0, nil
}

// Respawn puts a demoed car back on the ground at pos facing yaw. The
// accumulating counters restart; LastHitBallTick is kept.
func (c *Car) Respawn(pos physics.Vec3, yaw float32) error {
	if !c.IsDemoed || c.DemoRespawnTimer > 0 {
		return illegal("respawn", c)
	}
	lastHit := c.LastHitBallTick
	*c = DefaultCar()
	c.Pos = pos
	c.RotMat = physics.Angle{Yaw: yaw}.ToRotMat()
	c.LastHitBallTick = lastHit
	return nil
}

// TickCooldown counts the bump cooldown down to zero.
func (c *Car) TickCooldown(dt float32) {
	if c.CooldownTimer > 0 {
		c.CooldownTimer -= dt
		if c.CooldownTimer < 0 {
			c.CooldownTimer = 0
		}
	}
}
