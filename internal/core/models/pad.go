package models

import "github.com/zeusync/carball/internal/core/systems/physics"

// BoostPadState is the part of a pad that changes during play.
// Locked car ids are 0 when no car is on the pad.
type BoostPadState struct {
	IsActive        bool    `json:"is_active" yaml:"is_active" msgpack:"is_active"`
	Cooldown        float32 `json:"cooldown" yaml:"cooldown" msgpack:"cooldown"`
	CurLockedCarID  uint32  `json:"cur_locked_car_id" yaml:"cur_locked_car_id" msgpack:"cur_locked_car_id"`
	PrevLockedCarID uint32  `json:"prev_locked_car_id" yaml:"prev_locked_car_id" msgpack:"prev_locked_car_id"`
}

// BoostPadConfig is fixed when the arena is built.
type BoostPadConfig struct {
	IsBig    bool         `json:"is_big" yaml:"is_big" msgpack:"is_big"`
	Position physics.Vec3 `json:"position" yaml:"position" msgpack:"position"`
}

type BoostPad struct {
	IsBig    bool          `json:"is_big" yaml:"is_big" msgpack:"is_big"`
	Position physics.Vec3  `json:"position" yaml:"position" msgpack:"position"`
	State    BoostPadState `json:"state" yaml:"state" msgpack:"state"`
}

// NewBoostPad builds an active pad from its static layout.
func NewBoostPad(cfg BoostPadConfig) BoostPad {
	return BoostPad{
		IsBig:    cfg.IsBig,
		Position: cfg.Position,
		State:    BoostPadState{IsActive: true},
	}
}

func (p BoostPad) Config() BoostPadConfig {
	return BoostPadConfig{IsBig: p.IsBig, Position: p.Position}
}

// Amount is the boost granted on pickup.
func (c BoostPadConfig) Amount() float32 {
	if c.IsBig {
		return BoostPadBigAmount
	}
	return BoostPadSmallAmount
}

// CooldownTime is how long the pad stays inactive after pickup.
func (c BoostPadConfig) CooldownTime() float32 {
	if c.IsBig {
		return BoostPadBigCooldown
	}
	return BoostPadSmallCooldown
}
