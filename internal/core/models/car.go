package models

import "github.com/zeusync/carball/internal/core/systems/physics"

// Car is the full per-tick state of one car. Every field is part of the
// observable contract; there is no hidden state.
type Car struct {
	Pos    physics.Vec3   `json:"pos" yaml:"pos" msgpack:"pos"`
	RotMat physics.RotMat `json:"rot_mat" yaml:"rot_mat" msgpack:"rot_mat"`
	Vel    physics.Vec3   `json:"vel" yaml:"vel" msgpack:"vel"`
	AngVel physics.Vec3   `json:"ang_vel" yaml:"ang_vel" msgpack:"ang_vel"`

	IsOnGround         bool         `json:"is_on_ground" yaml:"is_on_ground" msgpack:"is_on_ground"`
	HasJumped          bool         `json:"has_jumped" yaml:"has_jumped" msgpack:"has_jumped"`
	HasDoubleJumped    bool         `json:"has_double_jumped" yaml:"has_double_jumped" msgpack:"has_double_jumped"`
	HasFlipped         bool         `json:"has_flipped" yaml:"has_flipped" msgpack:"has_flipped"`
	LastRelDodgeTorque physics.Vec3 `json:"last_rel_dodge_torque" yaml:"last_rel_dodge_torque" msgpack:"last_rel_dodge_torque"`
	JumpTime           float32      `json:"jump_time" yaml:"jump_time" msgpack:"jump_time"`
	FlipTime           float32      `json:"flip_time" yaml:"flip_time" msgpack:"flip_time"`
	IsJumping          bool         `json:"is_jumping" yaml:"is_jumping" msgpack:"is_jumping"`
	AirTimeSinceJump   float32      `json:"air_time_since_jump" yaml:"air_time_since_jump" msgpack:"air_time_since_jump"`

	Boost             float32 `json:"boost" yaml:"boost" msgpack:"boost"`
	TimeSpentBoosting float32 `json:"time_spent_boosting" yaml:"time_spent_boosting" msgpack:"time_spent_boosting"`
	IsSupersonic      bool    `json:"is_supersonic" yaml:"is_supersonic" msgpack:"is_supersonic"`
	SupersonicTime    float32 `json:"supersonic_time" yaml:"supersonic_time" msgpack:"supersonic_time"`
	HandbrakeVal      float32 `json:"handbrake_val" yaml:"handbrake_val" msgpack:"handbrake_val"`

	IsAutoFlipping      bool    `json:"is_auto_flipping" yaml:"is_auto_flipping" msgpack:"is_auto_flipping"`
	AutoFlipTimer       float32 `json:"auto_flip_timer" yaml:"auto_flip_timer" msgpack:"auto_flip_timer"`
	AutoFlipTorqueScale float32 `json:"auto_flip_torque_scale" yaml:"auto_flip_torque_scale" msgpack:"auto_flip_torque_scale"`

	HasContact    bool         `json:"has_contact" yaml:"has_contact" msgpack:"has_contact"`
	ContactNormal physics.Vec3 `json:"contact_normal" yaml:"contact_normal" msgpack:"contact_normal"`
	// OtherCarID is a lookup key, 0 when no car is in contact.
	OtherCarID    uint32  `json:"other_car_id" yaml:"other_car_id" msgpack:"other_car_id"`
	CooldownTimer float32 `json:"cooldown_timer" yaml:"cooldown_timer" msgpack:"cooldown_timer"`

	IsDemoed         bool    `json:"is_demoed" yaml:"is_demoed" msgpack:"is_demoed"`
	DemoRespawnTimer float32 `json:"demo_respawn_timer" yaml:"demo_respawn_timer" msgpack:"demo_respawn_timer"`

	LastHitBallTick uint64      `json:"last_hit_ball_tick" yaml:"last_hit_ball_tick" msgpack:"last_hit_ball_tick"`
	LastControls    CarControls `json:"last_controls" yaml:"last_controls" msgpack:"last_controls"`
}

// DefaultCar is a grounded car at the center spot with starting boost.
func DefaultCar() Car {
	return Car{
		Pos:        physics.NewVec3(0, 0, CarSpawnZ),
		RotMat:     physics.RotMatIdentity(),
		IsOnGround: true,
		Boost:      BoostStart,
	}
}

func (c Car) Speed() float32 { return c.Vel.Length() }

func (c Car) Forward() physics.Vec3 { return c.RotMat.Forward }

func (c Car) Up() physics.Vec3 { return c.RotMat.Up }

// Angle is the Euler form of RotMat.
func (c Car) Angle() physics.Angle { return c.RotMat.ToAngle() }
