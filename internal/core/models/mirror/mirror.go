// Package mirror holds lane-packed copies of the entity model for batched
// read-side math. A mirror is derived from a canonical snapshot and then
// thrown away; engines never read it back.
package mirror

import (
	"github.com/zeusync/carball/internal/core/models"
	"github.com/zeusync/carball/internal/core/systems/vecmath"
)

type BallA struct {
	Pos    vecmath.Vec3A
	Vel    vecmath.Vec3A
	AngVel vecmath.Vec3A
}

func DefaultBallA() BallA {
	return BallA{Pos: vecmath.NewVec3A(0, 0, models.BallRestZ)}
}

type BoostPadA struct {
	IsBig    bool
	Position vecmath.Vec3A
	State    models.BoostPadState
}

type WheelPairConfigA struct {
	WheelRadius           float32
	SuspensionRestLength  float32
	ConnectionPointOffset vecmath.Vec3A
}

type CarConfigA struct {
	HitboxSize      vecmath.Vec3A
	HitboxPosOffset vecmath.Vec3A
	FrontWheels     WheelPairConfigA
	BackWheels      WheelPairConfigA
	DodgeDeadzone   float32
}

// CarA mirrors models.Car field for field.
type CarA struct {
	Pos    vecmath.Vec3A
	RotMat vecmath.Mat3A
	Vel    vecmath.Vec3A
	AngVel vecmath.Vec3A

	IsOnGround         bool
	HasJumped          bool
	HasDoubleJumped    bool
	HasFlipped         bool
	LastRelDodgeTorque vecmath.Vec3A
	JumpTime           float32
	FlipTime           float32
	IsJumping          bool
	AirTimeSinceJump   float32

	Boost             float32
	TimeSpentBoosting float32
	IsSupersonic      bool
	SupersonicTime    float32
	HandbrakeVal      float32

	IsAutoFlipping      bool
	AutoFlipTimer       float32
	AutoFlipTorqueScale float32

	HasContact    bool
	ContactNormal vecmath.Vec3A
	OtherCarID    uint32
	CooldownTimer float32

	IsDemoed         bool
	DemoRespawnTimer float32

	LastHitBallTick uint64
	LastControls    models.CarControls
}

func DefaultCarA() CarA {
	return CarA{
		Pos:        vecmath.NewVec3A(0, 0, models.CarSpawnZ),
		RotMat:     vecmath.Mat3AIdentity(),
		IsOnGround: true,
		Boost:      models.BoostStart,
	}
}

// GetContactingCar resolves OtherCarID through reg and mirrors the result.
func (c CarA) GetContactingCar(reg models.CarRegistry) (CarA, bool) {
	if c.OtherCarID == 0 || reg == nil {
		return CarA{}, false
	}
	car, ok := reg.GetCar(c.OtherCarID)
	if !ok {
		return CarA{}, false
	}
	return CarToA(car), true
}

type CarInfoA struct {
	ID     uint32
	Team   models.Team
	State  CarA
	Config CarConfigA
}

type GameStateA struct {
	TickRate  float32
	TickCount uint64
	Cars      []CarInfoA
	Ball      BallA
	Pads      []BoostPadA
}
