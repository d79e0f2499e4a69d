package mirror

import (
	"github.com/zeusync/carball/internal/core/convert"
	"github.com/zeusync/carball/internal/core/models"
)

func BallToA(b models.Ball) BallA {
	return BallA{
		Pos:    convert.Vec3ToA(b.Pos),
		Vel:    convert.Vec3ToA(b.Vel),
		AngVel: convert.Vec3ToA(b.AngVel),
	}
}

func AToBall(b BallA) models.Ball {
	return models.Ball{
		Pos:    convert.AToVec3(b.Pos),
		Vel:    convert.AToVec3(b.Vel),
		AngVel: convert.AToVec3(b.AngVel),
	}
}

func BoostPadToA(p models.BoostPad) BoostPadA {
	return BoostPadA{
		IsBig:    p.IsBig,
		Position: convert.Vec3ToA(p.Position),
		State:    p.State,
	}
}

func AToBoostPad(p BoostPadA) models.BoostPad {
	return models.BoostPad{
		IsBig:    p.IsBig,
		Position: convert.AToVec3(p.Position),
		State:    p.State,
	}
}

func WheelPairConfigToA(w models.WheelPairConfig) WheelPairConfigA {
	return WheelPairConfigA{
		WheelRadius:           w.WheelRadius,
		SuspensionRestLength:  w.SuspensionRestLength,
		ConnectionPointOffset: convert.Vec3ToA(w.ConnectionPointOffset),
	}
}

func AToWheelPairConfig(w WheelPairConfigA) models.WheelPairConfig {
	return models.WheelPairConfig{
		WheelRadius:           w.WheelRadius,
		SuspensionRestLength:  w.SuspensionRestLength,
		ConnectionPointOffset: convert.AToVec3(w.ConnectionPointOffset),
	}
}

func CarConfigToA(c models.CarConfig) CarConfigA {
	return CarConfigA{
		HitboxSize:      convert.Vec3ToA(c.HitboxSize),
		HitboxPosOffset: convert.Vec3ToA(c.HitboxPosOffset),
		FrontWheels:     WheelPairConfigToA(c.FrontWheels),
		BackWheels:      WheelPairConfigToA(c.BackWheels),
		DodgeDeadzone:   c.DodgeDeadzone,
	}
}

func AToCarConfig(c CarConfigA) models.CarConfig {
	return models.CarConfig{
		HitboxSize:      convert.AToVec3(c.HitboxSize),
		HitboxPosOffset: convert.AToVec3(c.HitboxPosOffset),
		FrontWheels:     AToWheelPairConfig(c.FrontWheels),
		BackWheels:      AToWheelPairConfig(c.BackWheels),
		DodgeDeadzone:   c.DodgeDeadzone,
	}
}

func CarToA(c models.Car) CarA {
	return CarA{
		Pos:                 convert.Vec3ToA(c.Pos),
		RotMat:              convert.RotMatToA(c.RotMat),
		Vel:                 convert.Vec3ToA(c.Vel),
		AngVel:              convert.Vec3ToA(c.AngVel),
		IsOnGround:          c.IsOnGround,
		HasJumped:           c.HasJumped,
		HasDoubleJumped:     c.HasDoubleJumped,
		HasFlipped:          c.HasFlipped,
		LastRelDodgeTorque:  convert.Vec3ToA(c.LastRelDodgeTorque),
		JumpTime:            c.JumpTime,
		FlipTime:            c.FlipTime,
		IsJumping:           c.IsJumping,
		AirTimeSinceJump:    c.AirTimeSinceJump,
		Boost:               c.Boost,
		TimeSpentBoosting:   c.TimeSpentBoosting,
		IsSupersonic:        c.IsSupersonic,
		SupersonicTime:      c.SupersonicTime,
		HandbrakeVal:        c.HandbrakeVal,
		IsAutoFlipping:      c.IsAutoFlipping,
		AutoFlipTimer:       c.AutoFlipTimer,
		AutoFlipTorqueScale: c.AutoFlipTorqueScale,
		HasContact:          c.HasContact,
		ContactNormal:       convert.Vec3ToA(c.ContactNormal),
		OtherCarID:          c.OtherCarID,
		CooldownTimer:       c.CooldownTimer,
		IsDemoed:            c.IsDemoed,
		DemoRespawnTimer:    c.DemoRespawnTimer,
		LastHitBallTick:     c.LastHitBallTick,
		LastControls:        c.LastControls,
	}
}

func AToCar(c CarA) models.Car {
	return models.Car{
		Pos:                 convert.AToVec3(c.Pos),
		RotMat:              convert.AToRotMat(c.RotMat),
		Vel:                 convert.AToVec3(c.Vel),
		AngVel:              convert.AToVec3(c.AngVel),
		IsOnGround:          c.IsOnGround,
		HasJumped:           c.HasJumped,
		HasDoubleJumped:     c.HasDoubleJumped,
		HasFlipped:          c.HasFlipped,
		LastRelDodgeTorque:  convert.AToVec3(c.LastRelDodgeTorque),
		JumpTime:            c.JumpTime,
		FlipTime:            c.FlipTime,
		IsJumping:           c.IsJumping,
		AirTimeSinceJump:    c.AirTimeSinceJump,
		Boost:               c.Boost,
		TimeSpentBoosting:   c.TimeSpentBoosting,
		IsSupersonic:        c.IsSupersonic,
		SupersonicTime:      c.SupersonicTime,
		HandbrakeVal:        c.HandbrakeVal,
		IsAutoFlipping:      c.IsAutoFlipping,
		AutoFlipTimer:       c.AutoFlipTimer,
		AutoFlipTorqueScale: c.AutoFlipTorqueScale,
		HasContact:          c.HasContact,
		ContactNormal:       convert.AToVec3(c.ContactNormal),
		OtherCarID:          c.OtherCarID,
		CooldownTimer:       c.CooldownTimer,
		IsDemoed:            c.IsDemoed,
		DemoRespawnTimer:    c.DemoRespawnTimer,
		LastHitBallTick:     c.LastHitBallTick,
		LastControls:        c.LastControls,
	}
}

func CarInfoToA(i models.CarInfo) CarInfoA {
	return CarInfoA{ID: i.ID, Team: i.Team, State: CarToA(i.State), Config: CarConfigToA(i.Config)}
}

func AToCarInfo(i CarInfoA) models.CarInfo {
	return models.CarInfo{ID: i.ID, Team: i.Team, State: AToCar(i.State), Config: AToCarConfig(i.Config)}
}

// GameStateToA allocates the mirror's roster and pad slices; nil slices
// stay nil.
func GameStateToA(s models.GameState) GameStateA {
	out := GameStateA{
		TickRate:  s.TickRate,
		TickCount: s.TickCount,
		Ball:      BallToA(s.Ball),
	}
	if s.Cars != nil {
		out.Cars = make([]CarInfoA, len(s.Cars))
		for i, info := range s.Cars {
			out.Cars[i] = CarInfoToA(info)
		}
	}
	if s.Pads != nil {
		out.Pads = make([]BoostPadA, len(s.Pads))
		for i, pad := range s.Pads {
			out.Pads[i] = BoostPadToA(pad)
		}
	}
	return out
}

func AToGameState(s GameStateA) models.GameState {
	out := models.GameState{
		TickRate:  s.TickRate,
		TickCount: s.TickCount,
		Ball:      AToBall(s.Ball),
	}
	if s.Cars != nil {
		out.Cars = make([]models.CarInfo, len(s.Cars))
		for i, info := range s.Cars {
			out.Cars[i] = AToCarInfo(info)
		}
	}
	if s.Pads != nil {
		out.Pads = make([]models.BoostPad, len(s.Pads))
		for i, pad := range s.Pads {
			out.Pads[i] = AToBoostPad(pad)
		}
	}
	return out
}
