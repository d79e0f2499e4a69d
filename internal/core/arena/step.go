package arena

import (
	"math"

	"github.com/zeusync/carball/internal/core/events/bus"
	"github.com/zeusync/carball/internal/core/models"
	"github.com/zeusync/carball/internal/core/observability/log"
	"github.com/zeusync/carball/internal/core/systems/physics"
)

var worldUp = physics.NewVec3(0, 0, 1)

// tick advances one fixed step. Callers hold a.mu.
func (a *Arena) tick() {
	dt := a.tickTime

	for _, id := range a.order {
		a.stepCar(a.cars[id], dt)
	}
	a.stepBall(dt)
	a.collideCarsWithBall()
	a.collideCars()
	a.updatePads(dt)

	for _, id := range a.order {
		car := &a.cars[id].state
		if car.IsDemoed {
			continue
		}
		car.Vel = clampLength(car.Vel, CarMaxSpeed)
		car.UpdateSupersonic(car.Speed(), dt)
	}

	a.ticks++
}

func (a *Arena) stepCar(slot *carSlot, dt float32) {
	car := &slot.state
	ctrl := slot.controls
	car.LastControls = ctrl
	jumpPressed := ctrl.Jump && !slot.prevJump
	slot.prevJump = ctrl.Jump

	car.TickCooldown(dt)

	if car.IsDemoed {
		ready, _ := car.TickDemo(dt)
		if ready {
			sp := respawnSpawn(slot.team, slot.slot)
			if err := car.Respawn(sp.pos(), sp.yaw); err == nil {
				a.log.Debug("car respawned", log.CarID(slot.id), log.Tick(a.ticks))
				a.emit(bus.Event{Kind: bus.KindRespawn, Tick: a.ticks, CarID: slot.id, Pos: car.Pos})
			}
		}
		return
	}

	if ctrl.Handbrake {
		car.HandbrakeVal = min(1, car.HandbrakeVal+HandbrakeRate*dt)
	} else {
		car.HandbrakeVal = max(0, car.HandbrakeVal-HandbrakeRate*dt)
	}

	a.applyJump(slot, jumpPressed, dt)

	if ctrl.Boost {
		if used, _ := car.ConsumeBoost(dt); used {
			accel := BoostAccelAir
			if car.IsOnGround {
				accel = BoostAccelGround
			}
			car.Vel = car.Vel.Add(car.RotMat.Forward.Scale(accel * dt))
		}
	}

	if car.IsOnGround {
		driveOnGround(car, ctrl, dt)
	} else {
		a.flyInAir(slot, dt)
	}

	car.Vel = clampLength(car.Vel, CarMaxSpeed)
	car.Pos = car.Pos.Add(car.Vel.Scale(dt))
	a.resolveCarBounds(slot)
}

func (a *Arena) applyJump(slot *carSlot, pressed bool, dt float32) {
	car := &slot.state
	ctrl := slot.controls

	if pressed {
		// Opposing yaw and roll can pass the deadzone yet cancel out.
		dir := physics.NewVec3(-ctrl.Pitch, ctrl.Yaw+ctrl.Roll, 0).Normalize()
		switch {
		case !car.HasJumped:
			if car.BeginJump() == nil {
				car.Vel = car.Vel.Add(car.RotMat.Up.Scale(JumpImmediateSpeed))
			}
		case car.CanUseSecondJump() && ctrl.HasDodgeInput(slot.config.DodgeDeadzone) && !dir.IsZero():
			torque := physics.NewVec3(-dir.Y, dir.X, 0)
			if car.Flip(torque) == nil {
				if car.IsAutoFlipping {
					_ = car.CancelAutoFlip()
				}
				impulse := car.RotMat.Forward.Scale(dir.X).Add(car.RotMat.Right.Scale(dir.Y))
				impulse.Z = 0
				car.Vel = car.Vel.Add(impulse.Normalize().Scale(FlipImpulse))
				if car.Vel.Z < 0 {
					car.Vel.Z = 0
				}
			}
		case car.CanUseSecondJump():
			if car.DoubleJump() == nil {
				car.Vel = car.Vel.Add(car.RotMat.Up.Scale(JumpImmediateSpeed))
			}
		}
	}

	if car.IsJumping {
		_ = car.TickJump(dt, ctrl.Jump)
		if car.IsJumping {
			car.Vel = car.Vel.Add(car.RotMat.Up.Scale(JumpAccel * dt))
		}
	}
}

func driveOnGround(car *models.Car, ctrl models.CarControls, dt float32) {
	fwd := car.RotMat.Forward
	right := car.RotMat.Right
	forwardSpeed := car.Vel.Dot(fwd)
	lateral := car.Vel.Dot(right)

	var accel float32
	switch {
	case ctrl.Throttle != 0 && forwardSpeed*ctrl.Throttle < 0:
		accel = BrakeAccel * ctrl.Throttle
	case ctrl.Throttle != 0:
		accel = throttleAccel(abs(forwardSpeed)) * ctrl.Throttle
	case !ctrl.Boost:
		accel = -sign(forwardSpeed) * min(CoastDecel, abs(forwardSpeed)/dt)
	}
	forwardSpeed += accel * dt

	grip := LateralGrip * (1 - 0.9*car.HandbrakeVal)
	lateral *= max(0, 1-grip*dt)

	yawRate := ctrl.Steer * curvature(abs(forwardSpeed)) * forwardSpeed
	if yawRate != 0 {
		car.RotMat = physics.RotateAxis(worldUp, yawRate*dt).Mul(car.RotMat).Orthonormalize()
		fwd = car.RotMat.Forward
		right = car.RotMat.Right
	}
	car.AngVel = physics.NewVec3(0, 0, yawRate)
	car.Vel = fwd.Scale(forwardSpeed).Add(right.Scale(lateral))
	if car.Vel.Z < 0 {
		car.Vel.Z = 0
	}

	if car.Vel.Z > 0 {
		_ = car.LeaveGround()
	}
}

func (a *Arena) flyInAir(slot *carSlot, dt float32) {
	car := &slot.state
	ctrl := slot.controls
	rot := car.RotMat

	car.Vel = car.Vel.Add(rot.Forward.Scale(ctrl.Throttle * AirThrottleAccel * dt))
	car.Vel.Z += Gravity * dt

	local := rot.TransposeDot(car.AngVel)
	switch {
	case car.IsFlipActive():
		local = local.Add(car.LastRelDodgeTorque.Scale(FlipSpinAccel * dt))
	case car.IsAutoFlipping:
		local = physics.NewVec3(car.AutoFlipTorqueScale*AutoFlipSpinRate, 0, 0)
	default:
		local.X += (ctrl.Roll*RollTorque - RollDamp*local.X*(1-abs(ctrl.Roll))) * dt
		local.Y += (ctrl.Pitch*PitchTorque - PitchDamp*local.Y*(1-abs(ctrl.Pitch))) * dt
		local.Z += (ctrl.Yaw*YawTorque - YawDamp*local.Z*(1-abs(ctrl.Yaw))) * dt
	}
	car.AngVel = clampLength(rot.Dot(local), CarMaxAngSpeed)

	if w := car.AngVel.Length(); w > 0 {
		car.RotMat = physics.RotateAxis(car.AngVel.Scale(1/w), w*dt).Mul(rot).Orthonormalize()
	}

	if car.IsAutoFlipping {
		_ = car.TickAutoFlip(dt)
	}
	_ = car.TickAirborne(dt)
}

// resolveCarBounds handles floor, wall and ceiling contact.
func (a *Arena) resolveCarBounds(slot *carSlot) {
	car := &slot.state
	car.HasContact = false
	car.ContactNormal = physics.Vec3{}

	halfX := ArenaHalfX - slot.config.HitboxSize.X/2
	halfY := ArenaHalfY - slot.config.HitboxSize.X/2
	if car.Pos.X < -halfX || car.Pos.X > halfX {
		car.Pos.X = clamp(car.Pos.X, -halfX, halfX)
		car.Vel.X *= -CarWallBounce
		car.HasContact = true
		car.ContactNormal = physics.NewVec3(-sign(car.Pos.X), 0, 0)
	}
	if car.Pos.Y < -halfY || car.Pos.Y > halfY {
		car.Pos.Y = clamp(car.Pos.Y, -halfY, halfY)
		car.Vel.Y *= -CarWallBounce
		car.HasContact = true
		car.ContactNormal = physics.NewVec3(0, -sign(car.Pos.Y), 0)
	}
	if top := ArenaHeight - models.CarSpawnZ; car.Pos.Z > top {
		car.Pos.Z = top
		if car.Vel.Z > 0 {
			car.Vel.Z *= -CarWallBounce
		}
		car.HasContact = true
		car.ContactNormal = physics.NewVec3(0, 0, -1)
	}

	if car.Pos.Z > models.CarSpawnZ {
		return
	}
	car.Pos.Z = models.CarSpawnZ
	car.HasContact = true
	car.ContactNormal = worldUp

	if car.IsOnGround {
		return
	}
	if car.Vel.Z > 0 {
		return
	}
	car.Vel.Z = 0

	if car.RotMat.Up.Z >= UprightNormZ {
		if car.Land() == nil {
			car.RotMat = physics.Angle{Yaw: car.RotMat.ToAngle().Yaw}.ToRotMat()
			car.AngVel = physics.NewVec3(0, 0, car.AngVel.Z)
			if car.IsAutoFlipping {
				_ = car.CancelAutoFlip()
			}
		}
		return
	}

	if !car.IsAutoFlipping && !slot.controls.HasDodgeInput(slot.config.DodgeDeadzone) {
		dir := -sign(car.RotMat.Right.Z)
		if dir == 0 {
			dir = 1
		}
		if car.BeginAutoFlip(dir) == nil {
			car.Vel.Z = AutoFlipImpulse
		}
	} else if car.IsAutoFlipping && slot.controls.HasDodgeInput(slot.config.DodgeDeadzone) {
		_ = car.CancelAutoFlip()
	}
}

func (a *Arena) stepBall(dt float32) {
	b := &a.ball

	b.Vel.Z += Gravity * dt
	b.Vel = b.Vel.Scale(1 - BallDrag*dt)
	b.Vel = clampLength(b.Vel, BallMaxSpeed)
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))

	if b.Pos.Z < BallRadius {
		b.Pos.Z = BallRadius
		if b.Vel.Z < 0 {
			b.Vel.Z = -b.Vel.Z * BallRestitution
		}
		b.Vel.X -= b.Vel.X * BallFriction * dt
		b.Vel.Y -= b.Vel.Y * BallFriction * dt
		b.AngVel = physics.NewVec3(b.Vel.Y/BallRadius, -b.Vel.X/BallRadius, b.AngVel.Z)
	}
	if top := ArenaHeight - BallRadius; b.Pos.Z > top {
		b.Pos.Z = top
		if b.Vel.Z > 0 {
			b.Vel.Z = -b.Vel.Z * BallWallBounce
		}
	}
	if limit := ArenaHalfX - BallRadius; abs(b.Pos.X) > limit {
		b.Pos.X = clamp(b.Pos.X, -limit, limit)
		b.Vel.X = -b.Vel.X * BallWallBounce
	}
	if limit := ArenaHalfY - BallRadius; abs(b.Pos.Y) > limit {
		b.Pos.Y = clamp(b.Pos.Y, -limit, limit)
		b.Vel.Y = -b.Vel.Y * BallWallBounce
	}
	b.AngVel = clampLength(b.AngVel, BallMaxAngSpeed)
}

// hitboxCenter is the world position of the car's hitbox center.
func hitboxCenter(slot *carSlot) physics.Vec3 {
	return slot.state.Pos.Add(slot.state.RotMat.Dot(slot.config.HitboxPosOffset))
}

func (a *Arena) collideCarsWithBall() {
	b := &a.ball
	for _, id := range a.order {
		slot := a.cars[id]
		car := &slot.state
		if car.IsDemoed {
			continue
		}

		center := hitboxCenter(slot)
		half := slot.config.HitboxSize.Scale(0.5)
		local := car.RotMat.TransposeDot(b.Pos.Sub(center))
		closestLocal := physics.NewVec3(
			clamp(local.X, -half.X, half.X),
			clamp(local.Y, -half.Y, half.Y),
			clamp(local.Z, -half.Z, half.Z),
		)
		closest := center.Add(car.RotMat.Dot(closestLocal))
		d := b.Pos.Sub(closest)
		dist := d.Length()
		if dist >= BallRadius {
			continue
		}

		n := d.Normalize()
		if n.IsZero() {
			n = car.RotMat.Up
		}
		b.Pos = closest.Add(n.Scale(BallRadius))
		if rel := b.Vel.Sub(car.Vel).Dot(n); rel < 0 {
			b.Vel = b.Vel.Sub(n.Scale((1 + CarBallBounce) * rel))
		}
		car.LastHitBallTick = a.ticks
		a.emit(bus.Event{Kind: bus.KindBallHit, Tick: a.ticks, CarID: id, Pos: b.Pos})
	}
}

func (a *Arena) collideCars() {
	for _, id := range a.order {
		a.cars[id].state.OtherCarID = 0
	}

	for i, idA := range a.order {
		for _, idB := range a.order[i+1:] {
			sa, sb := a.cars[idA], a.cars[idB]
			if sa.state.IsDemoed || sb.state.IsDemoed {
				continue
			}

			ca, cb := hitboxCenter(sa), hitboxCenter(sb)
			reach := (sa.config.HitboxSize.Y + sb.config.HitboxSize.Y) * CarContactSize
			delta := cb.Sub(ca)
			dist := delta.Length()
			if dist >= reach {
				continue
			}

			sa.state.OtherCarID = idB
			sb.state.OtherCarID = idA

			n := delta.Normalize()
			if n.IsZero() {
				n = sa.state.RotMat.Forward
			}
			push := n.Scale((reach - dist) / 2)
			push.Z = 0
			sa.state.Pos = sa.state.Pos.Sub(push)
			sb.state.Pos = sb.state.Pos.Add(push)

			a.bump(sa, sb, n)
			a.bump(sb, sa, n.Scale(-1))
		}
	}
}

// bump applies attacker's hit on victim along n, pointing attacker to
// victim.
func (a *Arena) bump(attacker, victim *carSlot, n physics.Vec3) {
	at := &attacker.state
	if at.CooldownTimer > 0 || at.Vel.Dot(n) <= victim.state.Vel.Dot(n) || at.Vel.Dot(n) <= 0 {
		return
	}
	at.CooldownTimer = models.BumpCooldown

	if at.IsSupersonic && attacker.team != victim.team {
		if victim.state.Demolish(models.DemoRespawnTime) == nil {
			a.log.Debug("car demolished",
				log.CarID(victim.id),
				log.Uint32("by", attacker.id),
				log.Tick(a.ticks),
			)
			a.emit(bus.Event{
				Kind:       bus.KindDemolition,
				Tick:       a.ticks,
				CarID:      attacker.id,
				OtherCarID: victim.id,
				Pos:        victim.state.Pos,
			})
		}
		return
	}

	vs := &victim.state
	dir := n
	dir.Z = 0
	vs.Vel = vs.Vel.Add(dir.Normalize().Scale(BumpSpeed * at.Vel.Dot(n) / CarMaxSpeed))
	vs.Vel.Z += BumpUpSpeed * at.Vel.Dot(n) / CarMaxSpeed
	if vs.IsOnGround && vs.Vel.Z > 0 {
		_ = vs.LeaveGround()
	}
	a.emit(bus.Event{Kind: bus.KindBump, Tick: a.ticks, CarID: attacker.id, OtherCarID: victim.id, Pos: vs.Pos})
}

func (a *Arena) updatePads(dt float32) {
	for i, cfg := range a.padConfigs {
		state := &a.padStates[i]
		if !state.IsActive {
			state.Cooldown -= dt
			if state.Cooldown <= 0 {
				state.Cooldown = 0
				state.IsActive = true
			}
		}

		radius, height := SmallPadRadius, SmallPadHeight
		if cfg.IsBig {
			radius, height = BigPadRadius, BigPadHeight
		}

		var locked uint32
		for _, id := range a.order {
			car := &a.cars[id].state
			if car.IsDemoed {
				continue
			}
			d := car.Pos.Sub(cfg.Position)
			if d.Length2D() > radius || abs(d.Z) > height {
				continue
			}
			locked = id
			if state.IsActive && car.Boost < models.BoostMax {
				car.AddBoost(cfg.Amount())
				state.IsActive = false
				state.Cooldown = cfg.CooldownTime()
				a.emit(bus.Event{
					Kind:     bus.KindBoostPickup,
					Tick:     a.ticks,
					CarID:    id,
					PadIndex: i,
					Amount:   cfg.Amount(),
					Pos:      cfg.Position,
				})
			}
			break
		}
		state.PrevLockedCarID = state.CurLockedCarID
		state.CurLockedCarID = locked
	}
}

func throttleAccel(speed float32) float32 {
	switch {
	case speed >= ThrottleTopSpeed:
		return 0
	case speed >= 1400:
		return 160 * (ThrottleTopSpeed - speed) / (ThrottleTopSpeed - 1400)
	default:
		return ThrottleAccel - (ThrottleAccel-160)*speed/1400
	}
}

func curvature(speed float32) float32 {
	last := steerCurvature[len(steerCurvature)-1]
	if speed >= last[0] {
		return last[1]
	}
	for i := 1; i < len(steerCurvature); i++ {
		hi := steerCurvature[i]
		if speed <= hi[0] {
			lo := steerCurvature[i-1]
			t := (speed - lo[0]) / (hi[0] - lo[0])
			return lo[1] + (hi[1]-lo[1])*t
		}
	}
	return last[1]
}

func clampLength(v physics.Vec3, limit float32) physics.Vec3 {
	if l := v.Length(); l > limit {
		return v.Scale(limit / l)
	}
	return v
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(hi, v))
}

func abs(v float32) float32 {
	return float32(math.Abs(float64(v)))
}

func sign(v float32) float32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
