package arena

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/carball/internal/core/events/bus"
	"github.com/zeusync/carball/internal/core/models"
	"github.com/zeusync/carball/internal/core/models/mirror"
	"github.com/zeusync/carball/internal/core/systems/physics"
)

func TestPads(t *testing.T) {
	a := DefaultStandard()

	statics := a.PadStatics().ToSlice()
	assert.Len(t, statics, a.NumPads())
	assert.Equal(t, 34, a.NumPads())

	states := a.PadStates().ToSlice()
	assert.Len(t, states, a.NumPads())

	bigCount := 0
	for i, pad := range statics {
		if pad.IsBig {
			bigCount++
		}
		assert.True(t, states[i].IsActive)
	}
	assert.Equal(t, 6, bigCount)
}

// Scenario A and B.
func TestCars(t *testing.T) {
	a := DefaultStandard()

	id := a.AddCar(models.TeamBlue, models.Octane())
	assert.NotZero(t, id)
	assert.Len(t, a.GetCars(), 1)

	require.NoError(t, a.RemoveCar(id))
	assert.Empty(t, a.GetCars())
	assert.True(t, errors.Is(a.RemoveCar(id), ErrCarNotFound))

	dominus := models.Dominus()
	id = a.AddCar(models.TeamOrange, dominus)
	require.NoError(t, a.SetCarControls(id, models.CarControls{Boost: true}))

	a.Step(1)

	cars := a.GetCars()
	require.Len(t, cars, 1)
	assert.Less(t, cars[0].Car.Boost, float32(100.0/3))
	assert.Equal(t, dominus.HitboxSize, cars[0].Config.HitboxSize)
	assert.Equal(t, uint64(1), a.TickCount())
}

func TestUnknownCar(t *testing.T) {
	a := DefaultStandard()

	assert.True(t, errors.Is(a.SetCarControls(42, models.CarControls{}), ErrCarNotFound))
	assert.True(t, errors.Is(a.SetCar(42, models.DefaultCar()), ErrCarNotFound))
	_, ok := a.GetCar(42)
	assert.False(t, ok)
	_, ok = a.CarTeam(42)
	assert.False(t, ok)
}

// Scenario C.
func TestBall(t *testing.T) {
	a := DefaultStandard()

	a.SetBall(models.Ball{
		Pos: physics.NewVec3(1, 2, 1000),
		Vel: physics.NewVec3(0, 0, -1),
	})

	ball := a.GetBall()
	assert.Equal(t, physics.NewVec3(1, 2, 1000), ball.Pos)
	assert.Equal(t, physics.NewVec3(0, 0, -1), ball.Vel)
	assert.True(t, ball.AngVel.IsZero())

	a.Step(30)

	ball = a.GetBall()
	assert.Equal(t, float32(1), ball.Pos.X)
	assert.Equal(t, float32(2), ball.Pos.Y)
	assert.Less(t, ball.Pos.Z, float32(1000))
	assert.Zero(t, ball.Vel.X)
	assert.Zero(t, ball.Vel.Y)
	assert.Less(t, ball.Vel.Z, float32(0))
}

func TestDefaultBallRests(t *testing.T) {
	a := DefaultStandard()
	assert.Equal(t, models.DefaultBall(), a.GetBall())

	a.Step(240)
	ball := a.GetBall()
	assert.InDelta(t, BallRadius, ball.Pos.Z, 2)
	assert.Zero(t, ball.Pos.X)
	assert.Zero(t, ball.Pos.Y)
}

// Scenario D.
func TestGetContactingCar(t *testing.T) {
	a := DefaultStandard()
	first := a.AddCar(models.TeamBlue, models.Octane())
	second := a.AddCar(models.TeamBlue, models.Octane())

	car, ok := a.GetCar(first)
	require.True(t, ok)
	_, ok = car.GetContactingCar(a)
	assert.False(t, ok)

	placed := models.DefaultCar()
	require.NoError(t, a.SetCar(first, placed))
	placed.Pos = physics.NewVec3(60, 0, models.CarSpawnZ)
	require.NoError(t, a.SetCar(second, placed))

	a.Step(1)

	car, _ = a.GetCar(first)
	require.Equal(t, second, car.OtherCarID)

	other, ok := car.GetContactingCar(a)
	require.True(t, ok)
	current, _ := a.GetCar(second)
	assert.Equal(t, current, other)
	assert.Equal(t, first, other.OtherCarID)

	mirrored, ok := mirror.CarToA(car).GetContactingCar(a)
	require.True(t, ok)
	assert.Equal(t, mirror.CarToA(current), mirrored)

	require.NoError(t, a.RemoveCar(second))
	_, ok = car.GetContactingCar(a)
	assert.False(t, ok, "stale id resolves to nothing")
}

func TestKickoffSpawns(t *testing.T) {
	a := DefaultStandard()
	blue := a.AddCar(models.TeamBlue, models.Octane())
	orange := a.AddCar(models.TeamOrange, models.Octane())

	b, _ := a.GetCar(blue)
	o, _ := a.GetCar(orange)
	assert.Equal(t, physics.NewVec3(-2048, -2560, models.CarSpawnZ), b.Pos)
	assert.Equal(t, physics.NewVec3(-2048, 2560, models.CarSpawnZ), o.Pos)
	assert.Greater(t, b.Forward().Y, float32(0))
	assert.Less(t, o.Forward().Y, float32(0))
	assert.Equal(t, models.BoostStart, b.Boost)

	team, ok := a.CarTeam(orange)
	require.True(t, ok)
	assert.Equal(t, models.TeamOrange, team)

	a.SetBall(models.Ball{Pos: physics.NewVec3(500, 500, 500)})
	require.NoError(t, a.SetCarControls(blue, models.CarControls{Throttle: 1}))
	a.Step(60)

	a.ResetKickoff()
	b, _ = a.GetCar(blue)
	assert.Equal(t, physics.NewVec3(-2048, -2560, models.CarSpawnZ), b.Pos)
	assert.True(t, b.Vel.IsZero())
	assert.Equal(t, models.DefaultBall(), a.GetBall())
}

func TestSpawnSlotsAfterRemoval(t *testing.T) {
	a := DefaultStandard()
	first := a.AddCar(models.TeamBlue, models.Octane())
	second := a.AddCar(models.TeamBlue, models.Octane())
	require.NoError(t, a.RemoveCar(first))
	third := a.AddCar(models.TeamBlue, models.Octane())

	s, _ := a.GetCar(second)
	th, _ := a.GetCar(third)
	assert.NotEqual(t, s.Pos, th.Pos)
	assert.Equal(t, physics.NewVec3(-2048, -2560, models.CarSpawnZ), th.Pos)

	// Switching teams through a snapshot takes a free orange slot.
	orange := a.AddCar(models.TeamOrange, models.Octane())
	gs := a.GetGameState()
	for i := range gs.Cars {
		if gs.Cars[i].ID == third {
			gs.Cars[i].Team = models.TeamOrange
		}
	}
	require.NoError(t, a.SetGameState(gs))

	slots := map[int]uint32{}
	for _, id := range []uint32{third, orange} {
		slot := a.cars[id]
		assert.Equal(t, models.TeamOrange, slot.team)
		_, dup := slots[slot.slot]
		assert.False(t, dup, "car %d shares slot %d", id, slot.slot)
		slots[slot.slot] = id
	}
}

func TestDriveAndJump(t *testing.T) {
	a := DefaultStandard()
	id := a.AddCar(models.TeamBlue, models.Octane())

	require.NoError(t, a.SetCarControls(id, models.CarControls{Throttle: 1}))
	a.Step(120)
	car, _ := a.GetCar(id)
	assert.Greater(t, car.Speed(), float32(900))
	assert.True(t, car.IsOnGround)

	require.NoError(t, a.SetCarControls(id, models.CarControls{Jump: true}))
	a.Step(1)
	car, _ = a.GetCar(id)
	assert.False(t, car.IsOnGround)
	assert.True(t, car.HasJumped)
	assert.True(t, car.IsJumping)

	a.Step(30)
	car, _ = a.GetCar(id)
	assert.False(t, car.IsJumping)
	assert.Greater(t, car.Pos.Z, models.CarSpawnZ)

	require.NoError(t, a.SetCarControls(id, models.CarControls{}))
	for i := 0; i < 600 && !car.IsOnGround; i++ {
		a.Step(1)
		car, _ = a.GetCar(id)
	}
	assert.True(t, car.IsOnGround)
	assert.False(t, car.HasJumped)
	assert.Greater(t, car.RotMat.Up.Z, float32(0.99))
}

func TestFlip(t *testing.T) {
	a := DefaultStandard()
	id := a.AddCar(models.TeamBlue, models.Octane())

	require.NoError(t, a.SetCarControls(id, models.CarControls{Jump: true}))
	a.Step(6)
	require.NoError(t, a.SetCarControls(id, models.CarControls{}))
	a.Step(1)
	require.NoError(t, a.SetCarControls(id, models.CarControls{Jump: true, Pitch: -1}))
	a.Step(1)

	car, _ := a.GetCar(id)
	assert.True(t, car.HasFlipped)
	assert.False(t, car.HasDoubleJumped)
	assert.Equal(t, float32(1), car.LastRelDodgeTorque.Y)
	assert.True(t, car.IsFlipActive())
	assert.Greater(t, car.Vel.Dot(car.Forward()), float32(0))

	a.Step(10)
	car, _ = a.GetCar(id)
	assert.NotZero(t, car.AngVel.Length())
	assert.Empty(t, car.CheckInvariants())
}

func TestDoubleJump(t *testing.T) {
	a := DefaultStandard()
	id := a.AddCar(models.TeamBlue, models.Octane())

	require.NoError(t, a.SetCarControls(id, models.CarControls{Jump: true}))
	a.Step(10)
	require.NoError(t, a.SetCarControls(id, models.CarControls{}))
	a.Step(1)
	require.NoError(t, a.SetCarControls(id, models.CarControls{Jump: true}))
	a.Step(1)

	car, _ := a.GetCar(id)
	assert.True(t, car.HasDoubleJumped)
	assert.False(t, car.HasFlipped)
}

func TestCancellingStickDoubleJumps(t *testing.T) {
	a := DefaultStandard()
	id := a.AddCar(models.TeamBlue, models.Octane())

	require.NoError(t, a.SetCarControls(id, models.CarControls{Jump: true}))
	a.Step(6)
	require.NoError(t, a.SetCarControls(id, models.CarControls{}))
	a.Step(1)
	require.NoError(t, a.SetCarControls(id, models.CarControls{Jump: true, Yaw: 0.3, Roll: -0.3}))
	a.Step(1)

	car, _ := a.GetCar(id)
	assert.True(t, car.HasDoubleJumped)
	assert.False(t, car.HasFlipped)
	assert.True(t, car.LastRelDodgeTorque.IsZero())
}

func TestAutoFlipRightsCar(t *testing.T) {
	a := DefaultStandard()
	id := a.AddCar(models.TeamBlue, models.Octane())

	car, _ := a.GetCar(id)
	car.Pos.Z = 100
	car.IsOnGround = false
	car.RotMat = physics.Angle{Roll: math.Pi}.ToRotMat()
	require.NoError(t, a.SetCar(id, car))

	sawAutoFlip := false
	for i := 0; i < 600; i++ {
		a.Step(1)
		car, _ = a.GetCar(id)
		if car.IsAutoFlipping {
			sawAutoFlip = true
		}
		if sawAutoFlip && car.IsOnGround {
			break
		}
	}

	assert.True(t, sawAutoFlip)
	assert.True(t, car.IsOnGround)
	assert.False(t, car.IsAutoFlipping)
	assert.Greater(t, car.RotMat.Up.Z, float32(0.99))
	assert.Empty(t, car.CheckInvariants())
}

func TestPadPickup(t *testing.T) {
	a := DefaultStandard()
	id := a.AddCar(models.TeamBlue, models.Octane())

	car := models.DefaultCar()
	car.Pos = physics.NewVec3(3584, 0, models.CarSpawnZ)
	car.Boost = 10
	require.NoError(t, a.SetCar(id, car))

	a.Step(1)

	car, _ = a.GetCar(id)
	assert.Equal(t, models.BoostMax, car.Boost)

	gs := a.GetGameState()
	var pad models.BoostPad
	for _, p := range gs.Pads {
		if p.IsBig && p.Position.X == 3584 && p.Position.Y == 0 {
			pad = p
		}
	}
	assert.False(t, pad.State.IsActive)
	assert.InDelta(t, models.BoostPadBigCooldown, pad.State.Cooldown, 1e-3)
	assert.Equal(t, id, pad.State.CurLockedCarID)

	a.Step(uint32(models.BoostPadBigCooldown*DefaultTickRate) + 1)
	gs = a.GetGameState()
	for _, p := range gs.Pads {
		if p.Position == pad.Position {
			assert.True(t, p.State.IsActive)
		}
	}
}

func TestSupersonicDemolition(t *testing.T) {
	a := DefaultStandard()
	attacker := a.AddCar(models.TeamBlue, models.Octane())
	victim := a.AddCar(models.TeamOrange, models.Octane())

	fast := models.DefaultCar()
	fast.Vel = physics.NewVec3(2250, 0, 0)
	fast.IsSupersonic = true
	require.NoError(t, a.SetCar(attacker, fast))
	require.NoError(t, a.SetCarControls(attacker, models.CarControls{Throttle: 1, Boost: true}))

	target := models.DefaultCar()
	target.Pos = physics.NewVec3(80, 0, models.CarSpawnZ)
	require.NoError(t, a.SetCar(victim, target))

	a.Step(1)

	v, _ := a.GetCar(victim)
	require.True(t, v.IsDemoed)
	assert.Greater(t, v.DemoRespawnTimer, float32(0))
	assert.Empty(t, v.CheckInvariants())

	at, _ := a.GetCar(attacker)
	assert.Equal(t, models.BumpCooldown, at.CooldownTimer)

	a.Step(uint32(models.DemoRespawnTime*DefaultTickRate) + 2)
	v, _ = a.GetCar(victim)
	assert.False(t, v.IsDemoed)
	assert.Zero(t, v.DemoRespawnTimer)
	assert.Greater(t, v.Pos.Y, float32(4000), "orange respawns on its own half")
}

func TestGameStateRoundTrip(t *testing.T) {
	a := DefaultStandard()
	a.AddCar(models.TeamBlue, models.Octane())
	a.AddCar(models.TeamOrange, models.Merc())
	a.Step(10)

	gs := a.GetGameState()
	assert.Equal(t, uint64(10), gs.TickCount)
	assert.Len(t, gs.Cars, 2)
	assert.Len(t, gs.Pads, 34)

	a.Step(50)
	require.NoError(t, a.SetGameState(gs))
	assert.Equal(t, gs, a.GetGameState())

	bad := gs.Clone()
	bad.Pads = bad.Pads[:3]
	assert.True(t, errors.Is(a.SetGameState(bad), ErrPadCountMismatch))

	bad = gs.Clone()
	bad.Cars[0].ID = 99
	assert.True(t, errors.Is(a.SetGameState(bad), ErrCarNotFound))

	bad = gs.Clone()
	bad.TickRate = 60
	assert.True(t, errors.Is(a.SetGameState(bad), ErrTickRateMismatch))

	assert.Equal(t, gs, a.GetGameState(), "failed writes change nothing")
}

func TestSetPadState(t *testing.T) {
	a := DefaultStandard()
	require.NoError(t, a.SetPadState(0, models.BoostPadState{Cooldown: 2}))
	assert.False(t, a.PadStates().ToSlice()[0].IsActive)
	assert.True(t, errors.Is(a.SetPadState(34, models.BoostPadState{}), ErrPadIndex))
}

func TestWithTickRate(t *testing.T) {
	a := DefaultStandard(WithTickRate(60))
	assert.Equal(t, float32(60), a.TickRate())
	assert.Equal(t, float32(60), a.GetGameState().TickRate)

	b := DefaultStandard(WithTickRate(-1))
	assert.Equal(t, DefaultTickRate, b.TickRate())
}

// Runs many cars under random input and checks the state model after
// every tick.
func TestInvariantsHoldOverRandomPlay(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	a := DefaultStandard()
	var ids []uint32
	for i, name := range []string{"octane", "dominus", "plank", "breakout", "hybrid", "merc"} {
		cfg, err := models.CarConfigByName(name)
		require.NoError(t, err)
		ids = append(ids, a.AddCar(models.Team(i%2), cfg))
	}

	axis := func() float32 { return rng.Float32()*2 - 1 }
	for tick := 0; tick < 3000; tick++ {
		if tick%20 == 0 {
			for _, id := range ids {
				require.NoError(t, a.SetCarControls(id, models.CarControls{
					Throttle: axis(), Steer: axis(),
					Pitch: axis(), Yaw: axis(), Roll: axis(),
					Boost: rng.Intn(3) == 0, Jump: rng.Intn(4) == 0,
					Handbrake: rng.Intn(5) == 0,
				}))
			}
		}
		a.Step(1)

		for _, entry := range a.GetCars() {
			car := entry.Car
			require.Empty(t, car.CheckInvariants(), "car %d at tick %d", entry.ID, tick)
			require.True(t, car.RotMat.IsOrthonormal(1e-3), "car %d at tick %d", entry.ID, tick)
			back := car.RotMat.ToAngle().ToRotMat()
			require.True(t, back.ApproxEqual(car.RotMat, 2e-3), "car %d at tick %d", entry.ID, tick)
		}
	}
}

func TestChecksumDeterminism(t *testing.T) {
	run := func() uint64 {
		a := DefaultStandard()
		id := a.AddCar(models.TeamBlue, models.Octane())
		_ = a.SetCarControls(id, models.CarControls{Throttle: 1, Steer: 0.3, Boost: true})
		a.Step(200)
		sum, err := models.Checksum(a.GetGameState())
		require.NoError(t, err)
		return sum
	}
	assert.Equal(t, run(), run())
}

func TestStepAll(t *testing.T) {
	arenas := make([]*Arena, 8)
	for i := range arenas {
		arenas[i] = DefaultStandard()
		arenas[i].AddCar(models.TeamBlue, models.Octane())
	}

	require.NoError(t, StepAll(context.Background(), arenas, 5))
	for _, a := range arenas {
		assert.Equal(t, uint64(5), a.TickCount())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, StepAll(ctx, arenas, 5), context.Canceled)
}

func TestEvents(t *testing.T) {
	b := bus.New()
	var events []bus.Event
	_, err := b.SubscribeAll(func(e bus.Event) error {
		events = append(events, e)
		return nil
	})
	require.NoError(t, err)

	a := DefaultStandard(WithEventBus(b))
	attacker := a.AddCar(models.TeamBlue, models.Octane())
	victim := a.AddCar(models.TeamOrange, models.Octane())

	fast := models.DefaultCar()
	fast.Pos = physics.NewVec3(3000, 0, models.CarSpawnZ)
	fast.Vel = physics.NewVec3(2250, 0, 0)
	fast.IsSupersonic = true
	fast.Boost = 50
	require.NoError(t, a.SetCar(attacker, fast))
	target := models.DefaultCar()
	target.Pos = physics.NewVec3(3080, 0, models.CarSpawnZ)
	require.NoError(t, a.SetCar(victim, target))

	a.Step(1)

	kinds := map[bus.Kind]bus.Event{}
	for _, e := range events {
		kinds[e.Kind] = e
	}
	require.Contains(t, kinds, bus.KindDemolition)
	demo := kinds[bus.KindDemolition]
	assert.Equal(t, attacker, demo.CarID)
	assert.Equal(t, victim, demo.OtherCarID)
	assert.Equal(t, uint64(0), demo.Tick)

	events = nil
	a.ResetKickoff()
	require.Len(t, events, 1)
	assert.Equal(t, bus.KindKickoff, events[0].Kind)
}

func TestEventHandlersMayReadArena(t *testing.T) {
	b := bus.New()
	a := DefaultStandard(WithEventBus(b))
	id := a.AddCar(models.TeamBlue, models.Octane())

	var boost float32
	_, err := b.Subscribe(bus.KindBoostPickup, func(e bus.Event) error {
		car, _ := a.GetCar(e.CarID)
		boost = car.Boost
		return nil
	})
	require.NoError(t, err)

	car := models.DefaultCar()
	car.Pos = physics.NewVec3(-3584, 0, models.CarSpawnZ)
	car.Boost = 0
	require.NoError(t, a.SetCar(id, car))
	a.Step(1)

	assert.Equal(t, models.BoostMax, boost)
}
