package mirror

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/carball/internal/core/models"
	"github.com/zeusync/carball/internal/core/systems/physics"
)

func vec(rng *rand.Rand) physics.Vec3 {
	return physics.NewVec3(rng.Float32()*8000-4000, rng.Float32()*8000-4000, rng.Float32()*2000)
}

// dirty sets a padding lane the way a careless producer might.
func dirty(v physics.Vec3) physics.Vec3 {
	v.W = 13
	return v
}

func randomCar(rng *rand.Rand) models.Car {
	angle := physics.Angle{Pitch: rng.Float32() - 0.5, Yaw: rng.Float32()*6 - 3, Roll: rng.Float32()*6 - 3}
	return models.Car{
		Pos:                 dirty(vec(rng)),
		RotMat:              angle.ToRotMat(),
		Vel:                 vec(rng),
		AngVel:              dirty(vec(rng)),
		IsOnGround:          false,
		HasJumped:           true,
		HasFlipped:          true,
		LastRelDodgeTorque:  physics.NewVec3(0, -1, 0),
		JumpTime:            0.2,
		FlipTime:            rng.Float32(),
		AirTimeSinceJump:    rng.Float32(),
		Boost:               rng.Float32() * 100,
		TimeSpentBoosting:   rng.Float32() * 10,
		IsSupersonic:        true,
		SupersonicTime:      rng.Float32(),
		HandbrakeVal:        rng.Float32(),
		IsAutoFlipping:      true,
		AutoFlipTimer:       0.3,
		AutoFlipTorqueScale: -1,
		HasContact:          true,
		ContactNormal:       physics.NewVec3(0, 0, 1),
		OtherCarID:          rng.Uint32(),
		CooldownTimer:       0.1,
		IsDemoed:            false,
		LastHitBallTick:     rng.Uint64(),
		LastControls:        models.CarControls{Throttle: 1, Pitch: -1, Boost: true, Jump: true},
	}
}

func clean(v physics.Vec3) physics.Vec3 { return physics.NewVec3(v.X, v.Y, v.Z) }

func cleanCar(c models.Car) models.Car {
	c.Pos = clean(c.Pos)
	c.AngVel = clean(c.AngVel)
	return c
}

func TestBallRoundTrip(t *testing.T) {
	b := models.Ball{Pos: dirty(physics.NewVec3(1, 2, 1000)), Vel: physics.NewVec3(0, 0, -1)}
	out := AToBall(BallToA(b))
	assert.Equal(t, physics.NewVec3(1, 2, 1000), out.Pos)
	assert.Equal(t, b.Vel, out.Vel)
	assert.Equal(t, b.AngVel, out.AngVel)
}

func TestDefaultsAgree(t *testing.T) {
	assert.Equal(t, models.DefaultBall(), AToBall(DefaultBallA()))
	assert.Equal(t, models.DefaultCar(), AToCar(DefaultCarA()))
	assert.Equal(t, DefaultCarA(), CarToA(models.DefaultCar()))
}

func TestCarRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		c := randomCar(rng)
		a := CarToA(c)
		assert.Zero(t, a.Pos.Lanes()[3])
		assert.Equal(t, cleanCar(c), AToCar(a))
		assert.Equal(t, a, CarToA(AToCar(a)))
	}
}

func TestCarConfigRoundTrip(t *testing.T) {
	for _, name := range models.PresetNames() {
		cfg, err := models.CarConfigByName(name)
		require.NoError(t, err)
		assert.Equal(t, cfg, AToCarConfig(CarConfigToA(cfg)), name)
	}
}

func TestBoostPadRoundTrip(t *testing.T) {
	p := models.BoostPad{
		IsBig:    true,
		Position: dirty(physics.NewVec3(-3072, 4096, 73)),
		State:    models.BoostPadState{Cooldown: 7.5, CurLockedCarID: 3, PrevLockedCarID: 2},
	}
	out := AToBoostPad(BoostPadToA(p))
	assert.Equal(t, physics.NewVec3(-3072, 4096, 73), out.Position)
	assert.Equal(t, p.State, out.State)
	assert.True(t, out.IsBig)
}

func randomState(rng *rand.Rand, tick uint64) models.GameState {
	gs := models.GameState{
		TickRate:  120,
		TickCount: tick,
		Ball:      models.Ball{Pos: vec(rng), Vel: vec(rng), AngVel: vec(rng)},
		Pads: []models.BoostPad{
			models.NewBoostPad(models.BoostPadConfig{IsBig: true, Position: physics.NewVec3(3584, 0, 73)}),
			models.NewBoostPad(models.BoostPadConfig{Position: physics.NewVec3(0, -2816, 70)}),
		},
	}
	for id := uint32(1); id <= 4; id++ {
		gs.Cars = append(gs.Cars, models.CarInfo{
			ID:     id,
			Team:   models.Team(id % 2),
			State:  cleanCar(randomCar(rng)),
			Config: models.Breakout(),
		})
	}
	return gs
}

func TestGameStateRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	gs := randomState(rng, 77)
	assert.Equal(t, gs, AToGameState(GameStateToA(gs)))

	empty := models.GameState{TickRate: 120}
	assert.Equal(t, empty, AToGameState(GameStateToA(empty)))
}

func TestGameStatesToA(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	states := make([]models.GameState, 32)
	for i := range states {
		states[i] = randomState(rng, uint64(i))
	}

	mirrors, err := GameStatesToA(context.Background(), states, 4)
	require.NoError(t, err)
	require.Len(t, mirrors, len(states))
	for i, m := range mirrors {
		assert.Equal(t, uint64(i), m.TickCount)
		assert.Equal(t, states[i], AToGameState(m))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = GameStatesToA(ctx, states, 4)
	assert.ErrorIs(t, err, context.Canceled)
}

type registry map[uint32]models.Car

func (r registry) GetCar(id uint32) (models.Car, bool) {
	c, ok := r[id]
	return c, ok
}

func TestCarAGetContactingCar(t *testing.T) {
	other := models.DefaultCar()
	other.Pos = physics.NewVec3(50, 0, 17)
	reg := registry{2: other}

	a := DefaultCarA()
	_, ok := a.GetContactingCar(reg)
	assert.False(t, ok)

	a.OtherCarID = 2
	got, ok := a.GetContactingCar(reg)
	require.True(t, ok)
	assert.Equal(t, CarToA(other), got)

	a.OtherCarID = 3
	_, ok = a.GetContactingCar(reg)
	assert.False(t, ok)
}

func TestFeatures(t *testing.T) {
	car := models.DefaultCar()
	car.RotMat = physics.Angle{Yaw: 3.1415927 / 2}.ToRotMat()
	car.Vel = physics.NewVec3(0, 1000, 0)

	gs := models.GameState{
		Cars: []models.CarInfo{{ID: 9, Team: models.TeamOrange, State: car, Config: models.Octane()}},
		Ball: models.Ball{Pos: physics.NewVec3(0, 500, models.CarSpawnZ)},
	}
	a := GameStateToA(gs)

	local := RelativeBallPos(a.Cars[0].State, a.Ball)
	assert.InDelta(t, 500, local.X(), 1e-2)
	assert.InDelta(t, 0, local.Y(), 1e-2)
	assert.InDelta(t, 0, local.Z(), 1e-2)

	assert.InDelta(t, 500, BallDistances(a)[0], 1e-3)

	f := Features(a)
	require.Len(t, f, 1)
	assert.Equal(t, uint32(9), f[0].ID)
	assert.InDelta(t, 1000, f[0].ForwardSpeed, 1e-2)
	assert.InDelta(t, 1000, f[0].Speed, 1e-3)
	assert.Equal(t, models.BoostStart, f[0].Boost)
}

func BenchmarkGameStateToA(b *testing.B) {
	gs := randomState(rand.New(rand.NewSource(1)), 0)
	for i := 0; i < b.N; i++ {
		_ = GameStateToA(gs)
	}
}
