// Package arena is a fixed-step soccar engine. It owns the canonical state
// of one session and exposes it only as copies.
package arena

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/zeusync/carball/internal/core/events/bus"
	"github.com/zeusync/carball/internal/core/models"
	"github.com/zeusync/carball/internal/core/observability/log"
	"github.com/zeusync/carball/internal/core/system"
	"github.com/zeusync/carball/internal/core/systems/physics"
)

var _ system.Engine = (*Arena)(nil)

type carSlot struct {
	id       uint32
	team     models.Team
	config   models.CarConfig
	state    models.Car
	controls models.CarControls
	// slot is the kickoff/respawn index within the team.
	slot     int
	prevJump bool
}

// Arena holds one session. A single lock serialises every read, step and
// write.
type Arena struct {
	mu sync.RWMutex

	log      log.Log
	tickRate float32
	tickTime float32
	ticks    uint64

	nextID uint32
	cars   map[uint32]*carSlot
	order  []uint32

	ball       models.Ball
	padConfigs []models.BoostPadConfig
	padStates  []models.BoostPadState

	events  bus.EventBus
	pending []bus.Event
}

type Option func(*Arena)

// WithTickRate sets ticks per second. Non-positive rates are ignored.
func WithTickRate(rate float32) Option {
	return func(a *Arena) {
		if rate > 0 {
			a.tickRate = rate
		}
	}
}

func WithLogger(l log.Log) Option {
	return func(a *Arena) {
		if l != nil {
			a.log = l
		}
	}
}

// WithEventBus publishes match events to b after every Step and
// ResetKickoff, once the arena lock is released.
func WithEventBus(b bus.EventBus) Option {
	return func(a *Arena) {
		a.events = b
	}
}

// WithPads replaces the pad layout.
func WithPads(pads []models.BoostPadConfig) Option {
	return func(a *Arena) {
		a.padConfigs = append([]models.BoostPadConfig(nil), pads...)
	}
}

// DefaultStandard builds an empty standard field: ball at rest on the
// center spot, all 34 pads active, no cars.
func DefaultStandard(opts ...Option) *Arena {
	a := &Arena{
		log:        log.NewNop(),
		tickRate:   DefaultTickRate,
		nextID:     1,
		cars:       make(map[uint32]*carSlot),
		ball:       models.DefaultBall(),
		padConfigs: StandardPads(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.tickTime = 1 / a.tickRate
	a.padStates = make([]models.BoostPadState, len(a.padConfigs))
	for i := range a.padStates {
		a.padStates[i] = models.BoostPadState{IsActive: true}
	}

	a.log = a.log.With(log.Float32("tick_rate", a.tickRate))
	a.log.Debug("arena created", log.Int("pads", len(a.padConfigs)))
	return a
}

// AddCar spawns a car on its team's next kickoff spot and returns its id.
// Ids start at 1 and are never reused.
func (a *Arena) AddCar(team models.Team, config models.CarConfig) uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextID
	a.nextID++

	slot := a.freeSlot(team, id)
	sp := kickoffSpawn(team, slot)
	car := models.DefaultCar()
	car.Pos = sp.pos()
	car.RotMat = physics.Angle{Yaw: sp.yaw}.ToRotMat()

	a.cars[id] = &carSlot{id: id, team: team, config: config, state: car, slot: slot}
	a.order = append(a.order, id)

	a.log.Debug("car added", log.CarID(id), log.String("team", team.String()))
	return id
}

func (a *Arena) RemoveCar(id uint32) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.cars[id]; !ok {
		return errors.Wrapf(ErrCarNotFound, "remove car %d", id)
	}
	delete(a.cars, id)
	for i, other := range a.order {
		if other == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}

	a.log.Debug("car removed", log.CarID(id))
	return nil
}

// SetCarControls stores the input used by every following tick until
// replaced. Analog axes are clamped to [-1, 1].
func (a *Arena) SetCarControls(id uint32, controls models.CarControls) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	slot, ok := a.cars[id]
	if !ok {
		return errors.Wrapf(ErrCarNotFound, "set controls of car %d", id)
	}
	slot.controls = controls.Clamp()
	return nil
}

// GetCars lists the roster in insertion order.
func (a *Arena) GetCars() []system.CarEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]system.CarEntry, 0, len(a.order))
	for _, id := range a.order {
		slot := a.cars[id]
		out = append(out, system.CarEntry{ID: id, Car: slot.state, Config: slot.config})
	}
	return out
}

func (a *Arena) GetCar(id uint32) (models.Car, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	slot, ok := a.cars[id]
	if !ok {
		return models.Car{}, false
	}
	return slot.state, true
}

// SetCar overwrites a car's state. The padding lanes are cleared.
func (a *Arena) SetCar(id uint32, car models.Car) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	slot, ok := a.cars[id]
	if !ok {
		return errors.Wrapf(ErrCarNotFound, "set car %d", id)
	}
	slot.state = sanitizeCar(car)
	slot.prevJump = car.LastControls.Jump
	return nil
}

func (a *Arena) CarTeam(id uint32) (models.Team, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	slot, ok := a.cars[id]
	if !ok {
		return 0, false
	}
	return slot.team, true
}

func (a *Arena) TickRate() float32 { return a.tickRate }

func (a *Arena) TickCount() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ticks
}

func (a *Arena) GetBall() models.Ball {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ball
}

func (a *Arena) SetBall(ball models.Ball) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ball = sanitizeBall(ball)
}

func (a *Arena) NumPads() int { return len(a.padConfigs) }

func (a *Arena) PadStatics() models.Iterator[models.BoostPadConfig] {
	return models.NewSliceIterator(a.padConfigs)
}

func (a *Arena) PadStates() models.Iterator[models.BoostPadState] {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return models.NewSliceIterator(a.padStates)
}

func (a *Arena) SetPadState(index int, state models.BoostPadState) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if index < 0 || index >= len(a.padStates) {
		return errors.Wrapf(ErrPadIndex, "index %d of %d", index, len(a.padStates))
	}
	a.padStates[index] = state
	return nil
}

// GetGameState takes a consistent snapshot of the whole session.
func (a *Arena) GetGameState() models.GameState {
	a.mu.RLock()
	defer a.mu.RUnlock()

	gs := models.GameState{
		TickRate:  a.tickRate,
		TickCount: a.ticks,
		Cars:      make([]models.CarInfo, 0, len(a.order)),
		Ball:      a.ball,
		Pads:      make([]models.BoostPad, len(a.padConfigs)),
	}
	for _, id := range a.order {
		slot := a.cars[id]
		gs.Cars = append(gs.Cars, models.CarInfo{ID: id, Team: slot.team, State: slot.state, Config: slot.config})
	}
	for i, cfg := range a.padConfigs {
		gs.Pads[i] = models.BoostPad{IsBig: cfg.IsBig, Position: cfg.Position, State: a.padStates[i]}
	}
	return gs
}

// SetGameState overwrites the session from a snapshot taken from this
// arena. Every listed car must exist and the pad count and tick rate must
// match; on error nothing is changed. Cars missing from the snapshot keep
// their state.
func (a *Arena) SetGameState(gs models.GameState) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if gs.TickRate != a.tickRate {
		return errors.Wrapf(ErrTickRateMismatch, "snapshot %v, arena %v", gs.TickRate, a.tickRate)
	}
	if len(gs.Pads) != len(a.padStates) {
		return errors.Wrapf(ErrPadCountMismatch, "snapshot %d, arena %d", len(gs.Pads), len(a.padStates))
	}
	seen := make(map[uint32]struct{}, len(gs.Cars))
	for _, info := range gs.Cars {
		if _, ok := a.cars[info.ID]; !ok {
			return errors.Wrapf(ErrCarNotFound, "snapshot car %d", info.ID)
		}
		if _, dup := seen[info.ID]; dup {
			return errors.Wrapf(ErrDuplicateCarEntry, "car %d", info.ID)
		}
		seen[info.ID] = struct{}{}
	}

	a.ticks = gs.TickCount
	a.ball = sanitizeBall(gs.Ball)
	for i, pad := range gs.Pads {
		a.padStates[i] = pad.State
	}
	for _, info := range gs.Cars {
		slot := a.cars[info.ID]
		if slot.team != info.Team {
			slot.team = info.Team
			slot.slot = a.freeSlot(info.Team, info.ID)
		}
		slot.config = info.Config
		slot.state = sanitizeCar(info.State)
		slot.prevJump = info.State.LastControls.Jump
	}
	return nil
}

// ResetKickoff puts the ball on the center spot, every car on its kickoff
// spot with starting boost, and reactivates every pad.
func (a *Arena) ResetKickoff() {
	a.mu.Lock()

	a.ball = models.DefaultBall()
	for i := range a.padStates {
		a.padStates[i] = models.BoostPadState{IsActive: true}
	}

	counts := map[models.Team]int{}
	for _, id := range a.order {
		slot := a.cars[id]
		slot.slot = counts[slot.team]
		counts[slot.team]++

		sp := kickoffSpawn(slot.team, slot.slot)
		car := models.DefaultCar()
		car.Pos = sp.pos()
		car.RotMat = physics.Angle{Yaw: sp.yaw}.ToRotMat()
		car.LastHitBallTick = slot.state.LastHitBallTick
		slot.state = car
		slot.controls = models.CarControls{}
		slot.prevJump = false
	}
	a.log.Debug("kickoff reset", log.Tick(a.ticks), log.Int("cars", len(a.order)))
	a.emit(bus.Event{Kind: bus.KindKickoff, Tick: a.ticks, Pos: a.ball.Pos})
	events := a.takeEvents()
	a.mu.Unlock()

	a.publish(events)
}

// Step advances the session by ticks fixed steps.
func (a *Arena) Step(ticks uint32) {
	a.mu.Lock()
	for i := uint32(0); i < ticks; i++ {
		a.tick()
	}
	events := a.takeEvents()
	a.mu.Unlock()

	a.publish(events)
}

// emit queues an event. Callers hold a.mu.
func (a *Arena) emit(e bus.Event) {
	if a.events != nil {
		a.pending = append(a.pending, e)
	}
}

func (a *Arena) takeEvents() []bus.Event {
	events := a.pending
	a.pending = nil
	return events
}

func (a *Arena) publish(events []bus.Event) {
	if len(events) == 0 {
		return
	}
	if err := a.events.PublishBatch(events...); err != nil {
		a.log.Warn("event handlers failed", log.Int("events", len(events)), log.Error(err))
	}
}

// CarIDs returns the live ids in ascending order.
func (a *Arena) CarIDs() []uint32 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	ids := append([]uint32(nil), a.order...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// freeSlot returns the lowest spawn index no other car of team holds.
func (a *Arena) freeSlot(team models.Team, id uint32) int {
	used := make(map[int]struct{}, len(a.cars))
	for _, slot := range a.cars {
		if slot.team == team && slot.id != id {
			used[slot.slot] = struct{}{}
		}
	}
	n := 0
	for {
		if _, ok := used[n]; !ok {
			return n
		}
		n++
	}
}

func clean(v physics.Vec3) physics.Vec3 { return physics.NewVec3(v.X, v.Y, v.Z) }

func sanitizeBall(b models.Ball) models.Ball {
	return models.Ball{Pos: clean(b.Pos), Vel: clean(b.Vel), AngVel: clean(b.AngVel)}
}

func sanitizeCar(c models.Car) models.Car {
	c.Pos = clean(c.Pos)
	c.Vel = clean(c.Vel)
	c.AngVel = clean(c.AngVel)
	c.RotMat = physics.RotMat{
		Forward: clean(c.RotMat.Forward),
		Right:   clean(c.RotMat.Right),
		Up:      clean(c.RotMat.Up),
	}
	c.LastRelDodgeTorque = clean(c.LastRelDodgeTorque)
	c.ContactNormal = clean(c.ContactNormal)
	return c
}
