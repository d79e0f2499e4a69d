package system

import (
	"github.com/zeusync/carball/internal/core/models"
)

// CarEntry is one element of Engine.GetCars.
type CarEntry struct {
	ID     uint32
	Car    models.Car
	Config models.CarConfig
}

// Engine is the simulation boundary the state model is read from and
// written to. Every getter returns copies; writes replace state wholesale.
// Implementations serialise reads, steps and writes on one instance.
type Engine interface {
	models.CarRegistry

	// Roster

	AddCar(team models.Team, config models.CarConfig) uint32
	RemoveCar(id uint32) error
	SetCarControls(id uint32, controls models.CarControls) error
	GetCars() []CarEntry
	SetCar(id uint32, car models.Car) error
	CarTeam(id uint32) (models.Team, bool)

	// Time

	Step(ticks uint32)
	TickRate() float32
	TickCount() uint64

	// Ball

	GetBall() models.Ball
	SetBall(ball models.Ball)

	// Pads

	NumPads() int
	PadStatics() models.Iterator[models.BoostPadConfig]
	PadStates() models.Iterator[models.BoostPadState]
	SetPadState(index int, state models.BoostPadState) error

	// Snapshots

	GetGameState() models.GameState
	SetGameState(state models.GameState) error
	ResetKickoff()
}
