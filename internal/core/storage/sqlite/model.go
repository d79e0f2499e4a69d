package sqlitestorage

import (
	"time"

	"github.com/zeusync/carball/internal/core/models"
	"github.com/zeusync/carball/internal/core/systems/physics"
)

var tables = []any{
	&Session{},
	&Snapshot{},
	&CarState{},
}

// Session is one recorded arena run.
type Session struct {
	ID        string    `gorm:"primarykey;size:36"`
	CreatedAt time.Time `gorm:"index:idx_session_created_at"`
}

// Snapshot is one tick of a session. Pads are stored as a msgpack blob;
// the ball is flattened into columns.
type Snapshot struct {
	ID        uint      `gorm:"primarykey;autoIncrement;"`
	SessionID string    `gorm:"size:36;uniqueIndex:idx_snapshot_session_tick"`
	Tick      uint64    `gorm:"uniqueIndex:idx_snapshot_session_tick"`
	TickRate  float32   `gorm:"default:120"`
	Checksum  int64     // xxhash of the canonical encoding, bit-cast
	Ball      BallState `gorm:"embedded;embeddedPrefix:ball_"`
	Pads      []byte
	CreatedAt time.Time
}

type BallState struct {
	PosX, PosY, PosZ          float32
	VelX, VelY, VelZ          float32
	AngVelX, AngVelY, AngVelZ float32
}

// CarState is one roster entry of a snapshot. The queryable columns are
// denormalised from State, which holds the exact msgpack encoding.
type CarState struct {
	ID         uint   `gorm:"primarykey;autoIncrement;"`
	SnapshotID uint   `gorm:"index:idx_carstate_snapshot_id"`
	Slot       int    // roster position
	CarID      uint32 `gorm:"index:idx_carstate_car_id"`
	Team       string `gorm:"size:16"`

	PosX, PosY, PosZ float32
	Speed            float32
	Boost            float32
	IsOnGround       bool `gorm:"default:false"`
	IsSupersonic     bool `gorm:"default:false"`
	IsDemoed         bool `gorm:"default:false"`

	State  []byte
	Config []byte
}

func ballToRow(b models.Ball) BallState {
	return BallState{
		PosX: b.Pos.X, PosY: b.Pos.Y, PosZ: b.Pos.Z,
		VelX: b.Vel.X, VelY: b.Vel.Y, VelZ: b.Vel.Z,
		AngVelX: b.AngVel.X, AngVelY: b.AngVel.Y, AngVelZ: b.AngVel.Z,
	}
}

func rowToBall(r BallState) models.Ball {
	return models.Ball{
		Pos:    physics.NewVec3(r.PosX, r.PosY, r.PosZ),
		Vel:    physics.NewVec3(r.VelX, r.VelY, r.VelZ),
		AngVel: physics.NewVec3(r.AngVelX, r.AngVelY, r.AngVelZ),
	}
}
