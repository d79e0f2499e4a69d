package models

import "github.com/zeusync/carball/internal/core/systems/physics"

// Ball is the rigid-body state of the single ball in a session.
type Ball struct {
	Pos    physics.Vec3 `json:"pos" yaml:"pos" msgpack:"pos"`
	Vel    physics.Vec3 `json:"vel" yaml:"vel" msgpack:"vel"`
	AngVel physics.Vec3 `json:"ang_vel" yaml:"ang_vel" msgpack:"ang_vel"`
}

// DefaultBall rests on the center spot.
func DefaultBall() Ball {
	return Ball{Pos: physics.NewVec3(0, 0, BallRestZ)}
}
