package mirror

import (
	"github.com/zeusync/carball/internal/core/models"
	"github.com/zeusync/carball/internal/core/systems/vecmath"
)

// CarFeatures is the per-car observation handed to analytics and learning
// consumers.
type CarFeatures struct {
	ID           uint32      `json:"id"`
	Team         models.Team `json:"team"`
	BallLocal    [3]float32  `json:"ball_local"`
	BallDistance float32     `json:"ball_distance"`
	Speed        float32     `json:"speed"`
	ForwardSpeed float32     `json:"forward_speed"`
	Boost        float32     `json:"boost"`
	IsSupersonic bool        `json:"is_supersonic"`
	IsDemoed     bool        `json:"is_demoed"`
}

// RelativeBallPos is the ball position in the car's local frame:
// x forward, y right, z up.
func RelativeBallPos(car CarA, ball BallA) vecmath.Vec3A {
	return car.RotMat.TransposeMulVec3(ball.Pos.Sub(car.Pos))
}

// BallDistances returns the car-to-ball distance per roster entry.
func BallDistances(s GameStateA) []float32 {
	out := make([]float32, len(s.Cars))
	for i, info := range s.Cars {
		out[i] = s.Ball.Pos.Sub(info.State.Pos).Length()
	}
	return out
}

// Features computes CarFeatures for every car in the snapshot.
func Features(s GameStateA) []CarFeatures {
	out := make([]CarFeatures, len(s.Cars))
	for i, info := range s.Cars {
		car := info.State
		local := RelativeBallPos(car, s.Ball)
		out[i] = CarFeatures{
			ID:           info.ID,
			Team:         info.Team,
			BallLocal:    [3]float32{local.X(), local.Y(), local.Z()},
			BallDistance: local.Length(),
			Speed:        car.Vel.Length(),
			ForwardSpeed: car.Vel.Dot(car.RotMat.XAxis),
			Boost:        car.Boost,
			IsSupersonic: car.IsSupersonic,
			IsDemoed:     car.IsDemoed,
		}
	}
	return out
}
