package arena

import (
	"math"

	"github.com/zeusync/carball/internal/core/models"
	"github.com/zeusync/carball/internal/core/systems/physics"
)

type spawn struct {
	x, y, yaw float32
}

var kickoffBlue = []spawn{
	{-2048, -2560, math.Pi / 4},
	{2048, -2560, 3 * math.Pi / 4},
	{-256, -3840, math.Pi / 2},
	{256, -3840, math.Pi / 2},
	{0, -4608, math.Pi / 2},
}

var respawnBlue = []spawn{
	{-2304, -4608, math.Pi / 2},
	{-2688, -4608, math.Pi / 2},
	{2304, -4608, math.Pi / 2},
	{2688, -4608, math.Pi / 2},
}

// forTeam mirrors a blue spawn to the orange half.
func (s spawn) forTeam(team models.Team) spawn {
	if team == models.TeamOrange {
		return spawn{x: s.x, y: -s.y, yaw: -s.yaw}
	}
	return s
}

func (s spawn) pos() physics.Vec3 {
	return physics.NewVec3(s.x, s.y, models.CarSpawnZ)
}

func kickoffSpawn(team models.Team, slot int) spawn {
	return kickoffBlue[slot%len(kickoffBlue)].forTeam(team)
}

func respawnSpawn(team models.Team, slot int) spawn {
	return respawnBlue[slot%len(respawnBlue)].forTeam(team)
}

func big(x, y float32) models.BoostPadConfig {
	return models.BoostPadConfig{IsBig: true, Position: physics.NewVec3(x, y, BigPadZ)}
}

func small(x, y float32) models.BoostPadConfig {
	return models.BoostPadConfig{Position: physics.NewVec3(x, y, SmallPadZ)}
}

// StandardPads returns the soccar pad layout: 6 big, 28 small.
func StandardPads() []models.BoostPadConfig {
	return []models.BoostPadConfig{
		small(0, -4240),
		small(-1792, -4184),
		small(1792, -4184),
		big(-3072, -4096),
		big(3072, -4096),
		small(-940, -3308),
		small(940, -3308),
		small(0, -2816),
		small(-3584, -2484),
		small(3584, -2484),
		small(-1788, -2300),
		small(1788, -2300),
		small(-2048, -1036),
		small(0, -1024),
		small(2048, -1036),
		big(-3584, 0),
		small(-1024, 0),
		small(1024, 0),
		big(3584, 0),
		small(-2048, 1036),
		small(0, 1024),
		small(2048, 1036),
		small(-1788, 2300),
		small(1788, 2300),
		small(-3584, 2484),
		small(3584, 2484),
		small(0, 2816),
		small(-940, 3310),
		small(940, 3308),
		big(-3072, 4096),
		big(3072, 4096),
		small(-1792, 4184),
		small(1792, 4184),
		small(0, 4240),
	}
}
