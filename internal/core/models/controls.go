package models

// CarControls is one tick of player input. Analog axes are in [-1, 1].
type CarControls struct {
	Throttle  float32 `json:"throttle" yaml:"throttle" msgpack:"throttle"`
	Steer     float32 `json:"steer" yaml:"steer" msgpack:"steer"`
	Pitch     float32 `json:"pitch" yaml:"pitch" msgpack:"pitch"`
	Yaw       float32 `json:"yaw" yaml:"yaw" msgpack:"yaw"`
	Roll      float32 `json:"roll" yaml:"roll" msgpack:"roll"`
	Boost     bool    `json:"boost" yaml:"boost" msgpack:"boost"`
	Jump      bool    `json:"jump" yaml:"jump" msgpack:"jump"`
	Handbrake bool    `json:"handbrake" yaml:"handbrake" msgpack:"handbrake"`
}

// Clamp limits every analog axis to [-1, 1].
func (c CarControls) Clamp() CarControls {
	c.Throttle = clampUnit(c.Throttle)
	c.Steer = clampUnit(c.Steer)
	c.Pitch = clampUnit(c.Pitch)
	c.Yaw = clampUnit(c.Yaw)
	c.Roll = clampUnit(c.Roll)
	return c
}

// HasDodgeInput reports whether the stick is far enough from center for a
// second jump to become a flip instead of a double jump.
func (c CarControls) HasDodgeInput(deadzone float32) bool {
	return abs32(c.Pitch)+abs32(c.Yaw)+abs32(c.Roll) >= deadzone
}

func clampUnit(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
