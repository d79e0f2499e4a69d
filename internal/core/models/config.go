package models

import (
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/carball/internal/core/systems/physics"
)

// WheelPairConfig describes one axle.
type WheelPairConfig struct {
	WheelRadius           float32      `json:"wheel_radius" yaml:"wheel_radius" msgpack:"wheel_radius"`
	SuspensionRestLength  float32      `json:"suspension_rest_length" yaml:"suspension_rest_length" msgpack:"suspension_rest_length"`
	ConnectionPointOffset physics.Vec3 `json:"connection_point_offset" yaml:"connection_point_offset" msgpack:"connection_point_offset"`
}

// CarConfig is a car body archetype. Values are shared by every car using
// it and are never changed after construction.
type CarConfig struct {
	HitboxSize      physics.Vec3    `json:"hitbox_size" yaml:"hitbox_size" msgpack:"hitbox_size"`
	HitboxPosOffset physics.Vec3    `json:"hitbox_pos_offset" yaml:"hitbox_pos_offset" msgpack:"hitbox_pos_offset"`
	FrontWheels     WheelPairConfig `json:"front_wheels" yaml:"front_wheels" msgpack:"front_wheels"`
	BackWheels      WheelPairConfig `json:"back_wheels" yaml:"back_wheels" msgpack:"back_wheels"`
	DodgeDeadzone   float32         `json:"dodge_deadzone" yaml:"dodge_deadzone" msgpack:"dodge_deadzone"`
}

const defaultDodgeDeadzone float32 = 0.5

func wheels(radius, rest, x, y, z float32) WheelPairConfig {
	return WheelPairConfig{
		WheelRadius:           radius,
		SuspensionRestLength:  rest,
		ConnectionPointOffset: physics.NewVec3(x, y, z),
	}
}

func Octane() CarConfig {
	return CarConfig{
		HitboxSize:      physics.NewVec3(120.507, 86.6994, 38.6591),
		HitboxPosOffset: physics.NewVec3(13.8757, 0, 20.755),
		FrontWheels:     wheels(12.50, 38.755, 51.25, 25.90, 20.755),
		BackWheels:      wheels(15.00, 37.055, -33.75, 29.50, 20.755),
		DodgeDeadzone:   defaultDodgeDeadzone,
	}
}

func Dominus() CarConfig {
	return CarConfig{
		HitboxSize:      physics.NewVec3(130.427, 85.7799, 33.8),
		HitboxPosOffset: physics.NewVec3(9, 0, 15.75),
		FrontWheels:     wheels(12.00, 33.95, 50.30, 31.10, 15.75),
		BackWheels:      wheels(13.50, 33.85, -34.75, 33.00, 15.75),
		DodgeDeadzone:   defaultDodgeDeadzone,
	}
}

func Plank() CarConfig {
	return CarConfig{
		HitboxSize:      physics.NewVec3(131.32, 87.1704, 31.8944),
		HitboxPosOffset: physics.NewVec3(9.00857, 0, 12.0942),
		FrontWheels:     wheels(12.50, 31.9242, 49.97, 27.80, 12.0942),
		BackWheels:      wheels(17.00, 27.9242, -35.43, 20.28, 12.0942),
		DodgeDeadzone:   defaultDodgeDeadzone,
	}
}

func Breakout() CarConfig {
	return CarConfig{
		HitboxSize:      physics.NewVec3(133.992, 83.0266, 32.8),
		HitboxPosOffset: physics.NewVec3(12.5, 0, 11.75),
		FrontWheels:     wheels(13.50, 29.7, 51.50, 26.67, 11.75),
		BackWheels:      wheels(15.00, 29.666, -35.75, 35.00, 11.75),
		DodgeDeadzone:   defaultDodgeDeadzone,
	}
}

func Hybrid() CarConfig {
	return CarConfig{
		HitboxSize:      physics.NewVec3(129.519, 84.6879, 36.6591),
		HitboxPosOffset: physics.NewVec3(13.8757, 0, 20.755),
		FrontWheels:     wheels(12.50, 38.755, 51.25, 25.90, 20.755),
		BackWheels:      wheels(15.00, 37.055, -34.00, 29.50, 20.755),
		DodgeDeadzone:   defaultDodgeDeadzone,
	}
}

func Merc() CarConfig {
	return CarConfig{
		HitboxSize:      physics.NewVec3(123.22, 79.2103, 44.1591),
		HitboxPosOffset: physics.NewVec3(11.3757, 0, 21.505),
		FrontWheels:     wheels(15.00, 39.505, 51.25, 25.90, 21.505),
		BackWheels:      wheels(15.00, 39.105, -33.75, 29.50, 21.505),
		DodgeDeadzone:   defaultDodgeDeadzone,
	}
}

var presets = map[string]func() CarConfig{
	"octane":   Octane,
	"dominus":  Dominus,
	"plank":    Plank,
	"breakout": Breakout,
	"hybrid":   Hybrid,
	"merc":     Merc,
}

// CarConfigByName looks up a built-in archetype, ignoring case.
func CarConfigByName(name string) (CarConfig, error) {
	f, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return CarConfig{}, errors.Wrapf(ErrUnknownArchetype, "%q", name)
	}
	return f(), nil
}

// PresetNames lists the built-in archetypes in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ArchetypeSpec is one entry of an archetype catalog file. Base names a
// preset whose values are used for every field the entry leaves out.
type ArchetypeSpec struct {
	Name            string           `yaml:"name"`
	Base            string           `yaml:"base"`
	HitboxSize      *physics.Vec3    `yaml:"hitbox_size"`
	HitboxPosOffset *physics.Vec3    `yaml:"hitbox_pos_offset"`
	FrontWheels     *WheelPairConfig `yaml:"front_wheels"`
	BackWheels      *WheelPairConfig `yaml:"back_wheels"`
	DodgeDeadzone   *float32         `yaml:"dodge_deadzone"`
}

type archetypeCatalog struct {
	Archetypes []ArchetypeSpec `yaml:"archetypes"`
}

// LoadCarConfigs decodes an archetype catalog. The result also contains
// every built-in preset; catalog entries may override them by name.
func LoadCarConfigs(r io.Reader) (map[string]CarConfig, error) {
	var catalog archetypeCatalog
	if err := yaml.NewDecoder(r).Decode(&catalog); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode archetype catalog")
	}

	out := make(map[string]CarConfig, len(presets)+len(catalog.Archetypes))
	for name, f := range presets {
		out[name] = f()
	}

	for i, spec := range catalog.Archetypes {
		name := strings.ToLower(strings.TrimSpace(spec.Name))
		if name == "" {
			return nil, errors.Errorf("archetype #%d has no name", i)
		}

		cfg := Octane()
		if baseName := strings.ToLower(strings.TrimSpace(spec.Base)); baseName != "" {
			base, ok := out[baseName]
			if !ok {
				return nil, errors.Wrapf(ErrUnknownArchetype, "base %q of %q", spec.Base, spec.Name)
			}
			cfg = base
		}
		if spec.HitboxSize != nil {
			cfg.HitboxSize = physics.NewVec3(spec.HitboxSize.X, spec.HitboxSize.Y, spec.HitboxSize.Z)
		}
		if spec.HitboxPosOffset != nil {
			cfg.HitboxPosOffset = physics.NewVec3(spec.HitboxPosOffset.X, spec.HitboxPosOffset.Y, spec.HitboxPosOffset.Z)
		}
		if spec.FrontWheels != nil {
			cfg.FrontWheels = *spec.FrontWheels
		}
		if spec.BackWheels != nil {
			cfg.BackWheels = *spec.BackWheels
		}
		if spec.DodgeDeadzone != nil {
			cfg.DodgeDeadzone = *spec.DodgeDeadzone
		}
		out[name] = cfg
	}
	return out, nil
}
