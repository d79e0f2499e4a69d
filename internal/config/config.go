package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const EnvPrefix = "CARBALL"

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// CarSpec is a car added to the arena at startup.
type CarSpec struct {
	Team      string `mapstructure:"team"`
	Archetype string `mapstructure:"archetype"`
}

type SimConfig struct {
	TickRate       float32   `mapstructure:"tickRate"`
	ArchetypesFile string    `mapstructure:"archetypesFile"`
	Cars           []CarSpec `mapstructure:"cars"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// BroadcastEvery sends a snapshot frame every n ticks.
	BroadcastEvery int `mapstructure:"broadcastEvery"`
}

type RecorderConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Every   int    `mapstructure:"every"`
}

type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Sim      SimConfig      `mapstructure:"sim"`
	Server   ServerConfig   `mapstructure:"server"`
	Recorder RecorderConfig `mapstructure:"recorder"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("sim.tickRate", 120)
	v.SetDefault("sim.archetypesFile", "")
	v.SetDefault("sim.cars", []map[string]string{
		{"team": "blue", "archetype": "octane"},
		{"team": "orange", "archetype": "octane"},
	})

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.broadcastEvery", 4)

	v.SetDefault("recorder.enabled", false)
	v.SetDefault("recorder.path", "carball.db")
	v.SetDefault("recorder.every", 120)
}

// Load reads configuration from defaults, an optional YAML file, an
// optional .env file and CARBALL_* environment variables, in increasing
// order of precedence. Empty paths are skipped.
func Load(configFile, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "load env file %s", envFile)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", configFile)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Sim.TickRate <= 0 {
		return errors.Errorf("sim.tickRate must be positive, got %v", c.Sim.TickRate)
	}
	if c.Server.BroadcastEvery < 1 {
		return errors.Errorf("server.broadcastEvery must be at least 1, got %d", c.Server.BroadcastEvery)
	}
	if c.Recorder.Enabled && c.Recorder.Every < 1 {
		return errors.Errorf("recorder.every must be at least 1, got %d", c.Recorder.Every)
	}
	return nil
}
