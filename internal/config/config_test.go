package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, float32(120), cfg.Sim.TickRate)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 4, cfg.Server.BroadcastEvery)
	assert.False(t, cfg.Recorder.Enabled)
	assert.Equal(t, "carball.db", cfg.Recorder.Path)
	require.Len(t, cfg.Sim.Cars, 2)
	assert.Equal(t, CarSpec{Team: "blue", Archetype: "octane"}, cfg.Sim.Cars[0])
}

func TestLoad_WithConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "carball.yaml")
	content := `
log:
  level: debug
sim:
  tickRate: 60
  cars:
    - team: orange
      archetype: dominus
recorder:
  enabled: true
  every: 30
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))

	cfg, err := Load(file, "")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, float32(60), cfg.Sim.TickRate)
	assert.Equal(t, []CarSpec{{Team: "orange", Archetype: "dominus"}}, cfg.Sim.Cars)
	assert.True(t, cfg.Recorder.Enabled)
	assert.Equal(t, 30, cfg.Recorder.Every)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CARBALL_SERVER_ADDR", "127.0.0.1:9000")

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("CARBALL_LOG_LEVEL=warn\n"), 0644))
	t.Cleanup(func() { _ = os.Unsetenv("CARBALL_LOG_LEVEL") })

	cfg, err := Load("", envFile)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CARBALL_SIM_TICKRATE", "0")
	_, err := Load("", "")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)
}
