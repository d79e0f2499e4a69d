package injector

import (
	"io"
	"os"
	"strings"

	"github.com/google/wire"
	"github.com/pkg/errors"

	"github.com/zeusync/carball/internal/config"
	"github.com/zeusync/carball/internal/core/arena"
	"github.com/zeusync/carball/internal/core/events/bus"
	"github.com/zeusync/carball/internal/core/models"
	"github.com/zeusync/carball/internal/core/observability/log"
	"github.com/zeusync/carball/internal/core/storage"
	sqlitestorage "github.com/zeusync/carball/internal/core/storage/sqlite"
	"github.com/zeusync/carball/internal/core/system"
	"github.com/zeusync/carball/internal/server"
)

// Catalog maps lowercase archetype names to car configs.
type Catalog map[string]models.CarConfig

var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideCatalog,
	ProvideEventBus,
	ProvideArena,
	wire.Bind(new(system.Engine), new(*arena.Arena)),
	ProvideRecorder,
	ProvideServerConfig,
	server.NewServer,
)

func ProvideLogger(cfg *config.Config) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return log.New(level), nil
}

// ProvideCatalog loads the archetype file on top of the built-in presets.
func ProvideCatalog(cfg *config.Config) (Catalog, error) {
	var r io.Reader = strings.NewReader("")
	if cfg.Sim.ArchetypesFile != "" {
		f, err := os.Open(cfg.Sim.ArchetypesFile)
		if err != nil {
			return nil, errors.Wrap(err, "open archetypes file")
		}
		defer f.Close()
		r = f
	}

	catalog, err := models.LoadCarConfigs(r)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", cfg.Sim.ArchetypesFile)
	}
	return catalog, nil
}

// ProvideEventBus returns the bus shared by the arena and the server.
func ProvideEventBus() bus.EventBus {
	return bus.New()
}

// ProvideArena builds the standard arena with the configured roster.
func ProvideArena(cfg *config.Config, catalog Catalog, events bus.EventBus, logger *log.Logger) (*arena.Arena, error) {
	a := arena.DefaultStandard(
		arena.WithTickRate(cfg.Sim.TickRate),
		arena.WithLogger(logger.With(log.String("component", "arena"))),
		arena.WithEventBus(events),
	)

	for i, spec := range cfg.Sim.Cars {
		team, err := models.ParseTeam(spec.Team)
		if err != nil {
			return nil, errors.Wrapf(err, "sim.cars[%d]", i)
		}
		carConfig, ok := catalog[strings.ToLower(strings.TrimSpace(spec.Archetype))]
		if !ok {
			return nil, errors.Wrapf(models.ErrUnknownArchetype, "sim.cars[%d]: %q", i, spec.Archetype)
		}
		id := a.AddCar(team, carConfig)
		logger.Info("car spawned",
			log.CarID(id),
			log.String("team", team.String()),
			log.String("archetype", spec.Archetype))
	}
	return a, nil
}

// ProvideRecorder opens the SQLite recorder when enabled.
func ProvideRecorder(cfg *config.Config, logger *log.Logger) (storage.Recorder, func(), error) {
	if !cfg.Recorder.Enabled {
		return storage.NewNop(), func() {}, nil
	}

	rec, err := sqlitestorage.Open(sqlitestorage.Config{
		Path:   cfg.Recorder.Path,
		Logger: logger.With(log.String("component", "recorder")),
	})
	if err != nil {
		return nil, nil, err
	}
	return rec, func() { _ = rec.Close() }, nil
}

func ProvideServerConfig(cfg *config.Config) server.Config {
	sc := server.DefaultServerConfig()
	sc.ListenAddr = cfg.Server.Addr
	sc.BroadcastEvery = uint32(cfg.Server.BroadcastEvery)
	if cfg.Recorder.Enabled {
		sc.RecordEvery = uint64(cfg.Recorder.Every)
	}
	return sc
}
