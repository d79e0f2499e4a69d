// Package sqlitestorage records sessions into SQLite through GORM. An empty
// path keeps the database in memory; Dump writes it out with VACUUM INTO.
package sqlitestorage

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zeusync/carball/internal/core/models"
	"github.com/zeusync/carball/internal/core/observability/log"
	"github.com/zeusync/carball/internal/core/storage"
)

var _ storage.Recorder = (*Recorder)(nil)

type Config struct {
	// Path of the database file. Empty means a private in-memory database.
	Path string
	// SessionID resumes an existing session. Zero starts a new one.
	SessionID uuid.UUID
	Logger    log.Log
}

type Recorder struct {
	db      *gorm.DB
	session uuid.UUID
	log     log.Log
	closed  atomic.Bool
}

// Open connects, migrates the schema and registers the session.
func Open(cfg Config) (*Recorder, error) {
	l := cfg.Logger
	if l == nil {
		l = log.NewNop()
	}
	session := cfg.SessionID
	if session == uuid.Nil {
		session = uuid.New()
	}

	dsn := cfg.Path
	if dsn == "" {
		dsn = "file:carball-" + session.String() + "?mode=memory&cache=shared"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        500,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite %q", cfg.Path)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "access sql interface")
	}
	// A single connection keeps the in-memory database alive and avoids
	// SQLITE_BUSY between writers.
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA temp_store = MEMORY;",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			_ = sqlDB.Close()
			return nil, errors.Wrapf(err, "set %s", pragma)
		}
	}

	if err := db.AutoMigrate(tables...); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "migrate schema")
	}

	row := Session{ID: session.String(), CreatedAt: time.Now().UTC()}
	if err := db.Where(Session{ID: row.ID}).FirstOrCreate(&row).Error; err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "register session")
	}

	l = l.With(log.Session(session.String()))
	l.Info("recorder opened", log.String("path", cfg.Path))

	return &Recorder{db: db, session: session, log: l}, nil
}

func (r *Recorder) SessionID() uuid.UUID { return r.session }

func (r *Recorder) RecordSnapshot(ctx context.Context, gs models.GameState) error {
	if r.closed.Load() {
		return storage.ErrClosed
	}

	gs = normalize(gs)
	sum, err := models.Checksum(gs)
	if err != nil {
		return err
	}
	pads, err := msgpack.Marshal(gs.Pads)
	if err != nil {
		return errors.Wrap(err, "encode pads")
	}

	snap := Snapshot{
		SessionID: r.session.String(),
		Tick:      gs.TickCount,
		TickRate:  gs.TickRate,
		Checksum:  int64(sum),
		Ball:      ballToRow(gs.Ball),
		Pads:      pads,
	}

	cars := make([]CarState, 0, len(gs.Cars))
	for i, info := range gs.Cars {
		state, err := msgpack.Marshal(info.State)
		if err != nil {
			return errors.Wrapf(err, "encode car %d", info.ID)
		}
		config, err := msgpack.Marshal(info.Config)
		if err != nil {
			return errors.Wrapf(err, "encode config of car %d", info.ID)
		}
		cars = append(cars, CarState{
			Slot:         i,
			CarID:        info.ID,
			Team:         info.Team.String(),
			PosX:         info.State.Pos.X,
			PosY:         info.State.Pos.Y,
			PosZ:         info.State.Pos.Z,
			Speed:        info.State.Speed(),
			Boost:        info.State.Boost,
			IsOnGround:   info.State.IsOnGround,
			IsSupersonic: info.State.IsSupersonic,
			IsDemoed:     info.State.IsDemoed,
			State:        state,
			Config:       config,
		})
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&snap).Error; err != nil {
			return errors.Wrapf(err, "insert snapshot at tick %d", gs.TickCount)
		}
		if len(cars) == 0 {
			return nil
		}
		for i := range cars {
			cars[i].SnapshotID = snap.ID
		}
		return errors.Wrap(tx.Create(&cars).Error, "insert car states")
	})
	if err != nil {
		return err
	}

	r.log.Debug("snapshot recorded", log.Tick(gs.TickCount), log.Int("cars", len(cars)))
	return nil
}

func (r *Recorder) LoadSnapshot(ctx context.Context, tick uint64) (models.GameState, error) {
	if r.closed.Load() {
		return models.GameState{}, storage.ErrClosed
	}

	db := r.db.WithContext(ctx)

	var snap Snapshot
	err := db.Where("session_id = ? AND tick = ?", r.session.String(), tick).First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.GameState{}, errors.Wrapf(storage.ErrSnapshotNotFound, "tick %d", tick)
	}
	if err != nil {
		return models.GameState{}, errors.Wrapf(err, "query snapshot at tick %d", tick)
	}

	var rows []CarState
	if err := db.Where("snapshot_id = ?", snap.ID).Order("slot").Find(&rows).Error; err != nil {
		return models.GameState{}, errors.Wrapf(err, "query cars at tick %d", tick)
	}

	gs := models.GameState{
		TickRate:  snap.TickRate,
		TickCount: snap.Tick,
		Ball:      rowToBall(snap.Ball),
		Cars:      make([]models.CarInfo, 0, len(rows)),
	}
	if err := msgpack.Unmarshal(snap.Pads, &gs.Pads); err != nil {
		return models.GameState{}, errors.Wrap(err, "decode pads")
	}
	for _, row := range rows {
		info := models.CarInfo{ID: row.CarID}
		team, err := models.ParseTeam(row.Team)
		if err != nil {
			return models.GameState{}, err
		}
		info.Team = team
		if err := msgpack.Unmarshal(row.State, &info.State); err != nil {
			return models.GameState{}, errors.Wrapf(err, "decode car %d", row.CarID)
		}
		if err := msgpack.Unmarshal(row.Config, &info.Config); err != nil {
			return models.GameState{}, errors.Wrapf(err, "decode config of car %d", row.CarID)
		}
		gs.Cars = append(gs.Cars, info)
	}

	gs = normalize(gs)
	sum, err := models.Checksum(gs)
	if err != nil {
		return models.GameState{}, err
	}
	if int64(sum) != snap.Checksum {
		return models.GameState{}, errors.Wrapf(storage.ErrCorruptSnapshot, "tick %d", tick)
	}
	return gs, nil
}

func (r *Recorder) Ticks(ctx context.Context) ([]uint64, error) {
	if r.closed.Load() {
		return nil, storage.ErrClosed
	}

	var ticks []uint64
	err := r.db.WithContext(ctx).Model(&Snapshot{}).
		Where("session_id = ?", r.session.String()).
		Order("tick").
		Pluck("tick", &ticks).Error
	return ticks, errors.Wrap(err, "list ticks")
}

// Dump writes a consistent copy of the database to path.
func (r *Recorder) Dump(path string) error {
	if r.closed.Load() {
		return storage.ErrClosed
	}

	start := time.Now()
	if err := r.db.Exec("VACUUM INTO ?", path).Error; err != nil {
		return errors.Wrapf(err, "dump to %q", path)
	}
	r.log.Debug("database dumped", log.String("path", path), log.Duration("took", time.Since(start)))
	return nil
}

func (r *Recorder) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}

	sqlDB, err := r.db.DB()
	if err != nil {
		return errors.Wrap(err, "access sql interface")
	}
	r.log.Info("recorder closed")
	return sqlDB.Close()
}

// normalize replaces nil slices with empty ones so that a state hashes the
// same before and after a round trip through the database.
func normalize(gs models.GameState) models.GameState {
	if gs.Cars == nil {
		gs.Cars = []models.CarInfo{}
	}
	if gs.Pads == nil {
		gs.Pads = []models.BoostPad{}
	}
	return gs
}
