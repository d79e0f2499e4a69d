// Package storage defines how sessions are persisted by embedding
// applications. The engine itself never touches storage.
package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/zeusync/carball/internal/core/models"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrCorruptSnapshot  = errors.New("snapshot checksum mismatch")
	ErrClosed           = errors.New("recorder closed")
)

// Recorder persists game state snapshots of one session.
type Recorder interface {
	SessionID() uuid.UUID
	// RecordSnapshot stores gs under its tick count. A tick can be recorded
	// once per session.
	RecordSnapshot(ctx context.Context, gs models.GameState) error
	// LoadSnapshot reads the snapshot taken at tick back into canonical form.
	LoadSnapshot(ctx context.Context, tick uint64) (models.GameState, error)
	// Ticks lists the recorded ticks in ascending order.
	Ticks(ctx context.Context) ([]uint64, error)
	Close() error
}

// ShouldRecord reports whether tick falls on the recording cadence.
func ShouldRecord(tick, every uint64) bool {
	return every > 0 && tick%every == 0
}

type nopRecorder struct {
	id uuid.UUID
}

// NewNop returns a Recorder that keeps nothing.
func NewNop() Recorder {
	return nopRecorder{id: uuid.New()}
}

func (n nopRecorder) SessionID() uuid.UUID { return n.id }

func (nopRecorder) RecordSnapshot(context.Context, models.GameState) error { return nil }

func (nopRecorder) LoadSnapshot(_ context.Context, tick uint64) (models.GameState, error) {
	return models.GameState{}, errors.Wrapf(ErrSnapshotNotFound, "tick %d", tick)
}

func (nopRecorder) Ticks(context.Context) ([]uint64, error) { return nil, nil }

func (nopRecorder) Close() error { return nil }
