package models

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/zeusync/carball/pkg/generic"
)

// CarInfo is one roster entry.
type CarInfo struct {
	ID     uint32    `json:"id" yaml:"id" msgpack:"id"`
	Team   Team      `json:"team" yaml:"team" msgpack:"team"`
	State  Car       `json:"state" yaml:"state" msgpack:"state"`
	Config CarConfig `json:"config" yaml:"config" msgpack:"config"`
}

// GameState is a complete snapshot of a session at a tick boundary.
type GameState struct {
	TickRate  float32    `json:"tick_rate" yaml:"tick_rate" msgpack:"tick_rate"`
	TickCount uint64     `json:"tick_count" yaml:"tick_count" msgpack:"tick_count"`
	Cars      []CarInfo  `json:"cars" yaml:"cars" msgpack:"cars"`
	Ball      Ball       `json:"ball" yaml:"ball" msgpack:"ball"`
	Pads      []BoostPad `json:"pads" yaml:"pads" msgpack:"pads"`
}

// FindCar returns the roster entry for id.
func (s GameState) FindCar(id uint32) (CarInfo, bool) {
	for _, info := range s.Cars {
		if info.ID == id {
			return info, true
		}
	}
	return CarInfo{}, false
}

// GetCar makes a snapshot usable as a CarRegistry.
func (s GameState) GetCar(id uint32) (Car, bool) {
	info, ok := s.FindCar(id)
	return info.State, ok
}

// Clone copies the roster and pad slices so the result shares no memory
// with s.
func (s GameState) Clone() GameState {
	out := s
	if s.Cars != nil {
		out.Cars = make([]CarInfo, len(s.Cars))
		copy(out.Cars, s.Cars)
	}
	if s.Pads != nil {
		out.Pads = make([]BoostPad, len(s.Pads))
		copy(out.Pads, s.Pads)
	}
	return out
}

type stateEncoder struct {
	buf bytes.Buffer
	enc *msgpack.Encoder
}

// Encoders are pooled; Put clears the buffer.
var stateEncoders = generic.NewResetPool(
	func() *stateEncoder {
		e := &stateEncoder{}
		e.enc = msgpack.NewEncoder(&e.buf)
		e.enc.UseCompactInts(true)
		return e
	},
	func(e *stateEncoder) { e.buf.Reset() },
)

// Checksum hashes the msgpack encoding of s. Two engines that stay in
// lockstep produce equal checksums every tick.
func Checksum(s GameState) (uint64, error) {
	e := stateEncoders.Get()
	defer stateEncoders.Put(e)

	if err := e.enc.Encode(&s); err != nil {
		return 0, errors.Wrap(err, "encode game state")
	}
	return xxhash.Sum64(e.buf.Bytes()), nil
}
