package server

import (
	"github.com/zeusync/carball/internal/core/events/bus"
	"github.com/zeusync/carball/internal/core/models"
	"github.com/zeusync/carball/internal/core/models/mirror"
)

// Frame types sent by the server.
const (
	FrameWelcome = "welcome"
	FrameState   = "state"
	FrameEvent   = "event"
	FramePong    = "pong"
	FrameError   = "error"
)

// Client request types. An empty type means FrameControls.
const (
	FrameControls = "controls"
	FrameKickoff  = "kickoff"
	FramePing     = "ping"
)

// WelcomeFrame is the first frame on every connection.
type WelcomeFrame struct {
	Type     string   `json:"type"`
	Session  string   `json:"session"`
	Client   string   `json:"client"`
	TickRate float32  `json:"tick_rate"`
	Tick     uint64   `json:"tick"`
	Cars     []uint32 `json:"cars"`
}

// StateFrame carries a full snapshot plus per-car features.
type StateFrame struct {
	Type     string               `json:"type"`
	Session  string               `json:"session"`
	Tick     uint64               `json:"tick"`
	Checksum uint64               `json:"checksum,string"`
	State    models.GameState     `json:"state"`
	Features []mirror.CarFeatures `json:"features"`
}

// EventFrame forwards one match event as it happens.
type EventFrame struct {
	Type    string    `json:"type"`
	Session string    `json:"session"`
	Event   bus.Event `json:"event"`
}

type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type PongFrame struct {
	Type string `json:"type"`
	Tick uint64 `json:"tick"`
}

// ClientFrame is anything a client sends, e.g.
// {"car_id":1,"controls":{"throttle":1,"boost":true}}.
type ClientFrame struct {
	Type     string             `json:"type,omitempty"`
	CarID    uint32             `json:"car_id"`
	Controls models.CarControls `json:"controls"`
}
