package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/zeusync/carball/internal/core/events/bus"
	"github.com/zeusync/carball/internal/core/models"
	"github.com/zeusync/carball/internal/core/models/mirror"
	"github.com/zeusync/carball/internal/core/observability/log"
	"github.com/zeusync/carball/internal/core/storage"
	"github.com/zeusync/carball/internal/core/system"
)

// Server runs one engine in real time and streams it over websockets.
type Server struct {
	engine   system.Engine
	recorder storage.Recorder
	events   bus.EventBus
	eventSub bus.Subscription
	session  uuid.UUID

	upgrader    websocket.Upgrader
	clients     sync.Map // map[uuid.UUID]*ClientSession
	clientCount int64    // atomic

	// Server state
	running int32 // atomic bool
	closed  int32 // atomic bool

	config Config
	logger log.Log

	httpServer  *http.Server
	listener    net.Listener
	workerGroup sync.WaitGroup
	stopChan    chan struct{}
	lifecycle   sync.Mutex // serialises Start and Stop
}

// Config holds server configuration
type Config struct {
	ListenAddr string
	MaxClients int

	// BroadcastEvery sends a state frame every n ticks.
	BroadcastEvery uint32
	// RecordEvery stores a snapshot every n ticks. Zero disables recording.
	RecordEvery uint64

	SendBuffer   int
	WriteTimeout time.Duration
	ReadTimeout  time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() Config {
	return Config{
		ListenAddr:     ":8080",
		MaxClients:     64,
		BroadcastEvery: 4,
		SendBuffer:     32,
		WriteTimeout:   5 * time.Second,
		ReadTimeout:    90 * time.Second,
	}
}

// ClientSession is one connected websocket client.
type ClientSession struct {
	ID          uuid.UUID
	conn        *websocket.Conn
	send        chan []byte
	done        chan struct{}
	ConnectedAt time.Time
	Dropped     int64 // atomic, frames skipped on a full buffer
}

// NewServer creates a server around engine. recorder and events may be
// nil. Events published on the bus are forwarded to every client.
func NewServer(config Config, engine system.Engine, recorder storage.Recorder, events bus.EventBus, logger log.Log) (*Server, error) {
	if engine == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "nil engine")
	}
	if config.BroadcastEvery == 0 {
		config.BroadcastEvery = 1
	}
	if config.SendBuffer < 1 {
		config.SendBuffer = 1
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultServerConfig().WriteTimeout
	}
	if recorder == nil {
		recorder = storage.NewNop()
	}
	if logger == nil {
		logger = log.NewNop()
	}

	server := &Server{
		engine:   engine,
		recorder: recorder,
		events:   events,
		session:  recorder.SessionID(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		config:   config,
		logger:   logger.With(log.String("component", "server"), log.Session(recorder.SessionID().String())),
	}

	if events != nil {
		sub, err := events.SubscribeAll(server.forwardEvent)
		if err != nil {
			return nil, errors.Wrap(err, "subscribe to match events")
		}
		server.eventSub = sub
	}

	server.logger.Info("Server created",
		log.String("listen_addr", config.ListenAddr),
		log.Int("max_clients", config.MaxClients),
		log.Float32("tick_rate", engine.TickRate()))

	return server, nil
}

// Session identifies this run in logs, frames and recordings.
func (s *Server) Session() uuid.UUID { return s.session }

// Start listens on the configured address and starts the tick loop.
// A stopped server may be started again.
func (s *Server) Start(ctx context.Context) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServerClosed
	}
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.config.ListenAddr)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		s.logger.Error("Failed to create listener", log.Error(err))
		return errors.Wrapf(err, "listen on %s", s.config.ListenAddr)
	}
	s.listener = listener
	s.stopChan = make(chan struct{})
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.workerGroup.Add(2)
	go func() {
		defer s.workerGroup.Done()
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", log.Error(err))
		}
	}()
	stop := s.stopChan
	go func() {
		defer s.workerGroup.Done()
		s.runSimulation(stop)
	}()

	s.logger.Info("Server listening", log.String("addr", listener.Addr().String()))
	return nil
}

// Addr is the bound listen address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop halts the tick loop and disconnects every client.
func (s *Server) Stop(ctx context.Context) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrServerNotRunning
	}

	s.logger.Info("Stopping server")
	close(s.stopChan)

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}

	s.clients.Range(func(_, value any) bool {
		if session, ok := value.(*ClientSession); ok {
			_ = session.conn.Close()
		}
		return true
	})

	s.workerGroup.Wait()
	s.logger.Info("Server stopped")
	return err
}

// Close stops the server if needed and closes the recorder.
func (s *Server) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	if atomic.LoadInt32(&s.running) == 1 {
		_ = s.Stop(context.Background())
	}
	if s.events != nil {
		_ = s.events.Unsubscribe(s.eventSub)
	}
	s.logger.Info("Server closed")
	return s.recorder.Close()
}

func (s *Server) tickInterval() time.Duration {
	return time.Duration(float64(time.Second) / float64(s.engine.TickRate()))
}

func (s *Server) runSimulation(stop <-chan struct{}) {
	s.logger.Debug("Simulation loop started")
	defer s.logger.Debug("Simulation loop stopped")

	ticker := time.NewTicker(s.tickInterval())
	defer ticker.Stop()

	ctx := context.Background()
	for {
		select {
		case <-ticker.C:
			s.Advance(ctx, 1)
		case <-stop:
			return
		}
	}
}

// Advance steps the engine ticks times, broadcasting and recording on
// their cadences.
func (s *Server) Advance(ctx context.Context, ticks uint32) {
	for i := uint32(0); i < ticks; i++ {
		s.engine.Step(1)
		tick := s.engine.TickCount()

		record := storage.ShouldRecord(tick, s.config.RecordEvery)
		broadcast := tick%uint64(s.config.BroadcastEvery) == 0 && atomic.LoadInt64(&s.clientCount) > 0
		if !record && !broadcast {
			continue
		}

		gs := s.engine.GetGameState()
		if record {
			if err := s.recorder.RecordSnapshot(ctx, gs); err != nil {
				s.logger.Error("Failed to record snapshot", log.Tick(tick), log.Error(err))
			}
		}
		if broadcast {
			s.broadcastState(gs)
		}
	}
}

// StateFrame builds the frame broadcast for gs.
func (s *Server) StateFrame(gs models.GameState) (StateFrame, error) {
	sum, err := models.Checksum(gs)
	if err != nil {
		return StateFrame{}, err
	}
	return StateFrame{
		Type:     FrameState,
		Session:  s.session.String(),
		Tick:     gs.TickCount,
		Checksum: sum,
		State:    gs,
		Features: mirror.Features(mirror.GameStateToA(gs)),
	}, nil
}

func (s *Server) broadcastState(gs models.GameState) {
	frame, err := s.StateFrame(gs)
	if err != nil {
		s.logger.Error("Failed to build state frame", log.Tick(gs.TickCount), log.Error(err))
		return
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		s.logger.Error("Failed to encode state frame", log.Tick(gs.TickCount), log.Error(err))
		return
	}

	s.clients.Range(func(_, value any) bool {
		s.enqueue(value.(*ClientSession), payload)
		return true
	})
}

func (s *Server) forwardEvent(event bus.Event) error {
	if atomic.LoadInt64(&s.clientCount) == 0 {
		return nil
	}
	payload, err := json.Marshal(EventFrame{Type: FrameEvent, Session: s.session.String(), Event: event})
	if err != nil {
		return errors.Wrap(err, "encode event frame")
	}
	s.clients.Range(func(_, value any) bool {
		s.enqueue(value.(*ClientSession), payload)
		return true
	})
	return nil
}

// enqueue never blocks the tick loop; a slow client loses frames.
func (s *Server) enqueue(session *ClientSession, payload []byte) {
	select {
	case session.send <- payload:
	default:
		atomic.AddInt64(&session.Dropped, 1)
	}
}

// GetStats returns server statistics
func (s *Server) GetStats() Stats {
	return Stats{
		ClientCount: atomic.LoadInt64(&s.clientCount),
		Tick:        s.engine.TickCount(),
		Running:     atomic.LoadInt32(&s.running) == 1,
	}
}

// Stats contains server statistics
type Stats struct {
	ClientCount int64  `json:"client_count"`
	Tick        uint64 `json:"tick"`
	Running     bool   `json:"running"`
}
