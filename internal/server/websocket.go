package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/zeusync/carball/internal/core/observability/log"
)

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if atomic.LoadInt32(&s.closed) == 1 {
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	}
	if s.config.MaxClients > 0 && int(atomic.LoadInt64(&s.clientCount)) >= s.config.MaxClients {
		s.logger.Warn("Maximum clients reached, rejecting connection", log.String("remote_addr", r.RemoteAddr))
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", log.Error(err))
		return
	}

	session := &ClientSession{
		ID:          uuid.New(),
		conn:        conn,
		send:        make(chan []byte, s.config.SendBuffer),
		done:        make(chan struct{}),
		ConnectedAt: time.Now(),
	}

	gs := s.engine.GetGameState()
	cars := make([]uint32, 0, len(gs.Cars))
	for _, info := range gs.Cars {
		cars = append(cars, info.ID)
	}
	s.sendJSON(session, WelcomeFrame{
		Type:     FrameWelcome,
		Session:  s.session.String(),
		Client:   session.ID.String(),
		TickRate: gs.TickRate,
		Tick:     gs.TickCount,
		Cars:     cars,
	})

	s.clients.Store(session.ID, session)
	atomic.AddInt64(&s.clientCount, 1)

	s.logger.Info("Client connected",
		log.String("client_id", session.ID.String()),
		log.String("remote_addr", r.RemoteAddr),
		log.Int64("total_clients", atomic.LoadInt64(&s.clientCount)))

	go s.writePump(session)
	s.readPump(session)
}

func (s *Server) readPump(session *ClientSession) {
	clientLogger := s.logger.With(log.String("client_id", session.ID.String()))
	defer func() {
		s.clients.Delete(session.ID)
		atomic.AddInt64(&s.clientCount, -1)
		close(session.done)
		_ = session.conn.Close()

		clientLogger.Info("Client disconnected",
			log.Int64("total_clients", atomic.LoadInt64(&s.clientCount)),
			log.Int64("dropped_frames", atomic.LoadInt64(&session.Dropped)))
	}()

	extend := func() {
		if s.config.ReadTimeout > 0 {
			_ = session.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		}
	}
	extend()
	session.conn.SetPongHandler(func(string) error {
		extend()
		return nil
	})

	for {
		_, payload, err := session.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				clientLogger.Debug("Read failed", log.Error(err))
			}
			return
		}
		extend()

		if err := s.handleFrame(session, payload); err != nil {
			clientLogger.Debug("Rejected frame", log.Error(err))
			s.sendJSON(session, ErrorFrame{Type: FrameError, Message: err.Error()})
		}
	}
}

// handleFrame applies one client frame to the engine.
func (s *Server) handleFrame(session *ClientSession, payload []byte) error {
	var frame ClientFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		return errors.Wrap(ErrInvalidMessage, err.Error())
	}

	switch frame.Type {
	case "", FrameControls:
		if frame.CarID == 0 {
			return errors.Wrap(ErrInvalidMessage, "missing car_id")
		}
		return s.engine.SetCarControls(frame.CarID, frame.Controls)
	case FrameKickoff:
		s.engine.ResetKickoff()
		s.logger.Info("Kickoff reset by client", log.String("client_id", session.ID.String()))
		return nil
	case FramePing:
		s.sendJSON(session, PongFrame{Type: FramePong, Tick: s.engine.TickCount()})
		return nil
	default:
		return errors.Wrapf(ErrInvalidMessage, "unsupported type %q", frame.Type)
	}
}

func (s *Server) writePump(session *ClientSession) {
	ticker := time.NewTicker(20 * time.Second)
	defer func() {
		ticker.Stop()
		_ = session.conn.Close()
	}()

	for {
		select {
		case payload := <-session.send:
			_ = session.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := session.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = session.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := session.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-session.done:
			return
		}
	}
}

func (s *Server) sendJSON(session *ClientSession, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("Failed to encode frame", log.Error(err))
		return
	}
	s.enqueue(session, payload)
}
