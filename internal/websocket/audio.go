package websocket

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/StephanieNhiLe/savo-ai/internal/logging"
	"github.com/StephanieNhiLe/savo-ai/internal/middleware"
	"github.com/StephanieNhiLe/savo-ai/internal/models"
	"github.com/StephanieNhiLe/savo-ai/internal/services"
)

const (
	writeWait      = 10 * time.Second
	maxRequestSize = 64 << 10
)

// AudioSocket streams synthesized speech over a WebSocket. Each text frame
// {"text","voice_id"} is answered with binary audio frames followed by a
// "done" or "error" event.
type AudioSocket struct {
	synthesizer  services.SpeechSynthesizer
	defaultVoice string
	upgrader     websocket.Upgrader

	mu          sync.Mutex
	connections map[*websocket.Conn]context.CancelFunc
}

// NewAudioSocket accepts handshakes from allowedOrigins, the same list the
// HTTP routes use for CORS; "*" or an empty list allows any origin.
func NewAudioSocket(synthesizer services.SpeechSynthesizer, defaultVoice string, allowedOrigins []string) *AudioSocket {
	return &AudioSocket{
		synthesizer:  synthesizer,
		defaultVoice: defaultVoice,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		connections: make(map[*websocket.Conn]context.CancelFunc),
	}
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[strings.ToLower(o)] = struct{}{}
	}
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[strings.ToLower(origin)]
		return ok
	}
}

func (s *AudioSocket) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.GetLogger().WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	conn.SetReadLimit(maxRequestSize)

	ctx, cancel := context.WithCancel(r.Context())
	s.registerConnection(conn, cancel)
	defer s.unregisterConnection(conn)

	log := logging.GetLogger().WithFields(logrus.Fields{
		"remote":     r.RemoteAddr,
		"request_id": middleware.GetRequestID(r.Context()),
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("WebSocket closed unexpectedly")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		if !s.serveRequest(ctx, conn, data, log) {
			return
		}
	}
}

// serveRequest handles one synthesis request and reports whether the
// connection is still usable.
func (s *AudioSocket) serveRequest(ctx context.Context, conn *websocket.Conn, data []byte, log *logrus.Entry) bool {
	var req models.AudioRequest
	if err := sonic.Unmarshal(data, &req); err != nil || strings.TrimSpace(req.Text) == "" {
		return s.sendEvent(conn, models.AudioSocketEvent{Type: "error", Error: "No text provided"})
	}

	voiceID := req.VoiceID
	if voiceID == "" {
		voiceID = s.defaultVoice
	}
	log = log.WithFields(logrus.Fields{
		"text":     logging.Truncate(req.Text, logging.MaxLoggedInput),
		"voice_id": voiceID,
	})

	stream, err := s.synthesizer.SynthesizeStream(ctx, req.Text, voiceID)
	if err != nil {
		log.WithError(err).Error("Failed to open audio stream")
		return s.sendEvent(conn, models.AudioSocketEvent{
			Type:          "error",
			Error:         err.Error(),
			QuotaExceeded: services.IsQuotaExceeded(err),
		})
	}
	defer stream.Close()

	var written int64
	for chunk, err := range stream.Chunks() {
		if err != nil {
			log.WithError(err).WithField("bytes", written).Error("Audio stream aborted")
			return s.sendEvent(conn, models.AudioSocketEvent{Type: "error", Error: err.Error()})
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
			log.WithError(err).Warn("Client went away during audio stream")
			return false
		}
		written += int64(len(chunk))
	}

	log.WithField("bytes", written).Info("Audio stream completed")
	return s.sendEvent(conn, models.AudioSocketEvent{Type: "done", Bytes: written})
}

func (s *AudioSocket) sendEvent(conn *websocket.Conn, event models.AudioSocketEvent) bool {
	data, err := sonic.Marshal(event)
	if err != nil {
		return false
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data) == nil
}

func (s *AudioSocket) registerConnection(conn *websocket.Conn, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[conn] = cancel
	logging.GetLogger().WithField("total", len(s.connections)).Debug("Audio WebSocket connected")
}

func (s *AudioSocket) unregisterConnection(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cancel, ok := s.connections[conn]; ok {
		cancel()
		delete(s.connections, conn)
	}
	conn.Close()
}

// CloseAll cancels in-flight syntheses and closes every open connection.
func (s *AudioSocket) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn, cancel := range s.connections {
		cancel()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		delete(s.connections, conn)
	}
}

// Active returns the number of open connections.
func (s *AudioSocket) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.connections)
}
