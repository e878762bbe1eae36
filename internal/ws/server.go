package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/obiente/translate/livetranslate/internal/orchestrator"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = pongWait * 9 / 10
	maxFrame     = 16 << 20
)

// Inbound event names.
const (
	EventSetLanguage      = "set_language"
	EventStartTranslation = "start_translation"
	EventStopTranslation  = "stop_translation"
	EventProcessAudio     = "process_audio"
	EventAudioChunk       = "audio_chunk"
	EventGetHistory       = "get_history"
	EventPing             = "ping"
	EventPong             = "pong"
)

type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type languageData struct {
	Language string `json:"language"`
}

type audioData struct {
	Audio       []byte `json:"audio"`
	SampleRate  int    `json:"sample_rate"`
	SampleWidth int    `json:"sample_width"`
	Language    string `json:"language"`
}

type pingData struct {
	TS any `json:"ts,omitempty"`
}

// Server upgrades HTTP requests to websocket sessions and feeds their events to the orchestrator.
type Server struct {
	hub      *Hub
	orch     *orchestrator.Orchestrator
	upgrader websocket.Upgrader
}

func NewServer(hub *Hub, orch *orchestrator.Orchestrator) *Server {
	return &Server{
		hub:  hub,
		orch: orch,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024 * 16,
			WriteBufferSize: 1024 * 16,
		},
	}
}

func (s *Server) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	c := s.hub.register(id, conn)
	defer s.hub.unregister(id)

	if _, err := s.orch.Connect(id); err != nil {
		log.Error().Err(err).Str("session", id).Msg("session registration failed")
		return
	}
	defer s.orch.Disconnect(id)

	conn.SetReadLimit(maxFrame)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(pongWait)) })

	stop := make(chan struct{})
	defer close(stop)
	go keepalive(conn, stop)

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("session", id).Msg("ws read error")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		switch mt {
		case websocket.BinaryMessage:
			_ = s.orch.FeedAudio(id, data, 0, 2)
		case websocket.TextMessage:
			s.dispatch(r.Context(), id, c, data)
		}
	}
}

// dispatch handles one text frame. It runs on the connection's read loop, so events of one session
// are processed in arrival order.
func (s *Server) dispatch(ctx context.Context, id string, c *client, data []byte) {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil || msg.Event == "" {
		s.status(id, "Invalid message.")
		return
	}
	l := log.With().Str("session", id).Str("event", msg.Event).Logger()
	l.Debug().Int("bytes", len(data)).Msg("event received")

	var err error
	switch msg.Event {
	case EventSetLanguage:
		var d languageData
		if !decode(msg.Data, &d) {
			s.status(id, "Invalid message.")
			return
		}
		err = s.orch.SetLanguage(id, d.Language)
	case EventStartTranslation:
		err = s.orch.StartTranslation(id)
	case EventStopTranslation:
		err = s.orch.StopTranslation(id)
	case EventProcessAudio:
		var d audioData
		if !decode(msg.Data, &d) {
			s.status(id, "Invalid message.")
			return
		}
		err = s.orch.ProcessAudio(ctx, id, orchestrator.AudioInput{
			Audio:       d.Audio,
			SampleRate:  d.SampleRate,
			SampleWidth: d.SampleWidth,
			Language:    d.Language,
		})
	case EventAudioChunk:
		var d audioData
		if !decode(msg.Data, &d) {
			s.status(id, "Invalid message.")
			return
		}
		err = s.orch.FeedAudio(id, d.Audio, d.SampleRate, d.SampleWidth)
	case EventGetHistory:
		err = s.orch.History(id)
	case EventPing:
		var d pingData
		_ = decode(msg.Data, &d)
		err = c.write(Envelope{Event: EventPong, Data: d})
	default:
		s.status(id, "Unknown event: "+msg.Event)
		return
	}
	if err != nil {
		l.Warn().Err(err).Msg("event failed")
	}
}

func decode(raw json.RawMessage, v any) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return true
	}
	return json.Unmarshal(raw, v) == nil
}

func (s *Server) status(id, msg string) {
	_ = s.hub.Emit(id, orchestrator.EventStatus, orchestrator.StatusPayload{Status: msg})
}

func keepalive(conn *websocket.Conn, stop <-chan struct{}) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
