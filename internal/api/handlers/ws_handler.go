package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/travoiq/callrelay/internal/broadcast"
	"github.com/travoiq/callrelay/internal/models"
	"github.com/travoiq/callrelay/internal/services"
)

type WSHandler struct {
	transcripts services.TranscriptService
	hub         *broadcast.Hub
	agents      *broadcast.AgentRegistry
	log         *logrus.Logger
	upgrader    websocket.Upgrader
}

func NewWSHandler(transcripts services.TranscriptService, hub *broadcast.Hub, agents *broadcast.AgentRegistry, log *logrus.Logger) *WSHandler {
	return &WSHandler{
		transcripts: transcripts,
		hub:         hub,
		agents:      agents,
		log:         log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

// wsConn serializes writes; gorilla/websocket allows only one concurrent
// writer per connection.
type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) WriteJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteJSON(v)
}

// Dispatch routes /ws/incoming-calls, /ws/agent/{agentId} and /ws/{callId}.
// The three live under one catch-all because gin's router cannot hold a
// param segment next to a static one at the same level.
func (h *WSHandler) Dispatch(c *gin.Context) {
	path := strings.Trim(c.Param("path"), "/")
	switch {
	case path == "incoming-calls":
		h.incomingCalls(c)
	case strings.HasPrefix(path, "agent/") && !strings.Contains(strings.TrimPrefix(path, "agent/"), "/"):
		h.agent(c, strings.TrimPrefix(path, "agent/"))
	case path != "" && !strings.Contains(path, "/"):
		h.transcript(c, path)
	default:
		c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
	}
}

// transcript streams {speaker, text} messages for one call until the client
// disconnects or a write fails. Each connection carries its own dedup state,
// so a reconnect replays the transcript from the beginning.
func (h *WSHandler) transcript(c *gin.Context, callID string) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	entry := h.log.WithField("call_id", callID)
	entry.Info("transcript connection established")

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// The client sends nothing meaningful; the read pump exists to observe
	// the close and cancel the stream.
	go func() {
		defer cancel()
		for {
			if _, _, rerr := conn.ReadMessage(); rerr != nil {
				return
			}
		}
	}()

	for seg := range h.transcripts.Stream(ctx, callID) {
		msg := models.TranscriptMessage{Speaker: seg.Speaker, Text: seg.Transcript}
		if werr := wc.WriteJSON(msg); werr != nil {
			entry.WithError(werr).Warn("transcript write failed, closing session")
			return
		}
	}
	entry.Info("transcript connection closed")
}

// agent reads {type, data} envelopes from one agent console. Nothing is sent
// back on this path; the registry entry is dropped on disconnect.
func (h *WSHandler) agent(c *gin.Context, agentID string) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	h.agents.Add(agentID, wc)
	defer h.agents.Remove(agentID, wc)

	entry := h.log.WithField("agent_id", agentID)
	entry.Info("agent connection established")

	for {
		_, data, rerr := conn.ReadMessage()
		if rerr != nil {
			entry.Info("agent connection closed")
			return
		}

		var env models.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			entry.Warn("malformed agent message, ignoring")
			continue
		}

		switch env.Type {
		case "call_status":
			entry.WithField("data", env.Data).Info("agent call status update")
		case "webrtc_offer":
			entry.Info("agent webrtc offer received")
		case "webrtc_answer":
			entry.Info("agent webrtc answer received")
		default:
			entry.WithField("type", env.Type).Info("unknown agent message type")
		}
	}
}

// incomingCalls subscribes the connection to the incoming-call topic. The
// socket is otherwise idle; the hub writes to it and the read pump here only
// notices the disconnect.
func (h *WSHandler) incomingCalls(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	h.hub.Subscribe(wc)
	defer h.hub.Unsubscribe(wc)

	h.log.Info("incoming-calls subscriber connected")
	for {
		if _, _, rerr := conn.ReadMessage(); rerr != nil {
			break
		}
	}
	h.log.Info("incoming-calls subscriber disconnected")
}
