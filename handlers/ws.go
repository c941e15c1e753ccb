package handlers

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"abena-car-sales/models"
	"abena-car-sales/services"
)

// chatFrame is one server-to-client frame on /ws/chat
type chatFrame struct {
	Type    string               `json:"type"` // message, state, update, done, error
	Message *models.Message      `json:"message,omitempty"`
	ID      string               `json:"id,omitempty"`
	Text    string               `json:"text,omitempty"`
	State   services.RenderState `json:"state,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// adminSnapshot is pushed on /ws/admin after every store change
type adminSnapshot struct {
	Sessions []models.ChatSession `json:"chatSessions"`
	Logs     []models.TrackingLog `json:"logs"`
	Bookings []models.Booking     `json:"bookings"`
	Stats    services.Stats       `json:"stats"`
}

// ChatSocket runs the chat over a websocket. Each inbound frame is a
// ChatRequest; the reply is streamed back frame by frame.
func (h *Handler) ChatSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket closed unexpectedly: %v", err)
			}
			return
		}

		var req models.ChatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			if err := conn.WriteJSON(chatFrame{Type: "error", Error: "Invalid message format. Send JSON with a 'text' field."}); err != nil {
				return
			}
			continue
		}

		var replyID string
		write := func(f chatFrame) {
			if err := conn.WriteJSON(f); err != nil {
				log.Printf("Failed to write to WebSocket: %v", err)
				cancel()
			}
		}
		final, err := h.conversation.Send(ctx, req.Text, req.Attachment, services.ChatHooks{
			OnMessage: func(m models.Message) {
				if m.Sender == models.SenderAI {
					replyID = m.ID
				}
				write(chatFrame{Type: "message", Message: &m})
			},
			RenderHooks: services.RenderHooks{
				OnState:  func(s services.RenderState) { write(chatFrame{Type: "state", State: s}) },
				OnUpdate: func(p string) { write(chatFrame{Type: "update", ID: replyID, Text: p}) },
			},
		})
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			write(chatFrame{Type: "error", Error: err.Error()})
			continue
		}
		write(chatFrame{Type: "done", Message: &final})
	}
}

// AdminSocket pushes a dashboard snapshot on connect and after every store
// change until the client goes away.
func (h *Handler) AdminSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	changed := make(chan struct{}, 1)
	unsubscribe := h.store.Subscribe(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	// Reads only detect the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(h.snapshot()); err != nil {
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-changed:
			if err := conn.WriteJSON(h.snapshot()); err != nil {
				log.Printf("Failed to push dashboard update: %v", err)
				return
			}
		}
	}
}

func (h *Handler) snapshot() adminSnapshot {
	return adminSnapshot{
		Sessions: h.store.Sessions(),
		Logs:     h.store.Logs(),
		Bookings: h.store.Bookings(),
		Stats:    h.store.Stats(),
	}
}
