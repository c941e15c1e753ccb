package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"abena-car-sales/models"
	"abena-car-sales/services"
)

// streamUpdate is the payload of an "update" event: the text revealed so far
type streamUpdate struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// GetConversation returns the visible chat and its indicators
func (h *Handler) GetConversation(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"messages": h.conversation.Messages(),
		"status":   h.conversation.Status(),
	})
}

// ClearConversation empties the visible chat
func (h *Handler) ClearConversation(c *gin.Context) {
	h.conversation.Clear()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SendMessage submits a user message and streams the reply as server-sent
// events: "message" for each appended message, "state" and "update" while
// the reply is revealed, then "done" with the final message.
func (h *Handler) SendMessage(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	streaming := false
	event := func(name string, data any) {
		if !streaming {
			streaming = true
			c.Header("Cache-Control", "no-cache")
			c.Header("Connection", "keep-alive")
			c.Header("X-Accel-Buffering", "no")
			c.Status(http.StatusOK)
		}
		c.SSEvent(name, data)
		c.Writer.Flush()
	}

	var replyID string
	final, err := h.conversation.Send(c.Request.Context(), req.Text, req.Attachment, services.ChatHooks{
		OnMessage: func(m models.Message) {
			if m.Sender == models.SenderAI {
				replyID = m.ID
			}
			event("message", m)
		},
		RenderHooks: services.RenderHooks{
			OnState: func(s services.RenderState) {
				event("state", gin.H{"state": s})
			},
			OnUpdate: func(partial string) {
				event("update", streamUpdate{ID: replyID, Text: partial})
			},
		},
	})
	if err != nil {
		if streaming {
			log.Printf("Reply stream ended early: %v", err)
			return
		}
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	event("done", final)
}

// SetNarration toggles reading replies aloud
func (h *Handler) SetNarration(c *gin.Context) {
	var req models.NarrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.conversation.SetAutoNarrate(req.Enabled)
	c.JSON(http.StatusOK, h.conversation.Status())
}

// errorStatus maps service errors onto HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnknownCar):
		return http.StatusNotFound
	case errors.Is(err, services.ErrBusy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
