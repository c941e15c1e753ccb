package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"abena-car-sales/models"
	"abena-car-sales/services"
)

// Proxy forwards {message} to the upstream provider and relays {response}.
// It sets its own CORS headers and accepts only POST and OPTIONS.
func (h *Handler) Proxy(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")

	switch c.Request.Method {
	case http.MethodOptions:
		c.Status(http.StatusOK)
		return
	case http.MethodPost:
	default:
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	var req models.CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.upstream.Forward(c.Request.Context(), req.Message)
	if err != nil {
		var upErr *services.UpstreamError
		if errors.As(err, &upErr) {
			log.Printf("Upstream error %d: %s", upErr.Status, upErr.Message)
			c.JSON(upErr.Status, gin.H{"error": upErr.Message})
			return
		}
		log.Printf("Error forwarding chat request: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.CompletionResponse{Response: reply})
}
