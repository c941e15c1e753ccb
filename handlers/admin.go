package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListSessions returns every chat session, newest first
func (h *Handler) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Sessions())
}

// ListLogs returns the tracking logs, newest first
func (h *Handler) ListLogs(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Logs())
}

// ListBookings returns the bookings, newest first
func (h *Handler) ListBookings(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Bookings())
}

// GetStats returns the dashboard summary
func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Stats())
}

// ExportJSON downloads everything in the store as chat-data-<date>.json
func (h *Handler) ExportJSON(c *gin.Context) {
	data, err := h.store.ExportJSON()
	if err != nil {
		log.Printf("Error exporting data: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export data"})
		return
	}

	h.attachment(c, "chat-data", "json")
	c.Data(http.StatusOK, "application/json", data)
}

// ExportSessionsCSV downloads the sessions as chat-sessions-<date>.csv
func (h *Handler) ExportSessionsCSV(c *gin.Context) {
	h.attachment(c, "chat-sessions", "csv")
	c.Data(http.StatusOK, "text/csv", []byte(h.store.ExportSessionsCSV()))
}

// ExportBookingsCSV downloads the bookings as bookings-<date>.csv
func (h *Handler) ExportBookingsCSV(c *gin.Context) {
	h.attachment(c, "bookings", "csv")
	c.Data(http.StatusOK, "text/csv", []byte(h.store.ExportBookingsCSV()))
}

func (h *Handler) attachment(c *gin.Context, name, ext string) {
	filename := fmt.Sprintf("%s-%s.%s", name, h.now().Format("2006-01-02"), ext)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
}
