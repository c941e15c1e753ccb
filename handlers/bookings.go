package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"abena-car-sales/models"
)

// ConfirmBooking books an inspection for a proposed car
func (h *Handler) ConfirmBooking(c *gin.Context) {
	var req models.BookingRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Printf("Booking request: %+v", req)

	booking, msg, err := h.conversation.ConfirmBooking(req.CarID, req.CarName)
	if err != nil {
		log.Printf("Error confirming booking: %v", err)
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.BookingResponse{
		Success: true,
		Message: &msg,
		Booking: &booking,
	})
}

// StartSession begins a new chat session; earlier sessions are kept
func (h *Handler) StartSession(c *gin.Context) {
	c.JSON(http.StatusCreated, h.store.StartSession())
}

// UpdateUserInfo merges the supplied customer details into the current session
func (h *Handler) UpdateUserInfo(c *gin.Context) {
	var patch models.UserInfoPatch

	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.store.UpdateUserInfo(patch)
	sess, _ := h.store.CurrentSession()
	c.JSON(http.StatusOK, sess.UserInfo)
}
