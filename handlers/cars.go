package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ListCars returns the whole inventory
func (h *Handler) ListCars(c *gin.Context) {
	c.JSON(http.StatusOK, h.inventory.All())
}

// GetCar returns a car by id
func (h *Handler) GetCar(c *gin.Context) {
	car, ok := h.inventory.Find(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
		return
	}

	c.JSON(http.StatusOK, car)
}

// GetCarSummary returns the summary card for a car
func (h *Handler) GetCarSummary(c *gin.Context) {
	card, err := h.inventory.Summary(c.Param("id"))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": "Car not found"})
		return
	}

	c.JSON(http.StatusOK, card)
}

// CompareCars returns a comparison of the comma-separated ids
func (h *Handler) CompareCars(c *gin.Context) {
	ids := c.Query("ids")
	if strings.TrimSpace(ids) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids is required"})
		return
	}

	c.JSON(http.StatusOK, h.inventory.Compare(strings.Split(ids, ",")))
}
