package handler

import (
	"errors"
	"net/http"

	"dukadrop/internal/service"
	"dukadrop/pkg/payment"

	"github.com/gin-gonic/gin"
)

// CollectionHandler drives the per-order M-Pesa collection flow: the app
// opens a collection with the customer's phone and the outstanding amount,
// then polls status (or listens on the websocket stream) until the push
// resolves.
type CollectionHandler struct {
	collections *service.CollectionService
}

func NewCollectionHandler(collections *service.CollectionService) *CollectionHandler {
	return &CollectionHandler{collections: collections}
}

// Start initiates an STK push for the order.
func (h *CollectionHandler) Start(c *gin.Context) {
	orderID := c.Param("id")
	var req struct {
		PhoneNumber string  `json:"phone_number" binding:"required"`
		Amount      float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tx, err := h.collections.Start(orderID, req.PhoneNumber, req.Amount)
	if err != nil {
		c.JSON(collectionErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"order_id":       orderID,
		"transaction_id": tx,
		"phase":          payment.PhaseInitiating,
	})
}

// Status reports the current phase and, once the provider has resolved,
// the attempt result.
func (h *CollectionHandler) Status(c *gin.Context) {
	orderID := c.Param("id")
	phase, st, err := h.collections.Status(orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order_id": orderID,
		"phase":    phase,
		"payment":  st,
	})
}

// Retry replaces a failed attempt with a fresh one ("Try Again").
func (h *CollectionHandler) Retry(c *gin.Context) {
	orderID := c.Param("id")
	tx, err := h.collections.Retry(orderID)
	if err != nil {
		c.JSON(collectionErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"order_id":       orderID,
		"transaction_id": tx,
		"phase":          payment.PhaseInitiating,
	})
}

// Cancel abandons the order's collection.
func (h *CollectionHandler) Cancel(c *gin.Context) {
	orderID := c.Param("id")
	if err := h.collections.Cancel(orderID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": orderID, "cancelled": true})
}

func collectionErrorStatus(err error) int {
	switch {
	case errors.Is(err, payment.ErrInvalidPhone), errors.Is(err, payment.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, payment.ErrDoubleStart),
		errors.Is(err, payment.ErrNotFailed),
		errors.Is(err, service.ErrCollectionActive):
		return http.StatusConflict
	case errors.Is(err, service.ErrNoCollection):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
