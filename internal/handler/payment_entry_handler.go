package handler

import (
	"log"
	"net/http"

	"dukadrop/config"
	"dukadrop/internal/erpnext"

	"github.com/gin-gonic/gin"
)

type PaymentEntryHandler struct {
	cfg *config.Config
	erp *erpnext.Client
}

func NewPaymentEntryHandler(cfg *config.Config, erp *erpnext.Client) *PaymentEntryHandler {
	return &PaymentEntryHandler{cfg: cfg, erp: erp}
}

// Today lists today's mobile-money Payment Entry records.
func (h *PaymentEntryHandler) Today(c *gin.Context) {
	entries, err := h.erp.ListTodaysPayments(c.Request.Context(), h.cfg.ERP.PaymentMode)
	if err != nil {
		log.Printf("[PAYMENTS] today: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": entries})
}

// Get returns one Payment Entry document.
func (h *PaymentEntryHandler) Get(c *gin.Context) {
	entry, err := h.erp.GetPaymentEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Printf("[PAYMENTS] get %s: %v", c.Param("id"), err)
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": entry})
}
