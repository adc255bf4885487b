package handler

import (
	"net/http"

	"dukadrop/config"
	"dukadrop/internal/auth"
	"dukadrop/internal/repository"
	"dukadrop/pkg/phone"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	cfg        *config.Config
	driverRepo *repository.DriverRepository
}

func NewAuthHandler(cfg *config.Config, driverRepo *repository.DriverRepository) *AuthHandler {
	return &AuthHandler{cfg: cfg, driverRepo: driverRepo}
}

// Login authenticates a driver by phone + PIN and issues a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
		PIN   string `json:"pin" binding:"required,min=4"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !phone.IsValid(req.Phone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
		return
	}
	driver, err := h.driverRepo.GetByPhone(phone.Normalize(req.Phone))
	if err != nil || !driver.Active {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid phone or PIN"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(driver.PINHash), []byte(req.PIN)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid phone or PIN"})
		return
	}
	token, err := auth.GenerateToken(&h.cfg.JWT, driver.ID, driver.Phone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"driver": driver,
	})
}
