package handler

import (
	"net/http"

	"dukadrop/internal/models"
	"dukadrop/internal/repository"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingRepo *repository.SettingRepository
}

func NewSettingsHandler(settingRepo *repository.SettingRepository) *SettingsHandler {
	return &SettingsHandler{settingRepo: settingRepo}
}

// Get returns the stored ERP connection settings.
func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.settingRepo.LoadSettings())
}

// Update saves the ERP connection settings; they take effect on the next
// ERP request.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req struct {
		BaseURL   string `json:"baseUrl" binding:"required,url"`
		APIKey    string `json:"apiKey"`
		APISecret string `json:"apiSecret"`
		UseProxy  bool   `json:"useProxy"`
		ProxyURL  string `json:"proxyUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UseProxy && req.ProxyURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "proxyUrl required when useProxy is set"})
		return
	}
	settings := models.Settings{
		BaseURL:   req.BaseURL,
		APIKey:    req.APIKey,
		APISecret: req.APISecret,
		UseProxy:  req.UseProxy,
		ProxyURL:  req.ProxyURL,
	}
	if err := h.settingRepo.SaveSettings(settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}
