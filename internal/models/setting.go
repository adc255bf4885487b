package models

import (
	"time"

	"gorm.io/gorm"
)

// Setting stores app-configurable key/value settings.
type Setting struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Key       string         `gorm:"uniqueIndex;size:100;not null" json:"key"`
	Value     string         `gorm:"size:512;not null" json:"value"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Setting) TableName() string { return "settings" }

// Settings is the ERP connection configuration edited from the app.
type Settings struct {
	BaseURL   string `json:"baseUrl"`
	APIKey    string `json:"apiKey"`
	APISecret string `json:"apiSecret"`
	UseProxy  bool   `json:"useProxy"`
	ProxyURL  string `json:"proxyUrl"`
}
