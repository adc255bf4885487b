package models

import (
	"time"

	"gorm.io/gorm"
)

// Driver is a delivery driver account for the mobile app.
type Driver struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:120;not null" json:"name"`
	Phone     string         `gorm:"uniqueIndex;size:20;not null" json:"phone"` // normalized 2547XXXXXXXX
	PINHash   string         `gorm:"size:255" json:"-"`
	Active    bool           `gorm:"default:true" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Driver) TableName() string { return "drivers" }
