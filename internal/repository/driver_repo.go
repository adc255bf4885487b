package repository

import (
	"dukadrop/internal/models"

	"gorm.io/gorm"
)

type DriverRepository struct {
	db *gorm.DB
}

func NewDriverRepository(db *gorm.DB) *DriverRepository {
	return &DriverRepository{db: db}
}

func (r *DriverRepository) Create(d *models.Driver) error {
	return r.db.Create(d).Error
}

func (r *DriverRepository) GetByID(id uint) (*models.Driver, error) {
	var d models.Driver
	if err := r.db.First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DriverRepository) GetByPhone(phone string) (*models.Driver, error) {
	var d models.Driver
	if err := r.db.Where("phone = ?", phone).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DriverRepository) Update(d *models.Driver) error {
	return r.db.Save(d).Error
}
