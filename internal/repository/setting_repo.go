package repository

import (
	"strconv"

	"dukadrop/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Settings store keys for the ERP connection.
const (
	KeyERPBaseURL   = "erpnext.base_url"
	KeyERPAPIKey    = "erpnext.api_key"
	KeyERPAPISecret = "erpnext.api_secret"
	KeyERPUseProxy  = "erpnext.use_proxy"
	KeyERPProxyURL  = "erpnext.proxy_url"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) Get(key string) (string, error) {
	var s models.Setting
	if err := r.db.Where("`key` = ?", key).First(&s).Error; err != nil {
		return "", err
	}
	return s.Value, nil
}

func (r *SettingRepository) Set(key, value string) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&models.Setting{Key: key, Value: value}).Error
}

// SeedDefaults inserts default settings if they don't already exist.
func (r *SettingRepository) SeedDefaults(defaults map[string]string) error {
	for k, v := range defaults {
		var count int64
		r.db.Model(&models.Setting{}).Where("`key` = ?", k).Count(&count)
		if count == 0 {
			if err := r.db.Create(&models.Setting{Key: k, Value: v}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadSettings assembles the typed ERP settings from the store. Missing
// keys come back zero-valued.
func (r *SettingRepository) LoadSettings() models.Settings {
	get := func(key string) string {
		v, _ := r.Get(key)
		return v
	}
	useProxy, _ := strconv.ParseBool(get(KeyERPUseProxy))
	return models.Settings{
		BaseURL:   get(KeyERPBaseURL),
		APIKey:    get(KeyERPAPIKey),
		APISecret: get(KeyERPAPISecret),
		UseProxy:  useProxy,
		ProxyURL:  get(KeyERPProxyURL),
	}
}

// SaveSettings writes the typed ERP settings back to the store.
func (r *SettingRepository) SaveSettings(s models.Settings) error {
	pairs := map[string]string{
		KeyERPBaseURL:   s.BaseURL,
		KeyERPAPIKey:    s.APIKey,
		KeyERPAPISecret: s.APISecret,
		KeyERPUseProxy:  strconv.FormatBool(s.UseProxy),
		KeyERPProxyURL:  s.ProxyURL,
	}
	for k, v := range pairs {
		if err := r.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}
