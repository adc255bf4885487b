package config

import (
	"os"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	ERP      ERPConfig
	Payment  PaymentConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// ERPConfig seeds the settings store on first run; afterwards the values
// saved from the app's settings page win.
type ERPConfig struct {
	BaseURL     string
	APIKey      string
	APISecret   string
	UseProxy    bool
	ProxyURL    string
	PaymentMode string // mode_of_payment filter for today's collections
}

// PaymentConfig selects the authorization provider and the flow timings.
type PaymentConfig struct {
	Provider        string // "mock" or "gateway"
	GatewayBaseURL  string
	GatewayAPIKey   string
	MockLatency     time.Duration
	InitiationDelay time.Duration
	FollowUpDelay   time.Duration
	DisplayDelay    time.Duration
}

func Load() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:         "8088",
			Env:          "development",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             "dukadrop:dukadrop@tcp(localhost:3306)/dukadrop?charset=utf8mb4&parseTime=True&loc=Local",
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			Secret: "change-me-in-production",
			Expiry: 24 * time.Hour,
			Issuer: "dukadrop",
		},
		ERP: ERPConfig{
			BaseURL:     "https://wellcreek.boraerp.co.ke",
			PaymentMode: "M-Pesa",
		},
		Payment: PaymentConfig{
			Provider:        "mock",
			MockLatency:     2 * time.Second,
			InitiationDelay: 1 * time.Second,
			FollowUpDelay:   5 * time.Second,
			DisplayDelay:    2 * time.Second,
		},
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Server.Env = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("ERP_BASE_URL"); v != "" {
		cfg.ERP.BaseURL = v
	}
	if v := os.Getenv("ERP_API_KEY"); v != "" {
		cfg.ERP.APIKey = v
	}
	if v := os.Getenv("ERP_API_SECRET"); v != "" {
		cfg.ERP.APISecret = v
	}
	if v := os.Getenv("ERP_PAYMENT_MODE"); v != "" {
		cfg.ERP.PaymentMode = v
	}
	if v := os.Getenv("PAYMENT_PROVIDER"); v != "" {
		cfg.Payment.Provider = v
	}
	if v := os.Getenv("STK_GATEWAY_BASE_URL"); v != "" {
		cfg.Payment.GatewayBaseURL = v
	}
	if v := os.Getenv("STK_GATEWAY_API_KEY"); v != "" {
		cfg.Payment.GatewayAPIKey = v
	}
	return cfg
}
