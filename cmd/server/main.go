package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"dukadrop/config"
	"dukadrop/internal/database"
	"dukadrop/internal/erpnext"
	"dukadrop/internal/repository"
	"dukadrop/internal/router"
	"dukadrop/internal/service"
	"dukadrop/internal/ws"
	"dukadrop/pkg/payment"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.SeedDriver(db)

	settingRepo := repository.NewSettingRepository(db)
	if err := settingRepo.SeedDefaults(map[string]string{
		repository.KeyERPBaseURL:   cfg.ERP.BaseURL,
		repository.KeyERPAPIKey:    cfg.ERP.APIKey,
		repository.KeyERPAPISecret: cfg.ERP.APISecret,
		repository.KeyERPUseProxy:  strconv.FormatBool(cfg.ERP.UseProxy),
		repository.KeyERPProxyURL:  cfg.ERP.ProxyURL,
	}); err != nil {
		log.Fatalf("settings seed: %v", err)
	}

	erp := erpnext.NewClient(settingRepo.LoadSettings)

	var provider payment.Provider
	switch cfg.Payment.Provider {
	case "gateway":
		provider = payment.NewGatewayProvider(cfg.Payment.GatewayBaseURL, cfg.Payment.GatewayAPIKey)
		log.Printf("[PAYMENT] using STK gateway at %s", cfg.Payment.GatewayBaseURL)
	default:
		provider = payment.NewMockProvider(cfg.Payment.MockLatency)
		log.Printf("[PAYMENT] using mock provider (outcome keyed to last phone digit)")
	}

	hub := ws.NewHub()
	collections := service.NewCollectionService(
		provider,
		erp,
		hub,
		payment.SystemClock(),
		payment.UUIDs(),
		payment.Delays{
			Initiation: cfg.Payment.InitiationDelay,
			FollowUp:   cfg.Payment.FollowUpDelay,
			Display:    cfg.Payment.DisplayDelay,
		},
	)

	engine := router.Setup(cfg, db, erp, collections, hub)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	log.Println("server stopped")
}
