package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"cutine-backend/config"
	"cutine-backend/routes"
	"cutine-backend/services"
	"cutine-backend/storage"
	"cutine-backend/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := config.NewLogger(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	if cfg.LogMode == "production" || cfg.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("failed to open storage", "error", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Warn("storage close", "error", err)
		}
	}()

	records := store.NewRecordStore(ctx, backend.Slot, logger)
	profiles := store.NewProfileStore(ctx, backend.Slot, logger)
	if err := records.Watch(ctx); err != nil {
		logger.Fatal("failed to watch records", "error", err)
	}
	defer records.Close()
	if err := profiles.Watch(ctx); err != nil {
		logger.Fatal("failed to watch profile", "error", err)
	}
	defer profiles.Close()

	var sms services.Sender
	if cfg.Twilio.Enabled() {
		sms = services.NewTwilioSender(cfg.Twilio, logger)
	} else {
		logger.Info("Twilio not configured, reminders go to the log")
	}
	reminders := services.NewReminderService(records, profiles, backend.Slot, cfg.Reminder, sms, logger)
	if err := reminders.StartScheduler(); err != nil {
		logger.Fatal("failed to start reminders", "error", err)
	}
	defer reminders.StopScheduler()

	var partnerDB *gorm.DB
	if cfg.PartnerDBURL != "" {
		partnerDB, err = config.OpenDB(config.DriverForURL(cfg.PartnerDBURL), cfg.PartnerDBURL)
		if err != nil {
			// applications fall back to the local slot
			logger.Warn("partner database unavailable", "error", err)
			partnerDB = nil
		}
	}
	partners, err := services.NewPartnerService(partnerDB, backend.Slot, logger)
	if err != nil {
		logger.Warn("partner database migration failed, using local storage", "error", err)
		partners, _ = services.NewPartnerService(nil, backend.Slot, logger)
	}

	r := routes.SetupRouter(routes.Deps{
		Config:    cfg,
		Log:       logger,
		Records:   records,
		Profiles:  profiles,
		Reminders: reminders,
		Partners:  partners,
	})
	printRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
