package main

import (
	"context" // Context for seeding

	"task_manager/internal/config" // Custom import path (Config)
	"task_manager/internal/db"     // Custom import path (Database)
	"task_manager/internal/logger" // Logger setup

	"github.com/sirupsen/logrus"
)

// Main entry point for migration. When ADMIN_EMAIL and ADMIN_PASSWORD are set
// the bootstrap admin account is created as well.
func main() {
	cfg := config.LoadConfig() // Load configuration
	logger.Setup(cfg.IsProd, cfg.LogLevel)

	database, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logrus.Info("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return
	}
	if _, err := db.SeedAdmin(context.Background(), database, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logrus.Fatalf("admin seed failed: %v", err)
	}
}
