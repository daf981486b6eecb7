package main

import (
	"waba-admin/internal/config"
	"waba-admin/internal/database"
	"waba-admin/internal/logging"
	"waba-admin/internal/models"

	"gorm.io/gorm"
)

const batchSize = 500

// Copies the activity log from the local SQLite file into PostgreSQL.
func main() {
	cfg := config.LoadConfig()
	logging.Init(cfg.LogLevel, cfg.AppEnv)

	sqliteDB, err := database.OpenSQLite(cfg.DBPath)
	if err != nil {
		logging.Logger.Fatalf("Failed to connect to SQLite: %v", err)
	}
	logging.Logger.Infof("Connected to SQLite at %s", cfg.DBPath)

	cfg.DBDriver = "postgres"
	pgDB, err := database.Open(cfg)
	if err != nil {
		logging.Logger.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	logging.Logger.Info("Starting data migration...")

	var activities []models.Activity
	if err := sqliteDB.Order("id").Find(&activities).Error; err != nil {
		logging.Logger.Fatalf("Error reading activities from SQLite: %v", err)
	}
	if len(activities) == 0 {
		logging.Logger.Info("No activities to migrate")
		return
	}

	err = pgDB.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&activities, batchSize).Error
	})
	if err != nil {
		logging.Logger.Fatalf("Error writing activities to PostgreSQL: %v", err)
	}

	table := models.Activity{}.TableName()
	if err := database.SyncSequence(pgDB, table); err != nil {
		logging.Logger.Warn(err)
	}
	logging.Logger.Infof("Migrated %d activities", len(activities))
}
