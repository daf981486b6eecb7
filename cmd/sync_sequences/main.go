package main

import (
	"waba-admin/internal/config"
	"waba-admin/internal/database"
	"waba-admin/internal/logging"
	"waba-admin/internal/models"
)

func main() {
	cfg := config.LoadConfig()
	logging.Init(cfg.LogLevel, cfg.AppEnv)
	cfg.DBDriver = "postgres"

	db, err := database.Open(cfg)
	if err != nil {
		logging.Logger.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	tables := []string{
		models.Activity{}.TableName(),
	}

	logging.Logger.Info("Syncing PostgreSQL sequences...")
	for _, table := range tables {
		if err := database.SyncSequence(db, table); err != nil {
			logging.Logger.Error(err)
			continue
		}
		logging.Logger.Infof("Successfully synced sequence for %s", table)
	}
	logging.Logger.Info("DONE!")
}
