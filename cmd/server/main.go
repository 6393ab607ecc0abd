package main

import (
	"log"
	"log/slog"
	"os"

	"agribot/config"
	"agribot/database"
	"agribot/metrics"
	"agribot/notify"
	"agribot/pipeline"
	"agribot/server"
	"agribot/server/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	reg := metrics.NewRegistry()
	etlPipeline := pipeline.New(db, pipeline.Options{
		ChunkSize: cfg.ChunkSize,
		Filter:    cfg.RemainsFilter(),
		Logger:    logger,
		Metrics:   reg,
	})
	etl := services.NewETLService(etlPipeline, notify.NewLogNotifier(logger), cfg.RunTimeout, logger)

	router := server.NewRouter(cfg, etl, db, reg, logger)

	log.Printf("starting server on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
