package main

import (
	"context"
	"log"

	"newswire/cache"
	"newswire/config"
	"newswire/providers"
	"newswire/providers/guardian"
	"newswire/providers/newsapi"
	"newswire/providers/nytimes"
	"newswire/services"
	"newswire/storage"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Manueller Scrape-Lauf, synchron. Einzelne Provider-Fehler werden geloggt,
// ändern aber nichts am Exit-Code: der Lauf als Ganzes gilt als erledigt.
func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}

	redisCache, err := cache.NewRedisCache(cfg, logging)
	if err != nil {
		logging.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	store := storage.NewStore(db)
	provs := []providers.Provider{
		newsapi.NewFetcher(cfg, store, logging),
		guardian.NewFetcher(cfg, store, logging),
		nytimes.NewFetcher(cfg, store, logging),
	}

	ingest := services.NewIngestService(cfg, logging, provs, redisCache, nil)
	report, err := ingest.Run(context.Background())
	if err != nil {
		logging.Fatal("Scrape run failed", zap.Error(err))
	}

	logging.Info("Scrape run finished",
		zap.Bool("success", report.Success),
		zap.Int("total_articles", report.Total))
}
