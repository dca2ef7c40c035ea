// cmd/worker/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/warungku/backend-go/internal/cache"
	"github.com/warungku/backend-go/internal/config"
	"github.com/warungku/backend-go/internal/prediction"
	"github.com/warungku/backend-go/internal/repository"
	"github.com/warungku/backend-go/internal/repository/postgres"
	"github.com/warungku/backend-go/internal/service"
	"github.com/warungku/backend-go/internal/storage"
	"github.com/warungku/backend-go/internal/worker"
	"github.com/warungku/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)
	log := logger.For("worker")

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	predictionCache, err := cache.NewPredictionCache(cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to cache")
	}

	historyRepo := repository.NewHistoryRepository(db)
	engine := prediction.NewEngine(historyRepo)
	predictionService := service.NewPredictionService(engine, predictionCache)

	var archive storage.ObjectStorage
	if cfg.Storage.Enabled {
		archive, err = storage.NewMinioClient(cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize snapshot storage")
		}
	}

	refresher := worker.NewRefresher(predictionService, archive, cfg.Worker.ForecastHorizonDays)

	// Health check endpoint so orchestrators can probe the worker.
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	healthSrv := &http.Server{
		Addr:    ":" + cfg.Worker.HealthPort,
		Handler: r,
	}
	go func() {
		log.Info().Str("port", cfg.Worker.HealthPort).Msg("Health endpoint listening")
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Health endpoint failed")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down worker...")
		cancel()
	}()

	interval := time.Duration(cfg.Worker.IntervalMinutes) * time.Minute
	log.Info().Dur("interval", interval).Msg("Starting prediction refresher")
	if err := refresher.Run(ctx, interval); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("Refresher stopped with error")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = healthSrv.Shutdown(shutdownCtx)

	log.Info().Msg("Worker exiting")
}
