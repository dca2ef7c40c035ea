// internal/worker/refresher.go
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/warungku/backend-go/internal/domain"
	"github.com/warungku/backend-go/internal/service"
	"github.com/warungku/backend-go/internal/storage"
	"github.com/warungku/backend-go/pkg/logger"
)

// Refresher recomputes the business-wide predictions on a schedule so the
// cache stays warm and dashboards never wait on a cold computation. Each run
// is optionally archived as a JSON snapshot to object storage.
type Refresher struct {
	service *service.PredictionService
	archive storage.ObjectStorage
	horizon int
}

// runSnapshot is the archived payload of one refresh run.
type runSnapshot struct {
	GeneratedAt        time.Time                  `json:"generated_at"`
	StockAlerts        []domain.StockAlert        `json:"stock_alerts"`
	RestockSuggestions []domain.RestockSuggestion `json:"restock_suggestions"`
	SalesForecast      *domain.SalesForecast      `json:"sales_forecast"`
	WeeklyTrends       *domain.WeeklyPattern      `json:"weekly_trends"`
}

// NewRefresher creates a refresher. archive may be nil when snapshot
// archiving is disabled.
func NewRefresher(svc *service.PredictionService, archive storage.ObjectStorage, horizonDays int) *Refresher {
	if horizonDays <= 0 {
		horizonDays = 7
	}
	return &Refresher{
		service: svc,
		archive: archive,
		horizon: horizonDays,
	}
}

// Run executes one refresh immediately, then one per interval until the
// context is cancelled.
func (r *Refresher) Run(ctx context.Context, interval time.Duration) error {
	log := logger.For("refresher")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		start := time.Now()
		if err := r.RunOnce(ctx); err != nil {
			log.Error().Err(err).Msg("prediction refresh failed")
		} else {
			log.Info().Dur("took", time.Since(start)).Msg("prediction refresh completed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce computes all business-wide prediction types concurrently and
// archives the combined snapshot.
func (r *Refresher) RunOnce(ctx context.Context) error {
	var snapshot runSnapshot

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		alerts, err := r.service.StockAlerts(gctx)
		if err != nil {
			return fmt.Errorf("refreshing stock alerts: %w", err)
		}
		snapshot.StockAlerts = alerts
		return nil
	})

	g.Go(func() error {
		suggestions, err := r.service.RestockSuggestions(gctx)
		if err != nil {
			return fmt.Errorf("refreshing restock suggestions: %w", err)
		}
		snapshot.RestockSuggestions = suggestions
		return nil
	})

	g.Go(func() error {
		forecast, err := r.service.OverallForecast(gctx, r.horizon)
		if err != nil {
			return fmt.Errorf("refreshing sales forecast: %w", err)
		}
		snapshot.SalesForecast = forecast
		return nil
	})

	g.Go(func() error {
		pattern, err := r.service.WeeklyTrends(gctx)
		if err != nil {
			return fmt.Errorf("refreshing weekly trends: %w", err)
		}
		snapshot.WeeklyTrends = pattern
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	snapshot.GeneratedAt = time.Now().UTC()
	return r.archiveSnapshot(ctx, snapshot)
}

func (r *Refresher) archiveSnapshot(ctx context.Context, snapshot runSnapshot) error {
	if r.archive == nil {
		return nil
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding run snapshot: %w", err)
	}

	key := fmt.Sprintf("predictions/%s/run-%s.json",
		snapshot.GeneratedAt.Format("20060102"),
		snapshot.GeneratedAt.Format("150405"))

	if err := r.archive.UploadObject(ctx, key, payload); err != nil {
		return fmt.Errorf("archiving run snapshot: %w", err)
	}

	return nil
}
