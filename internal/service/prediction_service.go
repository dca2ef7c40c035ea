package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/warungku/backend-go/internal/cache"
	"github.com/warungku/backend-go/internal/domain"
	"github.com/warungku/backend-go/internal/prediction"
)

// Per-type cache TTLs. Stock alerts go stale within a day, forecasts within
// half a day, restock suggestions hold for a few days.
const (
	stockAlertTTL   = 24 * time.Hour
	forecastTTL     = 12 * time.Hour
	restockTTL      = 72 * time.Hour
	weeklyTrendsTTL = 24 * time.Hour
)

type PredictionService struct {
	engine *prediction.Engine
	cache  cache.PredictionCache
}

func NewPredictionService(engine *prediction.Engine, cacheImpl cache.PredictionCache) *PredictionService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopPredictionCache()
	}
	return &PredictionService{engine: engine, cache: cacheImpl}
}

func (s *PredictionService) StockAlerts(ctx context.Context) ([]domain.StockAlert, error) {
	var cached []domain.StockAlert
	if ok, err := s.cache.Get(ctx, domain.PredictionStockAlerts, 0, &cached); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("predictions: cache get stock alerts failed")
	}

	alerts, err := s.engine.StockAlerts(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, domain.PredictionStockAlerts, 0, alerts, stockAlertTTL); err != nil {
		log.Warn().Err(err).Msg("predictions: cache set stock alerts failed")
	}

	return alerts, nil
}

func (s *PredictionService) RestockSuggestions(ctx context.Context) ([]domain.RestockSuggestion, error) {
	var cached []domain.RestockSuggestion
	if ok, err := s.cache.Get(ctx, domain.PredictionRestockSuggestions, 0, &cached); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("predictions: cache get restock suggestions failed")
	}

	suggestions, err := s.engine.RestockSuggestions(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, domain.PredictionRestockSuggestions, 0, suggestions, restockTTL); err != nil {
		log.Warn().Err(err).Msg("predictions: cache set restock suggestions failed")
	}

	return suggestions, nil
}

func (s *PredictionService) OverallForecast(ctx context.Context, daysAhead int) (*domain.SalesForecast, error) {
	var cached domain.SalesForecast
	if ok, err := s.cache.Get(ctx, domain.PredictionSalesForecast, 0, &cached); err == nil && ok {
		// A cached forecast only serves requests for the same horizon.
		if len(cached.Points) == daysAhead || cached.Trend == domain.TrendInsufficientData {
			return &cached, nil
		}
	} else if err != nil {
		log.Warn().Err(err).Msg("predictions: cache get sales forecast failed")
	}

	forecast, err := s.engine.OverallForecast(ctx, daysAhead)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, domain.PredictionSalesForecast, 0, forecast, forecastTTL); err != nil {
		log.Warn().Err(err).Msg("predictions: cache set sales forecast failed")
	}

	return forecast, nil
}

func (s *PredictionService) ProductForecast(ctx context.Context, productID int64, daysAhead int) (*domain.SalesForecast, error) {
	var cached domain.SalesForecast
	if ok, err := s.cache.Get(ctx, domain.PredictionProductForecast, productID, &cached); err == nil && ok {
		if len(cached.Points) == daysAhead || cached.Trend == domain.TrendNoData {
			return &cached, nil
		}
	} else if err != nil {
		log.Warn().Err(err).Int64("product_id", productID).Msg("predictions: cache get product forecast failed")
	}

	forecast, err := s.engine.ProductForecast(ctx, productID, daysAhead)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, domain.PredictionProductForecast, productID, forecast, forecastTTL); err != nil {
		log.Warn().Err(err).Int64("product_id", productID).Msg("predictions: cache set product forecast failed")
	}

	return forecast, nil
}

func (s *PredictionService) WeeklyTrends(ctx context.Context) (*domain.WeeklyPattern, error) {
	var cached domain.WeeklyPattern
	if ok, err := s.cache.Get(ctx, domain.PredictionWeeklyTrends, 0, &cached); err == nil && ok {
		return &cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("predictions: cache get weekly trends failed")
	}

	pattern, err := s.engine.WeeklyTrends(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, domain.PredictionWeeklyTrends, 0, pattern, weeklyTrendsTTL); err != nil {
		log.Warn().Err(err).Msg("predictions: cache set weekly trends failed")
	}

	return pattern, nil
}
