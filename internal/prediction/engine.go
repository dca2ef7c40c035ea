// internal/prediction/engine.go

// Package prediction implements the inventory intelligence engine: stock-out
// risk estimation, restock recommendation, and sales trend forecasting over
// recent transactional aggregates. The engine is stateless; every call reads
// fresh history through the repository.HistoryReader interface and returns a
// best-effort result. Confidence values are heuristic indicators of how much
// history supports an estimate, not calibrated probabilities.
package prediction

import (
	"time"

	"github.com/warungku/backend-go/internal/repository"
)

// Lookback windows, in days.
const (
	stockLookbackDays    = 60
	restockLookbackDays  = 90
	forecastLookbackDays = 60
	weeklyLookbackDays   = 30
)

type Engine struct {
	history repository.HistoryReader
	noise   NoiseFactory
	now     func() time.Time
}

type Option func(*Engine)

// WithNoise overrides the forecast noise source, letting tests pin a seed.
func WithNoise(factory NoiseFactory) Option {
	return func(e *Engine) { e.noise = factory }
}

// WithClock overrides the engine's notion of "today".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(history repository.HistoryReader, opts ...Option) *Engine {
	e := &Engine{
		history: history,
		noise:   RandomNoise(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// today returns the current day truncated to midnight UTC, the reference point
// for recency decay and forecast dates.
func (e *Engine) today() time.Time {
	t := e.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
