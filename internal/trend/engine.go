// Package trend turns a raw price series into a calibrated next-day trend
// prediction by fitting a fresh logistic-regression classifier per request.
// No model is persisted across requests: a fit on the latest window cannot
// go stale or skew against a newer feature pipeline.
package trend

import (
	"context"
	"math"

	"stock-news-advisor/internal/interfaces"
	"stock-news-advisor/internal/logger"
	"stock-news-advisor/internal/ta"
	"stock-news-advisor/internal/types"
)

// Config holds the indicator windows and the training floor.
type Config struct {
	ShortWindow     int
	LongWindow      int
	RSIPeriod       int
	MinTrainingRows int
}

// DefaultConfig returns the standard 5/20/14 windows with a 25-row floor.
func DefaultConfig() Config {
	return Config{ShortWindow: 5, LongWindow: 20, RSIPeriod: 14, MinTrainingRows: 25}
}

// Engine computes indicators and a trend probability for one ticker.
type Engine struct {
	provider interfaces.PriceHistoryProvider
	cfg      Config
}

// New creates a trend engine over the given price history provider.
// Unset fields take their defaults independently, so a partial Config can
// never yield an engine with a zero window or training floor.
func New(provider interfaces.PriceHistoryProvider, cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.ShortWindow <= 0 {
		cfg.ShortWindow = def.ShortWindow
	}
	if cfg.LongWindow <= 0 {
		cfg.LongWindow = def.LongWindow
	}
	if cfg.RSIPeriod <= 0 {
		cfg.RSIPeriod = def.RSIPeriod
	}
	if cfg.MinTrainingRows < 2 {
		cfg.MinTrainingRows = def.MinTrainingRows
	}
	return &Engine{provider: provider, cfg: cfg}
}

type featureRow struct {
	features []float64 // MA5, MA20, RSI
	close    float64
}

// Predict fetches the trailing history for ticker and returns the indicator
// snapshot with the fitted up-probability. Every failure mode collapses to
// the empty Indicators value; "no signal" is a valid low-information outcome,
// never a pipeline error.
func (e *Engine) Predict(ctx context.Context, ticker string) types.Indicators {
	if ticker == "" {
		return types.Indicators{}
	}

	bars, err := e.provider.History(ctx, ticker)
	if err != nil {
		logger.Warn(ctx, "Price history fetch failed", "ticker", ticker, "error", err)
		return types.Indicators{}
	}
	if len(bars) == 0 {
		logger.Debug(ctx, "No price history", "ticker", ticker)
		return types.Indicators{}
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	ma5 := ta.SMASeries(closes, e.cfg.ShortWindow)
	ma20 := ta.SMASeries(closes, e.cfg.LongWindow)
	rsi := ta.RSISeries(closes, e.cfg.RSIPeriod)

	// Keep only rows where every feature is defined.
	rows := make([]featureRow, 0, len(closes))
	for i := range closes {
		if math.IsNaN(ma5[i]) || math.IsNaN(ma20[i]) || math.IsNaN(rsi[i]) {
			continue
		}
		rows = append(rows, featureRow{
			features: []float64{ma5[i], ma20[i], rsi[i]},
			close:    closes[i],
		})
	}
	if len(rows) < e.cfg.MinTrainingRows {
		logger.Debug(ctx, "Insufficient history for trend fit",
			"ticker", ticker, "rows", len(rows), "required", e.cfg.MinTrainingRows)
		return types.Indicators{}
	}

	// One-step-ahead labels; the final row has no future close and is held
	// out as the prediction target.
	train := rows[:len(rows)-1]
	target := rows[len(rows)-1]
	labels := make([]int, len(train))
	hasUp, hasDown := false, false
	for i := range train {
		if rows[i+1].close > rows[i].close {
			labels[i] = 1
			hasUp = true
		} else {
			hasDown = true
		}
	}
	if !hasUp || !hasDown {
		// A classifier trained on one class is not a valid signal.
		logger.Debug(ctx, "Degenerate label set", "ticker", ticker)
		return types.Indicators{}
	}

	features := make([][]float64, len(train))
	for i, r := range train {
		features[i] = r.features
	}
	sc := fitScaler(features)
	scaled := make([][]float64, len(features))
	for i, r := range features {
		scaled[i] = sc.transform(r)
	}

	model := newLogit(len(target.features))
	model.fit(scaled, labels)
	probUp := round2(model.predictProba(sc.transform(target.features)))

	// Direction is derived from the reported (rounded) probability so the
	// two fields can never disagree.
	direction := "down"
	if probUp >= 0.5 {
		direction = "up"
	}

	return types.Indicators{
		MA5:       round2(target.features[0]),
		MA20:      round2(target.features[1]),
		RSI:       round2(target.features[2]),
		Direction: direction,
		ProbUp:    probUp,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
