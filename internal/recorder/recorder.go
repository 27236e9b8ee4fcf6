// Package recorder persists predictions to an append-only log or a
// SQLite database.
package recorder

import (
	"fmt"

	"stock-news-advisor/internal/interfaces"
	"stock-news-advisor/internal/store"
	"stock-news-advisor/internal/types"
)

// New builds the recorder named by the configuration.
func New(cfg store.RecorderConfig) (interfaces.Recorder, error) {
	switch cfg.Backend {
	case "jsonl":
		return NewJSONLRecorder(cfg.Path)
	case "sqlite":
		return NewSQLiteRecorder(cfg.Path)
	case "none":
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unsupported recorder backend: %s", cfg.Backend)
	}
}

// Noop discards all predictions.
type Noop struct{}

func (Noop) RecordPrediction(_ types.Prediction) error { return nil }
func (Noop) Close() error                              { return nil }
