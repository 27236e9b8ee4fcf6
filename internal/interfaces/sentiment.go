package interfaces

import "context"

// SentimentClassifier is the port to an external text-classification backend.
// It returns a label -> probability mapping with at least POSITIVE and
// NEGATIVE keys (upper-cased). When degraded is true the implementation must
// route the call to its cheaper/fallback model.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string, degraded bool) (map[string]float64, error)
	Name() string
}
