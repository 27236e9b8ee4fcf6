// Package sentiment implements the classifier port over external
// text-classification backends. Each backend exposes a primary and a
// cheaper fallback model; the quota tracker decides which one a call uses.
package sentiment

import (
	"encoding/json"
	"fmt"
	"strings"

	"stock-news-advisor/internal/interfaces"
	"stock-news-advisor/internal/store"
)

// NewClassifier selects the backend named by the configuration.
func NewClassifier(cfg *store.Config) (interfaces.SentimentClassifier, error) {
	switch strings.ToUpper(cfg.Sentiment.Provider) {
	case "GEMINI":
		return NewGeminiClassifier(cfg.Sentiment.Gemini.Model, cfg.Sentiment.Gemini.FallbackModel), nil
	case "HUGGINGFACE":
		return NewHuggingFaceClassifier(cfg.Sentiment.HuggingFace.Model, cfg.Sentiment.HuggingFace.FallbackModel), nil
	default:
		return nil, fmt.Errorf("unsupported sentiment provider: %s", cfg.Sentiment.Provider)
	}
}

// parseScoreJSON extracts a label->score mapping from a model's JSON reply.
// Models wrapped in markdown fences or a {"scores": {...}} envelope are
// handled; labels are normalized to upper case.
func parseScoreJSON(raw string) (map[string]float64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var envelope struct {
		Scores map[string]float64 `json:"scores"`
	}
	if err := json.Unmarshal([]byte(cleaned), &envelope); err == nil && len(envelope.Scores) > 0 {
		return normalizeLabels(envelope.Scores)
	}

	var flat map[string]float64
	if err := json.Unmarshal([]byte(cleaned), &flat); err != nil {
		return nil, fmt.Errorf("invalid score JSON: %w", err)
	}
	return normalizeLabels(flat)
}

func normalizeLabels(scores map[string]float64) (map[string]float64, error) {
	out := make(map[string]float64, len(scores))
	for label, score := range scores {
		if score < 0 || score > 1 {
			return nil, fmt.Errorf("score for %q out of [0,1]: %v", label, score)
		}
		out[strings.ToUpper(label)] = score
	}
	if _, ok := out["POSITIVE"]; !ok {
		return nil, fmt.Errorf("missing POSITIVE score")
	}
	if _, ok := out["NEGATIVE"]; !ok {
		return nil, fmt.Errorf("missing NEGATIVE score")
	}
	return out, nil
}
