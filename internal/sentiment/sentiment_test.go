package sentiment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stock-news-advisor/internal/store"
)

func TestParseScoreJSONFlat(t *testing.T) {
	scores, err := parseScoreJSON(`{"POSITIVE": 0.9, "NEGATIVE": 0.1}`)
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"POSITIVE": 0.9, "NEGATIVE": 0.1}, scores)
}

func TestParseScoreJSONEnvelope(t *testing.T) {
	scores, err := parseScoreJSON(`{"scores": {"positive": 0.7, "negative": 0.2, "neutral": 0.1}}`)
	require.NoError(t, err)
	require.Equal(t, 0.7, scores["POSITIVE"])
	require.Equal(t, 0.1, scores["NEUTRAL"])
}

func TestParseScoreJSONFenced(t *testing.T) {
	raw := "```json\n{\"POSITIVE\": 0.6, \"NEGATIVE\": 0.4}\n```"
	scores, err := parseScoreJSON(raw)
	require.NoError(t, err)
	require.Equal(t, 0.6, scores["POSITIVE"])
}

func TestParseScoreJSONLowercaseLabels(t *testing.T) {
	scores, err := parseScoreJSON(`{"positive": 0.55, "negative": 0.45}`)
	require.NoError(t, err)
	require.Equal(t, 0.55, scores["POSITIVE"])
	require.Equal(t, 0.45, scores["NEGATIVE"])
}

func TestParseScoreJSONRejectsGarbage(t *testing.T) {
	_, err := parseScoreJSON("UP, probably")
	require.Error(t, err)
}

func TestParseScoreJSONRejectsOutOfRange(t *testing.T) {
	_, err := parseScoreJSON(`{"POSITIVE": 1.4, "NEGATIVE": 0.1}`)
	require.Error(t, err)
}

func TestParseScoreJSONRequiresCoreLabels(t *testing.T) {
	_, err := parseScoreJSON(`{"NEUTRAL": 1.0}`)
	require.Error(t, err)
}

func TestNewClassifierSelection(t *testing.T) {
	cfg := &store.Config{}
	cfg.Sentiment.Provider = "GEMINI"
	c, err := NewClassifier(cfg)
	require.NoError(t, err)
	require.Equal(t, "gemini", c.Name())

	cfg.Sentiment.Provider = "HUGGINGFACE"
	c, err = NewClassifier(cfg)
	require.NoError(t, err)
	require.Equal(t, "huggingface", c.Name())

	cfg.Sentiment.Provider = "WATSON"
	_, err = NewClassifier(cfg)
	require.Error(t, err)
}
