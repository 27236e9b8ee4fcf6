package recorder

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-news-advisor/internal/store"
	"stock-news-advisor/internal/types"
)

func samplePrediction(ticker string) types.Prediction {
	return types.Prediction{
		Title:  "Quarterly results beat estimates",
		Ticker: ticker,
		Sentiment: types.SentimentResult{
			Scores: map[string]float64{"POSITIVE": 0.9, "NEGATIVE": 0.05, "NEUTRAL": 0.05},
		},
		Indicators: types.Indicators{
			MA5: 101.2, MA20: 99.8, RSI: 61.3, Direction: "up", ProbUp: 0.8,
		},
		Recommendation: types.Recommendation{Action: "BUY", Confidence: 0.85, Reason: "Positive sentiment and upward trend"},
		Time:           1700000000,
	}
}

func TestJSONLRecorderAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "predictions.jsonl")

	r, err := NewJSONLRecorder(path)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.RecordPrediction(samplePrediction("AAPL")))
	require.NoError(t, r.RecordPrediction(samplePrediction("MSFT")))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var tickers []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var p types.Prediction
		require.NoError(t, json.Unmarshal(sc.Bytes(), &p))
		tickers = append(tickers, p.Ticker)
	}
	require.NoError(t, sc.Err())

	assert.Equal(t, []string{"AAPL", "MSFT"}, tickers)
}

func TestSQLiteRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "predictions.db")

	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.RecordPrediction(samplePrediction("TSLA")))

	var ticker, action string
	var confidence float64
	err = r.db.QueryRow(`SELECT ticker, action, confidence FROM predictions`).
		Scan(&ticker, &action, &confidence)
	require.NoError(t, err)

	assert.Equal(t, "TSLA", ticker)
	assert.Equal(t, "BUY", action)
	assert.InDelta(t, 0.85, confidence, 1e-9)
}

func TestNewSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	r, err := New(store.RecorderConfig{Backend: "jsonl", Path: filepath.Join(dir, "p.jsonl")})
	require.NoError(t, err)
	assert.IsType(t, &JSONLRecorder{}, r)

	r, err = New(store.RecorderConfig{Backend: "none"})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, r)

	_, err = New(store.RecorderConfig{Backend: "csv"})
	assert.Error(t, err)
}
