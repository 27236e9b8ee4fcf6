package trend

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stock-news-advisor/internal/types"
)

type fakeProvider struct {
	bars []types.PriceBar
	err  error
}

func (f *fakeProvider) History(_ context.Context, _ string) ([]types.PriceBar, error) {
	return f.bars, f.err
}

func barsFromCloses(closes []float64) []types.PriceBar {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	bars := make([]types.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = types.PriceBar{Date: start.AddDate(0, 0, i), Close: c}
	}
	return bars
}

// zigzagCloses produces a series with both up and down days whose features
// are all defined after the long window fills.
func zigzagCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		base := 100 + 0.3*float64(i)
		if i%2 == 0 {
			base += 2
		}
		closes[i] = base
	}
	return closes
}

func TestPredictEmptyTicker(t *testing.T) {
	e := New(&fakeProvider{}, DefaultConfig())
	require.True(t, e.Predict(context.Background(), "").Empty())
}

func TestPredictFetchFailureIsSoft(t *testing.T) {
	e := New(&fakeProvider{err: errors.New("connection refused")}, DefaultConfig())
	require.True(t, e.Predict(context.Background(), "AAPL").Empty())
}

func TestPredictNoHistory(t *testing.T) {
	e := New(&fakeProvider{}, DefaultConfig())
	require.True(t, e.Predict(context.Background(), "AAPL").Empty())
}

func TestPredictInsufficientRows(t *testing.T) {
	// 30 bars leave ~11 complete feature rows, under the 25-row floor.
	e := New(&fakeProvider{bars: barsFromCloses(zigzagCloses(30))}, DefaultConfig())
	require.True(t, e.Predict(context.Background(), "AAPL").Empty())
}

func TestPredictDegenerateLabels(t *testing.T) {
	// Strictly increasing closes: every label is 1.
	closes := make([]float64, 70)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	e := New(&fakeProvider{bars: barsFromCloses(closes)}, DefaultConfig())
	require.True(t, e.Predict(context.Background(), "AAPL").Empty())
}

func TestPredictPartialConfigDefaultsRemainingFields(t *testing.T) {
	// Only the short window is set; the long window, RSI period and training
	// floor must still default rather than stay zero.
	e := New(&fakeProvider{bars: barsFromCloses(zigzagCloses(30))}, Config{ShortWindow: 5})
	require.True(t, e.Predict(context.Background(), "AAPL").Empty())

	// History shorter than the long window yields zero complete rows; with
	// the floor defaulted this degrades instead of slicing past the end.
	e = New(&fakeProvider{bars: barsFromCloses(zigzagCloses(19))}, Config{ShortWindow: 5})
	require.True(t, e.Predict(context.Background(), "AAPL").Empty())

	e = New(&fakeProvider{bars: barsFromCloses(zigzagCloses(70))}, Config{ShortWindow: 5})
	require.False(t, e.Predict(context.Background(), "AAPL").Empty())
}

func TestPredictProducesCalibratedSignal(t *testing.T) {
	e := New(&fakeProvider{bars: barsFromCloses(zigzagCloses(70))}, DefaultConfig())
	ind := e.Predict(context.Background(), "AAPL")

	require.False(t, ind.Empty())
	require.Contains(t, []string{"up", "down"}, ind.Direction)
	require.GreaterOrEqual(t, ind.ProbUp, 0.0)
	require.LessOrEqual(t, ind.ProbUp, 1.0)
	if ind.ProbUp >= 0.5 {
		require.Equal(t, "up", ind.Direction)
	} else {
		require.Equal(t, "down", ind.Direction)
	}

	// Outputs are rounded to two decimals.
	for _, v := range []float64{ind.MA5, ind.MA20, ind.RSI, ind.ProbUp} {
		require.InDelta(t, v, math.Round(v*100)/100, 1e-9)
	}

	// MA5 and MA20 sit inside the traded price range.
	require.Greater(t, ind.MA5, 100.0)
	require.Less(t, ind.MA20, 130.0)
}

func TestLogitSeparableData(t *testing.T) {
	// Two well-separated clusters: the model must order their probabilities.
	x := [][]float64{
		{-1.2, -1.0, -0.8},
		{-1.0, -1.1, -1.2},
		{-0.9, -0.8, -1.0},
		{1.0, 1.1, 0.9},
		{1.2, 0.9, 1.1},
		{0.8, 1.0, 1.2},
	}
	y := []int{0, 0, 0, 1, 1, 1}

	m := newLogit(3)
	m.fit(x, y)

	require.Less(t, m.predictProba([]float64{-1, -1, -1}), 0.5)
	require.Greater(t, m.predictProba([]float64{1, 1, 1}), 0.5)
}

func TestScalerStandardizes(t *testing.T) {
	rows := [][]float64{{1, 10}, {2, 20}, {3, 30}}
	s := fitScaler(rows)

	var mean0, mean1 float64
	for _, r := range rows {
		tr := s.transform(r)
		mean0 += tr[0]
		mean1 += tr[1]
	}
	require.InDelta(t, 0, mean0/3, 1e-9)
	require.InDelta(t, 0, mean1/3, 1e-9)
}

func TestScalerConstantFeature(t *testing.T) {
	rows := [][]float64{{5, 1}, {5, 2}, {5, 3}}
	s := fitScaler(rows)
	tr := s.transform([]float64{5, 2})
	require.False(t, math.IsNaN(tr[0]))
	require.InDelta(t, 0, tr[0], 1e-9)
}
