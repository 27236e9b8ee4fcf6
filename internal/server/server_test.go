package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-news-advisor/internal/advisor"
	"stock-news-advisor/internal/quota"
	"stock-news-advisor/internal/trend"
	"stock-news-advisor/internal/types"
)

type fakeClassifier struct{}

func (f *fakeClassifier) Classify(_ context.Context, _ string, _ bool) (map[string]float64, error) {
	return map[string]float64{"POSITIVE": 0.9, "NEGATIVE": 0.05, "NEUTRAL": 0.05}, nil
}
func (f *fakeClassifier) Name() string { return "fake" }

type fakePrices struct{}

func (f *fakePrices) History(_ context.Context, _ string) ([]types.PriceBar, error) {
	return nil, nil // trend engine degrades to an empty signal
}

type fakeSource struct {
	articles []types.Article
}

func (f *fakeSource) FetchArticles(_ context.Context) ([]types.Article, error) {
	return f.articles, nil
}

type memRecorder struct {
	records []types.Prediction
}

func (m *memRecorder) RecordPrediction(p types.Prediction) error {
	m.records = append(m.records, p)
	return nil
}
func (m *memRecorder) Close() error { return nil }

func newTestServer(t *testing.T, articles []types.Article) (*httptest.Server, *memRecorder) {
	t.Helper()

	tracker := quota.NewTracker(quota.Limits{MaxPerMinute: 100, MaxPerDay: 1000, AllowFallback: true})
	engine := trend.New(&fakePrices{}, trend.DefaultConfig())
	pipeline := advisor.NewPipeline(tracker, &fakeClassifier{}, engine)

	rec := &memRecorder{}
	service := advisor.NewService(pipeline, &fakeSource{articles: articles}, rec)

	srv := httptest.NewServer(New(pipeline, service, tracker).Handler())
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestPredictEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Post(srv.URL+"/predict", "application/json",
		strings.NewReader(`{"title":"AAPL beats estimates","content":"Apple reported strong results."}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p types.Prediction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(t, "AAPL", p.Ticker)
	assert.NotEmpty(t, p.Recommendation.Action)
}

func TestPredictRejectsEmptyContent(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	for _, body := range []string{`{"title":"x"}`, `{"content":"   "}`, `not json`} {
		resp, err := http.Post(srv.URL+"/predict", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body: %s", body)
	}
}

func TestStartEndpointRunsFeed(t *testing.T) {
	srv, rec := newTestServer(t, []types.Article{
		{Title: "MSFT rallies", Content: "Microsoft shares gained."},
	})

	resp, err := http.Get(srv.URL + "/start")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Count       int                `json:"count"`
		Predictions []types.Prediction `json:"predictions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Count)
	require.Len(t, rec.records, 1)
	assert.Equal(t, "MSFT", rec.records[0].Ticker)
}
