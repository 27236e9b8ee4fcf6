package advisor

import (
	"context"
	"fmt"

	"stock-news-advisor/internal/interfaces"
	"stock-news-advisor/internal/logger"
	"stock-news-advisor/internal/types"
)

// Service runs the pipeline over a batch of fetched articles and persists
// the results. The scheduler and the /start endpoint both go through here.
type Service struct {
	pipeline *Pipeline
	source   interfaces.ArticleSource
	recorder interfaces.Recorder
}

// NewService wires the batch service.
func NewService(pipeline *Pipeline, source interfaces.ArticleSource, recorder interfaces.Recorder) *Service {
	return &Service{pipeline: pipeline, source: source, recorder: recorder}
}

// ProcessFeed fetches the configured feed, analyzes every article and
// records each prediction. Only fetching can fail; per-article analysis
// always yields a (possibly degraded) prediction.
func (s *Service) ProcessFeed(ctx context.Context) ([]types.Prediction, error) {
	op := logger.StartOperation(ctx, "process-feed")
	ctx = op.GetContext()

	articles, err := s.source.FetchArticles(ctx)
	if err != nil {
		op.EndWithError(err)
		return nil, fmt.Errorf("fetch articles: %w", err)
	}

	predictions := make([]types.Prediction, 0, len(articles))
	for _, article := range articles {
		if article.Content == "" {
			logger.Debug(ctx, "Skipping article without content", "title", article.Title)
			continue
		}
		p := s.pipeline.Analyze(ctx, article)
		predictions = append(predictions, p)

		if err := s.recorder.RecordPrediction(p); err != nil {
			logger.ErrorWithErr(ctx, "Failed to record prediction", err, "ticker", p.Ticker)
		}
	}

	op.End()
	logger.Info(ctx, "Feed processed", "articles", len(articles), "predictions", len(predictions))
	return predictions, nil
}
