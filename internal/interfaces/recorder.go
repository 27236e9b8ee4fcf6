package interfaces

import (
	"context"

	"stock-news-advisor/internal/types"
)

// Recorder persists produced predictions.
type Recorder interface {
	RecordPrediction(p types.Prediction) error
	Close() error
}

// ArticleSource supplies the articles a batch run analyzes.
type ArticleSource interface {
	FetchArticles(ctx context.Context) ([]types.Article, error)
}
