package advisor

import (
	"context"
	"time"

	"stock-news-advisor/internal/extract"
	"stock-news-advisor/internal/interfaces"
	"stock-news-advisor/internal/logger"
	"stock-news-advisor/internal/quota"
	"stock-news-advisor/internal/trace"
	"stock-news-advisor/internal/trend"
	"stock-news-advisor/internal/types"
)

// Pipeline sequences extractor -> trend engine -> quota-gated classifier ->
// synthesizer for one article. Pipelines may run concurrently; the quota
// tracker is the only state they share.
type Pipeline struct {
	tracker    *quota.Tracker
	classifier interfaces.SentimentClassifier
	trend      *trend.Engine
}

// NewPipeline wires the pipeline's collaborators.
func NewPipeline(tracker *quota.Tracker, classifier interfaces.SentimentClassifier, engine *trend.Engine) *Pipeline {
	return &Pipeline{tracker: tracker, classifier: classifier, trend: engine}
}

// Analyze runs the full pipeline for one article. It never fails for
// data-quality reasons: quota denials and classifier errors degrade to a
// tagged sentiment error and the synthesizer falls back to HOLD.
func (p *Pipeline) Analyze(ctx context.Context, article types.Article) types.Prediction {
	ctx, span := trace.StartSpan(ctx, "analyze-article")
	defer span.End()

	ticker := extract.Ticker(article.Title + "\n" + article.Content)

	indicators := types.Indicators{}
	if ticker != "" {
		indicators = p.trend.Predict(ctx, ticker)
	}

	sentiment := p.classify(ctx, article.Content)
	rec := Synthesize(sentiment, indicators)

	logger.Decision(ctx, ticker, rec.Action, rec.Confidence, rec.Reason,
		"title", article.Title)

	return types.Prediction{
		Title:          article.Title,
		Ticker:         ticker,
		Sentiment:      sentiment,
		Indicators:     indicators,
		Recommendation: rec,
		Time:           time.Now().Unix(),
	}
}

// classify gates the external classifier behind the quota tracker. The
// reservation commits only on a successful response so failed calls never
// consume budget.
func (p *Pipeline) classify(ctx context.Context, text string) types.SentimentResult {
	decision, reservation := p.tracker.CheckAndReserve()

	switch decision {
	case quota.DayExceeded:
		logger.Warn(ctx, "Sentiment call denied", "decision", decision.String())
		return types.SentimentResult{Err: &types.SentimentError{
			Kind:    types.ErrQuotaDayExceeded,
			Message: "daily request limit reached, try again tomorrow",
		}}
	case quota.MinuteExceeded:
		logger.Warn(ctx, "Sentiment call denied", "decision", decision.String())
		return types.SentimentResult{Err: &types.SentimentError{
			Kind:    types.ErrQuotaMinuteExceeded,
			Message: "too many requests this minute, wait a moment",
		}}
	case quota.ThrottledWarning:
		logger.Warn(ctx, "Sentiment call denied", "decision", decision.String())
		return types.SentimentResult{Err: &types.SentimentError{
			Kind:    types.ErrThrottled,
			Message: "request rate near limit, try again later",
		}}
	}

	degraded := decision == quota.AllowedDegraded
	if degraded {
		logger.Info(ctx, "Routing sentiment call to fallback backend")
	}

	scores, err := p.classifier.Classify(ctx, text, degraded)
	if err != nil {
		reservation.Release()
		logger.ErrorWithErr(ctx, "Sentiment classification failed", err,
			"backend", p.classifier.Name())
		return types.SentimentResult{Err: &types.SentimentError{
			Kind:    types.ErrClassifierError,
			Message: err.Error(),
		}}
	}
	reservation.Commit()

	return types.SentimentResult{Scores: scores}
}
