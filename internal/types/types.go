package types

import (
	"sort"
	"time"
)

// PriceBar is one daily observation of a ticker's adjusted close.
type PriceBar struct {
	Date  time.Time
	Close float64
}

// Indicators holds the technical snapshot and trend prediction for one
// request. The zero value means the trend engine had insufficient signal.
type Indicators struct {
	MA5       float64 `json:"ma5,omitempty"`
	MA20      float64 `json:"ma20,omitempty"`
	RSI       float64 `json:"rsi,omitempty"`
	Direction string  `json:"direction,omitempty"` // "up" or "down"
	ProbUp    float64 `json:"prob_up,omitempty"`
}

// Empty reports whether the engine produced no usable trend signal.
func (i Indicators) Empty() bool { return i.Direction == "" }

// SentimentErrorKind names the failure modes a classification attempt can end in.
type SentimentErrorKind string

const (
	ErrQuotaDayExceeded    SentimentErrorKind = "QUOTA_DAY_EXCEEDED"
	ErrQuotaMinuteExceeded SentimentErrorKind = "QUOTA_MINUTE_EXCEEDED"
	ErrThrottled           SentimentErrorKind = "THROTTLED"
	ErrClassifierError     SentimentErrorKind = "CLASSIFIER_ERROR"
)

// SentimentError is the failure variant of a SentimentResult.
type SentimentError struct {
	Kind    SentimentErrorKind `json:"kind"`
	Message string             `json:"message"`
}

func (e *SentimentError) Error() string { return string(e.Kind) + ": " + e.Message }

// SentimentResult maps upper-cased labels (POSITIVE/NEGATIVE/NEUTRAL) to
// probabilities, or carries a tagged error instead. Scores need not sum to
// exactly 1; the dominant label is the argmax.
type SentimentResult struct {
	Scores map[string]float64 `json:"scores,omitempty"`
	Err    *SentimentError    `json:"error,omitempty"`
}

// Usable reports whether the result carries label scores to act on.
func (r SentimentResult) Usable() bool { return r.Err == nil && len(r.Scores) > 0 }

// Dominant returns the highest-scoring label. Ties break on lexicographic
// label order so the result is reproducible.
func (r SentimentResult) Dominant() (label string, score float64, ok bool) {
	if !r.Usable() {
		return "", 0, false
	}
	labels := make([]string, 0, len(r.Scores))
	for l := range r.Scores {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	for _, l := range labels {
		if !ok || r.Scores[l] > score {
			label, score, ok = l, r.Scores[l], true
		}
	}
	return label, score, ok
}

// Recommendation is the terminal output for one (article, ticker) pair.
type Recommendation struct {
	Action     string  `json:"action"` // BUY, SELL or HOLD
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Article is a {title, content} pair supplied by an article source.
type Article struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url,omitempty"`
}

// Prediction is the externally observable result of one pipeline run.
type Prediction struct {
	Title          string          `json:"title,omitempty"`
	Ticker         string          `json:"ticker"`
	Sentiment      SentimentResult `json:"sentiment"`
	Indicators     Indicators      `json:"indicators"`
	Recommendation Recommendation  `json:"recommendation"`
	Time           int64           `json:"time"`
}
