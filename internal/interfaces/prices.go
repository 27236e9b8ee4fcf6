package interfaces

import (
	"context"

	"stock-news-advisor/internal/types"
)

// PriceHistoryProvider supplies a trailing window of daily closes for a
// ticker, oldest first. An empty slice is a valid "no data" answer.
type PriceHistoryProvider interface {
	History(ctx context.Context, ticker string) ([]types.PriceBar, error)
}
