// Package news pulls articles from a financial RSS feed and fetches
// their full text.
package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/mmcdole/gofeed"

	"stock-news-advisor/internal/logger"
	"stock-news-advisor/internal/store"
	"stock-news-advisor/internal/types"
)

// FeedSource reads headlines from an RSS feed and scrapes each linked
// article page for its body text.
type FeedSource struct {
	parser      *gofeed.Parser
	url         string
	maxArticles int
	timeout     time.Duration
}

// NewFeedSource creates a source for the configured feed.
func NewFeedSource(cfg store.FeedConfig) *FeedSource {
	return &FeedSource{
		parser:      gofeed.NewParser(),
		url:         cfg.URL,
		maxArticles: cfg.MaxArticles,
		timeout:     30 * time.Second,
	}
}

// FetchArticles returns up to the configured number of articles from the
// feed. Articles whose body could not be scraped fall back to the feed's
// own summary text.
func (f *FeedSource) FetchArticles(ctx context.Context) ([]types.Article, error) {
	logger.Info(ctx, "Fetching RSS feed", "url", f.url)

	feed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", f.url, err)
	}

	articles := make([]types.Article, 0, f.maxArticles)
	for _, item := range feed.Items {
		if len(articles) >= f.maxArticles {
			break
		}
		if item.Title == "" {
			continue
		}

		content := ""
		if item.Link != "" {
			content = f.fetchBody(ctx, item.Link)
		}
		if content == "" {
			content = strings.TrimSpace(item.Description)
		}

		articles = append(articles, types.Article{
			Title:   strings.TrimSpace(item.Title),
			Content: content,
			URL:     item.Link,
		})
	}

	logger.Info(ctx, "RSS feed fetched", "url", f.url, "articles", len(articles))
	return articles, nil
}

// fetchBody scrapes the paragraph text of an article page. Returns an
// empty string on any failure so callers can fall back to the summary.
func (f *FeedSource) fetchBody(ctx context.Context, articleURL string) string {
	c := colly.NewCollector()
	c.SetRequestTimeout(f.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	})

	paragraphs := []string{}
	c.OnHTML("p", func(e *colly.HTMLElement) {
		text := strings.TrimSpace(e.Text)
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	if err := c.Visit(articleURL); err != nil {
		logger.Warn(ctx, "Failed to fetch article body", "url", articleURL, "error", err)
		return ""
	}
	c.Wait()

	return strings.Join(paragraphs, "\n")
}
