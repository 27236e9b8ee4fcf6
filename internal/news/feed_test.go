package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-news-advisor/internal/store"
)

func rssDocument(articleURL string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Finance Feed</title>
    <item>
      <title>AAPL posts record quarterly revenue</title>
      <link>%s</link>
      <description>Summary text from the feed.</description>
    </item>
    <item>
      <title>Markets close mixed</title>
      <description>No link on this one.</description>
    </item>
    <item>
      <title>Third story beyond the limit</title>
      <description>Should be dropped.</description>
    </item>
  </channel>
</rss>`, articleURL)
}

func TestFetchArticlesScrapesBodies(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<p>Apple reported record revenue.</p>
<p>Shares rose in after-hours trading.</p>
</body></html>`)
	})
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssDocument(srv.URL+"/article"))
	})

	src := NewFeedSource(store.FeedConfig{URL: srv.URL + "/feed", MaxArticles: 2})

	articles, err := src.FetchArticles(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "AAPL posts record quarterly revenue", articles[0].Title)
	assert.Contains(t, articles[0].Content, "Apple reported record revenue.")
	assert.Contains(t, articles[0].Content, "Shares rose in after-hours trading.")

	// No link: body falls back to the feed summary.
	assert.Equal(t, "Markets close mixed", articles[1].Title)
	assert.Equal(t, "No link on this one.", articles[1].Content)
}

func TestFetchArticlesFeedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewFeedSource(store.FeedConfig{URL: srv.URL, MaxArticles: 5})

	_, err := src.FetchArticles(context.Background())
	assert.Error(t, err)
}
