package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brahmand/brahmand/internal/job"
	"github.com/brahmand/brahmand/internal/model"
)

const trendsFeedTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss xmlns:ht="https://trends.google.com/trending/rss" version="2.0">
  <channel>
    <title>Daily Search Trends</title>
    <item>
      <title>Chandrayaan Update</title>
      <link>https://trends.google.com/item/1</link>
      <description>lander news</description>
      <ht:approx_traffic>200K+</ht:approx_traffic>
      <ht:news_item>
        <ht:news_item_url>%s/news/chandrayaan</ht:news_item_url>
        <ht:news_item_source>Space Daily</ht:news_item_source>
        <ht:news_item_snippet>The lander &lt;b&gt;touched down&lt;/b&gt; safely.</ht:news_item_snippet>
      </ht:news_item>
    </item>
    <item>
      <title>Monsoon Forecast</title>
      <link></link>
      <description></description>
    </item>
  </channel>
</rss>`

func testTrendService(t *testing.T) (*TrendService, *ArticleService) {
	t.Helper()
	db := testServiceDB(t)
	articles := NewArticleService(db, t.TempDir(), nil)
	return NewTrendService(db, articles, nil, nil), articles
}

func newTrendsServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, trendsFeedTemplate, srv.URL)
	})
	mux.HandleFunc("/news/chandrayaan", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head>
			<meta property="og:title" content="Chandrayaan lander touches down"/>
			<meta property="og:description" content="Full coverage of the landing."/>
			</head><body></body></html>`)
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchTrendsStoresSanitizedItems(t *testing.T) {
	svc, _ := testTrendService(t)
	srv := newTrendsServer(t)
	svc.feedURLs = []string{srv.URL + "/feed"}

	ctx := context.Background()
	stored, err := svc.FetchTrends(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stored)

	trends, err := svc.queries.ListRecentTrends(ctx, 10)
	require.NoError(t, err)
	require.Len(t, trends, 2)

	byTitle := map[string]model.Trend{}
	for _, tr := range trends {
		byTitle[tr.Title] = tr
	}

	chandrayaan := byTitle["Chandrayaan Update"]
	assert.Equal(t, "Space Daily", chandrayaan.Source)
	assert.Equal(t, srv.URL+"/news/chandrayaan", chandrayaan.Link.String)
	// Markup in the snippet is stripped.
	assert.Equal(t, "Approximately 200K+ searches today. The lander touched down safely.", chandrayaan.Description)
	assert.Equal(t, "Chandrayaan lander touches down", chandrayaan.MetaTitle.String)
	assert.Equal(t, "Full coverage of the landing.", chandrayaan.MetaDesc.String)

	monsoon := byTitle["Monsoon Forecast"]
	assert.Equal(t, "Google Trends", monsoon.Source)
	assert.Equal(t, "Monsoon Forecast is spiking right now across India according to Google Trends.", monsoon.Description)
}

func TestFetchTrendsFallsBackToSecondFeed(t *testing.T) {
	svc, _ := testTrendService(t)
	srv := newTrendsServer(t)

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(broken.Close)

	svc.feedURLs = []string{broken.URL, srv.URL + "/feed"}

	stored, err := svc.FetchTrends(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stored)
}

func TestFetchTrendsAllFeedsDown(t *testing.T) {
	svc, _ := testTrendService(t)
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)

	svc.feedURLs = []string{broken.URL}

	_, err := svc.FetchTrends(context.Background())
	assert.Error(t, err)
}

func TestGenerateArticlesFromTrends(t *testing.T) {
	svc, articles := testTrendService(t)
	srv := newTrendsServer(t)
	svc.feedURLs = []string{srv.URL + "/feed"}

	ctx := context.Background()
	_, err := svc.FetchTrends(ctx)
	require.NoError(t, err)

	created, err := svc.GenerateArticles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	exists, err := articles.SlugExists(ctx, trendVerse, "chandrayaan-update")
	require.NoError(t, err)
	assert.True(t, exists)

	// Re-running does not duplicate coverage.
	created, err = svc.GenerateArticles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

type pipelineBuilds struct {
	payloads []map[string]any
}

func (b *pipelineBuilds) TriggerBuild(triggeredBy string, payload map[string]any) job.Job {
	b.payloads = append(b.payloads, payload)
	return job.Job{}
}

func TestTrendPipelineSteps(t *testing.T) {
	svc, _ := testTrendService(t)
	srv := newTrendsServer(t)
	svc.feedURLs = []string{srv.URL + "/feed"}

	builds := &pipelineBuilds{}
	steps, err := svc.Pipeline(builds)(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"fetch-trends", "generate-trend-articles", "build-site"}, steps)
	require.Len(t, builds.payloads, 1)
	assert.Equal(t, "trend_automation", builds.payloads[0]["reason"])
}

func TestTrendPipelineStopsOnFetchFailure(t *testing.T) {
	svc, _ := testTrendService(t)
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(broken.Close)
	svc.feedURLs = []string{broken.URL}

	builds := &pipelineBuilds{}
	steps, err := svc.Pipeline(builds)(context.Background())
	assert.Error(t, err)
	assert.Empty(t, steps)
	assert.Empty(t, builds.payloads)
}
