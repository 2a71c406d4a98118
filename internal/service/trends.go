package service

import (
	"context"
	"database/sql"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/brahmand/brahmand/internal/model"
	"github.com/brahmand/brahmand/internal/scheduler"
	"github.com/brahmand/brahmand/internal/store"
	"github.com/brahmand/brahmand/internal/util"
)

// Google serves the daily trending-searches feed from two paths
// depending on rollout; try both before giving up.
var defaultTrendFeeds = []string{
	"https://trends.google.com/trends/trendingsearches/daily/rss?geo=IN&hl=en-US",
	"https://trends.google.com/trending/rss?geo=IN&hl=en-US",
}

const (
	maxTrendsPerFetch = 50
	trendVerse        = "techverse"
	trendUserAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"
)

// TrendService ingests the Google Trends daily RSS feed and turns
// recent trends into published articles.
type TrendService struct {
	queries  *store.Queries
	articles *ArticleService
	client   *http.Client
	feedURLs []string
	policy   *bluemonday.Policy
	drafter  *Drafter
	logger   *slog.Logger
}

// NewTrendService creates a TrendService. drafter may be nil, in which
// case generated articles use the templated markdown body.
func NewTrendService(db *sql.DB, articles *ArticleService, drafter *Drafter, logger *slog.Logger) *TrendService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrendService{
		queries:  store.New(db),
		articles: articles,
		client:   &http.Client{Timeout: 30 * time.Second},
		feedURLs: defaultTrendFeeds,
		policy:   bluemonday.StrictPolicy(),
		drafter:  drafter,
		logger:   logger,
	}
}

// rssFeed mirrors the ht: namespaced items of the Google Trends feed.
// Unqualified field names match elements in any namespace.
type rssFeed struct {
	XMLName xml.Name  `xml:"rss"`
	Items   []rssItem `xml:"channel>item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	Description string        `xml:"description"`
	Traffic     string        `xml:"approx_traffic"`
	News        []rssNewsItem `xml:"news_item"`
}

type rssNewsItem struct {
	URL     string `xml:"news_item_url"`
	Source  string `xml:"news_item_source"`
	Snippet string `xml:"news_item_snippet"`
}

// FetchTrends downloads the trends feed, sanitizes every item and
// upserts it into the trends table. Returns the number of stored
// trends.
func (s *TrendService) FetchTrends(ctx context.Context) (int, error) {
	var lastErr error
	for _, url := range s.feedURLs {
		body, err := s.fetchFeed(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}
		return s.storeFeed(ctx, body)
	}
	if lastErr == nil {
		lastErr = errors.New("no trend feed configured")
	}
	return 0, fmt.Errorf("fetching trends feed: %w", lastErr)
}

func (s *TrendService) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", trendUserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
}

func (s *TrendService) storeFeed(ctx context.Context, body []byte) (int, error) {
	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return 0, fmt.Errorf("parsing trends feed: %w", err)
	}

	now := time.Now().UTC()
	stored := 0
	for i, item := range feed.Items {
		if i >= maxTrendsPerFetch {
			break
		}

		title := s.clean(item.Title)
		if title == "" {
			continue
		}

		link := item.Link
		source := "Google Trends"
		snippet := s.clean(item.Description)
		if len(item.News) > 0 {
			if item.News[0].URL != "" {
				link = item.News[0].URL
			}
			if item.News[0].Source != "" {
				source = s.clean(item.News[0].Source)
			}
			if item.News[0].Snippet != "" {
				snippet = s.clean(item.News[0].Snippet)
			}
		}

		var parts []string
		if traffic := strings.TrimSpace(item.Traffic); traffic != "" {
			parts = append(parts, fmt.Sprintf("Approximately %s searches today.", traffic))
		}
		if snippet != "" {
			parts = append(parts, snippet)
		}
		description := strings.Join(parts, " ")
		if description == "" {
			description = fmt.Sprintf("%s is spiking right now across India according to Google Trends.", title)
		}

		var meta pageMetadata
		if link != "" {
			meta = s.fetchPageMetadata(ctx, link)
		}

		err := s.queries.UpsertTrend(ctx, store.UpsertTrendParams{
			Title:       title,
			Link:        util.NullStringFromValue(link),
			Source:      source,
			Description: description,
			MetaTitle:   util.NullStringFromValue(meta.Title),
			MetaDesc:    util.NullStringFromValue(meta.Description),
			Now:         now,
		})
		if err != nil {
			s.logger.Warn("storing trend failed", "title", title, "error", err)
			continue
		}
		stored++
	}
	return stored, nil
}

// clean strips all markup and collapses whitespace.
func (s *TrendService) clean(text string) string {
	return strings.Join(strings.Fields(s.policy.Sanitize(text)), " ")
}

// GenerateArticles creates one published article per recent trend.
// Trends whose slug already exists in the trend verse are skipped, so
// re-running the pipeline does not duplicate coverage.
func (s *TrendService) GenerateArticles(ctx context.Context) (int, error) {
	trends, err := s.queries.ListRecentTrends(ctx, maxTrendsPerFetch)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, trend := range trends {
		slug := util.Slugify(trend.Title)
		if slug == "" {
			continue
		}
		exists, err := s.articles.SlugExists(ctx, trendVerse, slug)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		now := time.Now().UTC()
		_, err = s.articles.Create(ctx, CreateArticleInput{
			Title:      trend.Title,
			Slug:       slug,
			Verse:      trendVerse,
			Status:     model.ArticleStatusPublished,
			MetaTitle:  metaTitleFor(trend),
			MetaDesc:   metaDescFor(trend),
			SchemaType: model.SchemaTypeNone,
			PublishAt:  &now,
			Markdown:   s.draftBody(ctx, trend),
		}, 0)
		if err != nil {
			s.logger.Warn("generating trend article failed", "title", trend.Title, "error", err)
			continue
		}
		created++
	}
	return created, nil
}

// draftBody asks the AI drafter for a body when one is configured,
// falling back to the templated markdown on any failure.
func (s *TrendService) draftBody(ctx context.Context, trend model.Trend) string {
	if s.drafter != nil {
		body, err := s.drafter.Draft(ctx, trend.Title, trend.Description)
		if err == nil && strings.TrimSpace(body) != "" {
			return body
		}
		if err != nil {
			s.logger.Warn("AI draft failed, using template", "title", trend.Title, "error", err)
		}
	}
	return trendMarkdown(trend)
}

func metaTitleFor(trend model.Trend) string {
	if trend.MetaTitle.Valid && trend.MetaTitle.String != "" {
		return trend.MetaTitle.String
	}
	return trend.Title + " | Brahmand"
}

func metaDescFor(trend model.Trend) string {
	if trend.MetaDesc.Valid && trend.MetaDesc.String != "" {
		return trend.MetaDesc.String
	}
	if trend.Description != "" {
		desc := trend.Description
		if len(desc) > 320 {
			desc = desc[:320]
		}
		return desc
	}
	return fmt.Sprintf("%s is trending across India today.", trend.Title)
}

// trendMarkdown builds the templated article body for a trend.
func trendMarkdown(trend model.Trend) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", trend.Title)

	if trend.Description != "" {
		b.WriteString(trend.Description)
	} else {
		b.WriteString("This topic is trending across India today.")
	}
	b.WriteString("\n")

	if trend.Link.Valid && trend.Link.String != "" {
		fmt.Fprintf(&b, "\n[Read more here](%s)\n", trend.Link.String)
	}

	b.WriteString(`
## Why it matters

- Aligns with ongoing conversations surfaced on Google Trends.
- Opportunity to ship related tools, explainers, or monetization hooks.

## Next actions

- Brief the editorial team on this spike.
- Update relevant verses or tools with fresh context.
`)
	return b.String()
}

// Pipeline wires the trend cycle for the automation supervisor: fetch
// the feed, generate articles, then kick off a full site build.
func (s *TrendService) Pipeline(builds scheduler.BuildTrigger) scheduler.Pipeline {
	return func(ctx context.Context) ([]string, error) {
		var steps []string

		fetched, err := s.FetchTrends(ctx)
		if err != nil {
			return steps, err
		}
		steps = append(steps, "fetch-trends")
		s.logger.Info("trend fetch complete", "stored", fetched)

		created, err := s.GenerateArticles(ctx)
		if err != nil {
			return steps, err
		}
		steps = append(steps, "generate-trend-articles")
		s.logger.Info("trend article generation complete", "created", created)

		if builds != nil {
			builds.TriggerBuild("automation", map[string]any{"reason": "trend_automation"})
			steps = append(steps, "build-site")
		}
		return steps, nil
	}
}
