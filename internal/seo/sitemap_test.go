package seo

import (
	"strings"
	"testing"
	"time"
)

func TestSitemapBuilderAddHomepage(t *testing.T) {
	builder := NewSitemapBuilder("https://brahmand.co")
	builder.AddHomepage()

	if len(builder.urls) != 1 {
		t.Fatalf("urls length = %d, want 1", len(builder.urls))
	}
	url := builder.urls[0]
	if url.Loc != "https://brahmand.co/" {
		t.Errorf("Loc = %q", url.Loc)
	}
	if url.Priority != "1.0" {
		t.Errorf("Priority = %q, want 1.0", url.Priority)
	}
	if url.ChangeFreq != ChangeFreqDaily {
		t.Errorf("ChangeFreq = %q, want daily", url.ChangeFreq)
	}
}

func TestSitemapBuilderAddArticle(t *testing.T) {
	builder := NewSitemapBuilder("https://brahmand.co")
	publishAt := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	builder.AddArticle(SitemapArticle{
		VerseCode: "techverse",
		Slug:      "quantum-computing",
		PublishAt: publishAt,
	})

	if len(builder.urls) != 1 {
		t.Fatalf("urls length = %d, want 1", len(builder.urls))
	}
	url := builder.urls[0]
	if url.Loc != "https://brahmand.co/techverse/quantum-computing.html" {
		t.Errorf("Loc = %q", url.Loc)
	}
	if url.LastMod != "2026-03-15T10:00:00Z" {
		t.Errorf("LastMod = %q", url.LastMod)
	}
}

func TestSitemapBuilderLastModFallback(t *testing.T) {
	builder := NewSitemapBuilder("https://brahmand.co")
	updatedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	builder.AddArticle(SitemapArticle{
		VerseCode: "finverse",
		Slug:      "budgeting",
		UpdatedAt: updatedAt,
	})

	if got := builder.urls[0].LastMod; got != "2026-01-02T03:04:05Z" {
		t.Errorf("LastMod = %q", got)
	}

	// With no timestamps at all, lastmod is the time of the build.
	before := time.Now().UTC()
	builder.AddArticle(SitemapArticle{VerseCode: "finverse", Slug: "untimed"})
	parsed, err := time.Parse(time.RFC3339, builder.urls[1].LastMod)
	if err != nil {
		t.Fatalf("parsing LastMod: %v", err)
	}
	if parsed.Before(before.Truncate(time.Second)) || parsed.After(time.Now().UTC().Add(time.Second)) {
		t.Errorf("LastMod = %q, want current time", builder.urls[1].LastMod)
	}
}

func TestGenerateSitemap(t *testing.T) {
	articles := []SitemapArticle{
		{VerseCode: "techverse", Slug: "first", PublishAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{VerseCode: "healthverse", Slug: "second", PublishAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	out, err := GenerateSitemap("https://brahmand.co", []string{"techverse", "healthverse"}, articles)
	if err != nil {
		t.Fatalf("GenerateSitemap: %v", err)
	}

	xml := string(out)
	if !strings.HasPrefix(xml, "<?xml") {
		t.Error("missing XML header")
	}
	if !strings.Contains(xml, XMLNamespace) {
		t.Error("missing sitemap namespace")
	}
	for _, want := range []string{
		"<loc>https://brahmand.co/</loc>",
		"<loc>https://brahmand.co/techverse/</loc>",
		"<loc>https://brahmand.co/techverse/first.html</loc>",
		"<loc>https://brahmand.co/healthverse/second.html</loc>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}
	if got := strings.Count(xml, "<url>"); got != 5 {
		t.Errorf("url count = %d, want 5", got)
	}
}
