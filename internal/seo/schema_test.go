package seo

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestBuildSchemaScripts(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	scripts, err := BuildSchemaScripts(SchemaArticle{
		Title:      "Quantum Leap",
		MetaDesc:   "All about quantum computing.",
		VerseCode:  "techverse",
		VerseTitle: "Techverse",
		Slug:       "quantum-leap",
		PublishAt:  time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
	}, "https://brahmand.co", now)
	if err != nil {
		t.Fatalf("BuildSchemaScripts: %v", err)
	}

	parts := strings.Split(scripts, "\n")
	if len(parts) != 3 {
		t.Fatalf("expected 3 script tags, got %d", len(parts))
	}
	for _, p := range parts {
		if !strings.HasPrefix(p, `<script type="application/ld+json">`) || !strings.HasSuffix(p, "</script>") {
			t.Errorf("malformed script tag: %q", p)
		}
	}

	if !strings.Contains(parts[0], `"@type":"Article"`) {
		t.Error("first script is not Article markup")
	}
	if !strings.Contains(parts[0], "https://brahmand.co/techverse/quantum-leap.html") {
		t.Error("article markup missing canonical page URL")
	}
	if !strings.Contains(parts[0], "2026-04-01T09:00:00Z") {
		t.Error("article markup missing publish date")
	}
	if !strings.Contains(parts[1], `"@type":"BreadcrumbList"`) {
		t.Error("second script is not BreadcrumbList markup")
	}
	if !strings.Contains(parts[2], OrganizationName) {
		t.Error("organization markup missing publisher name")
	}
}

func TestBuildSchemaScriptsBreadcrumbPositions(t *testing.T) {
	scripts, err := BuildSchemaScripts(SchemaArticle{
		Title:     "Budgeting 101",
		VerseCode: "finverse",
		Slug:      "budgeting-101",
	}, "https://brahmand.co", time.Now())
	if err != nil {
		t.Fatalf("BuildSchemaScripts: %v", err)
	}

	parts := strings.Split(scripts, "\n")
	raw := strings.TrimSuffix(strings.TrimPrefix(parts[1], `<script type="application/ld+json">`), "</script>")

	var bc struct {
		ItemListElement []struct {
			Position int    `json:"position"`
			Name     string `json:"name"`
			Item     string `json:"item"`
		} `json:"itemListElement"`
	}
	if err := json.Unmarshal([]byte(raw), &bc); err != nil {
		t.Fatalf("unmarshaling breadcrumb markup: %v", err)
	}
	if len(bc.ItemListElement) != 3 {
		t.Fatalf("expected 3 breadcrumb items, got %d", len(bc.ItemListElement))
	}
	if bc.ItemListElement[0].Name != "Home" {
		t.Errorf("first crumb = %q", bc.ItemListElement[0].Name)
	}
	// Verse title falls back to the code when not provided.
	if bc.ItemListElement[1].Name != "finverse" {
		t.Errorf("second crumb = %q", bc.ItemListElement[1].Name)
	}
	if bc.ItemListElement[2].Item != "https://brahmand.co/finverse/budgeting-101.html" {
		t.Errorf("third crumb item = %q", bc.ItemListElement[2].Item)
	}
}

func TestBuildSchemaScriptsDefaultDescription(t *testing.T) {
	scripts, err := BuildSchemaScripts(SchemaArticle{
		Title:      "Sleep Science",
		VerseCode:  "healthverse",
		VerseTitle: "Healthverse",
		Slug:       "sleep-science",
	}, "https://brahmand.co", time.Now())
	if err != nil {
		t.Fatalf("BuildSchemaScripts: %v", err)
	}
	if !strings.Contains(scripts, "explore the Healthverse verse on Brahmand.") {
		t.Error("expected generated fallback description")
	}
}
