package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestLinksKnownVerse(t *testing.T) {
	links := SuggestLinks("techverse")
	assert.Len(t, links, 5)

	// Same-verse picks come first.
	assert.Equal(t, "/techverse/ai-tools.html", links[0].URL)
	assert.Equal(t, "/techverse/canva-vs-figma.html", links[1].URL)
	assert.Equal(t, "/techverse/notion-templates.html", links[2].URL)

	// One cross-verse pick before the evergreen fillers.
	assert.Equal(t, "/finverse/beginners-budgeting.html", links[3].URL)
	assert.Equal(t, "/tools/focus-timer.html", links[4].URL)
}

func TestSuggestLinksUnknownVerse(t *testing.T) {
	links := SuggestLinks("novaverse")
	assert.Len(t, links, 4)

	// No verse pool, first cross-verse pick then the tool pages.
	assert.Equal(t, "/techverse/ai-tools.html", links[0].URL)
	assert.Equal(t, "/tools/focus-timer.html", links[1].URL)
}
