package service

// SuggestedLink is one internal link recommendation for the editor UI.
type SuggestedLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// verseOrder fixes the iteration order for cross-verse picks.
var verseOrder = []string{"techverse", "finverse", "healthverse", "skillverse"}

var versePools = map[string][]SuggestedLink{
	"techverse": {
		{Title: "AI tool stack 2025", URL: "/techverse/ai-tools.html"},
		{Title: "Canva vs Figma", URL: "/techverse/canva-vs-figma.html"},
		{Title: "Notion template vault", URL: "/techverse/notion-templates.html"},
		{Title: "Chrome extensions kit", URL: "/techverse/chrome-extensions.html"},
	},
	"finverse": {
		{Title: "Beginner budgeting", URL: "/finverse/beginners-budgeting.html"},
		{Title: "Cash-flow ladder", URL: "/finverse/cash-flow-ladder.html"},
		{Title: "SIP vs RD vs FD", URL: "/finverse/sip-vs-rd-vs-fd.html"},
	},
	"healthverse": {
		{Title: "Metabolic mornings", URL: "/healthverse/metabolic-mornings.html"},
		{Title: "Desk detox routine", URL: "/healthverse/desk-detox.html"},
	},
	"skillverse": {
		{Title: "One-page resume", URL: "/skillverse/one-page-resume.html"},
		{Title: "Freelancer pricing ladder", URL: "/skillverse/freelancer-pricing.html"},
	},
}

var defaultLinkPool = []SuggestedLink{
	{Title: "Focus Timer", URL: "/tools/focus-timer.html"},
	{Title: "Text Cleaner", URL: "/tools/text-cleaner.html"},
	{Title: "Image Resizer", URL: "/tools/image-resizer.html"},
}

// SuggestLinks returns up to five internal links for an article in the
// given verse: up to three from the same verse, one from another verse
// and evergreen tool pages as filler.
func SuggestLinks(verseCode string) []SuggestedLink {
	sameVerse := versePools[verseCode]
	if len(sameVerse) > 3 {
		sameVerse = sameVerse[:3]
	}

	var crossVerse []SuggestedLink
	for _, code := range verseOrder {
		if code == verseCode {
			continue
		}
		if pool := versePools[code]; len(pool) > 0 {
			crossVerse = append(crossVerse, pool[0])
			break
		}
	}

	links := make([]SuggestedLink, 0, 5)
	links = append(links, sameVerse...)
	links = append(links, crossVerse...)
	links = append(links, defaultLinkPool...)

	if len(links) > 5 {
		links = links[:5]
	}
	return links
}
