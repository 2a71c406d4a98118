package seo

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// searchEngine is a sitemap ping endpoint.
type searchEngine struct {
	Name     string
	Endpoint string
}

var searchEngines = []searchEngine{
	{Name: "Google", Endpoint: "https://www.google.com/ping?sitemap="},
	{Name: "Bing", Endpoint: "https://www.bing.com/ping?sitemap="},
}

// PingResult reports one search engine notification attempt.
type PingResult struct {
	Engine string `json:"engine"`
	OK     bool   `json:"ok"`
	Status int    `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Pinger notifies search engines that the sitemap changed.
type Pinger struct {
	client  *http.Client
	engines []searchEngine
}

// NewPinger creates a Pinger. A nil client gets a default with a
// request timeout.
func NewPinger(client *http.Client) *Pinger {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Pinger{client: client, engines: searchEngines}
}

// NewPingerWithEndpoints creates a Pinger against custom endpoints.
// Each endpoint has the sitemap URL appended to it.
func NewPingerWithEndpoints(client *http.Client, endpoints map[string]string) *Pinger {
	p := NewPinger(client)
	p.engines = make([]searchEngine, 0, len(endpoints))
	for name, endpoint := range endpoints {
		p.engines = append(p.engines, searchEngine{Name: name, Endpoint: endpoint})
	}
	return p
}

// PingSearchEngines notifies each engine in turn. A failed ping is
// recorded in its result rather than aborting the rest.
func (p *Pinger) PingSearchEngines(ctx context.Context, sitemapURL string) []PingResult {
	results := make([]PingResult, 0, len(p.engines))

	for _, engine := range p.engines {
		target := engine.Endpoint + url.QueryEscape(sitemapURL)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			results = append(results, PingResult{Engine: engine.Name, Error: err.Error()})
			continue
		}

		resp, err := p.client.Do(req)
		if err != nil {
			results = append(results, PingResult{Engine: engine.Name, Error: err.Error()})
			continue
		}
		resp.Body.Close()

		results = append(results, PingResult{
			Engine: engine.Name,
			OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
			Status: resp.StatusCode,
		})
	}

	return results
}

// AllOK reports whether every ping succeeded.
func AllOK(results []PingResult) bool {
	for _, r := range results {
		if !r.OK {
			return false
		}
	}
	return len(results) > 0
}
