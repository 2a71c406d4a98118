package service

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

// pageMetadata are the OpenGraph fields lifted from a linked news page.
type pageMetadata struct {
	Title       string
	Description string
}

// fetchPageMetadata downloads a linked page and extracts og:title and
// og:description, falling back to <title> and the description meta tag.
// Best effort: any failure returns empty metadata.
func (s *TrendService) fetchPageMetadata(ctx context.Context, url string) pageMetadata {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return pageMetadata{}
	}
	req.Header.Set("User-Agent", trendUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return pageMetadata{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pageMetadata{}
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return pageMetadata{}
	}

	var meta pageMetadata
	var docTitle, metaDesc string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if n.FirstChild != nil && docTitle == "" {
					docTitle = n.FirstChild.Data
				}
			case "meta":
				var property, name, content string
				for _, attr := range n.Attr {
					switch attr.Key {
					case "property":
						property = attr.Val
					case "name":
						name = attr.Val
					case "content":
						content = attr.Val
					}
				}
				switch {
				case property == "og:title" && meta.Title == "":
					meta.Title = content
				case property == "og:description" && meta.Description == "":
					meta.Description = content
				case name == "description" && metaDesc == "":
					metaDesc = content
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if meta.Title == "" {
		meta.Title = docTitle
	}
	if meta.Description == "" {
		meta.Description = metaDesc
	}

	meta.Title = truncate(strings.TrimSpace(meta.Title), 255)
	meta.Description = truncate(strings.TrimSpace(meta.Description), 1000)
	return meta
}
