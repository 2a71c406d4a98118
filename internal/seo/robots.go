package seo

import "strings"

// GenerateRobots renders robots.txt for the static site. The admin
// API lives under /admin and stays out of the crawl; everything else
// is open. The sitemap line points crawlers at the generated
// sitemap.xml.
func GenerateRobots(siteURL string) []byte {
	var sb strings.Builder
	sb.WriteString("User-agent: *\n")
	sb.WriteString("Disallow: /admin/\n")
	sb.WriteString("Allow: /\n")
	sb.WriteString("\n")
	sb.WriteString("Sitemap: " + strings.TrimRight(siteURL, "/") + "/sitemap.xml\n")
	return []byte(sb.String())
}
