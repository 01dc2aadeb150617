package htmlutil

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// fundPathPattern matches fund detail paths: /mutual-funds/<slug>/<id>.
var fundPathPattern = regexp.MustCompile(`^/mutual-funds/[^/]+/\d+$`)

// FundLinks returns absolute fund page URLs linked from a category page,
// deduplicated and in document order.
func FundLinks(doc *goquery.Document, baseURL string) []string {
	if doc == nil {
		return nil
	}
	var links []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !fundPathPattern.MatchString(href) {
			return
		}
		resolved := resolveURL(href, baseURL)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})
	return links
}

func resolveURL(href, baseURL string) string {
	hrefLower := strings.ToLower(href)
	if strings.HasPrefix(hrefLower, "javascript:") || strings.HasPrefix(hrefLower, "mailto:") ||
		strings.HasPrefix(hrefLower, "tel:") || strings.HasPrefix(hrefLower, "#") {
		return ""
	}

	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}

	// Protocol-relative
	if strings.HasPrefix(href, "//") {
		return base.Scheme + ":" + href
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
