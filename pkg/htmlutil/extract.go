// Package htmlutil provides HTML processing utilities for fund page scraping.
package htmlutil

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse builds a queryable document from raw HTML.
func Parse(htmlContent string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// invisible lists elements whose text never renders.
var invisible = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
}

// VisibleText flattens the document's text nodes into one string.
// Script, style and template contents are skipped; text nodes are joined by
// a single space and whitespace runs, non-breaking spaces included, are
// collapsed to one ASCII space.
func VisibleText(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	var parts []string
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode && invisible[n.DataAtom] {
			return
		}
		if n.Type == xhtml.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return multiSpacePattern.ReplaceAllString(strings.Join(parts, " "), " ")
}

// Title returns the page's display title.
// Priority: og:title > first h1 > title.
func Title(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	if t := OGTitle(doc); t != "" {
		return t
	}
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		return strings.TrimSpace(h1.Text())
	}
	if title := doc.Find("title").First(); title.Length() > 0 {
		return strings.TrimSpace(title.Text())
	}
	return ""
}

// OGTitle returns the og:title meta content, or "" when missing.
func OGTitle(doc *goquery.Document) string {
	content, _ := doc.Find(`meta[property="og:title"]`).First().Attr("content")
	return strings.TrimSpace(content)
}

// StripTags removes HTML tags from a fragment and returns plain text.
func StripTags(htmlContent string) string {
	if htmlContent == "" {
		return ""
	}
	content := tagPattern.ReplaceAllString(htmlContent, " ")
	content = html.UnescapeString(content)
	content = multiSpacePattern.ReplaceAllString(content, " ")
	return strings.TrimSpace(content)
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	multiSpacePattern = regexp.MustCompile(`[\s\p{Zs}]+`)
)
