// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Link is a PDF anchor discovered on the forms page.
type Link struct {
	// URL is the absolute PDF URL, resolved against the page URL.
	URL string
	// Text is the anchor's visible text, trimmed. May be empty.
	Text string
}

// ExtractPDFLinks parses an HTML document and returns, in document order,
// every <a href> whose resolved URL path ends in ".pdf" (any case). Relative
// hrefs are resolved against base. Anchors with unparseable hrefs are skipped.
func ExtractPDFLinks(r io.Reader, base *url.URL) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var links []Link
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href, ok := attr(n, "href"); ok {
				if target, ok := resolvePDF(base, href); ok {
					links = append(links, Link{
						URL:  target,
						Text: strings.TrimSpace(textContent(n)),
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// resolvePDF resolves href against base and reports whether the resulting
// path names a PDF.
func resolvePDF(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := ref
	if base != nil {
		abs = base.ResolveReference(ref)
	}
	if !strings.HasSuffix(strings.ToLower(abs.Path), ".pdf") {
		return "", false
	}
	return abs.String(), true
}

// textContent concatenates all text nodes below n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
