package crawler

import (
	"iter"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractLinks returns the href of every anchor in html, resolved against
// baseURL, in document order. Anchors without an href, hrefs that cannot be
// parsed and non-navigational schemes (javascript:, mailto:, tel:, data:)
// are skipped.
//
// The document is parsed when the sequence is first iterated; the sequence
// is meant to be consumed once.
func ExtractLinks(html, baseURL string) iter.Seq[string] {
	return func(yield func(string) bool) {
		base, err := url.Parse(strings.TrimSpace(baseURL))
		if err != nil {
			return
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return
		}

		anchors := doc.Find("a[href]")
		for i := range anchors.Nodes {
			href, _ := anchors.Eq(i).Attr("href")
			resolved, ok := resolveHref(base, href)
			if !ok {
				continue
			}
			if !yield(resolved) {
				return
			}
		}
	}
}

// Title returns the trimmed text of the first <title> element, if any.
func Title(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// resolveHref resolves href against base.
func resolveHref(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return "", false
	}

	lower := strings.ToLower(href)
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return "", false
		}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	return base.ResolveReference(ref).String(), true
}
