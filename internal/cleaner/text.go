package cleaner

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// skippedElements hold no readable text.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"template": true,
}

// ExtractText returns the visible text of an HTML document. Each text node
// is trimmed, empty ones are dropped and the rest are joined by a single
// space; runs of whitespace inside a node collapse to one space. The result
// is NFC-normalized. Malformed markup is parsed leniently.
//
// The document is parsed with scripting disabled, so <noscript> content
// is read as markup and its text is kept.
func ExtractText(raw string) string {
	doc, err := html.ParseWithOptions(strings.NewReader(raw), html.ParseOptionEnableScripting(false))
	if err != nil {
		return ""
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.CommentNode:
			return
		case html.ElementNode:
			if skippedElements[n.Data] {
				return
			}
		case html.TextNode:
			if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
				parts = append(parts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return norm.NFC.String(strings.Join(parts, " "))
}
