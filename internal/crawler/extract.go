package crawler

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
)

// ExtractLinks collects every anchor href from markup, resolved against
// base and canonicalized. Unparseable and non-HTTP links are skipped.
func ExtractLinks(base string, markup []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		resolved, err := ResolveLink(base, href)
		if err != nil {
			return
		}
		if _, dup := seen[resolved]; dup {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})
	return links
}
