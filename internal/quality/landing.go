package quality

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// The detectors in this file recognize whole-page commercial shapes: service
// landing pages, online shops, spam/lead-gen tools, and homepages with no
// route into long-form writing. They feed the corporate score.

// CountButtonsWithText counts distinct keywords appearing in button or link
// text. Each keyword is counted at most once regardless of repetition.
func CountButtonsWithText(markup string, keywords []string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return 0
	}
	seen := make(map[string]struct{})
	doc.Find("button, a").Each(func(_ int, s *goquery.Selection) {
		text := strings.ToLower(collapseSpace(s.Text()))
		if text == "" {
			return
		}
		for _, kw := range keywords {
			if _, done := seen[kw]; done {
				continue
			}
			if strings.Contains(text, strings.ToLower(kw)) {
				seen[kw] = struct{}{}
				break
			}
		}
	})
	return len(seen)
}

// ExtractInternalLinks returns hrefs that stay on the current site.
func ExtractInternalLinks(markup string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		if strings.HasPrefix(href, "/") || !strings.HasPrefix(href, "http") {
			links = append(links, href)
		}
	})
	return links
}

// IsServiceLandingPage detects pages selling a service or product. The score
// sums CTA buttons, pricing indicators, service-description language, and a
// root-path bonus; anything above 8 counts as a landing page.
func IsServiceLandingPage(markup, text, urlPath string) (bool, int) {
	score := 0
	textLower := strings.ToLower(text)

	ctaCount := CountButtonsWithText(markup, ctaButtonKeywords)
	score += minInt(ctaCount*2, 10)

	pricing := 0
	for _, symbol := range []string{"$", "€", "£", "¥"} {
		if strings.Contains(text, symbol) {
			pricing++
		}
	}
	for _, phrase := range pricingPhrases {
		if strings.Contains(textLower, phrase) {
			pricing++
		}
	}
	if pricing >= 2 {
		score += 3
	}

	services := 0
	for _, phrase := range servicePhrases {
		if strings.Contains(textLower, phrase) {
			services++
		}
	}
	score += minInt(services*2, 6)

	switch strings.ToLower(strings.TrimSpace(urlPath)) {
	case "", "/", "/index", "/index.html", "/home":
		score += 2
	}

	return score > 8, score
}

// IsEcommercePage detects shopping and product pages via cart phrases,
// product schema, or multiple visible payment methods.
func IsEcommercePage(markup string) bool {
	lower := strings.ToLower(markup)

	for _, phrase := range cartPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	if strings.Contains(lower, "schema.org/product") ||
		strings.Contains(lower, `"@type":"product"`) ||
		strings.Contains(lower, `"@type": "product"`) {
		return true
	}

	payments := 0
	for _, method := range paymentMethodNames {
		if strings.Contains(lower, method) {
			payments++
		}
	}
	return payments >= 2
}

// DetectSpamServices flags follower shops, text spinners, and similar
// low-value tools by URL and by repeated keyword hits in the text.
func DetectSpamServices(rawURL, text string) bool {
	keywords := make([]string, 0, len(socialSpamKeywords)+len(seoToolKeywords))
	keywords = append(keywords, socialSpamKeywords...)
	keywords = append(keywords, seoToolKeywords...)

	urlLower := strings.ToLower(rawURL)
	for _, kw := range keywords {
		if strings.Contains(urlLower, strings.ReplaceAll(kw, " ", "")) {
			return true
		}
	}

	textLower := strings.ToLower(text)
	found := 0
	for _, kw := range keywords {
		if strings.Contains(textLower, kw) {
			found++
		}
	}
	return found >= 3
}

// IsHomepageNotArticle detects root pages that do not link into a blog
// section. A homepage with three or more blog-shaped internal links passes.
func IsHomepageNotArticle(rawURL, markup string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.Trim(parsed.Path, "/")
	switch path {
	case "", "index", "index.html", "index.php", "home":
	default:
		return false
	}

	blogLinks := 0
	for _, link := range ExtractInternalLinks(markup) {
		for _, marker := range blogLinkMarkers {
			if strings.Contains(link, marker) {
				blogLinks++
				break
			}
		}
	}
	return blogLinks < 3
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
