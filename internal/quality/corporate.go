package quality

import (
	"net/url"
	"strings"
)

// CorporateScore estimates how likely a page is corporate marketing rather
// than personal writing, on a 0-100 scale. Deep content paths pull the score
// down; commercial URL shapes, shop/spam detections, marketing boilerplate,
// and call-to-action density push it up.
func CorporateScore(rawURL, markup, text string) float64 {
	var score float64
	urlLower := strings.ToLower(rawURL)
	markupLower := strings.ToLower(markup)
	textLower := strings.ToLower(text)

	for _, marker := range contentPathMarkers {
		if strings.Contains(urlLower, marker) {
			score -= 20
			break
		}
	}
	for _, marker := range commercialPathMarkers {
		if strings.Contains(urlLower, marker) {
			score += 45
			break
		}
	}

	if IsEcommercePage(markup) {
		score += 65
	}
	if DetectSpamServices(rawURL, text) {
		score += 75
	}

	meta := 0
	for _, marker := range commercialMetaMarkers {
		if strings.Contains(markupLower, marker) {
			meta += 5
		}
	}
	score += float64(minInt(meta, 25))

	footer := 0
	for _, kw := range footerBoilerplateKeywords {
		if strings.Contains(markupLower, kw) {
			footer += 10
		}
	}
	score += float64(minInt(footer, 30))

	for _, phrase := range aggregatorAttributionPhrases {
		if strings.Contains(textLower, phrase) {
			score += 30
			break
		}
	}

	clutter := 0
	for _, phrase := range contentMillPhrases {
		if strings.Contains(textLower, phrase) {
			clutter += 10
		}
	}
	score += float64(minInt(clutter, 40))

	for _, phrase := range affiliateDisclosurePhrases {
		if strings.Contains(textLower, phrase) {
			score += 35
			break
		}
	}

	score += float64(minInt(CountButtonsWithText(markup, ctaButtonKeywords)*10, 60))

	for _, phrase := range salesCopyPhrases {
		if strings.Contains(textLower, phrase) {
			score += 25
			break
		}
	}

	if IsHomepageNotArticle(rawURL, markup) {
		if parsed, err := url.Parse(rawURL); err == nil && parsed.Host != "" {
			score += 30
		}
	}

	return clamp(score, 0, 100)
}
