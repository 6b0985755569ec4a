package quality

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Tags removed before measuring content density. Navigation, media embeds,
// and form controls inflate markup size without carrying prose.
const strippedTags = "script,style,svg,path,canvas,video,audio,iframe,noscript,nav,header,footer,form,select,input,button,textarea,meta,link"

// TextRatio measures how much of the cleaned markup is visible prose.
// The raw text/markup ratio is scaled by three factors: a link penalty for
// navigation-heavy pages, a stopword factor rewarding natural language over
// word lists and code dumps, and a length factor suppressing both
// micro-snippets that look dense only because they are tiny and endless
// dumps past maxWords that are unlikely to be a single article. The result
// is in [0, 1].
func TextRatio(markup string, minWords, maxWords int) float64 {
	if strings.TrimSpace(markup) == "" {
		return 0
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return 0
	}
	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	body.Find(strippedTags).Remove()

	visible := collapseSpace(body.Text())
	if visible == "" {
		return 0
	}
	cleaned, err := goquery.OuterHtml(body)
	if err != nil || len(cleaned) == 0 {
		return 0
	}
	ratio := float64(len(visible)) / float64(len(cleaned))

	var linkChars int
	body.Find("a").Each(func(_ int, s *goquery.Selection) {
		linkChars += len(collapseSpace(s.Text()))
	})
	linkPenalty := clamp(1-float64(linkChars)/float64(len(visible)), 0, 1)

	words := strings.Fields(strings.ToLower(visible))
	stopFactor := clamp(4*stopwordDensity(words), 0.2, 1.1)

	if minWords <= 0 {
		minWords = DefaultThresholds().MinWords
	}
	if maxWords <= 0 {
		maxWords = DefaultThresholds().MaxWords
	}
	lengthFactor := clamp(float64(len(words))/(float64(minWords)*0.8), 0.1, 1.0)
	if len(words) > maxWords {
		lengthFactor = clamp(float64(maxWords)/float64(len(words)), 0.1, 1.0)
	}

	return clamp(ratio*linkPenalty*stopFactor*lengthFactor, 0, 1)
}

// VisibleText extracts the readable prose from markup with the same tag
// stripping used for density scoring. Whitespace is collapsed.
func VisibleText(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	body.Find(strippedTags).Remove()
	return collapseSpace(body.Text())
}

// WordCount returns the number of whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func stopwordDensity(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	var hits int
	for _, w := range words {
		w = strings.Trim(w, ".,;:!?\"'()[]")
		if _, ok := stopwords[w]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(words))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
