package quality

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Diagnostic signals that do not feed the unified score but are persisted for
// admin statistics and manual-label review.

var (
	authorClassPattern = regexp.MustCompile(`(?i)author|byline`)
	aboutLinkPattern   = regexp.MustCompile(`(?i)\babout\b|who am i|\bme\b`)
	jsonLDPattern      = regexp.MustCompile(`(?s)<script type="application/ld\+json">(.*?)</script>`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b`),
		regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
		regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{4}\b`),
	}
	postedOnPattern = regexp.MustCompile(`(?i)Posted on|Published|Last updated`)
)

// PersonalBlogSignals scores positive personal-site markers on a 0-10 scale:
// an RSS/Atom feed link, author metadata, an About link, a personal-looking
// domain, and a comments section.
func PersonalBlogSignals(rawURL, markup string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return 0
	}
	score := 0

	if doc.Find(`link[type="application/rss+xml"], link[type="application/atom+xml"]`).Length() > 0 {
		score += 3
	}
	hasAuthor := doc.Find(`meta[name="author"]`).Length() > 0
	if !hasAuthor {
		doc.Find("[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			class, _ := s.Attr("class")
			if authorClassPattern.MatchString(class) {
				hasAuthor = true
				return false
			}
			return true
		})
	}
	if hasAuthor {
		score += 2
	}

	hasAbout := false
	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if aboutLinkPattern.MatchString(collapseSpace(s.Text())) {
			hasAbout = true
			return false
		}
		return true
	})
	if hasAbout {
		score += 2
	}

	if parsed, err := url.Parse(rawURL); err == nil {
		host := strings.ToLower(parsed.Host)
		for _, kw := range personalDomainKeywords {
			if strings.Contains(host, kw) {
				score += 2
				break
			}
		}
	}

	for _, marker := range []string{"disqus_thread", "comment-respond", "comments-area", "utterances"} {
		if strings.Contains(markup, marker) {
			score++
			break
		}
	}
	return score
}

// DetectSchemaType returns the schema.org type declared in JSON-LD or
// microdata, or "none".
func DetectSchemaType(markup string) string {
	if !strings.Contains(markup, "schema.org") {
		return "none"
	}
	ordered := []string{"BlogPosting", "TechArticle", "Article", "Person", "Product", "Organization"}
	for _, match := range jsonLDPattern.FindAllStringSubmatch(markup, -1) {
		for _, typ := range ordered {
			if strings.Contains(match[1], typ) {
				return typ
			}
		}
	}
	if strings.Contains(markup, `itemtype="http://schema.org/BlogPosting"`) {
		return "BlogPosting"
	}
	if strings.Contains(markup, `itemtype="http://schema.org/Article"`) {
		return "Article"
	}
	return "none"
}

// HasDateIndicators reports whether the page carries at least two publication
// date markers, a strong blog/article signal.
func HasDateIndicators(markup, text string) bool {
	indicators := 0

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err == nil {
		if doc.Find(`meta[property="article:published_time"], meta[property="article:modified_time"]`).Length() > 0 {
			indicators++
		}
		if doc.Find("time[datetime]").Length() > 0 {
			indicators++
		}
	}
	if strings.Contains(markup, "datePublished") || strings.Contains(markup, "dateModified") {
		indicators++
	}

	prefix := text
	if len(prefix) > 500 {
		prefix = prefix[:500]
	}
	for _, pattern := range datePatterns {
		if pattern.MatchString(prefix) {
			indicators++
			break
		}
	}
	if postedOnPattern.MatchString(prefix) {
		indicators++
	}
	return indicators >= 2
}

// ExtractTitle returns the page's <title> text, or "".
func ExtractTitle(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	return collapseSpace(doc.Find("title").First().Text())
}

// CheckTitle reports whether the title matches an excluded boilerplate
// pattern (privacy policy, login, legal, and similar non-content pages).
func CheckTitle(markup string) bool {
	title := ExtractTitle(markup)
	if title == "" {
		return false
	}
	for _, pattern := range excludedTitlePatterns {
		if pattern.MatchString(title) {
			return true
		}
	}
	return false
}
