package quality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRefiner struct {
	accept     bool
	reason     string
	confidence float64
	called     bool
}

func (f *fakeRefiner) IsAcceptable(_, _, _ string) (bool, string, float64) {
	f.called = true
	return f.accept, f.reason, f.confidence
}

func goodPostMarkup() string {
	para := "<p>I planted the beans in early spring and the soil was still cold. " +
		"The rows were short and a little crooked but they were mine. " +
		"Every morning I walked out with coffee and pulled a few weeds before work. " +
		"By June the vines had taken over the fence and I stopped counting the pods.</p>"
	return `<html><head><title>How I Built My Garden</title>` +
		`<link rel="alternate" type="application/rss+xml" href="/feed.xml">` +
		`<meta name="author" content="Jane">` +
		`</head><body><article>` + strings.Repeat(para, 8) + `</article>` +
		`<a href="/about">About me</a></body></html>`
}

func corporateMarkup() string {
	return `<html><head><title>Acme Platform</title></head><body>
<nav><a href="/pricing">Plans</a></nav>
<h1>The industry-leading platform trusted by thousands</h1>
<a class="btn">Get Started</a><a class="btn">Free Trial</a>
<button>Book a Demo</button><button>Contact Sales</button>
<footer>All rights reserved. <a>Privacy Policy</a> <a>Terms of Service</a></footer>
</body></html>`
}

func thinMarkup() string {
	return `<html><head><title>hi</title></head><body><p>short note</p></body></html>`
}

func evaluate(t *testing.T, rawURL, markup string, opts Options) Result {
	t.Helper()
	e := NewEvaluator(DefaultThresholds(), nil, true)
	return e.Evaluate(rawURL, markup, VisibleText(markup), opts)
}

func TestEvaluateAcceptsPersonalBlogPost(t *testing.T) {
	t.Parallel()

	res := evaluate(t, "https://jane.example/blog/garden", goodPostMarkup(), Options{})
	require.True(t, res.Acceptable)
	require.Empty(t, res.RejectionReasons)
	require.Equal(t, TierHigh, res.Tier)
	require.GreaterOrEqual(t, res.Scores["unified_score"], 80.0)
	require.Greater(t, res.Scores["personal_signals"], 0.0)
}

func TestEvaluateCorporatePreFilterShortCircuits(t *testing.T) {
	t.Parallel()

	res := evaluate(t, "https://acme.example/pricing", corporateMarkup(), Options{})
	require.False(t, res.Acceptable)
	require.Equal(t, []string{ReasonCorporatePage}, res.RejectionReasons)
	require.Equal(t, TierRejected, res.Tier)

	// The short circuit skips full scoring, so only the corporate score is
	// present.
	require.Contains(t, res.Scores, "corporate_score")
	require.NotContains(t, res.Scores, "unified_score")
	require.Greater(t, res.Scores["corporate_score"], DefaultThresholds().CorporateRejectThreshold)
}

func TestEvaluateWhitelistBypassesPreFilter(t *testing.T) {
	t.Parallel()

	whitelist := map[string]struct{}{"acme.example": {}}
	res := evaluate(t, "https://acme.example/pricing", corporateMarkup(), Options{Whitelist: whitelist})
	require.True(t, res.Acceptable)
	require.True(t, res.Whitelisted)
	require.Empty(t, res.RejectionReasons)
	require.Contains(t, res.Scores, "unified_score", "whitelisted pages get full scoring")
}

func TestEvaluateWhitelistAcceptsWeakPage(t *testing.T) {
	t.Parallel()

	whitelist := map[string]struct{}{"tiny.example": {}}
	res := evaluate(t, "https://tiny.example/x", thinMarkup(), Options{Whitelist: whitelist})
	require.True(t, res.Acceptable)
	require.True(t, res.Whitelisted)
	require.Empty(t, res.RejectionReasons)
	require.Equal(t, TierMedium, res.Tier, "whitelisted pages floor at medium tier")
}

func TestEvaluateWhitelistIsExactDomain(t *testing.T) {
	t.Parallel()

	whitelist := map[string]struct{}{"tiny.example": {}}
	res := evaluate(t, "https://sub.tiny.example/x", thinMarkup(), Options{Whitelist: whitelist})
	require.False(t, res.Whitelisted, "subdomains do not inherit whitelisting")
	require.False(t, res.Acceptable)
}

func TestEvaluateForceBypassesScoring(t *testing.T) {
	t.Parallel()

	res := evaluate(t, "https://tiny.example/x", thinMarkup(), Options{Force: true})
	require.True(t, res.Acceptable)
	require.False(t, res.Whitelisted)
	require.Empty(t, res.RejectionReasons)
}

func TestEvaluateRejectionReasonsOrdered(t *testing.T) {
	t.Parallel()

	res := evaluate(t, "https://tiny.example/x", thinMarkup(), Options{})
	require.False(t, res.Acceptable)
	require.NotEmpty(t, res.RejectionReasons)
	require.Contains(t, res.RejectionReasons[0], "Unified quality score too low")
	require.Equal(t, TierLow, res.Tier)
}

func TestEvaluateFlagsCorporateMarketing(t *testing.T) {
	t.Parallel()

	// Enough boilerplate to flag but not enough to trip the pre-filter.
	markup := `<html><head><title>Widget Review</title></head><body>
<p>short text</p>
<footer>All rights reserved. <a>Privacy Policy</a></footer>
</body></html>`
	res := evaluate(t, "https://site.example/widget", markup, Options{})
	require.False(t, res.Acceptable)
	require.Contains(t, res.RejectionReasons, "Likely corporate marketing")
}

func TestEvaluateRejectsLinkFarm(t *testing.T) {
	t.Parallel()

	// A gallery page that is nothing but navigation: every visible word is
	// link text, so the link penalty drives the ratio to the floor.
	markup := `<html><head><title>Photo Gallery</title></head><body>` +
		strings.Repeat(`<a href="/p">holiday photo thumbnail</a>`, 60) +
		`</body></html>`
	res := evaluate(t, "https://pics.example/gallery", markup, Options{})
	require.False(t, res.Acceptable)
	require.Less(t, res.Scores["text_ratio"], 0.1)

	var ratioReason bool
	for _, reason := range res.RejectionReasons {
		if strings.Contains(reason, "Text-to-HTML ratio too low") {
			ratioReason = true
		}
	}
	require.True(t, ratioReason, "reasons: %v", res.RejectionReasons)
}

func TestEvaluateRejectsEcommercePage(t *testing.T) {
	t.Parallel()

	markup := `<html><head><title>Deluxe Widget</title></head><body>
<h1>Deluxe Widget</h1>
<button>Add to Cart</button>
<p>We accept PayPal and Visa. Proceed to checkout when ready.</p>
</body></html>`
	res := evaluate(t, "https://shop.example/product/widget", markup, Options{})
	require.False(t, res.Acceptable)
	require.Equal(t, []string{ReasonCorporatePage}, res.RejectionReasons)
	require.Equal(t, TierRejected, res.Tier)
	require.GreaterOrEqual(t, res.Scores["corporate_score"], 65.0)
}

func TestEvaluateTitleExclusion(t *testing.T) {
	t.Parallel()

	markup := strings.Replace(goodPostMarkup(), "How I Built My Garden", "Privacy Policy", 1)
	res := evaluate(t, "https://jane.example/privacy", markup, Options{})
	require.False(t, res.Acceptable)
	require.Equal(t, []string{ReasonTitleExcluded}, res.RejectionReasons)
	require.Equal(t, TierLow, res.Tier)

	// Title exclusion applies even to whitelisted domains.
	whitelist := map[string]struct{}{"jane.example": {}}
	res = evaluate(t, "https://jane.example/privacy", markup, Options{Whitelist: whitelist})
	require.False(t, res.Acceptable)
}

func TestEvaluateClassifierRescuesHighConfidenceGood(t *testing.T) {
	t.Parallel()

	refiner := &fakeRefiner{accept: true, reason: "high_confidence_good", confidence: 0.92}
	e := NewEvaluator(DefaultThresholds(), refiner, true)
	markup := thinMarkup()
	res := e.Evaluate("https://tiny.example/x", markup, VisibleText(markup), Options{})
	require.True(t, refiner.called)
	require.True(t, res.Acceptable)
	require.InDelta(t, 0.92, res.Scores["ml_confidence"], 1e-9)
}

func TestEvaluateClassifierDefaultGoodDoesNotRescue(t *testing.T) {
	t.Parallel()

	refiner := &fakeRefiner{accept: true, reason: "default_good", confidence: 0.55}
	e := NewEvaluator(DefaultThresholds(), refiner, true)
	markup := thinMarkup()
	res := e.Evaluate("https://tiny.example/x", markup, VisibleText(markup), Options{})
	require.False(t, res.Acceptable)
}

func TestEvaluateClassifierDemotesGoodPage(t *testing.T) {
	t.Parallel()

	refiner := &fakeRefiner{accept: false, reason: "high_confidence_bad", confidence: 0.88}
	e := NewEvaluator(DefaultThresholds(), refiner, false)
	markup := goodPostMarkup()
	res := e.Evaluate("https://jane.example/blog/garden", markup, VisibleText(markup), Options{})
	require.False(t, res.Acceptable)
	require.Contains(t, res.RejectionReasons, "Classified as low quality (high_confidence_bad)")
}

func TestEvaluateUncertainOnlySkipsConfidentPages(t *testing.T) {
	t.Parallel()

	refiner := &fakeRefiner{accept: false, reason: "high_confidence_bad", confidence: 0.9}
	e := NewEvaluator(DefaultThresholds(), refiner, true)
	markup := goodPostMarkup()
	res := e.Evaluate("https://jane.example/blog/garden", markup, VisibleText(markup), Options{})
	require.False(t, refiner.called, "high-scoring pages skip refinement in uncertain-only mode")
	require.True(t, res.Acceptable)
}

func TestEvaluateUncertainBandUsesScoreCeiling(t *testing.T) {
	t.Parallel()

	// With the ceiling pulled to zero, even low-scoring pages sit outside
	// the refinement band; the high tier threshold does not decide this.
	refiner := &fakeRefiner{accept: true, reason: "high_confidence_good", confidence: 0.9}
	thresholds := DefaultThresholds()
	thresholds.UncertainScoreCeiling = 0
	e := NewEvaluator(thresholds, refiner, true)
	markup := thinMarkup()
	res := e.Evaluate("https://tiny.example/x", markup, VisibleText(markup), Options{})
	require.False(t, refiner.called)
	require.False(t, res.Acceptable)
}

func TestEvaluateSkipClassifierOption(t *testing.T) {
	t.Parallel()

	refiner := &fakeRefiner{accept: false, reason: "high_confidence_bad", confidence: 0.9}
	e := NewEvaluator(DefaultThresholds(), refiner, false)
	markup := thinMarkup()
	_ = e.Evaluate("https://tiny.example/x", markup, VisibleText(markup), Options{SkipClassifier: true})
	require.False(t, refiner.called)
}

func TestEvaluateAdDensityNeverRaisesUnifiedScore(t *testing.T) {
	t.Parallel()

	clean := goodPostMarkup()
	withAds := strings.Replace(clean, "</article>",
		`</article><script src="https://stats.g.doubleclick.net/x.js"></script>`+
			`<script src="https://cdn.taboola.com/y.js"></script>`+
			`<script>gtag('config');fbq('init');</script>`+
			`<div class="ad-slot"></div><div class="adsbygoogle"></div>`, 1)

	before := evaluate(t, "https://jane.example/blog/garden", clean, Options{})
	after := evaluate(t, "https://jane.example/blog/garden", withAds, Options{})
	require.Greater(t, after.Scores["ad_score"], before.Scores["ad_score"])
	require.LessOrEqual(t, after.Scores["unified_score"], before.Scores["unified_score"])
}

func TestEvaluateScoreBounds(t *testing.T) {
	t.Parallel()

	for name, markup := range map[string]string{
		"good":      goodPostMarkup(),
		"thin":      thinMarkup(),
		"empty":     "",
		"malformed": "<div><<<<>",
	} {
		res := evaluate(t, "https://site.example/p", markup, Options{})
		for key, bound := range map[string]float64{
			"unified_score":   100,
			"corporate_score": 100,
			"ad_score":        100,
			"text_ratio":      1,
		} {
			if v, ok := res.Scores[key]; ok {
				require.GreaterOrEqual(t, v, 0.0, "%s %s", name, key)
				require.LessOrEqual(t, v, bound, "%s %s", name, key)
			}
		}
	}
}
