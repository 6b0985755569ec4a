// Package classifier wraps an external trained text classifier behind a
// stable contract and layers rule-based confidence adjustments on top of the
// raw prediction. The classifier is optional: when no model can be loaded the
// evaluation pipeline simply skips refinement.
package classifier

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Label is the coarse verdict of the external classifier.
type Label string

// Classifier labels.
const (
	LabelGood      Label = "good"
	LabelBad       Label = "bad"
	LabelUncertain Label = "uncertain"
)

// Predictor is the contract any classifier implementation must satisfy.
type Predictor interface {
	Predict(text, rawURL, title string) (Label, float64, error)
}

// Adapter applies confidence adjustments and threshold checks on top of a
// Predictor. It satisfies quality.Refiner.
type Adapter struct {
	predictor     Predictor
	highThreshold float64
	lowThreshold  float64
}

// NewAdapter wraps predictor with the configured confidence thresholds.
func NewAdapter(predictor Predictor, highThreshold, lowThreshold float64) *Adapter {
	return &Adapter{
		predictor:     predictor,
		highThreshold: highThreshold,
		lowThreshold:  lowThreshold,
	}
}

var (
	rootPathPattern   = regexp.MustCompile(`^/?(index(\.html|\.php)?|home)?/?$`)
	feedPathPattern   = regexp.MustCompile(`(?i)(/feed/?$|/rss/?$|\.xml$|/atom/?$)`)
	personalPagePath  = regexp.MustCompile(`(?i)^/(about|contact|now|uses)(\.html)?/?$`)
	blogPostPath      = regexp.MustCompile(`(?i)/(blog|post|posts|article|articles|writing|essays)/.+|/\d{4}/\d{2}/`)
	commercialTitleRe = regexp.MustCompile(`(?i)pricing|free trial|best \d+|top \d+|review|coupon|discount|vs\.?\s`)
	commercialDomains = []string{"shop", "store", "deals", "coupon", "marketing", "agency"}
)

// IsAcceptable runs a prediction, adjusts its confidence, and applies the
// threshold check. The reason string carries "high_confidence" when the
// adjusted prediction cleared its threshold; anything else falls back to the
// conservative default of accepting only an adjusted "good".
func (a *Adapter) IsAcceptable(text, rawURL, title string) (bool, string, float64) {
	if a == nil || a.predictor == nil {
		return true, "no_classifier", 0
	}
	label, confidence, err := a.predictor.Predict(text, rawURL, title)
	if err != nil {
		// A broken model must never fail the pipeline.
		return true, "classifier_error", 0
	}
	confidence = a.adjust(label, confidence, rawURL, title)

	switch {
	case label == LabelGood && confidence >= a.highThreshold:
		return true, "high_confidence_good", confidence
	case label == LabelBad && confidence >= 1-a.lowThreshold:
		return false, "high_confidence_bad", confidence
	case label == LabelGood:
		return true, "default_good", confidence
	case label == LabelBad:
		return false, "default_bad", confidence
	default:
		return false, fmt.Sprintf("uncertain_%s", label), confidence
	}
}

// adjust applies the three rule-based corrections: homepage shapes weaken a
// "good" prediction, known special URL shapes (feeds, personal about/contact
// pages, blog-post paths) strengthen a "bad" one, and commercial titles or
// domains weaken a "good" one.
func (a *Adapter) adjust(label Label, confidence float64, rawURL, title string) float64 {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return confidence
	}
	path := parsed.Path

	if label == LabelGood && rootPathPattern.MatchString(path) {
		confidence *= 0.6
	}
	if label == LabelBad && isSpecialFormat(path) {
		confidence = clamp01(confidence * 1.3)
	}
	if label == LabelGood && isCommercialShape(parsed.Host, title) {
		confidence *= 0.7
	}
	return clamp01(confidence)
}

func isSpecialFormat(path string) bool {
	return feedPathPattern.MatchString(path) ||
		personalPagePath.MatchString(path) ||
		blogPostPath.MatchString(path)
}

func isCommercialShape(host, title string) bool {
	hostLower := strings.ToLower(host)
	for _, kw := range commercialDomains {
		if strings.Contains(hostLower, kw) {
			return true
		}
	}
	return commercialTitleRe.MatchString(title)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
