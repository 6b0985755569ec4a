package quality

import (
	"fmt"
	"net/url"
	"strings"
)

// ReasonCorporatePage is the short-circuit rejection reason emitted when the
// corporate pre-filter trips before full scoring.
const ReasonCorporatePage = "Corporate Page"

// ReasonTitleExcluded rejects boilerplate pages by title alone.
const ReasonTitleExcluded = "Title matched common phrase"

// Refiner is the narrow contract the evaluator needs from the classifier
// adapter. A "high_confidence" substring in reason marks predictions that may
// rescue a rule-rejected page.
type Refiner interface {
	IsAcceptable(text, rawURL, title string) (accept bool, reason string, confidence float64)
}

// Evaluator fuses the heuristic scores into a single accept/reject decision
// with a tier. It never returns an error: malformed input degrades to zero
// scores and a well-formed rejection.
type Evaluator struct {
	thresholds          Thresholds
	refiner             Refiner
	refineUncertainOnly bool
}

// NewEvaluator builds an Evaluator. refiner may be nil, in which case
// classifier refinement is skipped entirely. When refineUncertainOnly is set,
// pages scoring at or above Thresholds.UncertainScoreCeiling skip refinement.
func NewEvaluator(thresholds Thresholds, refiner Refiner, refineUncertainOnly bool) *Evaluator {
	return &Evaluator{
		thresholds:          thresholds,
		refiner:             refiner,
		refineUncertainOnly: refineUncertainOnly,
	}
}

// Thresholds returns the evaluator's tuning.
func (e *Evaluator) Thresholds() Thresholds {
	return e.thresholds
}

// Evaluate runs the full decision pipeline for one page.
func (e *Evaluator) Evaluate(rawURL, markup, text string, opts Options) Result {
	th := e.thresholds
	scores := make(map[string]float64)

	whitelisted := isWhitelisted(rawURL, opts.Whitelist)

	// Cheap pre-filter: obviously commercial pages are rejected before any
	// further scoring work.
	corporate := CorporateScore(rawURL, markup, text)
	scores["corporate_score"] = corporate
	if !whitelisted && !opts.Force && corporate > th.CorporateRejectThreshold {
		return Result{
			Acceptable:       false,
			Scores:           scores,
			RejectionReasons: []string{ReasonCorporatePage},
			Tier:             TierRejected,
		}
	}

	ratio := TextRatio(markup, th.MinWords, th.MaxWords)
	wordCount := WordCount(text)
	readability := Readability(text)
	adScore := AdScore(markup)

	scores["text_ratio"] = ratio
	scores["word_count"] = float64(wordCount)
	scores["readability"] = readability
	scores["ad_score"] = adScore
	scores["personal_signals"] = float64(PersonalBlogSignals(rawURL, markup))
	scores["has_blog_schema"] = boolScore(isBlogSchema(DetectSchemaType(markup)))
	scores["has_date_indicators"] = boolScore(HasDateIndicators(markup, text))

	unified := e.unifiedScore(ratio, readability, corporate, adScore)
	scores["unified_score"] = unified

	if CheckTitle(markup) {
		return Result{
			Acceptable:       false,
			Scores:           scores,
			RejectionReasons: []string{ReasonTitleExcluded},
			Tier:             TierLow,
			Whitelisted:      whitelisted,
		}
	}

	acceptable := whitelisted || opts.Force || unified >= th.UnifiedScoreThreshold

	var classifierReason string
	if e.refiner != nil && !opts.SkipClassifier && (!e.refineUncertainOnly || unified < th.UncertainScoreCeiling) {
		accept, reason, confidence := e.refiner.IsAcceptable(text, rawURL, ExtractTitle(markup))
		scores["ml_confidence"] = confidence
		if accept {
			// Only a high-confidence good prediction may rescue a
			// rule-rejected page.
			if strings.Contains(reason, "high_confidence") {
				acceptable = true
			}
		} else {
			acceptable = false
			classifierReason = fmt.Sprintf("Classified as low quality (%s)", reason)
		}
	}

	var reasons []string
	if !acceptable {
		if !whitelisted {
			reasons = append(reasons, fmt.Sprintf("Unified quality score too low (%.0f)", unified))
			if ratio < th.MinTextRatio {
				reasons = append(reasons, fmt.Sprintf("Text-to-HTML ratio too low (%.2f)", ratio))
			}
			if readability < th.MinReadability || readability > th.MaxReadability {
				reasons = append(reasons, fmt.Sprintf("Readability score out of range (%.1f)", readability))
			}
			if corporate >= th.CorporateFlagThreshold {
				reasons = append(reasons, "Likely corporate marketing")
			}
		}
		if classifierReason != "" {
			reasons = append(reasons, classifierReason)
		}
	}

	return Result{
		Acceptable:       acceptable,
		Scores:           scores,
		RejectionReasons: reasons,
		Tier:             e.tier(unified, whitelisted),
		Whitelisted:      whitelisted,
	}
}

// unifiedScore combines density, readability, and the commercial penalties
// into a 0-100 quality metric.
func (e *Evaluator) unifiedScore(ratio, readability, corporate, adScore float64) float64 {
	th := e.thresholds
	var points float64

	// Content density: up to 50 points, linear against the ideal ratio.
	points += clamp(ratio/th.IdealTextRatio*50, 0, 50)

	// Readability: three bands.
	switch {
	case readability > 40 && readability <= 100:
		points += 50
	case readability >= 20 && readability <= 40:
		points += 30
	case readability >= 0 && readability < 20:
		points += 10
	}

	// Commercial penalties.
	points -= corporate / 100 * 50
	if adScore > th.AdScorePenaltyFloor {
		points -= clamp((adScore-th.AdScorePenaltyFloor)/(100-th.AdScorePenaltyFloor)*25, 0, 25)
	}

	return clamp(points, 0, 100)
}

func (e *Evaluator) tier(unified float64, whitelisted bool) Tier {
	th := e.thresholds
	switch {
	case unified >= th.HighTierThreshold:
		return TierHigh
	case unified >= th.UnifiedScoreThreshold || whitelisted:
		return TierMedium
	default:
		return TierLow
	}
}

// isWhitelisted checks exact-domain membership; subdomains do not inherit.
func isWhitelisted(rawURL string, whitelist map[string]struct{}) bool {
	if len(whitelist) == 0 {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	_, ok := whitelist[strings.ToLower(parsed.Host)]
	return ok
}

func isBlogSchema(schemaType string) bool {
	switch schemaType {
	case "BlogPosting", "Article", "TechArticle":
		return true
	}
	return false
}

func boolScore(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
