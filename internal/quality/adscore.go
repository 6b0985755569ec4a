package quality

import "strings"

const (
	adNetworkPoints       = 10
	trackingScriptPoints  = 5
	adElementPoints       = 3
	adElementMaxPerMatch  = 10
	iframeFreeAllowance   = 3
	iframeExcessPoints    = 3
	iframeExcessPointsCap = 15
)

// AdScore scores ad and tracking density on a 0-100 scale. Each detected
// ad-network reference, tracking script, and ad DOM pattern adds points, plus
// a penalty for iframe counts beyond the free allowance.
func AdScore(markup string) float64 {
	if markup == "" {
		return 0
	}
	lower := strings.ToLower(markup)
	var score float64

	for _, domain := range adNetworkDomains {
		if strings.Contains(lower, domain) {
			score += adNetworkPoints
		}
	}
	for _, pattern := range trackingScriptPatterns {
		if pattern.MatchString(lower) {
			score += trackingScriptPoints
		}
	}
	for _, marker := range adElementPatterns {
		n := strings.Count(lower, marker)
		if n > adElementMaxPerMatch {
			n = adElementMaxPerMatch
		}
		score += float64(n * adElementPoints)
	}

	iframes := strings.Count(lower, "<iframe")
	if excess := iframes - iframeFreeAllowance; excess > 0 {
		penalty := excess * iframeExcessPoints
		if penalty > iframeExcessPointsCap {
			penalty = iframeExcessPointsCap
		}
		score += float64(penalty)
	}

	return clamp(score, 0, 100)
}
