// Package search ranks accepted pages against a user query. The primary
// stage queries the store's full-text index and boosts hits whose titles
// resemble the query; a fuzzy title scan fills in when the index returns
// nothing useful.
package search

import (
	"context"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"

	"github.com/pybash1/provoke/internal/store"
)

// Config tunes ranking and the fuzzy fallback trigger.
type Config struct {
	// MaxCandidates caps how many rows the indexed stage pulls.
	MaxCandidates int
	// TitleBoostWeight scales title similarity into the combined score.
	TitleBoostWeight float64
	// FuzzyFloor is the minimum title similarity for a fuzzy hit.
	FuzzyFloor float64
	// FuzzyLimit caps how many fuzzy hits are appended.
	FuzzyLimit int
	// LowConfidenceMin and LowConfidenceRank define when indexed results
	// count as weak: fewer than LowConfidenceMin hits, all scoring below
	// LowConfidenceRank.
	LowConfidenceMin  int
	LowConfidenceRank float64
}

// DefaultConfig mirrors the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxCandidates:     100,
		TitleBoostWeight:  10,
		FuzzyFloor:        0.3,
		FuzzyLimit:        20,
		LowConfidenceMin:  5,
		LowConfidenceRank: 5.0,
	}
}

// Result is one ranked search hit.
type Result struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
	Fuzzy   bool    `json:"fuzzy"`
}

// Engine runs queries against a SearchIndex.
type Engine struct {
	index store.SearchIndex
	cfg   Config
	log   *zap.Logger
}

// NewEngine wires an Engine. Zero fields in cfg fall back to defaults.
func NewEngine(index store.SearchIndex, cfg Config, log *zap.Logger) *Engine {
	def := DefaultConfig()
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = def.MaxCandidates
	}
	if cfg.TitleBoostWeight <= 0 {
		cfg.TitleBoostWeight = def.TitleBoostWeight
	}
	if cfg.FuzzyFloor <= 0 {
		cfg.FuzzyFloor = def.FuzzyFloor
	}
	if cfg.FuzzyLimit <= 0 {
		cfg.FuzzyLimit = def.FuzzyLimit
	}
	if cfg.LowConfidenceMin <= 0 {
		cfg.LowConfidenceMin = def.LowConfidenceMin
	}
	if cfg.LowConfidenceRank <= 0 {
		cfg.LowConfidenceRank = def.LowConfidenceRank
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{index: index, cfg: cfg, log: log}
}

// Search returns ranked results for query. Store failures degrade to an
// empty result set rather than surfacing an error to the caller.
func (e *Engine) Search(ctx context.Context, query string) []Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	results := e.indexedStage(ctx, query)
	if e.needsFuzzy(results) {
		results = e.fuzzyStage(ctx, query, results)
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}

func (e *Engine) indexedStage(ctx context.Context, query string) []Result {
	tokens := strings.Fields(strings.ToLower(query))
	hits, err := e.index.QueryIndexed(ctx, tokens, e.cfg.MaxCandidates)
	if err != nil {
		e.log.Warn("indexed search failed, falling back to fuzzy", zap.Error(err))
		return nil
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		score := hit.Rank + e.cfg.TitleBoostWeight*Similarity(query, hit.Title)
		results = append(results, Result{
			URL:     hit.URL,
			Title:   hit.Title,
			Snippet: hit.Snippet,
			Score:   score,
		})
	}
	return results
}

// needsFuzzy reports whether the indexed stage came back empty or weak.
func (e *Engine) needsFuzzy(results []Result) bool {
	if len(results) == 0 {
		return true
	}
	if len(results) >= e.cfg.LowConfidenceMin {
		return false
	}
	for _, r := range results {
		if r.Score >= e.cfg.LowConfidenceRank {
			return false
		}
	}
	return true
}

func (e *Engine) fuzzyStage(ctx context.Context, query string, results []Result) []Result {
	rows, err := e.index.AllTitles(ctx)
	if err != nil {
		e.log.Warn("fuzzy title scan failed", zap.Error(err))
		return results
	}

	seen := make(map[string]struct{}, len(results))
	for _, r := range results {
		seen[r.URL] = struct{}{}
	}

	var fuzzy []Result
	for _, row := range rows {
		if _, ok := seen[row.URL]; ok {
			continue
		}
		sim := Similarity(query, row.Title)
		if sim < e.cfg.FuzzyFloor {
			continue
		}
		fuzzy = append(fuzzy, Result{
			URL:     row.URL,
			Title:   row.Title,
			Snippet: leadingSnippet(row.Content),
			Score:   sim * e.cfg.TitleBoostWeight,
			Fuzzy:   true,
		})
	}

	sort.SliceStable(fuzzy, func(i, j int) bool { return fuzzy[i].Score > fuzzy[j].Score })
	if len(fuzzy) > e.cfg.FuzzyLimit {
		fuzzy = fuzzy[:e.cfg.FuzzyLimit]
	}
	return append(results, fuzzy...)
}

const snippetLen = 160

func leadingSnippet(content string) string {
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) <= snippetLen {
		return content
	}
	return string(runes[:snippetLen]) + "..."
}

// Similarity is the case-insensitive character-level sequence ratio of a
// and b, in [0, 1].
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	left := strings.Split(strings.ToLower(a), "")
	right := strings.Split(strings.ToLower(b), "")
	return difflib.NewMatcher(left, right).Ratio()
}
