// Package store defines the persistence contracts for the page corpus,
// domain lists, rejection log, and manual-label corpus, decoupling the
// crawler and retrieval engine from any particular backend.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/pybash1/provoke/internal/quality"
)

// ErrNotFound is returned when a page or record does not exist.
var ErrNotFound = errors.New("not found")

// Page is the unit of the corpus, keyed by canonical URL. Re-crawling the
// same URL overwrites the prior record; no history is retained.
type Page struct {
	URL           string
	Domain        string
	Title         string
	ExtractedText string
	RawMarkup     string // empty when raw markup is not archived inline
	Scores        map[string]float64
	Tier          quality.Tier
	FetchedAt     time.Time
}

// Rejection is one rejected evaluation, logged separately from the corpus.
type Rejection struct {
	ID           string
	URL          string
	Domain       string
	Reasons      []string
	UnifiedScore float64
	At           time.Time
}

// Stats aggregates corpus counters for the admin surface.
type Stats struct {
	TotalPages   int
	TierCounts   map[string]int
	ReasonCounts map[string]int
	DomainCounts map[string]int
}

// SearchHit is one candidate from the indexed search stage.
type SearchHit struct {
	URL     string
	Title   string
	Snippet string
	Rank    float64
}

// TitleRow feeds the fuzzy fallback's full-corpus title scan.
type TitleRow struct {
	URL     string
	Title   string
	Content string
}

// PageStore persists accepted pages with upsert-by-URL semantics.
type PageStore interface {
	UpsertPage(ctx context.Context, page Page) error
	GetPage(ctx context.Context, url string) (Page, error)
	// LastFetched returns the page's fetch time, or ErrNotFound.
	LastFetched(ctx context.Context, url string) (time.Time, error)
	// DeletePage removes and returns the page so it can be appended to the
	// manual-label corpus.
	DeletePage(ctx context.Context, url string) (Page, error)
	Stats(ctx context.Context) (Stats, error)
}

// SearchIndex answers the retrieval engine's two query shapes.
type SearchIndex interface {
	// QueryIndexed runs a disjunctive token match against the full-text
	// index over title+content, returning up to limit candidates ranked by
	// the index's native relevance.
	QueryIndexed(ctx context.Context, tokens []string, limit int) ([]SearchHit, error)
	// AllTitles returns every page's title and leading content for the
	// fuzzy fallback scan.
	AllTitles(ctx context.Context) ([]TitleRow, error)
}

// DomainLists manages the disjoint blacklist and whitelist of bare domains.
type DomainLists interface {
	LoadDomainLists(ctx context.Context) (blacklist, whitelist map[string]struct{}, err error)
	AddToBlacklist(ctx context.Context, domain string) error
	RemoveFromBlacklist(ctx context.Context, domain string) error
	AddToWhitelist(ctx context.Context, domain string) error
	RemoveFromWhitelist(ctx context.Context, domain string) error
}

// RejectionSink receives rejected evaluations.
type RejectionSink interface {
	RecordRejection(ctx context.Context, rejection Rejection) error
}

// LabelCorpus appends deleted or reviewed pages to the manual-labeling file.
type LabelCorpus interface {
	AppendLabel(ctx context.Context, page Page, label string) error
}
