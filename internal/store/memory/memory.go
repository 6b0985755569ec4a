// Package memory provides an in-memory store implementation used by tests
// and by crawls that do not need durable persistence.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pybash1/provoke/internal/store"
)

// Store keeps the whole corpus in maps behind one mutex. It implements
// every contract in the store package.
type Store struct {
	mu         sync.Mutex
	pages      map[string]store.Page
	rejections []store.Rejection
	blacklist  map[string]struct{}
	whitelist  map[string]struct{}
	labels     []LabeledPage
}

// LabeledPage is one manual-label corpus row.
type LabeledPage struct {
	Page  store.Page
	Label string
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		pages:     make(map[string]store.Page),
		blacklist: make(map[string]struct{}),
		whitelist: make(map[string]struct{}),
	}
}

// UpsertPage overwrites any prior record for the page's URL.
func (s *Store) UpsertPage(_ context.Context, page store.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[page.URL] = page
	return nil
}

// GetPage returns the page for url, or store.ErrNotFound.
func (s *Store) GetPage(_ context.Context, url string) (store.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page, ok := s.pages[url]
	if !ok {
		return store.Page{}, store.ErrNotFound
	}
	return page, nil
}

// LastFetched returns when url was last stored.
func (s *Store) LastFetched(_ context.Context, url string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page, ok := s.pages[url]
	if !ok {
		return time.Time{}, store.ErrNotFound
	}
	return page.FetchedAt, nil
}

// DeletePage removes and returns the page.
func (s *Store) DeletePage(_ context.Context, url string) (store.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page, ok := s.pages[url]
	if !ok {
		return store.Page{}, store.ErrNotFound
	}
	delete(s.pages, url)
	return page, nil
}

// Stats aggregates tier, rejection-reason, and domain histograms.
func (s *Store) Stats(_ context.Context) (store.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := store.Stats{
		TotalPages:   len(s.pages),
		TierCounts:   make(map[string]int),
		ReasonCounts: make(map[string]int),
		DomainCounts: make(map[string]int),
	}
	for _, page := range s.pages {
		stats.TierCounts[string(page.Tier)]++
		stats.DomainCounts[page.Domain]++
	}
	for _, rejection := range s.rejections {
		for _, reason := range rejection.Reasons {
			stats.ReasonCounts[reason]++
		}
	}
	return stats, nil
}

// QueryIndexed emulates the trigram stage with substring token matching over
// title+content, ranked by the number of matching tokens.
func (s *Store) QueryIndexed(_ context.Context, tokens []string, limit int) ([]store.SearchHit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var hits []store.SearchHit
	for _, page := range s.pages {
		haystack := strings.ToLower(page.Title + " " + page.ExtractedText)
		matched := 0
		var first string
		for _, token := range tokens {
			token = strings.ToLower(token)
			if token == "" {
				continue
			}
			if strings.Contains(haystack, token) {
				matched++
				if first == "" {
					first = token
				}
			}
		}
		if matched == 0 {
			continue
		}
		hits = append(hits, store.SearchHit{
			URL:     page.URL,
			Title:   page.Title,
			Snippet: snippetAround(page.ExtractedText, first),
			Rank:    float64(matched),
		})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Rank > hits[j].Rank })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// AllTitles returns every stored page for the fuzzy scan.
func (s *Store) AllTitles(_ context.Context) ([]store.TitleRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]store.TitleRow, 0, len(s.pages))
	for _, page := range s.pages {
		rows = append(rows, store.TitleRow{
			URL:     page.URL,
			Title:   page.Title,
			Content: page.ExtractedText,
		})
	}
	return rows, nil
}

// LoadDomainLists returns copies of both lists.
func (s *Store) LoadDomainLists(_ context.Context) (map[string]struct{}, map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySet(s.blacklist), copySet(s.whitelist), nil
}

// AddToBlacklist records domain; membership is idempotent.
func (s *Store) AddToBlacklist(_ context.Context, domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blacklist[strings.ToLower(domain)] = struct{}{}
	return nil
}

// RemoveFromBlacklist deletes domain from the blacklist.
func (s *Store) RemoveFromBlacklist(_ context.Context, domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blacklist, strings.ToLower(domain))
	return nil
}

// AddToWhitelist records domain; membership is idempotent.
func (s *Store) AddToWhitelist(_ context.Context, domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.whitelist[strings.ToLower(domain)] = struct{}{}
	return nil
}

// RemoveFromWhitelist deletes domain from the whitelist.
func (s *Store) RemoveFromWhitelist(_ context.Context, domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.whitelist, strings.ToLower(domain))
	return nil
}

// RecordRejection appends to the in-memory rejection log.
func (s *Store) RecordRejection(_ context.Context, rejection store.Rejection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejections = append(s.rejections, rejection)
	return nil
}

// AppendLabel records a manually labeled page.
func (s *Store) AppendLabel(_ context.Context, page store.Page, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels = append(s.labels, LabeledPage{Page: page, Label: label})
	return nil
}

// Labels returns the accumulated label corpus (test helper).
func (s *Store) Labels() []LabeledPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LabeledPage(nil), s.labels...)
}

// Rejections returns the accumulated rejection log (test helper).
func (s *Store) Rejections() []store.Rejection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]store.Rejection(nil), s.rejections...)
}

func copySet(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}

func snippetAround(content, token string) string {
	if token == "" || content == "" {
		return leading(content)
	}
	idx := strings.Index(strings.ToLower(content), token)
	if idx < 0 {
		return leading(content)
	}
	start := idx - 60
	if start < 0 {
		start = 0
	}
	end := idx + len(token) + 100
	if end > len(content) {
		end = len(content)
	}
	return content[start:idx] + "<mark>" + content[idx:idx+len(token)] + "</mark>" + content[idx+len(token):end]
}

func leading(content string) string {
	if len(content) > 160 {
		return content[:160] + "..."
	}
	return content
}
