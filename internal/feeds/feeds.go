// Package feeds discovers seed URLs from RSS and Atom feeds so crawl runs
// can start from blogrolls and subscription lists instead of hand-curated
// URL files.
package feeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/antchfx/xmlquery"
	"go.uber.org/zap"
)

const maxFeedBytes = 4 << 20

// Entry is one article reference discovered in a feed.
type Entry struct {
	Title string
	URL   string
}

// Fetcher downloads and parses feeds with a bounded worker pool.
type Fetcher struct {
	client    *http.Client
	userAgent string
	workers   int
	logger    *zap.Logger
}

// NewFetcher builds a feed fetcher. workers of zero or less means one.
func NewFetcher(userAgent string, timeout time.Duration, workers int, logger *zap.Logger) *Fetcher {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		workers:   workers,
		logger:    logger,
	}
}

// FetchAll pulls every feed concurrently and returns the union of their
// entries. Feeds that fail to download or parse are logged and skipped.
func (f *Fetcher) FetchAll(ctx context.Context, feedURLs []string) []Entry {
	jobs := make(chan string)
	results := make(chan []Entry)

	var wg sync.WaitGroup
	for i := 0; i < f.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for feedURL := range jobs {
				entries, err := f.Fetch(ctx, feedURL)
				if err != nil {
					f.logger.Warn("feed fetch failed", zap.String("feed", feedURL), zap.Error(err))
					continue
				}
				select {
				case results <- entries:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, feedURL := range feedURLs {
			select {
			case jobs <- feedURL:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	seen := make(map[string]struct{})
	var all []Entry
	for entries := range results {
		for _, entry := range entries {
			if _, dup := seen[entry.URL]; dup {
				continue
			}
			seen[entry.URL] = struct{}{}
			all = append(all, entry)
		}
	}
	return all
}

// Fetch downloads one feed and returns its entries.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new feed request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			f.logger.Debug("Failed to close feed response body", zap.Error(cerr))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}
	return Parse(io.LimitReader(resp.Body, maxFeedBytes))
}

// Parse reads an RSS or Atom document and extracts its entries.
func Parse(r io.Reader) ([]Entry, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse feed xml: %w", err)
	}

	var entries []Entry
	for _, item := range xmlquery.Find(doc, "//item") {
		entry := Entry{
			Title: nodeText(item, "title"),
			URL:   nodeText(item, "link"),
		}
		if entry.URL != "" {
			entries = append(entries, entry)
		}
	}
	if len(entries) > 0 {
		return entries, nil
	}

	for _, item := range xmlquery.Find(doc, "//*[local-name()='entry']") {
		entry := Entry{
			Title: nodeText(item, "*[local-name()='title']"),
			URL:   atomLink(item),
		}
		if entry.URL != "" {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func nodeText(parent *xmlquery.Node, expr string) string {
	if node := xmlquery.FindOne(parent, expr); node != nil {
		return strings.TrimSpace(node.InnerText())
	}
	return ""
}

// atomLink prefers rel="alternate" links, falling back to the first href.
func atomLink(entry *xmlquery.Node) string {
	links := xmlquery.Find(entry, "*[local-name()='link']")
	var first string
	for _, link := range links {
		href := strings.TrimSpace(link.SelectAttr("href"))
		if href == "" {
			continue
		}
		if first == "" {
			first = href
		}
		rel := link.SelectAttr("rel")
		if rel == "" || rel == "alternate" {
			return href
		}
	}
	return first
}
