package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pybash1/provoke/internal/quality"
	"github.com/pybash1/provoke/internal/store"
)

// Recrawl policies.
const (
	RecrawlAlways     = "always"
	RecrawlSkipRecent = "skip-recent"
)

// Config controls a crawl run.
type Config struct {
	UserAgent                string
	MaxDepth                 int
	PolitenessDelay          time.Duration
	DomainRejectionThreshold int
	ConsecutiveRejections    int
	RecrawlPolicy            string
	RecrawlWindow            time.Duration
	StoreRawMarkup           bool
}

// Evaluator scores a fetched page.
type Evaluator interface {
	Evaluate(rawURL, markup, text string, opts quality.Options) quality.Result
}

// Archiver persists raw markup for accepted pages.
type Archiver interface {
	Archive(ctx context.Context, canonicalURL string, markup []byte) error
}

// Notifier announces accepted pages to downstream consumers.
type Notifier interface {
	PageAccepted(ctx context.Context, page store.Page) error
}

// Summary reports what one crawl run did.
type Summary struct {
	Fetched     int
	Accepted    int
	Rejected    int
	Skipped     int
	Errors      int
	Blacklisted []string
	Halted      bool
}

// Crawler walks seed URLs breadth-first up to a depth limit, evaluating
// every fetched page and persisting the accepted ones.
type Crawler struct {
	cfg        Config
	fetcher    Fetcher
	renderer   Renderer
	evaluator  Evaluator
	pages      store.PageStore
	domains    store.DomainLists
	rejections store.RejectionSink
	archiver   Archiver
	notifier   Notifier
	robots     RobotsPolicy
	logger     *zap.Logger

	now   func() time.Time
	newID func() string
	sleep func(ctx context.Context, d time.Duration) error
}

// Deps bundles the collaborators a Crawler needs.
type Deps struct {
	Fetcher    Fetcher
	Renderer   Renderer
	Evaluator  Evaluator
	Pages      store.PageStore
	Domains    store.DomainLists
	Rejections store.RejectionSink
	Archiver   Archiver
	Notifier   Notifier
	Robots     RobotsPolicy
	Logger     *zap.Logger
}

// New validates deps and builds a Crawler. Renderer, Archiver, and
// Notifier are optional.
func New(cfg Config, deps Deps) (*Crawler, error) {
	if deps.Fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if deps.Evaluator == nil {
		return nil, errors.New("evaluator is required")
	}
	if deps.Pages == nil || deps.Domains == nil || deps.Rejections == nil {
		return nil, errors.New("page store, domain lists, and rejection sink are required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Robots == nil {
		deps.Robots = &allowAllPolicy{}
	}
	return &Crawler{
		cfg:        cfg,
		fetcher:    deps.Fetcher,
		renderer:   deps.Renderer,
		evaluator:  deps.Evaluator,
		pages:      deps.Pages,
		domains:    deps.Domains,
		rejections: deps.Rejections,
		archiver:   deps.Archiver,
		notifier:   deps.Notifier,
		robots:     deps.Robots,
		logger:     deps.Logger,
		now:        time.Now,
		newID:      uuid.NewString,
		sleep:      sleepCtx,
	}, nil
}

type workItem struct {
	url   string
	depth int
}

// Crawl processes seeds and every admissible link discovered beneath them.
// It returns early when the consecutive-rejection breaker trips or ctx is
// cancelled.
func (c *Crawler) Crawl(ctx context.Context, seeds []string) (Summary, error) {
	var summary Summary

	blacklist, whitelist, err := c.domains.LoadDomainLists(ctx)
	if err != nil {
		return summary, fmt.Errorf("load domain lists: %w", err)
	}
	filter := NewAdmissionFilter(blacklist)
	domains := newDomainBreaker(c.cfg.DomainRejectionThreshold)
	global := newGlobalBreaker(c.cfg.ConsecutiveRejections)

	queue := make([]workItem, 0, len(seeds))
	visited := make(map[string]struct{})
	for _, seed := range seeds {
		canonical, err := Canonicalize(seed)
		if err != nil {
			c.logger.Warn("skipping malformed seed", zap.String("url", seed), zap.Error(err))
			continue
		}
		queue = append(queue, workItem{url: canonical})
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if global.stopRequested() {
			summary.Halted = true
			c.logger.Warn("halting run: consecutive rejection limit reached",
				zap.Int("limit", c.cfg.ConsecutiveRejections))
			break
		}

		item := queue[0]
		queue = queue[1:]

		if _, seen := visited[item.url]; seen {
			continue
		}
		visited[item.url] = struct{}{}

		if ok, reason := filter.Admissible(item.url); !ok {
			summary.Skipped++
			TotalSkipped.Inc()
			c.logger.Debug("skipping url", zap.String("url", item.url), zap.String("reason", reason))
			continue
		}
		domain := DomainOf(item.url)
		if domains.isTripped(domain) {
			summary.Skipped++
			TotalSkipped.Inc()
			continue
		}
		if !c.robots.Allowed(ctx, item.url) {
			summary.Skipped++
			TotalSkipped.Inc()
			c.logger.Debug("robots.txt disallows url", zap.String("url", item.url))
			continue
		}
		if c.skipRecent(ctx, item.url) {
			summary.Skipped++
			TotalSkipped.Inc()
			continue
		}

		if c.cfg.PolitenessDelay > 0 {
			if err := c.sleep(ctx, c.cfg.PolitenessDelay); err != nil {
				return summary, err
			}
		}

		page, err := c.fetch(ctx, item.url)
		if err != nil {
			summary.Errors++
			TotalFetchErrors.Inc()
			c.logger.Warn("fetch failed", zap.String("url", item.url), zap.Error(err))
			continue
		}
		summary.Fetched++
		TotalFetches.Inc()

		markup := string(page.Body)
		text := quality.VisibleText(markup)
		result := c.evaluator.Evaluate(item.url, markup, text, quality.Options{Whitelist: whitelist})

		if result.Acceptable {
			summary.Accepted++
			TotalAccepted.Inc()
			global.recordAcceptance()
			c.persistAccepted(ctx, item.url, domain, markup, text, result)
		} else {
			summary.Rejected++
			TotalRejected.Inc()
			c.recordRejected(ctx, item.url, domain, result)
			if domains.recordRejection(domain) {
				filter.Block(domain)
				summary.Blacklisted = append(summary.Blacklisted, domain)
				TotalDomainsBlacklisted.Inc()
				c.logger.Info("domain auto-blacklisted", zap.String("domain", domain))
				if err := c.domains.AddToBlacklist(ctx, domain); err != nil {
					c.logger.Warn("failed to persist blacklisted domain",
						zap.String("domain", domain), zap.Error(err))
				}
			}
			if global.recordRejection() {
				continue
			}
		}

		// Links are harvested from rejected pages too; a bad page can
		// still point at good ones.
		if item.depth < c.cfg.MaxDepth {
			for _, link := range ExtractLinks(item.url, page.Body) {
				if _, seen := visited[link]; seen {
					continue
				}
				if ok, _ := filter.Admissible(link); !ok {
					continue
				}
				queue = append(queue, workItem{url: link, depth: item.depth + 1})
			}
		}
	}

	return summary, nil
}

// fetch retrieves the page, rendering with the headless browser when the
// plain response looks like a JavaScript shell.
func (c *Crawler) fetch(ctx context.Context, rawURL string) (Page, error) {
	page, err := c.fetcher.Fetch(ctx, rawURL)
	if err == nil && page.StatusCode >= 400 {
		err = fmt.Errorf("http status %d", page.StatusCode)
	}
	if c.renderer == nil {
		return page, err
	}
	if err == nil && !needsRender(page.Body) {
		return page, nil
	}
	rendered, renderErr := c.renderer.Render(ctx, rawURL)
	if renderErr != nil {
		if err != nil {
			return Page{}, err
		}
		c.logger.Warn("render failed, using plain fetch", zap.String("url", rawURL), zap.Error(renderErr))
		return page, nil
	}
	TotalRendered.Inc()
	return rendered, nil
}

const minPlainHTMLBytes = 2048

// needsRender flags responses that are too small to be real articles or
// that explicitly demand JavaScript.
func needsRender(body []byte) bool {
	if len(body) < minPlainHTMLBytes {
		return true
	}
	lower := bytes.ToLower(body)
	return bytes.Contains(lower, []byte("enable javascript")) ||
		bytes.Contains(lower, []byte("javascript is required"))
}

func (c *Crawler) skipRecent(ctx context.Context, rawURL string) bool {
	if c.cfg.RecrawlPolicy != RecrawlSkipRecent || c.cfg.RecrawlWindow <= 0 {
		return false
	}
	fetchedAt, err := c.pages.LastFetched(ctx, rawURL)
	if err != nil {
		return false
	}
	return c.now().Sub(fetchedAt) < c.cfg.RecrawlWindow
}

func (c *Crawler) persistAccepted(ctx context.Context, canonicalURL, domain, markup, text string, result quality.Result) {
	page := store.Page{
		URL:           canonicalURL,
		Domain:        domain,
		Title:         quality.ExtractTitle(markup),
		ExtractedText: text,
		Scores:        result.Scores,
		Tier:          result.Tier,
		FetchedAt:     c.now().UTC(),
	}
	if c.cfg.StoreRawMarkup {
		page.RawMarkup = markup
	}
	if err := c.pages.UpsertPage(ctx, page); err != nil {
		c.logger.Error("failed to store accepted page", zap.String("url", canonicalURL), zap.Error(err))
		return
	}
	if c.archiver != nil {
		if err := c.archiver.Archive(ctx, canonicalURL, []byte(markup)); err != nil {
			c.logger.Warn("archive failed", zap.String("url", canonicalURL), zap.Error(err))
		}
	}
	if c.notifier != nil {
		if err := c.notifier.PageAccepted(ctx, page); err != nil {
			c.logger.Warn("notify failed", zap.String("url", canonicalURL), zap.Error(err))
		}
	}
}

func (c *Crawler) recordRejected(ctx context.Context, canonicalURL, domain string, result quality.Result) {
	rejection := store.Rejection{
		ID:           c.newID(),
		URL:          canonicalURL,
		Domain:       domain,
		Reasons:      result.RejectionReasons,
		UnifiedScore: result.Scores["unified_score"],
		At:           c.now().UTC(),
	}
	if err := c.rejections.RecordRejection(ctx, rejection); err != nil {
		c.logger.Warn("failed to record rejection", zap.String("url", canonicalURL), zap.Error(err))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HostOf exposes hostname parsing for callers that take raw user input.
func HostOf(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if parsed.Hostname() == "" {
		return raw, nil
	}
	return parsed.Hostname(), nil
}
