package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pybash1/provoke/internal/quality"
	"github.com/pybash1/provoke/internal/store"
	"github.com/pybash1/provoke/internal/store/memory"
)

type fakeFetcher struct {
	pages map[string]Page
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) (Page, error) {
	page, ok := f.pages[rawURL]
	if !ok {
		return Page{}, errors.New("not wired")
	}
	return page, nil
}

type fakeEvaluator struct {
	accept map[string]bool
}

func (e *fakeEvaluator) Evaluate(rawURL, _, _ string, _ quality.Options) quality.Result {
	if e.accept[rawURL] {
		return quality.Result{
			Acceptable: true,
			Tier:       quality.TierMedium,
			Scores:     map[string]float64{"unified_score": 70},
		}
	}
	return quality.Result{
		Acceptable:       false,
		Tier:             quality.TierRejected,
		Scores:           map[string]float64{"unified_score": 10},
		RejectionReasons: []string{"Unified quality score too low (10)"},
	}
}

func pageWithLinks(url string, hrefs ...string) Page {
	var b strings.Builder
	b.WriteString("<html><head><title>t</title></head><body><p>hello world</p>")
	for _, href := range hrefs {
		fmt.Fprintf(&b, `<a href=%q>link</a>`, href)
	}
	b.WriteString("</body></html>")
	return Page{URL: url, FinalURL: url, StatusCode: 200, Body: []byte(b.String())}
}

func newTestCrawler(t *testing.T, cfg Config, fetcher Fetcher, eval Evaluator, st *memory.Store) *Crawler {
	t.Helper()
	c, err := New(cfg, Deps{
		Fetcher:    fetcher,
		Evaluator:  eval,
		Pages:      st,
		Domains:    st,
		Rejections: st,
		Logger:     zap.NewNop(),
	})
	require.NoError(t, err)
	c.sleep = func(context.Context, time.Duration) error { return nil }
	return c
}

func TestCrawlStoresAcceptedAndFollowsLinks(t *testing.T) {
	t.Parallel()

	st := memory.New()
	fetcher := &fakeFetcher{pages: map[string]Page{
		"https://a.example/root": pageWithLinks("https://a.example/root", "/child", "https://a.example/photo.jpg"),
		"https://a.example/child": pageWithLinks("https://a.example/child"),
	}}
	eval := &fakeEvaluator{accept: map[string]bool{
		"https://a.example/root":  true,
		"https://a.example/child": true,
	}}
	c := newTestCrawler(t, Config{MaxDepth: 1}, fetcher, eval, st)

	summary, err := c.Crawl(context.Background(), []string{"https://a.example/root"})
	require.NoError(t, err)
	require.Equal(t, 2, summary.Fetched)
	require.Equal(t, 2, summary.Accepted)

	_, err = st.GetPage(context.Background(), "https://a.example/child")
	require.NoError(t, err)
}

func TestCrawlRespectsDepthLimit(t *testing.T) {
	t.Parallel()

	st := memory.New()
	fetcher := &fakeFetcher{pages: map[string]Page{
		"https://a.example/root":  pageWithLinks("https://a.example/root", "/child"),
		"https://a.example/child": pageWithLinks("https://a.example/child", "/grandchild"),
	}}
	eval := &fakeEvaluator{accept: map[string]bool{
		"https://a.example/root":  true,
		"https://a.example/child": true,
	}}
	c := newTestCrawler(t, Config{MaxDepth: 1}, fetcher, eval, st)

	summary, err := c.Crawl(context.Background(), []string{"https://a.example/root"})
	require.NoError(t, err)
	require.Equal(t, 2, summary.Fetched, "grandchild is beyond the depth limit")
}

func TestCrawlFollowsLinksFromRejectedPages(t *testing.T) {
	t.Parallel()

	st := memory.New()
	fetcher := &fakeFetcher{pages: map[string]Page{
		"https://a.example/bad":  pageWithLinks("https://a.example/bad", "https://b.example/good"),
		"https://b.example/good": pageWithLinks("https://b.example/good"),
	}}
	eval := &fakeEvaluator{accept: map[string]bool{"https://b.example/good": true}}
	c := newTestCrawler(t, Config{MaxDepth: 1, ConsecutiveRejections: 25}, fetcher, eval, st)

	summary, err := c.Crawl(context.Background(), []string{"https://a.example/bad"})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Accepted)
	require.Equal(t, 1, summary.Rejected)
	require.Len(t, st.Rejections(), 1)
	require.Equal(t, "https://a.example/bad", st.Rejections()[0].URL)
}

func TestCrawlBlacklistsDomainAfterThreshold(t *testing.T) {
	t.Parallel()

	st := memory.New()
	fetcher := &fakeFetcher{pages: map[string]Page{}}
	var seeds []string
	for i := 0; i < 4; i++ {
		u := fmt.Sprintf("https://spam.example/p%d", i)
		fetcher.pages[u] = pageWithLinks(u)
		seeds = append(seeds, u)
	}
	eval := &fakeEvaluator{}
	c := newTestCrawler(t, Config{DomainRejectionThreshold: 3, ConsecutiveRejections: 100}, fetcher, eval, st)

	summary, err := c.Crawl(context.Background(), seeds)
	require.NoError(t, err)
	require.Equal(t, []string{"spam.example"}, summary.Blacklisted)
	require.Equal(t, 3, summary.Rejected)
	require.Equal(t, 1, summary.Skipped, "fourth url is skipped once the domain trips")

	blacklist, _, err := st.LoadDomainLists(context.Background())
	require.NoError(t, err)
	require.Contains(t, blacklist, "spam.example")
}

func TestCrawlHaltsOnConsecutiveRejections(t *testing.T) {
	t.Parallel()

	st := memory.New()
	fetcher := &fakeFetcher{pages: map[string]Page{}}
	var seeds []string
	for i := 0; i < 5; i++ {
		u := fmt.Sprintf("https://s%d.example/p", i)
		fetcher.pages[u] = pageWithLinks(u)
		seeds = append(seeds, u)
	}
	eval := &fakeEvaluator{}
	c := newTestCrawler(t, Config{ConsecutiveRejections: 2}, fetcher, eval, st)

	summary, err := c.Crawl(context.Background(), seeds)
	require.NoError(t, err)
	require.True(t, summary.Halted)
	require.Equal(t, 2, summary.Rejected)
}

func TestCrawlSkipRecentPolicy(t *testing.T) {
	t.Parallel()

	st := memory.New()
	require.NoError(t, st.UpsertPage(context.Background(), store.Page{
		URL:       "https://a.example/root",
		Domain:    "a.example",
		FetchedAt: time.Now().Add(-time.Hour),
	}))

	fetcher := &fakeFetcher{pages: map[string]Page{
		"https://a.example/root": pageWithLinks("https://a.example/root"),
	}}
	eval := &fakeEvaluator{accept: map[string]bool{"https://a.example/root": true}}
	c := newTestCrawler(t, Config{
		RecrawlPolicy: RecrawlSkipRecent,
		RecrawlWindow: 24 * time.Hour,
	}, fetcher, eval, st)

	summary, err := c.Crawl(context.Background(), []string{"https://a.example/root"})
	require.NoError(t, err)
	require.Equal(t, 0, summary.Fetched)
	require.Equal(t, 1, summary.Skipped)
}

func TestNeedsRender(t *testing.T) {
	t.Parallel()

	require.True(t, needsRender([]byte("<html></html>")))

	big := []byte("<html>" + strings.Repeat("<p>real content here</p>", 200) + "</html>")
	require.False(t, needsRender(big))
	require.True(t, needsRender(append(big, []byte("Please enable JavaScript to continue")...)))
}
