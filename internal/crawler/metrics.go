// Package crawler walks seed URLs breadth-first, scores each fetched page,
// and persists accepted pages while tracking rejection streaks.
package crawler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalFetches tracks pages fetched over plain HTTP or rendering.
	TotalFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "provoke_fetches_total",
		Help: "The total number of pages fetched.",
	})
	// TotalFetchErrors tracks fetches that failed outright.
	TotalFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "provoke_fetch_errors_total",
		Help: "The total number of failed fetches.",
	})
	// TotalAccepted tracks pages that passed quality evaluation.
	TotalAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "provoke_pages_accepted_total",
		Help: "The total number of pages accepted and stored.",
	})
	// TotalRejected tracks pages that failed quality evaluation.
	TotalRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "provoke_pages_rejected_total",
		Help: "The total number of pages rejected by quality scoring.",
	})
	// TotalDomainsBlacklisted tracks domains tripped by the rejection breaker.
	TotalDomainsBlacklisted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "provoke_domains_blacklisted_total",
		Help: "The total number of domains auto-blacklisted mid-run.",
	})
	// TotalSkipped tracks URLs filtered out before fetching.
	TotalSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "provoke_urls_skipped_total",
		Help: "The total number of URLs skipped by admission filtering.",
	})
	// TotalRendered tracks pages fetched through the headless browser.
	TotalRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "provoke_pages_rendered_total",
		Help: "The total number of pages fetched via JS rendering.",
	})
)
