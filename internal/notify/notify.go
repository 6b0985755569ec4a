// Package notify announces accepted pages to downstream consumers such as
// indexing or enrichment pipelines. Consumers declare what they need from a
// publisher themselves (see crawler.Notifier); this package only provides
// implementations.
package notify

import (
	"context"
	"time"

	"github.com/pybash1/provoke/internal/quality"
	"github.com/pybash1/provoke/internal/store"
)

// Event is the wire payload published for each accepted page.
type Event struct {
	URL       string             `json:"url"`
	Domain    string             `json:"domain"`
	Title     string             `json:"title"`
	Tier      quality.Tier       `json:"tier"`
	Scores    map[string]float64 `json:"scores"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// EventFromPage projects the stored page into the published payload. Raw
// markup and extracted text stay out of the message body.
func EventFromPage(page store.Page) Event {
	return Event{
		URL:       page.URL,
		Domain:    page.Domain,
		Title:     page.Title,
		Tier:      page.Tier,
		Scores:    page.Scores,
		FetchedAt: page.FetchedAt,
	}
}

// Noop drops all notifications.
type Noop struct{}

// PageAccepted discards the notification.
func (Noop) PageAccepted(context.Context, store.Page) error { return nil }
