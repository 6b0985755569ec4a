package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"

	"github.com/pybash1/provoke/internal/store"
)

// PubSubPublisher publishes accepted-page events to a Pub/Sub topic.
type PubSubPublisher struct {
	topic *pubsub.Topic
}

// NewPubSub wraps an existing topic handle.
func NewPubSub(topic *pubsub.Topic) (*PubSubPublisher, error) {
	if topic == nil {
		return nil, fmt.Errorf("pubsub topic is required")
	}
	return &PubSubPublisher{topic: topic}, nil
}

// PageAccepted marshals the event to JSON and publishes it, waiting for
// the server acknowledgement.
func (p *PubSubPublisher) PageAccepted(ctx context.Context, page store.Page) error {
	data, err := json.Marshal(EventFromPage(page))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"domain": page.Domain,
			"tier":   string(page.Tier),
		},
	}
	result := p.topic.Publish(ctx, msg)
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
