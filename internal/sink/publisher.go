package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"

	"github.com/odmbench/harvester/internal/product"
)

// PubSubPublisher announces every accepted record on a Pub/Sub topic so
// downstream consumers (pricing, matching) can react without polling the
// database.
type PubSubPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewPubSubPublisher connects to the topic. The topic must already exist.
func NewPubSubPublisher(ctx context.Context, projectID, topicName string) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}
	topic := client.Topic(topicName)
	ok, err := topic.Exists(ctx)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("check topic %q: %w", topicName, err)
	}
	if !ok {
		_ = client.Close()
		return nil, fmt.Errorf("topic %q does not exist", topicName)
	}
	return &PubSubPublisher{client: client, topic: topic}, nil
}

// Publish sends the record as a JSON message and returns the message ID.
func (p *PubSubPublisher) Publish(ctx context.Context, rec product.Record) (string, error) {
	if p == nil || p.topic == nil {
		return "", fmt.Errorf("pubsub publisher is not configured")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	result := p.topic.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"run_id":      rec.RunID,
			"listing_key": fmt.Sprint(rec.ListingKey),
		},
	})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish record: %w", err)
	}
	return id, nil
}

// Write publishes the record, discarding the message ID. It lets the
// publisher sit in a Tee next to the file and database sinks.
func (p *PubSubPublisher) Write(ctx context.Context, rec product.Record) error {
	_, err := p.Publish(ctx, rec)
	return err
}

// Close flushes pending messages and releases the client.
func (p *PubSubPublisher) Close(context.Context) error {
	if p == nil {
		return nil
	}
	p.topic.Stop()
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("close pubsub client: %w", err)
	}
	return nil
}
