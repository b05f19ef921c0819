package fillpublisherv1

import "context"

// FillPublisher defines the interface for publishing fill events.
type FillPublisher interface {
	// PublishFillEvent publishes a fill event to the fill topic.
	PublishFillEvent(ctx context.Context, event *FillEvent) error
	// Close closes the publisher.
	Close() error
}
