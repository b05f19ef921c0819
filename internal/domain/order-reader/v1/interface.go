package orderreaderv1

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// OrderReader defines the interface for reading order requests from a
// stream.
type OrderReader interface {
	// ReadMessage reads the next message and returns it with the parsed
	// order request.
	ReadMessage(ctx context.Context) (kafka.Message, *OrderRequest, error)
	// CommitMessages commits the messages after processing.
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	// Close closes the reader.
	Close() error
}
