package queue

import "context"

const (
	// DispatchQueue is the work queue carrying one message per recipient.
	DispatchQueue = "whatsapp.dispatch"

	// DispatchDLQ receives deliveries rejected as undecodable or invalid.
	DispatchDLQ = "dlq.whatsapp.dispatch"
)

// Publisher publishes dispatch messages to the work queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, msg DispatchMessage) error
	Close() error
}

// MessageHandler handles a consumed queue message.
type MessageHandler func(ctx context.Context, msg DispatchMessage) error

// Consumer consumes dispatch messages from the work queue. A nil handler
// error acks the delivery; a non-nil error nacks it back for redelivery.
type Consumer interface {
	Consume(ctx context.Context, queue string, handler MessageHandler) error
	Close() error
}
