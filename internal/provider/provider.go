package provider

import (
	"context"

	"github.com/pushworks/wapush/internal/queue"
)

// Provider is the outbound WhatsApp delivery port.
type Provider interface {
	Send(ctx context.Context, dispatch queue.DispatchMessage) (*SendResult, error)
}

// SendResult carries the gateway-assigned message identity and initial
// delivery status, plus the raw response body for the status log.
type SendResult struct {
	MessageSID string
	Status     string
	StatusCode int
	Body       string
}
