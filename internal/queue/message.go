package queue

import (
	"fmt"
	"strings"
)

// DispatchMessage is the broker payload for one send-to-one-recipient unit of
// work. The orchestrator produces one per resolved recipient; the worker
// consumes them with at-least-once semantics.
type DispatchMessage struct {
	NotificationID string `json:"notification_id"`
	UserID         string `json:"user_id"`
	SentFrom       string `json:"sent_from"`
	SentTo         string `json:"sent_to"`
	Message        string `json:"message"`
}

func (m DispatchMessage) Validate() error {
	if strings.TrimSpace(m.NotificationID) == "" {
		return fmt.Errorf("notification_id is required")
	}
	if strings.TrimSpace(m.UserID) == "" {
		return fmt.Errorf("user_id is required")
	}
	if strings.TrimSpace(m.SentFrom) == "" {
		return fmt.Errorf("sent_from is required")
	}
	if strings.TrimSpace(m.SentTo) == "" {
		return fmt.Errorf("sent_to is required")
	}
	if strings.TrimSpace(m.Message) == "" {
		return fmt.Errorf("message is required")
	}
	return nil
}
