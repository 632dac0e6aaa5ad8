package domain

import (
	"fmt"
	"strings"
	"time"
)

// StatusLog records one WhatsApp send attempt. A row is appended by the
// worker after a successful gateway call and its delivery_status is later
// reconciled by the provider's status callback, matched on message_sid.
// Rows are never deleted.
type StatusLog struct {
	NotificationID  string
	LogID           string
	UserID          string
	SentFrom        string
	SentTo          string
	Message         string
	SentAt          time.Time
	DeliveryStatus  string
	MessageSID      string
	ProviderPayload string
}

func (s *StatusLog) Validate() error {
	if strings.TrimSpace(s.NotificationID) == "" {
		return fmt.Errorf("%w: notification_id is required", ErrValidation)
	}
	if strings.TrimSpace(s.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrValidation)
	}
	if strings.TrimSpace(s.SentTo) == "" {
		return fmt.Errorf("%w: sent_to is required", ErrValidation)
	}
	return nil
}
