package domain

import (
	"fmt"
	"strings"
	"time"
)

// NotificationTask is a request to push one message to one or many WhatsApp
// recipients. Exactly one message source (literal message or template
// reference) and exactly one recipient source (single number or recipient
// list file) must be set. Tasks are immutable once created.
type NotificationTask struct {
	UserID            string
	NotificationID    string
	Message           *string
	MessageTemplateID *string
	Recipient         *string
	RecipientListFile *string
	IdempotencyKey    string
	CreatedAt         time.Time
}

func (n *NotificationTask) Validate() error {
	if strings.TrimSpace(n.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrValidation)
	}
	if strings.TrimSpace(n.IdempotencyKey) == "" {
		return fmt.Errorf("%w: idempotency_key is required", ErrValidation)
	}

	hasMessage := hasValue(n.Message)
	hasTemplate := hasValue(n.MessageTemplateID)
	if hasMessage == hasTemplate {
		return fmt.Errorf("%w: exactly one of message or message_template_id is required", ErrValidation)
	}

	hasRecipient := hasValue(n.Recipient)
	hasFile := hasValue(n.RecipientListFile)
	if hasRecipient == hasFile {
		return fmt.Errorf("%w: exactly one of recipient or recipient_list_file is required", ErrValidation)
	}

	return nil
}

func hasValue(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}
