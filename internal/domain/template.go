package domain

import (
	"fmt"
	"strings"
	"time"
)

// Template is a named, reusable WhatsApp message body owned by a user.
// Identity is (user_id, template_id); name and message are the only mutable
// fields after creation.
type Template struct {
	UserID         string
	TemplateID     string
	Name           string
	Message        string
	IdempotencyKey string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (t *Template) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrValidation)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: template_name is required", ErrValidation)
	}
	if strings.TrimSpace(t.Message) == "" {
		return fmt.Errorf("%w: template_message is required", ErrValidation)
	}
	if strings.TrimSpace(t.IdempotencyKey) == "" {
		return fmt.Errorf("%w: idempotency_key is required", ErrValidation)
	}
	return nil
}
