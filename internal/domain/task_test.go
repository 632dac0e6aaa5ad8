package domain

import (
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestNotificationTaskValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		task    NotificationTask
		wantErr bool
	}{
		{
			name: "literal message and single recipient",
			task: NotificationTask{
				UserID:         "u1",
				IdempotencyKey: "idem-1",
				Message:        strPtr("Hi"),
				Recipient:      strPtr("+15551110000"),
			},
		},
		{
			name: "template and recipient file",
			task: NotificationTask{
				UserID:            "u1",
				IdempotencyKey:    "idem-2",
				MessageTemplateID: strPtr("t1"),
				RecipientListFile: strPtr("u1/2026-08-28/list.csv"),
			},
		},
		{
			name: "both message and template rejected",
			task: NotificationTask{
				UserID:            "u1",
				IdempotencyKey:    "idem-3",
				Message:           strPtr("Hi"),
				MessageTemplateID: strPtr("t1"),
				Recipient:         strPtr("+15551110000"),
			},
			wantErr: true,
		},
		{
			name: "neither message nor template rejected",
			task: NotificationTask{
				UserID:         "u1",
				IdempotencyKey: "idem-4",
				Recipient:      strPtr("+15551110000"),
			},
			wantErr: true,
		},
		{
			name: "both recipient and file rejected",
			task: NotificationTask{
				UserID:            "u1",
				IdempotencyKey:    "idem-5",
				Message:           strPtr("Hi"),
				Recipient:         strPtr("+15551110000"),
				RecipientListFile: strPtr("u1/list.csv"),
			},
			wantErr: true,
		},
		{
			name: "neither recipient nor file rejected",
			task: NotificationTask{
				UserID:         "u1",
				IdempotencyKey: "idem-6",
				Message:        strPtr("Hi"),
			},
			wantErr: true,
		},
		{
			name: "blank message counts as unset",
			task: NotificationTask{
				UserID:         "u1",
				IdempotencyKey: "idem-7",
				Message:        strPtr("   "),
				Recipient:      strPtr("+15551110000"),
			},
			wantErr: true,
		},
		{
			name: "missing user id",
			task: NotificationTask{
				IdempotencyKey: "idem-8",
				Message:        strPtr("Hi"),
				Recipient:      strPtr("+15551110000"),
			},
			wantErr: true,
		},
		{
			name: "missing idempotency key",
			task: NotificationTask{
				UserID:    "u1",
				Message:   strPtr("Hi"),
				Recipient: strPtr("+15551110000"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.task.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() expected error, got nil")
				}
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("Validate() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestTemplateValidate(t *testing.T) {
	t.Parallel()

	tmpl := Template{
		UserID:         "u1",
		Name:           "welcome",
		Message:        "Welcome aboard!",
		IdempotencyKey: "idem-1",
	}
	if err := tmpl.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	missingName := tmpl
	missingName.Name = ""
	if err := missingName.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("Validate() error = %v, want ErrValidation", err)
	}

	missingMessage := tmpl
	missingMessage.Message = "  "
	if err := missingMessage.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("Validate() error = %v, want ErrValidation", err)
	}
}
