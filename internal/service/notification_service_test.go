package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/pushworks/wapush/internal/domain"
	"github.com/pushworks/wapush/internal/queue"
)

func strPtr(s string) *string { return &s }

func newTestNotificationService(
	t *testing.T,
	tasks *fakeTaskRepo,
	templates *fakeTemplateRepo,
	resolver *fakeResolver,
	publisher *fakePublisher,
) *NotificationService {
	t.Helper()

	svc, err := NewNotificationService(tasks, templates, resolver, publisher, "+15550001111", nil)
	if err != nil {
		t.Fatalf("NewNotificationService() error = %v", err)
	}
	return svc
}

func TestNotificationServiceCreateSingleRecipient(t *testing.T) {
	t.Parallel()

	created := false
	tasks := &fakeTaskRepo{
		createFn: func(ctx context.Context, n *domain.NotificationTask) error {
			if n.NotificationID == "" {
				t.Fatal("notification id should be generated")
			}
			created = true
			return nil
		},
	}

	var mu sync.Mutex
	var published []queue.DispatchMessage
	publisher := &fakePublisher{
		publishFn: func(ctx context.Context, queueName string, msg queue.DispatchMessage) error {
			if queueName != queue.DispatchQueue {
				t.Errorf("queue name = %s, want %s", queueName, queue.DispatchQueue)
			}
			mu.Lock()
			published = append(published, msg)
			mu.Unlock()
			return nil
		},
	}

	svc := newTestNotificationService(t, tasks, &fakeTemplateRepo{}, &fakeResolver{}, publisher)

	task, err := svc.Create(context.Background(), &domain.NotificationTask{
		UserID:         "user-1",
		Message:        strPtr("hello there"),
		Recipient:      strPtr("+15552223333"),
		IdempotencyKey: "key-1",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if !created {
		t.Fatal("expected task to be persisted")
	}
	if len(published) != 1 {
		t.Fatalf("published = %d dispatches, want 1", len(published))
	}

	msg := published[0]
	if msg.NotificationID != task.NotificationID {
		t.Errorf("dispatch notification id = %s, want %s", msg.NotificationID, task.NotificationID)
	}
	if msg.SentFrom != "+15550001111" {
		t.Errorf("dispatch sent_from = %s, want +15550001111", msg.SentFrom)
	}
	if msg.SentTo != "+15552223333" {
		t.Errorf("dispatch sent_to = %s, want +15552223333", msg.SentTo)
	}
	if msg.Message != "hello there" {
		t.Errorf("dispatch message = %q, want %q", msg.Message, "hello there")
	}
}

func TestNotificationServiceCreateRejectsInvalidWithoutSideEffects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		task *domain.NotificationTask
	}{
		{
			name: "both message and template",
			task: &domain.NotificationTask{
				UserID:            "user-1",
				Message:           strPtr("hi"),
				MessageTemplateID: strPtr("tmpl-1"),
				Recipient:         strPtr("+15552223333"),
				IdempotencyKey:    "key-1",
			},
		},
		{
			name: "neither message nor template",
			task: &domain.NotificationTask{
				UserID:         "user-1",
				Recipient:      strPtr("+15552223333"),
				IdempotencyKey: "key-1",
			},
		},
		{
			name: "both recipient and list file",
			task: &domain.NotificationTask{
				UserID:            "user-1",
				Message:           strPtr("hi"),
				Recipient:         strPtr("+15552223333"),
				RecipientListFile: strPtr("user-1/2026-08-28/list.csv"),
				IdempotencyKey:    "key-1",
			},
		},
		{
			name: "neither recipient nor list file",
			task: &domain.NotificationTask{
				UserID:         "user-1",
				Message:        strPtr("hi"),
				IdempotencyKey: "key-1",
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tasks := &fakeTaskRepo{
				createFn: func(ctx context.Context, n *domain.NotificationTask) error {
					t.Fatal("invalid task should not be persisted")
					return nil
				},
			}
			publisher := &fakePublisher{
				publishFn: func(ctx context.Context, queueName string, msg queue.DispatchMessage) error {
					t.Fatal("invalid task should not publish")
					return nil
				},
			}

			svc := newTestNotificationService(t, tasks, &fakeTemplateRepo{}, &fakeResolver{}, publisher)

			_, err := svc.Create(context.Background(), tc.task)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("Create() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestNotificationServiceCreateIdempotentReturnsExisting(t *testing.T) {
	t.Parallel()

	existing := &domain.NotificationTask{
		UserID:         "user-1",
		NotificationID: "existing-id",
		Message:        strPtr("hello"),
		Recipient:      strPtr("+15552223333"),
		IdempotencyKey: "key-1",
	}

	tasks := &fakeTaskRepo{
		getByIdempotencyKeyFn: func(ctx context.Context, userID, idempotencyKey string) (*domain.NotificationTask, error) {
			if userID != "user-1" || idempotencyKey != "key-1" {
				t.Fatalf("dedup lookup = (%s, %s), want (user-1, key-1)", userID, idempotencyKey)
			}
			return existing, nil
		},
		createFn: func(ctx context.Context, n *domain.NotificationTask) error {
			t.Fatal("duplicate create should not persist a second task")
			return nil
		},
	}
	publisher := &fakePublisher{
		publishFn: func(ctx context.Context, queueName string, msg queue.DispatchMessage) error {
			t.Fatal("duplicate create should not publish")
			return nil
		},
	}

	svc := newTestNotificationService(t, tasks, &fakeTemplateRepo{}, &fakeResolver{}, publisher)

	task, err := svc.Create(context.Background(), &domain.NotificationTask{
		UserID:         "user-1",
		Message:        strPtr("hello"),
		Recipient:      strPtr("+15552223333"),
		IdempotencyKey: "key-1",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if task.NotificationID != "existing-id" {
		t.Fatalf("task id = %s, want existing-id", task.NotificationID)
	}
}

func TestNotificationServiceCreateUniqueViolationResolvesToExisting(t *testing.T) {
	t.Parallel()

	lookups := 0
	existing := &domain.NotificationTask{
		UserID:         "user-1",
		NotificationID: "existing-id",
		Message:        strPtr("hello"),
		Recipient:      strPtr("+15552223333"),
		IdempotencyKey: "key-1",
	}

	tasks := &fakeTaskRepo{
		getByIdempotencyKeyFn: func(ctx context.Context, userID, idempotencyKey string) (*domain.NotificationTask, error) {
			lookups++
			if lookups == 1 {
				return nil, domain.ErrNotFound
			}
			return existing, nil
		},
		createFn: func(ctx context.Context, n *domain.NotificationTask) error {
			return errors.New(`duplicate key value violates unique constraint "idx_notification_tasks_idempotency_key"`)
		},
	}
	publisher := &fakePublisher{
		publishFn: func(ctx context.Context, queueName string, msg queue.DispatchMessage) error {
			t.Fatal("conflicting create should not publish")
			return nil
		},
	}

	svc := newTestNotificationService(t, tasks, &fakeTemplateRepo{}, &fakeResolver{}, publisher)

	task, err := svc.Create(context.Background(), &domain.NotificationTask{
		UserID:         "user-1",
		Message:        strPtr("hello"),
		Recipient:      strPtr("+15552223333"),
		IdempotencyKey: "key-1",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if task.NotificationID != "existing-id" {
		t.Fatalf("task id = %s, want existing-id", task.NotificationID)
	}
}

func TestNotificationServiceCreateFanOutFromListFile(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{
		resolveFn: func(ctx context.Context, filePath string) ([]string, error) {
			if filePath != "user-1/2026-08-28/list.csv" {
				t.Fatalf("resolve path = %s, want user-1/2026-08-28/list.csv", filePath)
			}
			return []string{"+15551110000", "+15552220000"}, nil
		},
	}

	var mu sync.Mutex
	var published []queue.DispatchMessage
	publisher := &fakePublisher{
		publishFn: func(ctx context.Context, queueName string, msg queue.DispatchMessage) error {
			mu.Lock()
			published = append(published, msg)
			mu.Unlock()
			return nil
		},
	}

	svc := newTestNotificationService(t, &fakeTaskRepo{}, &fakeTemplateRepo{}, resolver, publisher)

	task, err := svc.Create(context.Background(), &domain.NotificationTask{
		UserID:            "user-1",
		Message:           strPtr("bulk hello"),
		RecipientListFile: strPtr("user-1/2026-08-28/list.csv"),
		IdempotencyKey:    "key-1",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(published) != 2 {
		t.Fatalf("published = %d dispatches, want 2", len(published))
	}

	recipients := make([]string, 0, len(published))
	for _, msg := range published {
		recipients = append(recipients, msg.SentTo)
		if msg.NotificationID != task.NotificationID {
			t.Errorf("dispatch notification id = %s, want %s", msg.NotificationID, task.NotificationID)
		}
		if msg.Message != "bulk hello" {
			t.Errorf("dispatch message = %q, want %q", msg.Message, "bulk hello")
		}
		if msg.SentFrom != "+15550001111" {
			t.Errorf("dispatch sent_from = %s, want +15550001111", msg.SentFrom)
		}
	}

	sort.Strings(recipients)
	if recipients[0] != "+15551110000" || recipients[1] != "+15552220000" {
		t.Fatalf("recipients = %v, want [+15551110000 +15552220000]", recipients)
	}
}

func TestNotificationServiceCreateResolvesTemplateMessage(t *testing.T) {
	t.Parallel()

	templates := &fakeTemplateRepo{
		getByIDFn: func(ctx context.Context, userID, templateID string) (*domain.Template, error) {
			if userID != "user-1" || templateID != "tmpl-1" {
				t.Fatalf("template lookup = (%s, %s), want (user-1, tmpl-1)", userID, templateID)
			}
			return &domain.Template{
				UserID:     "user-1",
				TemplateID: "tmpl-1",
				Name:       "welcome",
				Message:    "welcome aboard",
			}, nil
		},
	}

	var mu sync.Mutex
	var published []queue.DispatchMessage
	publisher := &fakePublisher{
		publishFn: func(ctx context.Context, queueName string, msg queue.DispatchMessage) error {
			mu.Lock()
			published = append(published, msg)
			mu.Unlock()
			return nil
		},
	}

	svc := newTestNotificationService(t, &fakeTaskRepo{}, templates, &fakeResolver{}, publisher)

	_, err := svc.Create(context.Background(), &domain.NotificationTask{
		UserID:            "user-1",
		MessageTemplateID: strPtr("tmpl-1"),
		Recipient:         strPtr("+15552223333"),
		IdempotencyKey:    "key-1",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(published) != 1 {
		t.Fatalf("published = %d dispatches, want 1", len(published))
	}
	if published[0].Message != "welcome aboard" {
		t.Fatalf("dispatch message = %q, want template body", published[0].Message)
	}
}

func TestNotificationServiceCreateMissingTemplate(t *testing.T) {
	t.Parallel()

	publisher := &fakePublisher{
		publishFn: func(ctx context.Context, queueName string, msg queue.DispatchMessage) error {
			t.Fatal("missing template should not publish")
			return nil
		},
	}

	svc := newTestNotificationService(t, &fakeTaskRepo{}, &fakeTemplateRepo{}, &fakeResolver{}, publisher)

	_, err := svc.Create(context.Background(), &domain.NotificationTask{
		UserID:            "user-1",
		MessageTemplateID: strPtr("missing"),
		Recipient:         strPtr("+15552223333"),
		IdempotencyKey:    "key-1",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Create() error = %v, want ErrNotFound", err)
	}
}

func TestNotificationServiceCreatePublishFailureAborts(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{
		resolveFn: func(ctx context.Context, filePath string) ([]string, error) {
			return []string{"+15551110000", "+15552220000", "+15553330000"}, nil
		},
	}
	publisher := &fakePublisher{
		publishFn: func(ctx context.Context, queueName string, msg queue.DispatchMessage) error {
			if msg.SentTo == "+15552220000" {
				return errors.New("broker unavailable")
			}
			return nil
		},
	}

	svc := newTestNotificationService(t, &fakeTaskRepo{}, &fakeTemplateRepo{}, resolver, publisher)

	_, err := svc.Create(context.Background(), &domain.NotificationTask{
		UserID:            "user-1",
		Message:           strPtr("bulk hello"),
		RecipientListFile: strPtr("user-1/2026-08-28/list.csv"),
		IdempotencyKey:    "key-1",
	})
	if err == nil {
		t.Fatal("Create() expected error, got nil")
	}
}

func TestNotificationServiceGetAndList(t *testing.T) {
	t.Parallel()

	tasks := &fakeTaskRepo{
		getByIDFn: func(ctx context.Context, userID, notificationID string) (*domain.NotificationTask, error) {
			return &domain.NotificationTask{UserID: userID, NotificationID: notificationID}, nil
		},
		listByUserFn: func(ctx context.Context, userID string) ([]domain.NotificationTask, error) {
			return []domain.NotificationTask{{UserID: userID, NotificationID: "n1"}}, nil
		},
	}

	svc := newTestNotificationService(t, tasks, &fakeTemplateRepo{}, &fakeResolver{}, &fakePublisher{})

	task, err := svc.Get(context.Background(), "user-1", "n1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if task.NotificationID != "n1" {
		t.Fatalf("task id = %s, want n1", task.NotificationID)
	}

	if _, err := svc.Get(context.Background(), "", "n1"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Get() without user id error = %v, want ErrValidation", err)
	}

	list, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("List() = %d tasks, want 1", len(list))
	}
}
