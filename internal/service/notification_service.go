package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pushworks/wapush/internal/domain"
	"github.com/pushworks/wapush/internal/observability"
	"github.com/pushworks/wapush/internal/queue"
	"github.com/pushworks/wapush/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RecipientResolver expands a recipient list file into phone numbers.
type RecipientResolver interface {
	Resolve(ctx context.Context, filePath string) ([]string, error)
}

type NotificationService struct {
	tasks      repository.NotificationTaskRepository
	templates  repository.TemplateRepository
	resolver   RecipientResolver
	publisher  queue.Publisher
	fromNumber string
	logger     *zap.Logger
	metrics    *observability.Metrics
}

func NewNotificationService(
	tasks repository.NotificationTaskRepository,
	templates repository.TemplateRepository,
	resolver RecipientResolver,
	publisher queue.Publisher,
	fromNumber string,
	logger *zap.Logger,
) (*NotificationService, error) {
	if tasks == nil {
		return nil, fmt.Errorf("task repository is required")
	}
	if templates == nil {
		return nil, fmt.Errorf("template repository is required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("recipient resolver is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("publisher is required")
	}
	fromNumber = strings.TrimSpace(fromNumber)
	if fromNumber == "" {
		return nil, fmt.Errorf("sender number is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &NotificationService{
		tasks:      tasks,
		templates:  templates,
		resolver:   resolver,
		publisher:  publisher,
		fromNumber: fromNumber,
		logger:     logger,
	}, nil
}

func (s *NotificationService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// Create validates and stores a notification task, then enqueues one dispatch
// per resolved recipient. Repeated calls with the same idempotency key return
// the original task without enqueuing again.
func (s *NotificationService) Create(ctx context.Context, task *domain.NotificationTask) (*domain.NotificationTask, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if task == nil {
		return nil, fmt.Errorf("%w: notification task is required", domain.ErrValidation)
	}

	task.UserID = strings.TrimSpace(task.UserID)
	task.IdempotencyKey = strings.TrimSpace(task.IdempotencyKey)
	task.NotificationID = strings.TrimSpace(task.NotificationID)
	if task.NotificationID == "" {
		task.NotificationID = uuid.NewString()
	}
	task.CreatedAt = time.Now().UTC()

	if err := task.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.tasks.GetByIdempotencyKey(ctx, task.UserID, task.IdempotencyKey)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check task idempotency key: %w", err)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		if isUniqueViolationError(err) {
			existing, getErr := s.tasks.GetByIdempotencyKey(ctx, task.UserID, task.IdempotencyKey)
			if getErr != nil {
				return nil, fmt.Errorf("failed to load existing task after idempotency conflict: %w", getErr)
			}
			s.logger.Info("task idempotency conflict resolved",
				zap.String("userId", existing.UserID),
				zap.String("notificationId", existing.NotificationID),
			)
			return existing, nil
		}
		return nil, err
	}

	message, err := s.resolveMessageText(ctx, task)
	if err != nil {
		return nil, err
	}

	recipients, source, err := s.resolveRecipients(ctx, task)
	if err != nil {
		return nil, err
	}

	if err := s.enqueueDispatches(ctx, task, message, recipients); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncDispatchEnqueued(source, len(recipients))
	}
	s.logger.Info("notification task enqueued",
		zap.String("userId", task.UserID),
		zap.String("notificationId", task.NotificationID),
		zap.Int("recipients", len(recipients)),
	)

	return task, nil
}

func (s *NotificationService) Get(ctx context.Context, userID, notificationID string) (*domain.NotificationTask, error) {
	userID = strings.TrimSpace(userID)
	notificationID = strings.TrimSpace(notificationID)
	if userID == "" || notificationID == "" {
		return nil, fmt.Errorf("%w: user id and notification id are required", domain.ErrValidation)
	}
	return s.tasks.GetByID(ctx, userID, notificationID)
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]domain.NotificationTask, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	return s.tasks.ListByUser(ctx, userID)
}

func (s *NotificationService) resolveMessageText(ctx context.Context, task *domain.NotificationTask) (string, error) {
	if task.Message != nil {
		return *task.Message, nil
	}

	template, err := s.templates.GetByID(ctx, task.UserID, *task.MessageTemplateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("%w: message template %s", domain.ErrNotFound, *task.MessageTemplateID)
		}
		return "", fmt.Errorf("failed to load message template: %w", err)
	}
	return template.Message, nil
}

func (s *NotificationService) resolveRecipients(ctx context.Context, task *domain.NotificationTask) ([]string, string, error) {
	if task.Recipient != nil {
		return []string{*task.Recipient}, "single", nil
	}

	recipients, err := s.resolver.Resolve(ctx, *task.RecipientListFile)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve recipient list file: %w", err)
	}
	return recipients, "list", nil
}

// enqueueDispatches publishes every dispatch concurrently and waits for all
// of them before returning. Any publish failure aborts the whole call.
func (s *NotificationService) enqueueDispatches(
	ctx context.Context,
	task *domain.NotificationTask,
	message string,
	recipients []string,
) error {
	g, groupCtx := errgroup.WithContext(ctx)
	for _, recipient := range recipients {
		msg := queue.DispatchMessage{
			NotificationID: task.NotificationID,
			UserID:         task.UserID,
			SentFrom:       s.fromNumber,
			SentTo:         recipient,
			Message:        message,
		}

		g.Go(func() error {
			if err := s.publisher.Publish(groupCtx, queue.DispatchQueue, msg); err != nil {
				return fmt.Errorf("failed to publish dispatch for %s: %w", msg.SentTo, err)
			}
			return nil
		})
	}

	return g.Wait()
}
