package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pushworks/wapush/internal/domain"
	"github.com/pushworks/wapush/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TemplateService struct {
	templates repository.TemplateRepository
	logger    *zap.Logger
}

func NewTemplateService(templates repository.TemplateRepository, logger *zap.Logger) (*TemplateService, error) {
	if templates == nil {
		return nil, fmt.Errorf("template repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TemplateService{
		templates: templates,
		logger:    logger,
	}, nil
}

// Create stores a message template. Repeated calls with the same idempotency
// key return the originally stored template without writing a second row.
func (s *TemplateService) Create(ctx context.Context, template *domain.Template) (*domain.Template, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if template == nil {
		return nil, fmt.Errorf("%w: template is required", domain.ErrValidation)
	}

	template.UserID = strings.TrimSpace(template.UserID)
	template.Name = strings.TrimSpace(template.Name)
	template.Message = strings.TrimSpace(template.Message)
	template.IdempotencyKey = strings.TrimSpace(template.IdempotencyKey)

	template.TemplateID = strings.TrimSpace(template.TemplateID)
	if template.TemplateID == "" {
		template.TemplateID = uuid.NewString()
	}
	template.CreatedAt = time.Now().UTC()
	template.UpdatedAt = template.CreatedAt

	if err := template.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.templates.GetByIdempotencyKey(ctx, template.UserID, template.IdempotencyKey)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check template idempotency key: %w", err)
	}

	if err := s.templates.Create(ctx, template); err != nil {
		if isUniqueViolationError(err) {
			existing, getErr := s.templates.GetByIdempotencyKey(ctx, template.UserID, template.IdempotencyKey)
			if getErr != nil {
				return nil, fmt.Errorf("failed to load existing template after idempotency conflict: %w", getErr)
			}
			s.logger.Info("template idempotency conflict resolved",
				zap.String("userId", existing.UserID),
				zap.String("templateId", existing.TemplateID),
			)
			return existing, nil
		}
		return nil, err
	}

	return template, nil
}

func (s *TemplateService) Get(ctx context.Context, userID, templateID string) (*domain.Template, error) {
	userID = strings.TrimSpace(userID)
	templateID = strings.TrimSpace(templateID)
	if userID == "" || templateID == "" {
		return nil, fmt.Errorf("%w: user id and template id are required", domain.ErrValidation)
	}
	return s.templates.GetByID(ctx, userID, templateID)
}

func (s *TemplateService) Update(ctx context.Context, userID, templateID, name, message string) (*domain.Template, error) {
	userID = strings.TrimSpace(userID)
	templateID = strings.TrimSpace(templateID)
	name = strings.TrimSpace(name)
	message = strings.TrimSpace(message)

	if userID == "" || templateID == "" {
		return nil, fmt.Errorf("%w: user id and template id are required", domain.ErrValidation)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: template name is required", domain.ErrValidation)
	}
	if message == "" {
		return nil, fmt.Errorf("%w: template message is required", domain.ErrValidation)
	}

	return s.templates.Update(ctx, userID, templateID, name, message)
}

func (s *TemplateService) Delete(ctx context.Context, userID, templateID string) error {
	userID = strings.TrimSpace(userID)
	templateID = strings.TrimSpace(templateID)
	if userID == "" || templateID == "" {
		return fmt.Errorf("%w: user id and template id are required", domain.ErrValidation)
	}
	return s.templates.Delete(ctx, userID, templateID)
}

func (s *TemplateService) List(ctx context.Context, userID string) ([]domain.Template, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	return s.templates.ListByUser(ctx, userID)
}

func isUniqueViolationError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
