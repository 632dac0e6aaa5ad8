package repository

import (
	"context"
	"errors"

	"github.com/pushworks/wapush/internal/domain"
	"gorm.io/gorm"
)

type TemplateRepository interface {
	Create(ctx context.Context, t *domain.Template) error
	GetByID(ctx context.Context, userID, templateID string) (*domain.Template, error)
	GetByIdempotencyKey(ctx context.Context, userID, idempotencyKey string) (*domain.Template, error)
	Update(ctx context.Context, userID, templateID, name, message string) (*domain.Template, error)
	Delete(ctx context.Context, userID, templateID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Template, error)
}

type GormTemplateRepo struct {
	db *gorm.DB
}

func NewGormTemplateRepo(db *gorm.DB) *GormTemplateRepo {
	return &GormTemplateRepo{db: db}
}

func (r *GormTemplateRepo) Create(ctx context.Context, t *domain.Template) error {
	model := templateModelFromDomain(t)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if t != nil {
		*t = *templateModelToDomain(model)
	}
	return nil
}

func (r *GormTemplateRepo) GetByID(ctx context.Context, userID, templateID string) (*domain.Template, error) {
	var model TemplateModel
	err := r.db.WithContext(ctx).
		First(&model, "user_id = ? AND template_id = ?", userID, templateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return templateModelToDomain(&model), nil
}

func (r *GormTemplateRepo) GetByIdempotencyKey(ctx context.Context, userID, idempotencyKey string) (*domain.Template, error) {
	var model TemplateModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, idempotencyKey).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return templateModelToDomain(&model), nil
}

func (r *GormTemplateRepo) Update(ctx context.Context, userID, templateID, name, message string) (*domain.Template, error) {
	result := r.db.WithContext(ctx).
		Model(&TemplateModel{}).
		Where("user_id = ? AND template_id = ?", userID, templateID).
		Updates(map[string]any{
			"name":    name,
			"message": message,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}

	return r.GetByID(ctx, userID, templateID)
}

func (r *GormTemplateRepo) Delete(ctx context.Context, userID, templateID string) error {
	result := r.db.WithContext(ctx).
		Delete(&TemplateModel{}, "user_id = ? AND template_id = ?", userID, templateID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormTemplateRepo) ListByUser(ctx context.Context, userID string) ([]domain.Template, error) {
	var models []TemplateModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	templates := make([]domain.Template, 0, len(models))
	for i := range models {
		templates = append(templates, *templateModelToDomain(&models[i]))
	}

	return templates, nil
}
