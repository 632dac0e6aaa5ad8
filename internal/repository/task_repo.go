package repository

import (
	"context"
	"errors"

	"github.com/pushworks/wapush/internal/domain"
	"gorm.io/gorm"
)

type NotificationTaskRepository interface {
	Create(ctx context.Context, n *domain.NotificationTask) error
	GetByID(ctx context.Context, userID, notificationID string) (*domain.NotificationTask, error)
	GetByIdempotencyKey(ctx context.Context, userID, idempotencyKey string) (*domain.NotificationTask, error)
	ListByUser(ctx context.Context, userID string) ([]domain.NotificationTask, error)
}

type GormTaskRepo struct {
	db *gorm.DB
}

func NewGormTaskRepo(db *gorm.DB) *GormTaskRepo {
	return &GormTaskRepo{db: db}
}

func (r *GormTaskRepo) Create(ctx context.Context, n *domain.NotificationTask) error {
	model := taskModelFromDomain(n)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if n != nil {
		*n = *taskModelToDomain(model)
	}
	return nil
}

func (r *GormTaskRepo) GetByID(ctx context.Context, userID, notificationID string) (*domain.NotificationTask, error) {
	var model NotificationTaskModel
	err := r.db.WithContext(ctx).
		First(&model, "user_id = ? AND notification_id = ?", userID, notificationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return taskModelToDomain(&model), nil
}

func (r *GormTaskRepo) GetByIdempotencyKey(ctx context.Context, userID, idempotencyKey string) (*domain.NotificationTask, error) {
	var model NotificationTaskModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, idempotencyKey).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return taskModelToDomain(&model), nil
}

func (r *GormTaskRepo) ListByUser(ctx context.Context, userID string) ([]domain.NotificationTask, error) {
	var models []NotificationTaskModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	tasks := make([]domain.NotificationTask, 0, len(models))
	for i := range models {
		tasks = append(tasks, *taskModelToDomain(&models[i]))
	}

	return tasks, nil
}
