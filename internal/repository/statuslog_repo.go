package repository

import (
	"context"
	"errors"

	"github.com/pushworks/wapush/internal/domain"
	"gorm.io/gorm"
)

type StatusLogRepository interface {
	Create(ctx context.Context, s *domain.StatusLog) error
	GetByMessageSID(ctx context.Context, messageSID string) (*domain.StatusLog, error)
	UpdateDeliveryStatus(ctx context.Context, notificationID, logID, status string) error
	ListByNotification(ctx context.Context, userID, notificationID string) ([]domain.StatusLog, error)
}

type GormStatusLogRepo struct {
	db *gorm.DB
}

func NewGormStatusLogRepo(db *gorm.DB) *GormStatusLogRepo {
	return &GormStatusLogRepo{db: db}
}

func (r *GormStatusLogRepo) Create(ctx context.Context, s *domain.StatusLog) error {
	model := statusLogModelFromDomain(s)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if s != nil {
		*s = *statusLogModelToDomain(model)
	}
	return nil
}

func (r *GormStatusLogRepo) GetByMessageSID(ctx context.Context, messageSID string) (*domain.StatusLog, error) {
	var model StatusLogModel
	err := r.db.WithContext(ctx).
		Where("message_sid = ?", messageSID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return statusLogModelToDomain(&model), nil
}

func (r *GormStatusLogRepo) UpdateDeliveryStatus(ctx context.Context, notificationID, logID, status string) error {
	result := r.db.WithContext(ctx).
		Model(&StatusLogModel{}).
		Where("notification_id = ? AND log_id = ?", notificationID, logID).
		Update("delivery_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormStatusLogRepo) ListByNotification(ctx context.Context, userID, notificationID string) ([]domain.StatusLog, error) {
	var models []StatusLogModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND notification_id = ?", userID, notificationID).
		Order("sent_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	logs := make([]domain.StatusLog, 0, len(models))
	for i := range models {
		logs = append(logs, *statusLogModelToDomain(&models[i]))
	}

	return logs, nil
}
