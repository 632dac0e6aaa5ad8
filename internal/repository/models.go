package repository

import (
	"time"

	"github.com/pushworks/wapush/internal/domain"
)

// TemplateModel is the persistence model for the templates table.
type TemplateModel struct {
	UserID         string `gorm:"type:varchar(64);primaryKey"`
	TemplateID     string `gorm:"type:uuid;primaryKey"`
	Name           string `gorm:"type:varchar(255);not null"`
	Message        string `gorm:"type:text;not null"`
	IdempotencyKey string `gorm:"type:varchar(255);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (TemplateModel) TableName() string {
	return "templates"
}

// NotificationTaskModel is the persistence model for notification_tasks.
type NotificationTaskModel struct {
	UserID            string  `gorm:"type:varchar(64);primaryKey"`
	NotificationID    string  `gorm:"type:uuid;primaryKey"`
	Message           *string `gorm:"type:text"`
	MessageTemplateID *string `gorm:"type:uuid"`
	Recipient         *string `gorm:"type:varchar(32)"`
	RecipientListFile *string `gorm:"type:varchar(512)"`
	IdempotencyKey    string  `gorm:"type:varchar(255);not null"`
	CreatedAt         time.Time
}

func (NotificationTaskModel) TableName() string {
	return "notification_tasks"
}

// StatusLogModel is the persistence model for status_logs.
type StatusLogModel struct {
	NotificationID  string `gorm:"type:uuid;primaryKey"`
	LogID           string `gorm:"type:uuid;primaryKey"`
	UserID          string `gorm:"type:varchar(64);not null"`
	SentFrom        string `gorm:"type:varchar(32);not null"`
	SentTo          string `gorm:"type:varchar(32);not null"`
	Message         string `gorm:"type:text;not null"`
	SentAt          time.Time
	DeliveryStatus  string `gorm:"type:varchar(32)"`
	MessageSID      string `gorm:"type:varchar(64);column:message_sid"`
	ProviderPayload string `gorm:"type:text"`
}

func (StatusLogModel) TableName() string {
	return "status_logs"
}

func templateModelFromDomain(t *domain.Template) *TemplateModel {
	if t == nil {
		return nil
	}

	return &TemplateModel{
		UserID:         t.UserID,
		TemplateID:     t.TemplateID,
		Name:           t.Name,
		Message:        t.Message,
		IdempotencyKey: t.IdempotencyKey,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func templateModelToDomain(m *TemplateModel) *domain.Template {
	if m == nil {
		return nil
	}

	return &domain.Template{
		UserID:         m.UserID,
		TemplateID:     m.TemplateID,
		Name:           m.Name,
		Message:        m.Message,
		IdempotencyKey: m.IdempotencyKey,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func taskModelFromDomain(n *domain.NotificationTask) *NotificationTaskModel {
	if n == nil {
		return nil
	}

	return &NotificationTaskModel{
		UserID:            n.UserID,
		NotificationID:    n.NotificationID,
		Message:           n.Message,
		MessageTemplateID: n.MessageTemplateID,
		Recipient:         n.Recipient,
		RecipientListFile: n.RecipientListFile,
		IdempotencyKey:    n.IdempotencyKey,
		CreatedAt:         n.CreatedAt,
	}
}

func taskModelToDomain(m *NotificationTaskModel) *domain.NotificationTask {
	if m == nil {
		return nil
	}

	return &domain.NotificationTask{
		UserID:            m.UserID,
		NotificationID:    m.NotificationID,
		Message:           m.Message,
		MessageTemplateID: m.MessageTemplateID,
		Recipient:         m.Recipient,
		RecipientListFile: m.RecipientListFile,
		IdempotencyKey:    m.IdempotencyKey,
		CreatedAt:         m.CreatedAt,
	}
}

func statusLogModelFromDomain(s *domain.StatusLog) *StatusLogModel {
	if s == nil {
		return nil
	}

	return &StatusLogModel{
		NotificationID:  s.NotificationID,
		LogID:           s.LogID,
		UserID:          s.UserID,
		SentFrom:        s.SentFrom,
		SentTo:          s.SentTo,
		Message:         s.Message,
		SentAt:          s.SentAt,
		DeliveryStatus:  s.DeliveryStatus,
		MessageSID:      s.MessageSID,
		ProviderPayload: s.ProviderPayload,
	}
}

func statusLogModelToDomain(m *StatusLogModel) *domain.StatusLog {
	if m == nil {
		return nil
	}

	return &domain.StatusLog{
		NotificationID:  m.NotificationID,
		LogID:           m.LogID,
		UserID:          m.UserID,
		SentFrom:        m.SentFrom,
		SentTo:          m.SentTo,
		Message:         m.Message,
		SentAt:          m.SentAt,
		DeliveryStatus:  m.DeliveryStatus,
		MessageSID:      m.MessageSID,
		ProviderPayload: m.ProviderPayload,
	}
}
