package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pushworks/wapush/internal/domain"
	"github.com/pushworks/wapush/internal/observability"
	"github.com/pushworks/wapush/internal/repository"
	"go.uber.org/zap"
)

type StatusService struct {
	statusLogs repository.StatusLogRepository
	logger     *zap.Logger
	metrics    *observability.Metrics
}

func NewStatusService(statusLogs repository.StatusLogRepository, logger *zap.Logger) (*StatusService, error) {
	if statusLogs == nil {
		return nil, fmt.Errorf("status log repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &StatusService{
		statusLogs: statusLogs,
		logger:     logger,
	}, nil
}

func (s *StatusService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// RecordCallback applies a delivery status update from the gateway. Updates
// that reference an unknown message sid are dropped without error so the
// gateway never retries them.
func (s *StatusService) RecordCallback(ctx context.Context, messageSID, status string) error {
	messageSID = strings.TrimSpace(messageSID)
	status = strings.TrimSpace(status)
	if messageSID == "" {
		return fmt.Errorf("%w: message sid is required", domain.ErrValidation)
	}

	log, err := s.statusLogs.GetByMessageSID(ctx, messageSID)
	if errors.Is(err, domain.ErrNotFound) {
		if s.metrics != nil {
			s.metrics.IncStatusCallback("unmatched")
		}
		s.logger.Warn("status callback for unknown message sid",
			zap.String("messageSid", messageSID),
			zap.String("status", status),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up status log by message sid: %w", err)
	}

	if err := s.statusLogs.UpdateDeliveryStatus(ctx, log.NotificationID, log.LogID, status); err != nil {
		return fmt.Errorf("failed to update delivery status: %w", err)
	}

	if s.metrics != nil {
		s.metrics.IncStatusCallback("updated")
	}
	s.logger.Info("delivery status updated",
		zap.String("notificationId", log.NotificationID),
		zap.String("messageSid", messageSID),
		zap.String("status", status),
	)

	return nil
}

func (s *StatusService) ListByNotification(ctx context.Context, userID, notificationID string) ([]domain.StatusLog, error) {
	userID = strings.TrimSpace(userID)
	notificationID = strings.TrimSpace(notificationID)
	if userID == "" || notificationID == "" {
		return nil, fmt.Errorf("%w: user id and notification id are required", domain.ErrValidation)
	}
	return s.statusLogs.ListByNotification(ctx, userID, notificationID)
}
