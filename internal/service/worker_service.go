package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pushworks/wapush/internal/domain"
	"github.com/pushworks/wapush/internal/observability"
	"github.com/pushworks/wapush/internal/provider"
	"github.com/pushworks/wapush/internal/queue"
	"github.com/pushworks/wapush/internal/ratelimit"
	"github.com/pushworks/wapush/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const minWorkerConcurrency = 1

type WorkerService struct {
	statusLogs  repository.StatusLogRepository
	consumer    queue.Consumer
	provider    provider.Provider
	rateLimiter ratelimit.RateLimiter
	logger      *zap.Logger
	metrics     *observability.Metrics
	concurrency int
	now         func() time.Time
}

func NewWorkerService(
	statusLogs repository.StatusLogRepository,
	consumer queue.Consumer,
	provider provider.Provider,
	rateLimiter ratelimit.RateLimiter,
	concurrency int,
	logger *zap.Logger,
) (*WorkerService, error) {
	if statusLogs == nil {
		return nil, fmt.Errorf("status log repository is required")
	}
	if consumer == nil {
		return nil, fmt.Errorf("consumer is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if rateLimiter == nil {
		return nil, fmt.Errorf("rate limiter is required")
	}
	if concurrency < minWorkerConcurrency {
		concurrency = minWorkerConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WorkerService{
		statusLogs:  statusLogs,
		consumer:    consumer,
		provider:    provider,
		rateLimiter: rateLimiter,
		logger:      logger,
		concurrency: concurrency,
		now:         time.Now,
	}, nil
}

func (s *WorkerService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// Start consumes the dispatch queue until context cancellation.
func (s *WorkerService) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	g, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < s.concurrency; i++ {
		workerID := i + 1

		g.Go(func() error {
			s.logger.Info("worker started",
				zap.Int("workerId", workerID),
				zap.String("queue", queue.DispatchQueue),
			)

			err := s.consumer.Consume(groupCtx, queue.DispatchQueue, s.processMessage)
			if err != nil {
				s.logger.Error("worker stopped with error",
					zap.Int("workerId", workerID),
					zap.Error(err),
				)
				return err
			}

			s.logger.Info("worker stopped", zap.Int("workerId", workerID))
			return nil
		})
	}

	return g.Wait()
}

// processMessage sends one dispatch and appends its status log. A non-nil
// return nacks the delivery back onto the queue; the send runs again on the
// next delivery, so the gateway may observe duplicates.
func (s *WorkerService) processMessage(ctx context.Context, msg queue.DispatchMessage) error {
	if s.metrics != nil {
		s.metrics.IncWorkerInFlight()
		defer s.metrics.DecWorkerInFlight()
	}

	if err := s.rateLimiter.Wait(ctx, msg.SentFrom); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}

	sendStart := s.now()
	result, sendErr := s.provider.Send(ctx, msg)
	if s.metrics != nil {
		s.metrics.ObserveGatewaySendDuration(s.now().Sub(sendStart))
	}

	if sendErr != nil {
		reason := "permanent_error"
		if provider.IsTransient(sendErr) {
			reason = "transient_error"
		}
		if s.metrics != nil {
			s.metrics.IncMessageFailed(reason)
		}
		s.logger.Error("gateway send failed",
			zap.String("notificationId", msg.NotificationID),
			zap.String("sentTo", msg.SentTo),
			zap.String("reason", reason),
			zap.Error(sendErr),
		)
		return fmt.Errorf("gateway send failed: %w", sendErr)
	}

	log := &domain.StatusLog{
		NotificationID: msg.NotificationID,
		LogID:          uuid.NewString(),
		UserID:         msg.UserID,
		SentFrom:       msg.SentFrom,
		SentTo:         msg.SentTo,
		Message:        msg.Message,
		SentAt:         s.now().UTC(),
		DeliveryStatus: result.Status,
		MessageSID:     result.MessageSID,
	}
	if body := strings.TrimSpace(result.Body); body != "" {
		log.ProviderPayload = body
	}

	if err := s.statusLogs.Create(ctx, log); err != nil {
		if s.metrics != nil {
			s.metrics.IncMessageFailed("status_log_write")
		}
		return fmt.Errorf("failed to write status log: %w", err)
	}

	if s.metrics != nil {
		s.metrics.IncMessageSent()
	}
	s.logger.Info("message sent",
		zap.String("notificationId", msg.NotificationID),
		zap.String("sentTo", msg.SentTo),
		zap.String("messageSid", result.MessageSID),
	)

	return nil
}
