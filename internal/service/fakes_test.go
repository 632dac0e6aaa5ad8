package service

import (
	"context"
	"net/url"
	"time"

	"github.com/pushworks/wapush/internal/domain"
	"github.com/pushworks/wapush/internal/provider"
	"github.com/pushworks/wapush/internal/queue"
)

type fakeTaskRepo struct {
	createFn              func(ctx context.Context, n *domain.NotificationTask) error
	getByIDFn             func(ctx context.Context, userID, notificationID string) (*domain.NotificationTask, error)
	getByIdempotencyKeyFn func(ctx context.Context, userID, idempotencyKey string) (*domain.NotificationTask, error)
	listByUserFn          func(ctx context.Context, userID string) ([]domain.NotificationTask, error)
}

func (f *fakeTaskRepo) Create(ctx context.Context, n *domain.NotificationTask) error {
	if f.createFn != nil {
		return f.createFn(ctx, n)
	}
	return nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, userID, notificationID string) (*domain.NotificationTask, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, userID, notificationID)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTaskRepo) GetByIdempotencyKey(ctx context.Context, userID, idempotencyKey string) (*domain.NotificationTask, error) {
	if f.getByIdempotencyKeyFn != nil {
		return f.getByIdempotencyKeyFn(ctx, userID, idempotencyKey)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTaskRepo) ListByUser(ctx context.Context, userID string) ([]domain.NotificationTask, error) {
	if f.listByUserFn != nil {
		return f.listByUserFn(ctx, userID)
	}
	return nil, nil
}

type fakeTemplateRepo struct {
	createFn              func(ctx context.Context, t *domain.Template) error
	getByIDFn             func(ctx context.Context, userID, templateID string) (*domain.Template, error)
	getByIdempotencyKeyFn func(ctx context.Context, userID, idempotencyKey string) (*domain.Template, error)
	updateFn              func(ctx context.Context, userID, templateID, name, message string) (*domain.Template, error)
	deleteFn              func(ctx context.Context, userID, templateID string) error
	listByUserFn          func(ctx context.Context, userID string) ([]domain.Template, error)
}

func (f *fakeTemplateRepo) Create(ctx context.Context, t *domain.Template) error {
	if f.createFn != nil {
		return f.createFn(ctx, t)
	}
	return nil
}

func (f *fakeTemplateRepo) GetByID(ctx context.Context, userID, templateID string) (*domain.Template, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, userID, templateID)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTemplateRepo) GetByIdempotencyKey(ctx context.Context, userID, idempotencyKey string) (*domain.Template, error) {
	if f.getByIdempotencyKeyFn != nil {
		return f.getByIdempotencyKeyFn(ctx, userID, idempotencyKey)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTemplateRepo) Update(ctx context.Context, userID, templateID, name, message string) (*domain.Template, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, userID, templateID, name, message)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTemplateRepo) Delete(ctx context.Context, userID, templateID string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, userID, templateID)
	}
	return nil
}

func (f *fakeTemplateRepo) ListByUser(ctx context.Context, userID string) ([]domain.Template, error) {
	if f.listByUserFn != nil {
		return f.listByUserFn(ctx, userID)
	}
	return nil, nil
}

type fakeStatusLogRepo struct {
	createFn               func(ctx context.Context, s *domain.StatusLog) error
	getByMessageSIDFn      func(ctx context.Context, messageSID string) (*domain.StatusLog, error)
	updateDeliveryStatusFn func(ctx context.Context, notificationID, logID, status string) error
	listByNotificationFn   func(ctx context.Context, userID, notificationID string) ([]domain.StatusLog, error)
}

func (f *fakeStatusLogRepo) Create(ctx context.Context, s *domain.StatusLog) error {
	if f.createFn != nil {
		return f.createFn(ctx, s)
	}
	return nil
}

func (f *fakeStatusLogRepo) GetByMessageSID(ctx context.Context, messageSID string) (*domain.StatusLog, error) {
	if f.getByMessageSIDFn != nil {
		return f.getByMessageSIDFn(ctx, messageSID)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStatusLogRepo) UpdateDeliveryStatus(ctx context.Context, notificationID, logID, status string) error {
	if f.updateDeliveryStatusFn != nil {
		return f.updateDeliveryStatusFn(ctx, notificationID, logID, status)
	}
	return nil
}

func (f *fakeStatusLogRepo) ListByNotification(ctx context.Context, userID, notificationID string) ([]domain.StatusLog, error) {
	if f.listByNotificationFn != nil {
		return f.listByNotificationFn(ctx, userID, notificationID)
	}
	return nil, nil
}

type fakePublisher struct {
	publishFn func(ctx context.Context, queueName string, msg queue.DispatchMessage) error
	closeFn   func() error
}

func (f *fakePublisher) Publish(ctx context.Context, queueName string, msg queue.DispatchMessage) error {
	if f.publishFn != nil {
		return f.publishFn(ctx, queueName, msg)
	}
	return nil
}

func (f *fakePublisher) Close() error {
	if f.closeFn != nil {
		return f.closeFn()
	}
	return nil
}

type fakeConsumer struct {
	consumeFn func(ctx context.Context, queueName string, handler queue.MessageHandler) error
	closeFn   func() error
}

func (f *fakeConsumer) Consume(ctx context.Context, queueName string, handler queue.MessageHandler) error {
	if f.consumeFn != nil {
		return f.consumeFn(ctx, queueName, handler)
	}
	<-ctx.Done()
	return nil
}

func (f *fakeConsumer) Close() error {
	if f.closeFn != nil {
		return f.closeFn()
	}
	return nil
}

type fakeProvider struct {
	sendFn func(ctx context.Context, dispatch queue.DispatchMessage) (*provider.SendResult, error)
}

func (f *fakeProvider) Send(ctx context.Context, dispatch queue.DispatchMessage) (*provider.SendResult, error) {
	if f.sendFn != nil {
		return f.sendFn(ctx, dispatch)
	}
	return &provider.SendResult{MessageSID: "SM0", Status: "queued"}, nil
}

type fakeRateLimiter struct {
	allowFn func(ctx context.Context, sender string) (bool, error)
	waitFn  func(ctx context.Context, sender string) error
}

func (f *fakeRateLimiter) Allow(ctx context.Context, sender string) (bool, error) {
	if f.allowFn != nil {
		return f.allowFn(ctx, sender)
	}
	return true, nil
}

func (f *fakeRateLimiter) Wait(ctx context.Context, sender string) error {
	if f.waitFn != nil {
		return f.waitFn(ctx, sender)
	}
	return nil
}

type fakeResolver struct {
	resolveFn func(ctx context.Context, filePath string) ([]string, error)
}

func (f *fakeResolver) Resolve(ctx context.Context, filePath string) ([]string, error) {
	if f.resolveFn != nil {
		return f.resolveFn(ctx, filePath)
	}
	return nil, nil
}

type fakeUploader struct {
	presignPutFn func(ctx context.Context, key string, expiry time.Duration) (*url.URL, error)
}

func (f *fakeUploader) PresignPut(ctx context.Context, key string, expiry time.Duration) (*url.URL, error) {
	if f.presignPutFn != nil {
		return f.presignPutFn(ctx, key, expiry)
	}
	return url.Parse("https://blob.example.com/" + key)
}
