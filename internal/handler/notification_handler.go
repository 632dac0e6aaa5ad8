package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pushworks/wapush/internal/domain"
)

type NotificationService interface {
	Create(ctx context.Context, task *domain.NotificationTask) (*domain.NotificationTask, error)
	Get(ctx context.Context, userID, notificationID string) (*domain.NotificationTask, error)
	List(ctx context.Context, userID string) ([]domain.NotificationTask, error)
}

type StatusLogReader interface {
	ListByNotification(ctx context.Context, userID, notificationID string) ([]domain.StatusLog, error)
}

type NotificationHandler struct {
	service    NotificationService
	statusLogs StatusLogReader
}

func NewNotificationHandler(service NotificationService, statusLogs StatusLogReader) (*NotificationHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("notification service is required")
	}
	if statusLogs == nil {
		return nil, fmt.Errorf("status log reader is required")
	}
	return &NotificationHandler{service: service, statusLogs: statusLogs}, nil
}

func RegisterNotificationRoutes(router fiber.Router, service NotificationService, statusLogs StatusLogReader) error {
	h, err := NewNotificationHandler(service, statusLogs)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/users/:user_id/notifications", h.CreateNotification)
	v1.Get("/users/:user_id/notifications", h.ListNotifications)
	v1.Get("/users/:user_id/notifications/:notification_id", h.GetNotification)
	v1.Get("/users/:user_id/notifications/:notification_id/status-logs", h.ListStatusLogs)

	return nil
}

type createNotificationRequest struct {
	Message           *string `json:"message"`
	MessageTemplateID *string `json:"message_template_id"`
	Recipient         *string `json:"recipient"`
	RecipientListFile *string `json:"recipient_list_file"`
	IdempotencyKey    string  `json:"idempotency_key"`
}

type notificationResponse struct {
	UserID            string    `json:"user_id"`
	NotificationID    string    `json:"notification_id"`
	Message           *string   `json:"message,omitempty"`
	MessageTemplateID *string   `json:"message_template_id,omitempty"`
	Recipient         *string   `json:"recipient,omitempty"`
	RecipientListFile *string   `json:"recipient_list_file,omitempty"`
	IdempotencyKey    string    `json:"idempotency_key"`
	CreatedAt         time.Time `json:"created_at"`
}

type statusLogResponse struct {
	NotificationID  string    `json:"notification_id"`
	LogID           string    `json:"log_id"`
	UserID          string    `json:"user_id"`
	SentFrom        string    `json:"sent_from"`
	SentTo          string    `json:"sent_to"`
	Message         string    `json:"message"`
	SentAt          time.Time `json:"sent_at"`
	DeliveryStatus  string    `json:"delivery_status"`
	MessageSID      string    `json:"message_sid,omitempty"`
	ProviderPayload string    `json:"provider_payload,omitempty"`
}

func (h *NotificationHandler) CreateNotification(c *fiber.Ctx) error {
	var req createNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	task := &domain.NotificationTask{
		UserID:            strings.TrimSpace(c.Params("user_id")),
		Message:           req.Message,
		MessageTemplateID: req.MessageTemplateID,
		Recipient:         req.Recipient,
		RecipientListFile: req.RecipientListFile,
		IdempotencyKey:    req.IdempotencyKey,
	}

	created, err := h.service.Create(c.Context(), task)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(dataEnvelope(toNotificationResponse(created)))
}

func (h *NotificationHandler) GetNotification(c *fiber.Ctx) error {
	task, err := h.service.Get(c.Context(), c.Params("user_id"), c.Params("notification_id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(dataEnvelope(toNotificationResponse(task)))
}

func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	tasks, err := h.service.List(c.Context(), c.Params("user_id"))
	if err != nil {
		return toHTTPError(err)
	}

	responses := make([]notificationResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, toNotificationResponse(&tasks[i]))
	}

	return c.Status(fiber.StatusOK).JSON(dataEnvelope(responses))
}

func (h *NotificationHandler) ListStatusLogs(c *fiber.Ctx) error {
	logs, err := h.statusLogs.ListByNotification(c.Context(), c.Params("user_id"), c.Params("notification_id"))
	if err != nil {
		return toHTTPError(err)
	}

	responses := make([]statusLogResponse, 0, len(logs))
	for _, log := range logs {
		responses = append(responses, statusLogResponse{
			NotificationID:  log.NotificationID,
			LogID:           log.LogID,
			UserID:          log.UserID,
			SentFrom:        log.SentFrom,
			SentTo:          log.SentTo,
			Message:         log.Message,
			SentAt:          log.SentAt,
			DeliveryStatus:  log.DeliveryStatus,
			MessageSID:      log.MessageSID,
			ProviderPayload: log.ProviderPayload,
		})
	}

	return c.Status(fiber.StatusOK).JSON(dataEnvelope(responses))
}

func toNotificationResponse(n *domain.NotificationTask) notificationResponse {
	if n == nil {
		return notificationResponse{}
	}

	return notificationResponse{
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
