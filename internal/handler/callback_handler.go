package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type StatusService interface {
	RecordCallback(ctx context.Context, messageSID, status string) error
}

type CallbackHandler struct {
	service StatusService
}

func NewCallbackHandler(service StatusService) (*CallbackHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("status service is required")
	}
	return &CallbackHandler{service: service}, nil
}

func RegisterCallbackRoutes(router fiber.Router, service StatusService) error {
	h, err := NewCallbackHandler(service)
	if err != nil {
		return err
	}

	router.Post("/callbacks/twilio/status", h.DeliveryStatus)

	return nil
}

// DeliveryStatus receives Twilio's form-encoded status webhook. A callback
// without a MessageSid is treated as a malformed gateway request.
func (h *CallbackHandler) DeliveryStatus(c *fiber.Ctx) error {
	messageSID := strings.TrimSpace(c.FormValue("MessageSid"))
	messageStatus := strings.TrimSpace(c.FormValue("MessageStatus"))

	if messageSID == "" {
		return fiber.NewError(fiber.StatusInternalServerError, "missing MessageSid")
	}

	if err := h.service.RecordCallback(c.Context(), messageSID, messageStatus); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(dataEnvelope(fiber.Map{
		"message_sid": messageSID,
		"status":      messageStatus,
	}))
}
