package handler

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/pushworks/wapush/internal/service"
)

type UploadService interface {
	IssueUploadURL(ctx context.Context, userID, fileName string) (*service.UploadTarget, error)
}

type UploadHandler struct {
	service UploadService
}

func NewUploadHandler(service UploadService) (*UploadHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("upload service is required")
	}
	return &UploadHandler{service: service}, nil
}

func RegisterUploadRoutes(router fiber.Router, service UploadService) error {
	h, err := NewUploadHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/users/:user_id/uploads", h.IssueUploadURL)

	return nil
}

type issueUploadURLRequest struct {
	FileName string `json:"file_name"`
}

func (h *UploadHandler) IssueUploadURL(c *fiber.Ctx) error {
	var req issueUploadURLRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	target, err := h.service.IssueUploadURL(c.Context(), c.Params("user_id"), req.FileName)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(dataEnvelope(fiber.Map{
		"signed_upload_url": target.SignedUploadURL,
		"file_path":         target.FilePath,
	}))
}
