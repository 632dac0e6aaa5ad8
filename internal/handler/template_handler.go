package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pushworks/wapush/internal/domain"
)

type TemplateService interface {
	Create(ctx context.Context, template *domain.Template) (*domain.Template, error)
	Get(ctx context.Context, userID, templateID string) (*domain.Template, error)
	Update(ctx context.Context, userID, templateID, name, message string) (*domain.Template, error)
	Delete(ctx context.Context, userID, templateID string) error
	List(ctx context.Context, userID string) ([]domain.Template, error)
}

type TemplateHandler struct {
	service TemplateService
}

func NewTemplateHandler(service TemplateService) (*TemplateHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("template service is required")
	}
	return &TemplateHandler{service: service}, nil
}

func RegisterTemplateRoutes(router fiber.Router, service TemplateService) error {
	h, err := NewTemplateHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/users/:user_id/templates", h.CreateTemplate)
	v1.Get("/users/:user_id/templates", h.ListTemplates)
	v1.Get("/users/:user_id/templates/:template_id", h.GetTemplate)
	v1.Put("/users/:user_id/templates/:template_id", h.UpdateTemplate)
	v1.Delete("/users/:user_id/templates/:template_id", h.DeleteTemplate)

	return nil
}

type createTemplateRequest struct {
	Name           string `json:"name"`
	Message        string `json:"message"`
	IdempotencyKey string `json:"idempotency_key"`
}

type updateTemplateRequest struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type templateResponse struct {
	UserID         string    `json:"user_id"`
	TemplateID     string    `json:"template_id"`
	Name           string    `json:"name"`
	Message        string    `json:"message"`
	IdempotencyKey string    `json:"idempotency_key"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (h *TemplateHandler) CreateTemplate(c *fiber.Ctx) error {
	var req createTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	template := &domain.Template{
		UserID:         strings.TrimSpace(c.Params("user_id")),
		Name:           req.Name,
		Message:        req.Message,
		IdempotencyKey: req.IdempotencyKey,
	}

	created, err := h.service.Create(c.Context(), template)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(dataEnvelope(toTemplateResponse(created)))
}

func (h *TemplateHandler) GetTemplate(c *fiber.Ctx) error {
	template, err := h.service.Get(c.Context(), c.Params("user_id"), c.Params("template_id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(dataEnvelope(toTemplateResponse(template)))
}

func (h *TemplateHandler) UpdateTemplate(c *fiber.Ctx) error {
	var req updateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	template, err := h.service.Update(c.Context(), c.Params("user_id"), c.Params("template_id"), req.Name, req.Message)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(dataEnvelope(toTemplateResponse(template)))
}

func (h *TemplateHandler) DeleteTemplate(c *fiber.Ctx) error {
	templateID := strings.TrimSpace(c.Params("template_id"))
	if err := h.service.Delete(c.Context(), c.Params("user_id"), templateID); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(dataEnvelope(fiber.Map{
		"template_id": templateID,
		"deleted":     true,
	}))
}

func (h *TemplateHandler) ListTemplates(c *fiber.Ctx) error {
	templates, err := h.service.List(c.Context(), c.Params("user_id"))
	if err != nil {
		return toHTTPError(err)
	}

	responses := make([]templateResponse, 0, len(templates))
	for i := range templates {
		responses = append(responses, toTemplateResponse(&templates[i]))
	}

	return c.Status(fiber.StatusOK).JSON(dataEnvelope(responses))
}

func toTemplateResponse(t *domain.Template) templateResponse {
	if t == nil {
		return templateResponse{}
	}

	return templateResponse{
		UserID:         t.UserID,
		TemplateID:     t.TemplateID,
		Name:           t.Name,
		Message:        t.Message,
		IdempotencyKey: t.IdempotencyKey,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func dataEnvelope(data interface{}) fiber.Map {
	return fiber.Map{"data": data}
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return err
	}
}
