package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/servicios-api/internal/application/dto"
	"github.com/jhoicas/servicios-api/internal/application/remanentes"
	"github.com/jhoicas/servicios-api/internal/domain"
)

// RemanenteHandler maneja tipos de remanente, su configuración por línea
// y los ajustes sobre períodos.
type RemanenteHandler struct {
	uc *remanentes.RemanenteUseCase
}

// NewRemanenteHandler construye el handler.
func NewRemanenteHandler(uc *remanentes.RemanenteUseCase) *RemanenteHandler {
	return &RemanenteHandler{uc: uc}
}

// CreateType da de alta un tipo de remanente.
// POST /api/remanentes/types
func (h *RemanenteHandler) CreateType(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in dto.CreateRemanenteTypeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	t, err := h.uc.CreateType(c.Context(), tenantID, remanentes.CreateTypeInput{
		Name:          in.Name,
		Description:   in.Description,
		DefaultAmount: in.DefaultAmount,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el nombre es obligatorio"})
		case errors.Is(err, domain.ErrZeroAdjustment):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "ZERO_ADJUSTMENT", Message: "el monto por defecto no puede ser cero"})
		case errors.Is(err, domain.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_NAME", Message: "ya existe un tipo con ese nombre"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewRemanenteTypeResponse(t))
}

// ListTypes lista los tipos de remanente del tenant.
// GET /api/remanentes/types?only_active=
func (h *RemanenteHandler) ListTypes(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	items, err := h.uc.ListTypes(c.Context(), tenantID, c.QueryBool("only_active", false))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := dto.RemanenteTypeListResponse{Items: make([]dto.RemanenteTypeResponse, 0, len(items))}
	for _, t := range items {
		out.Items = append(out.Items, dto.NewRemanenteTypeResponse(t))
	}
	return c.JSON(out)
}

// ConfigureLine habilita (o actualiza) un tipo de remanente para una línea.
// PUT /api/business-lines/:id/remanentes
func (h *RemanenteHandler) ConfigureLine(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in dto.ConfigureLineRemanenteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cfg, err := h.uc.ConfigureLine(c.Context(), tenantID, remanentes.ConfigureLineInput{
		BusinessLineID:  c.Params("id"),
		RemanenteTypeID: in.RemanenteTypeID,
		IsEnabled:       in.IsEnabled,
		DefaultAmount:   in.DefaultAmount,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "línea y tipo de remanente son obligatorios"})
		case errors.Is(err, domain.ErrZeroAdjustment):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "ZERO_ADJUSTMENT", Message: "el monto por defecto no puede ser cero"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tipo de remanente no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewRemanenteConfigResponse(cfg))
}

// ListLineConfigs lista las configuraciones de remanente de una línea.
// GET /api/business-lines/:id/remanentes
func (h *RemanenteHandler) ListLineConfigs(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	items, err := h.uc.ListLineConfigs(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := dto.RemanenteConfigListResponse{Items: make([]dto.RemanenteConfigResponse, 0, len(items))}
	for _, cfg := range items {
		out.Items = append(out.Items, dto.NewRemanenteConfigResponse(cfg))
	}
	return c.JSON(out)
}

// Attach adjunta un remanente a un período de un servicio BLACK.
// POST /api/periods/:id/remanente
func (h *RemanenteHandler) Attach(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in dto.AttachRemanenteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	period, err := h.uc.AttachAdjustment(c.Context(), tenantID, c.Params("id"), in.RemanenteTypeID, in.Amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "período o tipo de remanente no encontrado"})
		case errors.Is(err, domain.ErrCategoryNotBlack):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NOT_BLACK", Message: "los remanentes solo aplican a servicios BLACK"})
		case errors.Is(err, domain.ErrAdjustmentNotConfigured):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NOT_CONFIGURED", Message: "la línea no tiene habilitado ese tipo de remanente"})
		case errors.Is(err, domain.ErrZeroAdjustment):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "ZERO_ADJUSTMENT", Message: "el remanente no puede ser cero"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewPeriodResponse(period))
}

// Clear retira el remanente de un período.
// DELETE /api/periods/:id/remanente
func (h *RemanenteHandler) Clear(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	period, err := h.uc.ClearAdjustment(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "período no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewPeriodResponse(period))
}
