package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/servicios-api/internal/application/dto"
	"github.com/jhoicas/servicios-api/internal/application/periods"
	"github.com/jhoicas/servicios-api/internal/domain"
)

// PeriodHandler maneja los períodos de facturación de un servicio.
type PeriodHandler struct {
	uc *periods.PeriodUseCase
}

// NewPeriodHandler construye el handler.
func NewPeriodHandler(uc *periods.PeriodUseCase) *PeriodHandler {
	return &PeriodHandler{uc: uc}
}

// Create crea un período sin pago para el servicio.
// POST /api/services/:id/periods
func (h *PeriodHandler) Create(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in dto.CreatePeriodRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	start, err := parseDate(in.StartDate)
	if err != nil || start == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "start_date debe ser YYYY-MM-DD"})
	}
	end, err := parseDate(in.EndDate)
	if err != nil || end == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "end_date debe ser YYYY-MM-DD"})
	}
	period, err := h.uc.CreatePeriod(c.Context(), tenantID, c.Params("id"), *start, *end, in.Notes)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "servicio no encontrado"})
		case errors.Is(err, domain.ErrServiceInactive):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "SERVICE_INACTIVE", Message: "el servicio está dado de baja"})
		case errors.Is(err, domain.ErrInvalidRange):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_RANGE", Message: "la fecha de inicio debe ser anterior a la de fin"})
		case errors.Is(err, domain.ErrOverlappingPeriod):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "OVERLAP", Message: "el período se solapa con uno existente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewPeriodResponse(period))
}

// Extend crea el siguiente período sin pago, por meses o hasta una fecha.
// POST /api/services/:id/extend
func (h *PeriodHandler) Extend(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in dto.ExtendServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	target, err := parseDate(in.TargetDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "target_date debe ser YYYY-MM-DD"})
	}
	period, err := h.uc.ExtendService(c.Context(), tenantID, c.Params("id"), in.Months, target, in.Notes)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "servicio no encontrado"})
		case errors.Is(err, domain.ErrServiceInactive):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "SERVICE_INACTIVE", Message: "el servicio está dado de baja"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "indica months o target_date"})
		case errors.Is(err, domain.ErrNonIncreasingExtension):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NON_INCREASING", Message: "la nueva fecha de fin debe ser posterior a la actual"})
		case errors.Is(err, domain.ErrOverlappingPeriod):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "OVERLAP", Message: "el período se solapa con uno existente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewPeriodResponse(period))
}

// ListPending lista los períodos sin pagar del servicio, por fecha de inicio.
// GET /api/services/:id/periods/pending
func (h *PeriodHandler) ListPending(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	items, err := h.uc.GetPendingPeriods(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "servicio no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewPeriodListResponse(items))
}

// Resync recalcula el end_date cacheado del servicio desde sus períodos.
// POST /api/services/:id/resync
func (h *PeriodHandler) Resync(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if err := h.uc.ResyncEndDate(c.Context(), tenantID, c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "servicio no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
