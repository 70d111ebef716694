package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/servicios-api/internal/application/clients"
	"github.com/jhoicas/servicios-api/internal/application/dto"
	"github.com/jhoicas/servicios-api/internal/domain"
)

// ServiceHandler maneja la contratación y el estado de servicios.
type ServiceHandler struct {
	uc *clients.ClientUseCase
}

// NewServiceHandler construye el handler.
func NewServiceHandler(uc *clients.ClientUseCase) *ServiceHandler {
	return &ServiceHandler{uc: uc}
}

// Contract contrata una línea de negocio para un cliente activo.
// POST /api/services
func (h *ServiceHandler) Contract(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in dto.ContractServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	startDate, err := parseDate(in.StartDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "start_date debe ser YYYY-MM-DD"})
	}
	svc, err := h.uc.ContractService(c.Context(), tenantID, clients.ContractServiceInput{
		ClientID:       in.ClientID,
		BusinessLineID: in.BusinessLineID,
		Category:       in.Category,
		Price:          in.Price,
		StartDate:      startDate,
		Notes:          in.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos de contratación inválidos"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cliente no encontrado"})
		case errors.Is(err, domain.ErrNodeNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "LINE_NOT_FOUND", Message: "línea de negocio no encontrada"})
		case errors.Is(err, domain.ErrClientInactive):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CLIENT_INACTIVE", Message: "el cliente está inactivo"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewServiceResponse(svc))
}

// SetStatus cambia el estado administrativo del servicio (ENABLED/SUSPENDED).
// PATCH /api/services/:id/status
func (h *ServiceHandler) SetStatus(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in dto.UpdateServiceStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	svc, err := h.uc.SetServiceAdminStatus(c.Context(), tenantID, c.Params("id"), in.AdminStatus)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "admin_status debe ser ENABLED o SUSPENDED"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "servicio no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewServiceResponse(svc))
}
