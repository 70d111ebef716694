package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/servicios-api/internal/application/clients"
	"github.com/jhoicas/servicios-api/internal/application/clientstate"
	"github.com/jhoicas/servicios-api/internal/application/dto"
	"github.com/jhoicas/servicios-api/internal/domain"
)

// ClientHandler maneja las peticiones HTTP de clientes (protegido).
type ClientHandler struct {
	uc      *clients.ClientUseCase
	stateUC *clientstate.ClientStateUseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *clients.ClientUseCase, stateUC *clientstate.ClientStateUseCase) *ClientHandler {
	return &ClientHandler{uc: uc, stateUC: stateUC}
}

// Create da de alta un cliente.
// POST /api/clients
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in dto.CreateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	client, err := h.uc.CreateClient(c.Context(), tenantID, clients.CreateClientInput{
		FullName: in.FullName,
		DNI:      in.DNI,
		Email:    in.Email,
		Phone:    in.Phone,
		Notes:    in.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "nombre y DNI son obligatorios"})
		case errors.Is(err, domain.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_DNI", Message: "ya existe un cliente con ese DNI"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewClientResponse(client))
}

// List devuelve los clientes del tenant, paginados.
// GET /api/clients?limit=&offset=&only_active=
func (h *ClientHandler) List(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()
	onlyActive := c.QueryBool("only_active", false)

	items, err := h.uc.ListClients(c.Context(), tenantID, onlyActive, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := dto.ClientListResponse{
		Items: make([]dto.ClientResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, cl := range items {
		out.Items = append(out.Items, dto.NewClientResponse(cl))
	}
	return c.JSON(out)
}

// GetByID obtiene un cliente.
// GET /api/clients/:id
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	client, err := h.uc.GetClient(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cliente no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewClientResponse(client))
}

// Update actualiza los datos de contacto de un cliente.
// PUT /api/clients/:id
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in dto.UpdateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	client, err := h.uc.UpdateClient(c.Context(), tenantID, c.Params("id"), clients.UpdateClientInput{
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
		Notes:    in.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el nombre es obligatorio"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cliente no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewClientResponse(client))
}

// Delete borra lógicamente un cliente.
// DELETE /api/clients/:id
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if err := h.uc.DeleteClient(c.Context(), tenantID, c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cliente no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Deactivate da de baja al cliente y congela sus servicios a la fecha de corte.
// POST /api/clients/:id/deactivate
func (h *ClientHandler) Deactivate(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in dto.DeactivateClientRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	asOf, err := parseDate(in.AsOfDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "as_of_date debe ser YYYY-MM-DD"})
	}
	if asOf == nil {
		now := time.Now()
		asOf = &now
	}
	res, err := h.stateUC.DeactivateClient(c.Context(), tenantID, c.Params("id"), *asOf)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cliente no encontrado"})
		case errors.Is(err, domain.ErrClientInactive):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CLIENT_INACTIVE", Message: "el cliente ya está inactivo"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.CascadeResponse{
		ClientID:         res.ClientID,
		AffectedServices: res.AffectedServices,
		AsOfDate:         res.AsOfDate,
		AffectedCount:    res.AffectedCount,
	})
}

// Reactivate reactiva al cliente y sus servicios congelados.
// POST /api/clients/:id/reactivate
func (h *ClientHandler) Reactivate(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in dto.ReactivateClientRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	asOf, err := parseDate(in.AsOfDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "as_of_date debe ser YYYY-MM-DD"})
	}
	if asOf == nil {
		now := time.Now()
		asOf = &now
	}
	res, err := h.stateUC.ReactivateClient(c.Context(), tenantID, c.Params("id"), *asOf)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cliente no encontrado"})
		case errors.Is(err, domain.ErrClientAlreadyActive):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CLIENT_ACTIVE", Message: "el cliente ya está activo"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.CascadeResponse{
		ClientID:         res.ClientID,
		AffectedServices: res.AffectedServices,
		AsOfDate:         res.AsOfDate,
		AffectedCount:    res.AffectedCount,
	})
}

// ListServices lista los servicios contratados por un cliente.
// GET /api/clients/:id/services?only_active=
func (h *ClientHandler) ListServices(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	onlyActive := c.QueryBool("only_active", false)
	items, err := h.uc.ListServices(c.Context(), tenantID, c.Params("id"), onlyActive)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cliente no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := dto.ServiceListResponse{Items: make([]dto.ServiceResponse, 0, len(items))}
	for _, s := range items {
		out.Items = append(out.Items, dto.NewServiceResponse(s))
	}
	return c.JSON(out)
}
