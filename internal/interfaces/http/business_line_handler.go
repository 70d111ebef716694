package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/servicios-api/internal/application/catalog"
	"github.com/jhoicas/servicios-api/internal/application/dto"
	"github.com/jhoicas/servicios-api/internal/domain"
)

// BusinessLineHandler maneja el catálogo jerárquico de líneas de negocio.
type BusinessLineHandler struct {
	uc *catalog.CatalogUseCase
}

// NewBusinessLineHandler construye el handler.
func NewBusinessLineHandler(uc *catalog.CatalogUseCase) *BusinessLineHandler {
	return &BusinessLineHandler{uc: uc}
}

// Create da de alta un nodo del catálogo (máximo 3 niveles).
// POST /api/business-lines
func (h *BusinessLineHandler) Create(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in dto.CreateBusinessLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line, err := h.uc.CreateLine(c.Context(), tenantID, catalog.CreateLineInput{
		Name:     in.Name,
		ParentID: in.ParentID,
		Order:    in.Order,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el nombre es obligatorio"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PARENT_NOT_FOUND", Message: "la línea padre no existe"})
		case errors.Is(err, domain.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_NAME", Message: "ya existe un hermano con ese nombre"})
		case errors.Is(err, domain.ErrMaxLevelExceeded):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "MAX_LEVEL", Message: "el árbol admite como máximo 3 niveles"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewBusinessLineResponse(line))
}

// List lista las raíces o los hijos de un nodo.
// GET /api/business-lines?parent_id=
func (h *BusinessLineHandler) List(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var parentID *string
	if v := c.Query("parent_id"); v != "" {
		parentID = &v
	}
	items, err := h.uc.Children(c.Context(), tenantID, parentID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := dto.BusinessLineListResponse{Items: make([]dto.BusinessLineResponse, 0, len(items))}
	for _, l := range items {
		out.Items = append(out.Items, dto.NewBusinessLineResponse(l))
	}
	return c.JSON(out)
}

// GetByID obtiene un nodo con su ruta de slugs desde la raíz.
// GET /api/business-lines/:id
func (h *BusinessLineHandler) GetByID(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	line, err := h.uc.GetLine(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNodeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "línea de negocio no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	path, err := h.uc.PathOf(c.Context(), tenantID, line.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.BusinessLinePathResponse{Line: dto.NewBusinessLineResponse(line), Path: path})
}

// Resolve resuelve una ruta de slugs (p. ej. peluqueria/color/tinte) a su nodo.
// GET /api/business-lines/resolve/*
func (h *BusinessLineHandler) Resolve(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	raw := strings.Trim(c.Params("*"), "/")
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ruta vacía"})
	}
	line, err := h.uc.ResolvePath(c.Context(), tenantID, strings.Split(raw, "/"))
	if err != nil {
		if errors.Is(err, domain.ErrNodeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ningún nodo coincide con la ruta"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewBusinessLineResponse(line))
}

// Move recuelga un nodo bajo otro padre (parent_id nil lo vuelve raíz).
// PATCH /api/business-lines/:id/move
func (h *BusinessLineHandler) Move(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in dto.MoveBusinessLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line, err := h.uc.MoveLine(c.Context(), tenantID, c.Params("id"), in.ParentID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "línea de negocio no encontrada"})
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CYCLE", Message: "el destino no puede ser el propio nodo ni un descendiente"})
		case errors.Is(err, domain.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_NAME", Message: "ya existe un hermano con ese nombre"})
		case errors.Is(err, domain.ErrMaxLevelExceeded):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "MAX_LEVEL", Message: "el árbol admite como máximo 3 niveles"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewBusinessLineResponse(line))
}

// Refresh recalcula el estado activo del nodo y lo propaga hacia arriba.
// POST /api/business-lines/:id/refresh
func (h *BusinessLineHandler) Refresh(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if err := h.uc.RefreshLineStatus(c.Context(), tenantID, c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "línea de negocio no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
