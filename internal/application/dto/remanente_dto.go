package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicios-api/internal/domain/entity"
)

// CreateRemanenteTypeRequest alta de un tipo de remanente.
// DefaultAmount, si se indica, no puede ser cero.
type CreateRemanenteTypeRequest struct {
	Name          string           `json:"name" validate:"required,min=1,max=100"`
	Description   string           `json:"description"`
	DefaultAmount *decimal.Decimal `json:"default_amount"`
}

// RemanenteTypeResponse salida de un tipo de remanente.
type RemanenteTypeResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	DefaultAmount *decimal.Decimal `json:"default_amount"`
	IsActive      bool             `json:"is_active"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// RemanenteTypeListResponse tipos de remanente del tenant.
type RemanenteTypeListResponse struct {
	Items []RemanenteTypeResponse `json:"items"`
}

// ConfigureLineRemanenteRequest habilita (o deshabilita) un tipo de
// remanente para una línea de negocio, con override de monto opcional.
type ConfigureLineRemanenteRequest struct {
	RemanenteTypeID string           `json:"remanente_type_id" validate:"required"`
	IsEnabled       bool             `json:"is_enabled"`
	DefaultAmount   *decimal.Decimal `json:"default_amount"`
}

// RemanenteConfigResponse configuración (línea, tipo).
type RemanenteConfigResponse struct {
	ID              string           `json:"id"`
	BusinessLineID  string           `json:"business_line_id"`
	RemanenteTypeID string           `json:"remanente_type_id"`
	IsEnabled       bool             `json:"is_enabled"`
	DefaultAmount   *decimal.Decimal `json:"default_amount"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// RemanenteConfigListResponse configuraciones de una línea.
type RemanenteConfigListResponse struct {
	Items []RemanenteConfigResponse `json:"items"`
}

// AttachRemanenteRequest adjunta un remanente a un período. Amount nil
// usa el monto por defecto efectivo de la configuración.
type AttachRemanenteRequest struct {
	RemanenteTypeID string           `json:"remanente_type_id" validate:"required"`
	Amount          *decimal.Decimal `json:"amount"`
}

// NewRemanenteTypeResponse mapea la entidad a su respuesta HTTP.
func NewRemanenteTypeResponse(t *entity.RemanenteType) RemanenteTypeResponse {
	return RemanenteTypeResponse{
		ID:            t.ID,
		Name:          t.Name,
		Description:   t.Description,
		DefaultAmount: t.DefaultAmount,
		IsActive:      t.IsActive,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// NewRemanenteConfigResponse mapea la entidad a su respuesta HTTP.
func NewRemanenteConfigResponse(c *entity.BusinessLineRemanenteConfig) RemanenteConfigResponse {
	return RemanenteConfigResponse{
		ID:              c.ID,
		BusinessLineID:  c.BusinessLineID,
		RemanenteTypeID: c.RemanenteTypeID,
		IsEnabled:       c.IsEnabled,
		DefaultAmount:   c.DefaultAmount,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
