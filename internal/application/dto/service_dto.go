package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicios-api/internal/domain/entity"
)

// ContractServiceRequest contratación de una línea de negocio.
// StartDate en formato YYYY-MM-DD; vacía equivale a hoy.
type ContractServiceRequest struct {
	ClientID       string          `json:"client_id" validate:"required"`
	BusinessLineID string          `json:"business_line_id" validate:"required"`
	Category       string          `json:"category" validate:"required,oneof=WHITE BLACK"`
	Price          decimal.Decimal `json:"price"`
	StartDate      string          `json:"start_date"`
	Notes          string          `json:"notes"`
}

// UpdateServiceStatusRequest cambio del estado administrativo.
type UpdateServiceStatusRequest struct {
	AdminStatus string `json:"admin_status" validate:"required,oneof=ENABLED SUSPENDED"`
}

// ServiceResponse salida de un servicio contratado.
type ServiceResponse struct {
	ID             string          `json:"id"`
	ClientID       string          `json:"client_id"`
	BusinessLineID string          `json:"business_line_id"`
	Category       string          `json:"category"`
	Price          decimal.Decimal `json:"price"`
	AdminStatus    string          `json:"admin_status"`
	StartDate      *time.Time      `json:"start_date"`
	EndDate        *time.Time      `json:"end_date"`
	IsActive       bool            `json:"is_active"`
	Notes          string          `json:"notes"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ServiceListResponse servicios de un cliente.
type ServiceListResponse struct {
	Items []ServiceResponse `json:"items"`
}

// NewServiceResponse mapea la entidad a su respuesta HTTP.
func NewServiceResponse(s *entity.ClientService) ServiceResponse {
	return ServiceResponse{
		ID:             s.ID,
		ClientID:       s.ClientID,
		BusinessLineID: s.BusinessLineID,
		Category:       s.Category,
		Price:          s.Price,
		AdminStatus:    s.AdminStatus,
		StartDate:      s.StartDate,
		EndDate:        s.EndDate,
		IsActive:       s.IsActive,
		Notes:          s.Notes,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
