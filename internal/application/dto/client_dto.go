package dto

import (
	"time"

	"github.com/jhoicas/servicios-api/internal/domain/entity"
)

// CreateClientRequest alta de cliente.
type CreateClientRequest struct {
	FullName string `json:"full_name" validate:"required,min=1,max=200"`
	DNI      string `json:"dni" validate:"required,min=1,max=20"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Notes    string `json:"notes"`
}

// UpdateClientRequest actualización de datos de contacto (no DNI).
type UpdateClientRequest struct {
	FullName string `json:"full_name" validate:"required,min=1,max=200"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Notes    string `json:"notes"`
}

// DeactivateClientRequest baja de cliente con fecha de corte.
// AsOfDate en formato YYYY-MM-DD; si está vacía se usa el día actual.
type DeactivateClientRequest struct {
	AsOfDate string `json:"as_of_date"`
}

// ReactivateClientRequest reactivación de cliente.
type ReactivateClientRequest struct {
	AsOfDate string `json:"as_of_date"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	DNI       string    `json:"dni"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Notes     string    `json:"notes"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientListResponse lista paginada de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// CascadeResponse resultado de una baja o reactivación en cascada.
type CascadeResponse struct {
	ClientID         string    `json:"client_id"`
	AffectedServices []string  `json:"affected_services"`
	AsOfDate         time.Time `json:"as_of_date"`
	AffectedCount    int       `json:"affected_count"`
}

// NewClientResponse mapea la entidad a su respuesta HTTP.
func NewClientResponse(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		FullName:  c.FullName,
		DNI:       c.DNI,
		Email:     c.Email,
		Phone:     c.Phone,
		Notes:     c.Notes,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
