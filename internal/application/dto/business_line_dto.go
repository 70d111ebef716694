package dto

import (
	"time"

	"github.com/jhoicas/servicios-api/internal/domain/entity"
)

// CreateBusinessLineRequest alta de un nodo del catálogo.
// ParentID nil crea una raíz (nivel 1).
type CreateBusinessLineRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=200"`
	ParentID *string `json:"parent_id"`
	Order    int     `json:"order"`
}

// MoveBusinessLineRequest recuelga un nodo bajo otro padre.
// ParentID nil lo convierte en raíz.
type MoveBusinessLineRequest struct {
	ParentID *string `json:"parent_id"`
}

// BusinessLineResponse salida de un nodo del catálogo.
type BusinessLineResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ParentID  *string   `json:"parent_id"`
	Level     int       `json:"level"`
	IsActive  bool      `json:"is_active"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BusinessLineListResponse hijos de un nodo (o raíces).
type BusinessLineListResponse struct {
	Items []BusinessLineResponse `json:"items"`
}

// BusinessLinePathResponse ruta de slugs desde la raíz hasta el nodo.
type BusinessLinePathResponse struct {
	Line BusinessLineResponse `json:"line"`
	Path []string             `json:"path"`
}

// NewBusinessLineResponse mapea la entidad a su respuesta HTTP.
func NewBusinessLineResponse(b *entity.BusinessLine) BusinessLineResponse {
	return BusinessLineResponse{
		ID:        b.ID,
		Name:      b.Name,
		Slug:      b.Slug,
		ParentID:  b.ParentID,
		Level:     b.Level,
		IsActive:  b.IsActive,
		Order:     b.Order,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
