package repository

import (
	"context"

	"github.com/jhoicas/servicios-api/internal/domain/entity"
)

// BusinessLineRepository puerto de persistencia para el árbol de líneas
// de negocio. ParentID nil significa nodo raíz.
type BusinessLineRepository interface {
	Create(ctx context.Context, line *entity.BusinessLine) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.BusinessLine, error)
	// GetBySlug busca un hijo directo de parentID con ese slug (parentID nil = raíces).
	GetBySlug(ctx context.Context, tenantID string, parentID *string, slug string) (*entity.BusinessLine, error)
	ChildrenOf(ctx context.Context, tenantID string, parentID *string) ([]*entity.BusinessLine, error)
	SlugExists(ctx context.Context, tenantID string, parentID *string, slug string) (bool, error)
	NameExists(ctx context.Context, tenantID string, parentID *string, name string) (bool, error)
	Update(ctx context.Context, line *entity.BusinessLine) error
	SetActive(ctx context.Context, tenantID, id string, active bool) error
}
