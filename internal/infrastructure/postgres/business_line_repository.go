package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/servicios-api/internal/domain"
	"github.com/jhoicas/servicios-api/internal/domain/entity"
	"github.com/jhoicas/servicios-api/internal/domain/repository"
)

var _ repository.BusinessLineRepository = (*BusinessLineRepo)(nil)

// BusinessLineRepo implementación de BusinessLineRepository sobre PostgreSQL
// (usable con pool o tx). ParentID NULL identifica a los nodos raíz, por lo
// que las búsquedas por padre usan IS NOT DISTINCT FROM.
type BusinessLineRepo struct {
	q Querier
}

// NewBusinessLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBusinessLineRepository(q Querier) *BusinessLineRepo {
	return &BusinessLineRepo{q: q}
}

const lineColumns = `id, tenant_id, name, slug, parent_id, level, is_active, sort_order, created_at, updated_at`

// Create persiste un nodo del catálogo. (slug, parent) es único por tenant.
func (r *BusinessLineRepo) Create(ctx context.Context, l *entity.BusinessLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO business_lines (id, tenant_id, name, slug, parent_id, level, is_active, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.TenantID, l.Name, l.Slug, l.ParentID, l.Level, l.IsActive, l.Order,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("nombre o slug duplicado bajo el mismo padre: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert business line: %w", err)
	}
	return nil
}

// GetByID obtiene un nodo por ID.
func (r *BusinessLineRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.BusinessLine, error) {
	query := `SELECT ` + lineColumns + ` FROM business_lines WHERE tenant_id = $1 AND id = $2`
	return r.getOne(ctx, query, tenantID, id)
}

// GetBySlug busca un hijo directo de parentID con ese slug (parentID nil = raíces).
func (r *BusinessLineRepo) GetBySlug(ctx context.Context, tenantID string, parentID *string, slug string) (*entity.BusinessLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM business_lines
		WHERE tenant_id = $1 AND parent_id IS NOT DISTINCT FROM $2 AND slug = $3`
	return r.getOne(ctx, query, tenantID, parentID, slug)
}

// ChildrenOf devuelve los hijos directos de un nodo ordenados.
func (r *BusinessLineRepo) ChildrenOf(ctx context.Context, tenantID string, parentID *string) ([]*entity.BusinessLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM business_lines
		WHERE tenant_id = $1 AND parent_id IS NOT DISTINCT FROM $2
		ORDER BY sort_order, name`
	rows, err := r.q.Query(ctx, query, tenantID, parentID)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var out []*entity.BusinessLine
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan business line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// SlugExists informa si ya hay un hermano con ese slug bajo el mismo padre.
func (r *BusinessLineRepo) SlugExists(ctx context.Context, tenantID string, parentID *string, slug string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM business_lines
			WHERE tenant_id = $1 AND parent_id IS NOT DISTINCT FROM $2 AND slug = $3
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, tenantID, parentID, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("slug exists: %w", err)
	}
	return exists, nil
}

// NameExists informa si ya hay un hermano con ese nombre bajo el mismo padre.
func (r *BusinessLineRepo) NameExists(ctx context.Context, tenantID string, parentID *string, name string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM business_lines
			WHERE tenant_id = $1 AND parent_id IS NOT DISTINCT FROM $2 AND name = $3
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, tenantID, parentID, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("name exists: %w", err)
	}
	return exists, nil
}

// Update actualiza nombre, slug, padre, nivel y orden del nodo.
func (r *BusinessLineRepo) Update(ctx context.Context, l *entity.BusinessLine) error {
	query := `
		UPDATE business_lines
		SET name = $3, slug = $4, parent_id = $5, level = $6, sort_order = $7, updated_at = $8
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query, l.TenantID, l.ID, l.Name, l.Slug, l.ParentID, l.Level, l.Order, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("nombre o slug duplicado bajo el mismo padre: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("update business line: %w", err)
	}
	return nil
}

// SetActive fija el estado activo derivado del nodo.
func (r *BusinessLineRepo) SetActive(ctx context.Context, tenantID, id string, active bool) error {
	query := `UPDATE business_lines SET is_active = $3, updated_at = now() WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query, tenantID, id, active)
	if err != nil {
		return fmt.Errorf("set business line active: %w", err)
	}
	return nil
}

func (r *BusinessLineRepo) getOne(ctx context.Context, query string, args ...any) (*entity.BusinessLine, error) {
	l, err := scanLine(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business line: %w", err)
	}
	return l, nil
}

func scanLine(row pgx.Row) (*entity.BusinessLine, error) {
	var l entity.BusinessLine
	err := row.Scan(
		&l.ID, &l.TenantID, &l.Name, &l.Slug, &l.ParentID, &l.Level,
		&l.IsActive, &l.Order, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
