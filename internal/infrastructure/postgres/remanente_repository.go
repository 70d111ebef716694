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

var _ repository.RemanenteRepository = (*RemanenteRepo)(nil)

// RemanenteRepo implementación de RemanenteRepository sobre PostgreSQL
// (usable con pool o tx).
type RemanenteRepo struct {
	q Querier
}

// NewRemanenteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRemanenteRepository(q Querier) *RemanenteRepo {
	return &RemanenteRepo{q: q}
}

// CreateType persiste un tipo de remanente. El nombre es único por tenant.
func (r *RemanenteRepo) CreateType(ctx context.Context, t *entity.RemanenteType) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO remanente_types (id, tenant_id, name, description, default_amount, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.TenantID, t.Name, nullIfEmpty(t.Description), t.DefaultAmount,
		t.IsActive, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("nombre de tipo duplicado: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert remanente type: %w", err)
	}
	return nil
}

// GetType obtiene un tipo por ID.
func (r *RemanenteRepo) GetType(ctx context.Context, tenantID, id string) (*entity.RemanenteType, error) {
	query := `
		SELECT id, tenant_id, name, description, default_amount, is_active, created_at, updated_at
		FROM remanente_types WHERE tenant_id = $1 AND id = $2`
	t, err := scanRemanenteType(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get remanente type: %w", err)
	}
	return t, nil
}

// ListTypes devuelve los tipos de remanente del tenant.
func (r *RemanenteRepo) ListTypes(ctx context.Context, tenantID string, onlyActive bool) ([]*entity.RemanenteType, error) {
	query := `
		SELECT id, tenant_id, name, description, default_amount, is_active, created_at, updated_at
		FROM remanente_types
		WHERE tenant_id = $1 AND ($2 = false OR is_active)
		ORDER BY name`
	rows, err := r.q.Query(ctx, query, tenantID, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("list remanente types: %w", err)
	}
	defer rows.Close()

	var out []*entity.RemanenteType
	for rows.Next() {
		t, err := scanRemanenteType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan remanente type: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpsertConfig crea o actualiza la configuración (business_line, tipo).
func (r *RemanenteRepo) UpsertConfig(ctx context.Context, cfg *entity.BusinessLineRemanenteConfig) error {
	if cfg.ID == "" {
		cfg.ID = uuid.New().String()
	}
	query := `
		INSERT INTO business_line_remanente_configs (id, tenant_id, business_line_id, remanente_type_id, is_enabled, default_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (tenant_id, business_line_id, remanente_type_id)
		DO UPDATE SET is_enabled = EXCLUDED.is_enabled, default_amount = EXCLUDED.default_amount, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		cfg.ID, cfg.TenantID, cfg.BusinessLineID, cfg.RemanenteTypeID,
		cfg.IsEnabled, cfg.DefaultAmount, cfg.CreatedAt, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert remanente config: %w", err)
	}
	return nil
}

// GetConfig obtiene la configuración (línea, tipo), o nil si no existe.
func (r *RemanenteRepo) GetConfig(ctx context.Context, tenantID, businessLineID, remanenteTypeID string) (*entity.BusinessLineRemanenteConfig, error) {
	query := `
		SELECT id, tenant_id, business_line_id, remanente_type_id, is_enabled, default_amount, created_at, updated_at
		FROM business_line_remanente_configs
		WHERE tenant_id = $1 AND business_line_id = $2 AND remanente_type_id = $3`
	cfg, err := scanRemanenteConfig(r.q.QueryRow(ctx, query, tenantID, businessLineID, remanenteTypeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get remanente config: %w", err)
	}
	return cfg, nil
}

// ListConfigsByLine devuelve las configuraciones de una línea de negocio.
func (r *RemanenteRepo) ListConfigsByLine(ctx context.Context, tenantID, businessLineID string) ([]*entity.BusinessLineRemanenteConfig, error) {
	query := `
		SELECT id, tenant_id, business_line_id, remanente_type_id, is_enabled, default_amount, created_at, updated_at
		FROM business_line_remanente_configs
		WHERE tenant_id = $1 AND business_line_id = $2
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, tenantID, businessLineID)
	if err != nil {
		return nil, fmt.Errorf("list remanente configs: %w", err)
	}
	defer rows.Close()

	var out []*entity.BusinessLineRemanenteConfig
	for rows.Next() {
		cfg, err := scanRemanenteConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("scan remanente config: %w", err)
		}
		out = append(out, cfg)
	}
	return out, rows.Err()
}

func scanRemanenteType(row pgx.Row) (*entity.RemanenteType, error) {
	var t entity.RemanenteType
	var description *string
	err := row.Scan(
		&t.ID, &t.TenantID, &t.Name, &description, &t.DefaultAmount,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Description = derefStr(description)
	return &t, nil
}

func scanRemanenteConfig(row pgx.Row) (*entity.BusinessLineRemanenteConfig, error) {
	var cfg entity.BusinessLineRemanenteConfig
	err := row.Scan(
		&cfg.ID, &cfg.TenantID, &cfg.BusinessLineID, &cfg.RemanenteTypeID,
		&cfg.IsEnabled, &cfg.DefaultAmount, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
