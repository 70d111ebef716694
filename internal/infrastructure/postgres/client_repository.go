package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/servicios-api/internal/domain"
	"github.com/jhoicas/servicios-api/internal/domain/entity"
	"github.com/jhoicas/servicios-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository sobre PostgreSQL (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, tenant_id, full_name, dni, email, phone, notes, is_active, deleted_at, created_at, updated_at`

// Create persiste un cliente nuevo. El DNI es único por tenant.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	query := `
		INSERT INTO clients (id, tenant_id, full_name, dni, email, phone, notes, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.TenantID, c.FullName, c.DNI,
		nullIfEmpty(c.Email), nullIfEmpty(c.Phone), nullIfEmpty(c.Notes),
		c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("dni ya registrado: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID, excluidos los borrados lógicamente.
func (r *ClientRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`
	return r.getOne(ctx, query, tenantID, id)
}

// GetByDNI obtiene un cliente por DNI dentro del tenant.
func (r *ClientRepo) GetByDNI(ctx context.Context, tenantID, dni string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE tenant_id = $1 AND dni = $2 AND deleted_at IS NULL`
	return r.getOne(ctx, query, tenantID, dni)
}

// List devuelve los clientes del tenant ordenados por nombre, paginados.
func (r *ClientRepo) List(ctx context.Context, tenantID string, onlyActive bool, limit, offset int) ([]*entity.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE tenant_id = $1 AND deleted_at IS NULL AND ($2 = false OR is_active)
		ORDER BY full_name
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, tenantID, onlyActive, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update actualiza los datos editables del cliente.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients
		SET full_name = $3, email = $4, phone = $5, notes = $6, updated_at = $7
		WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`
	_, err := r.q.Exec(ctx, query,
		c.TenantID, c.ID, c.FullName,
		nullIfEmpty(c.Email), nullIfEmpty(c.Phone), nullIfEmpty(c.Notes),
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// SetActive cambia el flag operacional sin tocar el resto de campos.
func (r *ClientRepo) SetActive(ctx context.Context, tenantID, id string, active bool, now time.Time) error {
	query := `UPDATE clients SET is_active = $3, updated_at = $4 WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`
	_, err := r.q.Exec(ctx, query, tenantID, id, active, now)
	if err != nil {
		return fmt.Errorf("set client active: %w", err)
	}
	return nil
}

// SoftDelete marca el borrado lógico.
func (r *ClientRepo) SoftDelete(ctx context.Context, tenantID, id string, now time.Time) error {
	query := `UPDATE clients SET deleted_at = $3, updated_at = $3 WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`
	_, err := r.q.Exec(ctx, query, tenantID, id, now)
	if err != nil {
		return fmt.Errorf("soft delete client: %w", err)
	}
	return nil
}

func (r *ClientRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	var email, phone, notes *string
	err := row.Scan(
		&c.ID, &c.TenantID, &c.FullName, &c.DNI,
		&email, &phone, &notes,
		&c.IsActive, &c.DeletedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Email = derefStr(email)
	c.Phone = derefStr(phone)
	c.Notes = derefStr(notes)
	return &c, nil
}
