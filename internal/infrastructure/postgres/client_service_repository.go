package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/servicios-api/internal/domain/entity"
	"github.com/jhoicas/servicios-api/internal/domain/repository"
)

var _ repository.ClientServiceRepository = (*ClientServiceRepo)(nil)

// ClientServiceRepo implementación de ClientServiceRepository sobre
// PostgreSQL (usable con pool o tx).
type ClientServiceRepo struct {
	q Querier
}

// NewClientServiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientServiceRepository(q Querier) *ClientServiceRepo {
	return &ClientServiceRepo{q: q}
}

const serviceColumns = `id, tenant_id, client_id, business_line_id, category, price, admin_status, start_date, end_date, is_active, notes, created_at, updated_at`

// Create persiste una contratación nueva.
func (r *ClientServiceRepo) Create(ctx context.Context, s *entity.ClientService) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `
		INSERT INTO client_services (id, tenant_id, client_id, business_line_id, category, price, admin_status, start_date, end_date, is_active, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.TenantID, s.ClientID, s.BusinessLineID, s.Category, s.Price,
		s.AdminStatus, s.StartDate, s.EndDate, s.IsActive, nullIfEmpty(s.Notes),
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client service: %w", err)
	}
	return nil
}

// GetByID obtiene una contratación por ID.
func (r *ClientServiceRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.ClientService, error) {
	query := `SELECT ` + serviceColumns + ` FROM client_services WHERE tenant_id = $1 AND id = $2`
	return r.getOne(ctx, query, tenantID, id)
}

// GetForUpdate obtiene la contratación y bloquea su fila (SELECT FOR UPDATE).
// Es el candado que serializa las mutaciones concurrentes sobre el mismo
// servicio: alta de período, pago, cancelación y reembolso.
func (r *ClientServiceRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.ClientService, error) {
	query := `SELECT ` + serviceColumns + ` FROM client_services WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	return r.getOne(ctx, query, tenantID, id)
}

// ListByClient devuelve las contrataciones de un cliente.
func (r *ClientServiceRepo) ListByClient(ctx context.Context, tenantID, clientID string, onlyActive bool) ([]*entity.ClientService, error) {
	query := `
		SELECT ` + serviceColumns + `
		FROM client_services
		WHERE tenant_id = $1 AND client_id = $2 AND ($3 = false OR is_active)
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, tenantID, clientID, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("list client services: %w", err)
	}
	defer rows.Close()

	var out []*entity.ClientService
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client service: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update actualiza los campos editables de la contratación.
func (r *ClientServiceRepo) Update(ctx context.Context, s *entity.ClientService) error {
	query := `
		UPDATE client_services
		SET category = $3, price = $4, admin_status = $5, start_date = $6, notes = $7, updated_at = $8
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query,
		s.TenantID, s.ID, s.Category, s.Price, s.AdminStatus, s.StartDate,
		nullIfEmpty(s.Notes), s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client service: %w", err)
	}
	return nil
}

// UpdateEndDate resincroniza la fecha de fin cacheada (nil la anula).
func (r *ClientServiceRepo) UpdateEndDate(ctx context.Context, tenantID, id string, endDate *time.Time, now time.Time) error {
	query := `UPDATE client_services SET end_date = $3, updated_at = $4 WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query, tenantID, id, endDate, now)
	if err != nil {
		return fmt.Errorf("update end date: %w", err)
	}
	return nil
}

// SetActive cambia el flag operacional del servicio.
func (r *ClientServiceRepo) SetActive(ctx context.Context, tenantID, id string, active bool, now time.Time) error {
	query := `UPDATE client_services SET is_active = $3, updated_at = $4 WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query, tenantID, id, active, now)
	if err != nil {
		return fmt.Errorf("set client service active: %w", err)
	}
	return nil
}

// HasActiveByLine informa si la línea tiene algún servicio activo directo.
func (r *ClientServiceRepo) HasActiveByLine(ctx context.Context, tenantID, lineID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM client_services
			WHERE tenant_id = $1 AND business_line_id = $2 AND is_active
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, tenantID, lineID).Scan(&exists); err != nil {
		return false, fmt.Errorf("has active by line: %w", err)
	}
	return exists, nil
}

func (r *ClientServiceRepo) getOne(ctx context.Context, query string, args ...any) (*entity.ClientService, error) {
	s, err := scanService(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client service: %w", err)
	}
	return s, nil
}

func scanService(row pgx.Row) (*entity.ClientService, error) {
	var s entity.ClientService
	var notes *string
	err := row.Scan(
		&s.ID, &s.TenantID, &s.ClientID, &s.BusinessLineID, &s.Category, &s.Price,
		&s.AdminStatus, &s.StartDate, &s.EndDate, &s.IsActive, &notes,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Notes = derefStr(notes)
	return &s, nil
}
