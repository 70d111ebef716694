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

var _ repository.ServicePaymentRepository = (*ServicePaymentRepo)(nil)

// ServicePaymentRepo implementación de ServicePaymentRepository sobre
// PostgreSQL (usable con pool o tx). El no-solape entre períodos no
// cancelados lo garantiza el caso de uso bajo el candado del servicio;
// aquí solo se consultan y persisten filas.
type ServicePaymentRepo struct {
	q Querier
}

// NewServicePaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServicePaymentRepository(q Querier) *ServicePaymentRepo {
	return &ServicePaymentRepo{q: q}
}

const paymentColumns = `id, tenant_id, client_service_id, period_start, period_end, amount, payment_date, payment_method, reference_number, status, refunded_amount, remanente, was_paid_on_time, notes, created_at, updated_at`

// Create persiste un período nuevo.
func (r *ServicePaymentRepo) Create(ctx context.Context, p *entity.ServicePayment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO service_payments (id, tenant_id, client_service_id, period_start, period_end, amount, payment_date, payment_method, reference_number, status, refunded_amount, remanente, was_paid_on_time, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.TenantID, p.ClientServiceID, p.PeriodStart, p.PeriodEnd,
		p.Amount, p.PaymentDate, p.PaymentMethod, nullIfEmpty(p.ReferenceNumber),
		p.Status, p.RefundedAmount, p.Remanente, p.WasPaidOnTime, nullIfEmpty(p.Notes),
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert service payment: %w", err)
	}
	return nil
}

// GetByID obtiene un período por ID.
func (r *ServicePaymentRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.ServicePayment, error) {
	query := `SELECT ` + paymentColumns + ` FROM service_payments WHERE tenant_id = $1 AND id = $2`
	p, err := scanPayment(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service payment: %w", err)
	}
	return p, nil
}

// Update persiste todos los campos mutables del período.
func (r *ServicePaymentRepo) Update(ctx context.Context, p *entity.ServicePayment) error {
	query := `
		UPDATE service_payments
		SET amount = $3, payment_date = $4, payment_method = $5, reference_number = $6,
		    status = $7, refunded_amount = $8, remanente = $9, was_paid_on_time = $10,
		    notes = $11, updated_at = $12
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query,
		p.TenantID, p.ID, p.Amount, p.PaymentDate, p.PaymentMethod,
		nullIfEmpty(p.ReferenceNumber), p.Status, p.RefundedAmount, p.Remanente,
		p.WasPaidOnTime, nullIfEmpty(p.Notes), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update service payment: %w", err)
	}
	return nil
}

// ListByService devuelve todos los períodos del servicio ordenados por period_start.
func (r *ServicePaymentRepo) ListByService(ctx context.Context, tenantID, serviceID string) ([]*entity.ServicePayment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM service_payments
		WHERE tenant_id = $1 AND client_service_id = $2
		ORDER BY period_start`
	return r.listMany(ctx, query, tenantID, serviceID)
}

// ListByStatus devuelve los períodos del servicio en alguno de los estados
// dados, ordenados por period_start.
func (r *ServicePaymentRepo) ListByStatus(ctx context.Context, tenantID, serviceID string, statuses ...string) ([]*entity.ServicePayment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM service_payments
		WHERE tenant_id = $1 AND client_service_id = $2 AND status = ANY($3)
		ORDER BY period_start`
	return r.listMany(ctx, query, tenantID, serviceID, statuses)
}

// HasOverlap informa si algún período no cancelado del servicio intersecta
// [start, end], excluyendo opcionalmente un período.
func (r *ServicePaymentRepo) HasOverlap(ctx context.Context, tenantID, serviceID string, start, end time.Time, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM service_payments
			WHERE tenant_id = $1 AND client_service_id = $2
			  AND status <> 'CANCELLED'
			  AND ($5 = '' OR id <> $5::uuid)
			  AND period_start <= $4 AND period_end >= $3
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, tenantID, serviceID, start, end, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("has overlap: %w", err)
	}
	return exists, nil
}

// MaxActivePeriodEnd devuelve el mayor period_end entre AWAITING_START,
// UNPAID_ACTIVE y PAID, o nil si no hay ninguno.
func (r *ServicePaymentRepo) MaxActivePeriodEnd(ctx context.Context, tenantID, serviceID string) (*time.Time, error) {
	query := `
		SELECT MAX(period_end)
		FROM service_payments
		WHERE tenant_id = $1 AND client_service_id = $2
		  AND status IN ('AWAITING_START', 'UNPAID_ACTIVE', 'PAID')`
	var max *time.Time
	if err := r.q.QueryRow(ctx, query, tenantID, serviceID).Scan(&max); err != nil {
		return nil, fmt.Errorf("max active period end: %w", err)
	}
	return max, nil
}

// LastPaid devuelve el último período pagado por fecha de pago, o nil.
func (r *ServicePaymentRepo) LastPaid(ctx context.Context, tenantID, serviceID string) (*entity.ServicePayment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM service_payments
		WHERE tenant_id = $1 AND client_service_id = $2 AND status = 'PAID' AND payment_date IS NOT NULL
		ORDER BY payment_date DESC
		LIMIT 1`
	p, err := scanPayment(r.q.QueryRow(ctx, query, tenantID, serviceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("last paid: %w", err)
	}
	return p, nil
}

// LastPaidPeriodEnd devuelve el mayor period_end entre los pagados, o nil.
func (r *ServicePaymentRepo) LastPaidPeriodEnd(ctx context.Context, tenantID, serviceID string) (*time.Time, error) {
	query := `
		SELECT MAX(period_end)
		FROM service_payments
		WHERE tenant_id = $1 AND client_service_id = $2 AND status = 'PAID'`
	var max *time.Time
	if err := r.q.QueryRow(ctx, query, tenantID, serviceID).Scan(&max); err != nil {
		return nil, fmt.Errorf("last paid period end: %w", err)
	}
	return max, nil
}

// DeletePendingFrom purga los períodos aún no consumidos con
// period_start >= from. Devuelve cuántos eliminó.
func (r *ServicePaymentRepo) DeletePendingFrom(ctx context.Context, tenantID, serviceID string, from time.Time) (int, error) {
	query := `
		DELETE FROM service_payments
		WHERE tenant_id = $1 AND client_service_id = $2
		  AND status IN ('AWAITING_START', 'UNPAID_ACTIVE', 'OVERDUE')
		  AND period_start >= $3`
	tag, err := r.q.Exec(ctx, query, tenantID, serviceID, from)
	if err != nil {
		return 0, fmt.Errorf("delete pending periods: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *ServicePaymentRepo) listMany(ctx context.Context, query string, args ...any) ([]*entity.ServicePayment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list service payments: %w", err)
	}
	defer rows.Close()

	var out []*entity.ServicePayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPayment(row pgx.Row) (*entity.ServicePayment, error) {
	var p entity.ServicePayment
	var reference, notes *string
	err := row.Scan(
		&p.ID, &p.TenantID, &p.ClientServiceID, &p.PeriodStart, &p.PeriodEnd,
		&p.Amount, &p.PaymentDate, &p.PaymentMethod, &reference,
		&p.Status, &p.RefundedAmount, &p.Remanente, &p.WasPaidOnTime, &notes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ReferenceNumber = derefStr(reference)
	p.Notes = derefStr(notes)
	return &p, nil
}
