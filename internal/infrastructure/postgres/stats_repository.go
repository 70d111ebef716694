package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicios-api/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas de solo lectura sobre el libro de períodos.
// Todas las cifras son netas (amount - refunded_amount) sobre períodos
// PAID, con los nulos llevados a cero con COALESCE. Los remanentes se
// suman aparte y nunca se netean dentro del ingreso.
type StatsRepo struct {
	pool *pgxpool.Pool
}

// NewStatsRepository construye el adaptador de agregaciones.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// filterSQL compone las condiciones opcionales del filtro de ingresos.
// El primer placeholder libre es $2 (el $1 es siempre el tenant).
func filterSQL(f repository.RevenueFilter, args []any) (string, []any) {
	cond := ""
	if len(f.LineIDs) > 0 {
		args = append(args, f.LineIDs)
		cond += fmt.Sprintf(" AND cs.business_line_id = ANY($%d)", len(args))
	}
	if f.Category != nil {
		args = append(args, *f.Category)
		cond += fmt.Sprintf(" AND cs.category = $%d", len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		cond += fmt.Sprintf(" AND sp.payment_date >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		cond += fmt.Sprintf(" AND sp.payment_date <= $%d", len(args))
	}
	return cond, args
}

// NetRevenue devuelve el ingreso neto total del ámbito.
func (r *StatsRepo) NetRevenue(ctx context.Context, tenantID string, f repository.RevenueFilter) (decimal.Decimal, error) {
	cond, args := filterSQL(f, []any{tenantID})
	query := `
	SELECT COALESCE(SUM(COALESCE(sp.amount, 0) - sp.refunded_amount), 0) AS net_revenue
	FROM service_payments sp
	JOIN client_services cs ON cs.id = sp.client_service_id
	WHERE sp.tenant_id = $1 AND sp.status = 'PAID'` + cond

	var net decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&net); err != nil {
		return decimal.Zero, fmt.Errorf("stats.NetRevenue: %w", err)
	}
	return net, nil
}

// CategoryBreakdown agrupa el ingreso neto por categoría del servicio.
func (r *StatsRepo) CategoryBreakdown(ctx context.Context, tenantID string, f repository.RevenueFilter) ([]repository.CategoryRevenue, error) {
	cond, args := filterSQL(f, []any{tenantID})
	query := `
	SELECT
	    cs.category,
	    COALESCE(SUM(COALESCE(sp.amount, 0) - sp.refunded_amount), 0) AS net_revenue,
	    COUNT(*)                                                      AS payment_count
	FROM service_payments sp
	JOIN client_services cs ON cs.id = sp.client_service_id
	WHERE sp.tenant_id = $1 AND sp.status = 'PAID'` + cond + `
	GROUP BY cs.category
	ORDER BY net_revenue DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("stats.CategoryBreakdown: %w", err)
	}
	defer rows.Close()

	var out []repository.CategoryRevenue
	for rows.Next() {
		var row repository.CategoryRevenue
		if err := rows.Scan(&row.Category, &row.NetRevenue, &row.PaymentCount); err != nil {
			return nil, fmt.Errorf("stats.CategoryBreakdown scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ClientRanking devuelve los `limit` clientes con mayor ingreso neto acumulado.
func (r *StatsRepo) ClientRanking(ctx context.Context, tenantID string, f repository.RevenueFilter, limit int) ([]repository.ClientRevenue, error) {
	cond, args := filterSQL(f, []any{tenantID})
	args = append(args, limit)
	query := fmt.Sprintf(`
	SELECT
	    c.id,
	    c.full_name,
	    COALESCE(SUM(COALESCE(sp.amount, 0) - sp.refunded_amount), 0) AS net_revenue,
	    COUNT(*)                                                      AS payment_count
	FROM service_payments sp
	JOIN client_services cs ON cs.id = sp.client_service_id
	JOIN clients c          ON c.id  = cs.client_id
	WHERE sp.tenant_id = $1 AND sp.status = 'PAID'%s
	GROUP BY c.id, c.full_name
	ORDER BY net_revenue DESC
	LIMIT $%d`, cond, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("stats.ClientRanking: %w", err)
	}
	defer rows.Close()

	var out []repository.ClientRevenue
	for rows.Next() {
		var row repository.ClientRevenue
		if err := rows.Scan(&row.ClientID, &row.ClientName, &row.NetRevenue, &row.PaymentCount); err != nil {
			return nil, fmt.Errorf("stats.ClientRanking scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// MonthlyTrend devuelve el ingreso neto mes a mes del año dado.
// Solo devuelve los meses con pagos; el caso de uso rellena el resto.
func (r *StatsRepo) MonthlyTrend(ctx context.Context, tenantID string, f repository.RevenueFilter, year int) ([]repository.MonthlyRevenue, error) {
	cond, args := filterSQL(f, []any{tenantID})
	args = append(args, year)
	query := fmt.Sprintf(`
	SELECT
	    EXTRACT(MONTH FROM sp.payment_date)::INT                       AS month,
	    COALESCE(SUM(COALESCE(sp.amount, 0) - sp.refunded_amount), 0)  AS net_revenue,
	    COUNT(*)                                                       AS payment_count
	FROM service_payments sp
	JOIN client_services cs ON cs.id = sp.client_service_id
	WHERE sp.tenant_id = $1 AND sp.status = 'PAID'
	  AND sp.payment_date IS NOT NULL%s
	  AND EXTRACT(YEAR FROM sp.payment_date) = $%d
	GROUP BY month
	ORDER BY month`, cond, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("stats.MonthlyTrend: %w", err)
	}
	defer rows.Close()

	var out []repository.MonthlyRevenue
	for rows.Next() {
		var row repository.MonthlyRevenue
		if err := rows.Scan(&row.Month, &row.NetRevenue, &row.PaymentCount); err != nil {
			return nil, fmt.Errorf("stats.MonthlyTrend scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// PaymentStats devuelve el resumen bruto/neto de pagos del ámbito.
func (r *StatsRepo) PaymentStats(ctx context.Context, tenantID string, f repository.RevenueFilter) (repository.PaymentStats, error) {
	cond, args := filterSQL(f, []any{tenantID})
	query := `
	SELECT
	    COALESCE(SUM(sp.amount), 0)                                   AS gross_revenue,
	    COALESCE(SUM(sp.refunded_amount), 0)                          AS total_refunded,
	    COALESCE(SUM(COALESCE(sp.amount, 0) - sp.refunded_amount), 0) AS net_revenue,
	    COUNT(*)                                                      AS payment_count,
	    COALESCE(AVG(sp.amount), 0)                                   AS avg_payment
	FROM service_payments sp
	JOIN client_services cs ON cs.id = sp.client_service_id
	WHERE sp.tenant_id = $1 AND sp.status IN ('PAID', 'REFUNDED')` + cond

	var s repository.PaymentStats
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&s.GrossRevenue, &s.TotalRefunded, &s.NetRevenue, &s.PaymentCount, &s.AvgPayment,
	)
	if err != nil {
		return repository.PaymentStats{}, fmt.Errorf("stats.PaymentStats: %w", err)
	}
	return s, nil
}

// RemanenteTotals suma el campo remanente de los períodos PAID/REFUNDED del
// ámbito (solo los servicios BLACK lo tienen).
func (r *StatsRepo) RemanenteTotals(ctx context.Context, tenantID string, f repository.RevenueFilter) (decimal.Decimal, error) {
	cond, args := filterSQL(f, []any{tenantID})
	query := `
	SELECT COALESCE(SUM(sp.remanente), 0)
	FROM service_payments sp
	JOIN client_services cs ON cs.id = sp.client_service_id
	WHERE sp.tenant_id = $1 AND sp.status IN ('PAID', 'REFUNDED')
	  AND sp.remanente IS NOT NULL` + cond

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("stats.RemanenteTotals: %w", err)
	}
	return total, nil
}
