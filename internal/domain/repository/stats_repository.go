package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RevenueFilter acota las agregaciones de ingresos: subárbol de líneas de
// negocio (IDs ya expandidos por el catálogo), categoría opcional y rango
// de fechas de pago opcional.
type RevenueFilter struct {
	LineIDs  []string
	Category *string
	From     *time.Time
	To       *time.Time
}

// CategoryRevenue ingreso neto y conteo por categoría.
type CategoryRevenue struct {
	Category     string
	NetRevenue   decimal.Decimal
	PaymentCount int
}

// ClientRevenue ingreso neto acumulado por cliente (ranking).
type ClientRevenue struct {
	ClientID     string
	ClientName   string
	NetRevenue   decimal.Decimal
	PaymentCount int
}

// MonthlyRevenue ingreso neto de un mes concreto.
type MonthlyRevenue struct {
	Month        int
	NetRevenue   decimal.Decimal
	PaymentCount int
}

// PaymentStats resumen bruto/neto de pagos en el ámbito dado.
type PaymentStats struct {
	GrossRevenue  decimal.Decimal
	TotalRefunded decimal.Decimal
	NetRevenue    decimal.Decimal
	PaymentCount  int
	AvgPayment    decimal.Decimal
}

// StatsRepository consultas de solo lectura sobre el libro de períodos.
// Todas las cifras son netas (amount - refunded_amount) sobre períodos
// PAID, con los nulos tratados como cero; los remanentes se suman aparte
// y nunca se netean dentro del ingreso.
type StatsRepository interface {
	NetRevenue(ctx context.Context, tenantID string, f RevenueFilter) (decimal.Decimal, error)
	CategoryBreakdown(ctx context.Context, tenantID string, f RevenueFilter) ([]CategoryRevenue, error)
	ClientRanking(ctx context.Context, tenantID string, f RevenueFilter, limit int) ([]ClientRevenue, error)
	MonthlyTrend(ctx context.Context, tenantID string, f RevenueFilter, year int) ([]MonthlyRevenue, error)
	PaymentStats(ctx context.Context, tenantID string, f RevenueFilter) (PaymentStats, error)
	// RemanenteTotals suma el campo remanente de los períodos PAID/REFUNDED
	// del ámbito (solo servicios BLACK lo tienen).
	RemanenteTotals(ctx context.Context, tenantID string, f RevenueFilter) (decimal.Decimal, error)
}
