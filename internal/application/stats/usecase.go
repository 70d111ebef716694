package stats

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicios-api/internal/domain/repository"
)

// ScopeExpander traduce un nodo del catálogo en el conjunto de IDs de su
// subárbol. Lo implementa el caso de uso de catálogo.
type ScopeExpander interface {
	DescendantIDs(ctx context.Context, tenantID, lineID string) ([]string, error)
}

// StatsUseCase expone las agregaciones de ingresos del libro de períodos.
// Todas las cifras son netas: amount - refunded_amount sobre períodos
// pagados. Cuando se pide un ámbito por línea de negocio, el filtro se
// expande al subárbol completo antes de consultar.
type StatsUseCase struct {
	statsRepo repository.StatsRepository
	scope     ScopeExpander
}

// NewStatsUseCase construye el caso de uso.
func NewStatsUseCase(statsRepo repository.StatsRepository, scope ScopeExpander) *StatsUseCase {
	return &StatsUseCase{statsRepo: statsRepo, scope: scope}
}

// Query parámetros de entrada de las agregaciones. LineID opcional limita
// al subárbol de esa línea; Category opcional ("WHITE"/"BLACK"); From/To
// acotan por fecha de pago.
type Query struct {
	LineID   *string
	Category *string
	From     *time.Time
	To       *time.Time
}

// RevenueSummary resumen combinado de ingresos del ámbito pedido.
type RevenueSummary struct {
	Stats      repository.PaymentStats
	ByCategory []repository.CategoryRevenue
	Remanentes decimal.Decimal
}

func (uc *StatsUseCase) buildFilter(ctx context.Context, tenantID string, q Query) (repository.RevenueFilter, error) {
	f := repository.RevenueFilter{Category: q.Category, From: q.From, To: q.To}
	if q.LineID != nil {
		ids, err := uc.scope.DescendantIDs(ctx, tenantID, *q.LineID)
		if err != nil {
			return f, err
		}
		f.LineIDs = ids
	}
	return f, nil
}

// NetRevenue ingreso neto total del ámbito.
func (uc *StatsUseCase) NetRevenue(ctx context.Context, tenantID string, q Query) (decimal.Decimal, error) {
	f, err := uc.buildFilter(ctx, tenantID, q)
	if err != nil {
		return decimal.Zero, err
	}
	return uc.statsRepo.NetRevenue(ctx, tenantID, f)
}

// Summary resumen de pagos, desglose por categoría y total de remanentes.
func (uc *StatsUseCase) Summary(ctx context.Context, tenantID string, q Query) (*RevenueSummary, error) {
	f, err := uc.buildFilter(ctx, tenantID, q)
	if err != nil {
		return nil, err
	}
	stats, err := uc.statsRepo.PaymentStats(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	byCat, err := uc.statsRepo.CategoryBreakdown(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	rem, err := uc.statsRepo.RemanenteTotals(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	return &RevenueSummary{Stats: stats, ByCategory: byCat, Remanentes: rem}, nil
}

// ClientRanking top de clientes por ingreso neto acumulado.
func (uc *StatsUseCase) ClientRanking(ctx context.Context, tenantID string, q Query, limit int) ([]repository.ClientRevenue, error) {
	if limit <= 0 {
		limit = 10
	}
	f, err := uc.buildFilter(ctx, tenantID, q)
	if err != nil {
		return nil, err
	}
	return uc.statsRepo.ClientRanking(ctx, tenantID, f, limit)
}

// MonthlyTrend ingreso neto mes a mes del año pedido. Los meses sin pagos
// se rellenan a cero para devolver siempre doce entradas.
func (uc *StatsUseCase) MonthlyTrend(ctx context.Context, tenantID string, q Query, year int) ([]repository.MonthlyRevenue, error) {
	f, err := uc.buildFilter(ctx, tenantID, q)
	if err != nil {
		return nil, err
	}
	rows, err := uc.statsRepo.MonthlyTrend(ctx, tenantID, f, year)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[int]repository.MonthlyRevenue, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r
	}
	out := make([]repository.MonthlyRevenue, 0, 12)
	for m := 1; m <= 12; m++ {
		if r, ok := byMonth[m]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, repository.MonthlyRevenue{Month: m, NetRevenue: decimal.Zero})
	}
	return out, nil
}
