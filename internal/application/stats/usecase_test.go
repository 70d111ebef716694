package stats_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/servicios-api/internal/application/stats"
	"github.com/jhoicas/servicios-api/internal/domain/repository"
)

const tenant = "tenant-1"

// stubStats registra el filtro recibido y devuelve respuestas fijas.
type stubStats struct {
	lastFilter repository.RevenueFilter
	monthly    []repository.MonthlyRevenue
}

func (s *stubStats) NetRevenue(ctx context.Context, tenantID string, f repository.RevenueFilter) (decimal.Decimal, error) {
	s.lastFilter = f
	return decimal.NewFromInt(500), nil
}

func (s *stubStats) CategoryBreakdown(ctx context.Context, tenantID string, f repository.RevenueFilter) ([]repository.CategoryRevenue, error) {
	s.lastFilter = f
	return []repository.CategoryRevenue{
		{Category: "WHITE", NetRevenue: decimal.NewFromInt(300), PaymentCount: 3},
		{Category: "BLACK", NetRevenue: decimal.NewFromInt(200), PaymentCount: 2},
	}, nil
}

func (s *stubStats) ClientRanking(ctx context.Context, tenantID string, f repository.RevenueFilter, limit int) ([]repository.ClientRevenue, error) {
	s.lastFilter = f
	out := []repository.ClientRevenue{
		{ClientID: "c1", ClientName: "Ana", NetRevenue: decimal.NewFromInt(400)},
		{ClientID: "c2", ClientName: "Luis", NetRevenue: decimal.NewFromInt(100)},
	}
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubStats) MonthlyTrend(ctx context.Context, tenantID string, f repository.RevenueFilter, year int) ([]repository.MonthlyRevenue, error) {
	s.lastFilter = f
	return s.monthly, nil
}

func (s *stubStats) PaymentStats(ctx context.Context, tenantID string, f repository.RevenueFilter) (repository.PaymentStats, error) {
	s.lastFilter = f
	return repository.PaymentStats{
		GrossRevenue:  decimal.NewFromInt(550),
		TotalRefunded: decimal.NewFromInt(50),
		NetRevenue:    decimal.NewFromInt(500),
		PaymentCount:  5,
		AvgPayment:    decimal.NewFromInt(110),
	}, nil
}

func (s *stubStats) RemanenteTotals(ctx context.Context, tenantID string, f repository.RevenueFilter) (decimal.Decimal, error) {
	s.lastFilter = f
	return decimal.NewFromInt(75), nil
}

// stubScope expande cualquier línea a un subárbol fijo.
type stubScope struct {
	subtree map[string][]string
}

func (s *stubScope) DescendantIDs(ctx context.Context, tenantID, lineID string) ([]string, error) {
	return s.subtree[lineID], nil
}

func newFixture() (*stats.StatsUseCase, *stubStats) {
	repo := &stubStats{}
	scope := &stubScope{subtree: map[string][]string{
		"root": {"root", "child-a", "child-b"},
	}}
	return stats.NewStatsUseCase(repo, scope), repo
}

func TestNetRevenue_ExpandeElSubarbol(t *testing.T) {
	uc, repo := newFixture()
	root := "root"

	total, err := uc.NetRevenue(context.Background(), tenant, stats.Query{LineID: &root})
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(500)))
	// El filtro llega con el subárbol completo, incluido el propio nodo.
	assert.Equal(t, []string{"root", "child-a", "child-b"}, repo.lastFilter.LineIDs)
}

func TestNetRevenue_SinLineaNoAcota(t *testing.T) {
	uc, repo := newFixture()
	_, err := uc.NetRevenue(context.Background(), tenant, stats.Query{})
	require.NoError(t, err)
	assert.Nil(t, repo.lastFilter.LineIDs)
}

func TestSummary(t *testing.T) {
	uc, _ := newFixture()
	summary, err := uc.Summary(context.Background(), tenant, stats.Query{})
	require.NoError(t, err)

	assert.True(t, summary.Stats.NetRevenue.Equal(decimal.NewFromInt(500)))
	assert.Len(t, summary.ByCategory, 2)
	// Los remanentes se reportan aparte, nunca dentro del neto.
	assert.True(t, summary.Remanentes.Equal(decimal.NewFromInt(75)))
}

func TestClientRanking_LimitePorDefecto(t *testing.T) {
	uc, _ := newFixture()
	ranking, err := uc.ClientRanking(context.Background(), tenant, stats.Query{}, 0)
	require.NoError(t, err)
	assert.Len(t, ranking, 2)

	ranking, err = uc.ClientRanking(context.Background(), tenant, stats.Query{}, 1)
	require.NoError(t, err)
	require.Len(t, ranking, 1)
	assert.Equal(t, "c1", ranking[0].ClientID)
}

func TestMonthlyTrend_RellenaMesesVacios(t *testing.T) {
	uc, repo := newFixture()
	repo.monthly = []repository.MonthlyRevenue{
		{Month: 3, NetRevenue: decimal.NewFromInt(120), PaymentCount: 2},
		{Month: 11, NetRevenue: decimal.NewFromInt(80), PaymentCount: 1},
	}

	trend, err := uc.MonthlyTrend(context.Background(), tenant, stats.Query{}, 2024)
	require.NoError(t, err)
	require.Len(t, trend, 12)
	assert.True(t, trend[2].NetRevenue.Equal(decimal.NewFromInt(120)))
	assert.True(t, trend[10].NetRevenue.Equal(decimal.NewFromInt(80)))
	assert.True(t, trend[0].NetRevenue.IsZero())
	assert.Equal(t, 1, trend[0].Month)
	assert.Equal(t, 12, trend[11].Month)
}
