package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/servicios-api/internal/application/dto"
	"github.com/jhoicas/servicios-api/internal/application/stats"
)

// StatsHandler maneja las consultas de ingresos netos.
type StatsHandler struct {
	uc *stats.StatsUseCase
}

// NewStatsHandler construye el handler.
func NewStatsHandler(uc *stats.StatsUseCase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

// parseQuery lee los filtros comunes de la query string.
func (h *StatsHandler) parseQuery(c *fiber.Ctx) (stats.Query, error) {
	var in dto.StatsQueryRequest
	if err := c.QueryParser(&in); err != nil {
		return stats.Query{}, err
	}
	var q stats.Query
	if in.LineID != "" {
		q.LineID = &in.LineID
	}
	if in.Category != "" {
		q.Category = &in.Category
	}
	from, err := parseDate(in.From)
	if err != nil {
		return stats.Query{}, err
	}
	q.From = from
	to, err := parseDate(in.To)
	if err != nil {
		return stats.Query{}, err
	}
	q.To = to
	return q, nil
}

// NetRevenue ingreso neto del ámbito pedido.
// GET /api/stats/net-revenue?line_id=&category=&from=&to=
func (h *StatsHandler) NetRevenue(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	q, err := h.parseQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtros inválidos"})
	}
	net, err := h.uc.NetRevenue(c.Context(), tenantID, q)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NetRevenueResponse{NetRevenue: net})
}

// Summary resumen combinado: bruto/neto, por categoría y remanentes.
// GET /api/stats/summary?line_id=&category=&from=&to=
func (h *StatsHandler) Summary(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	q, err := h.parseQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtros inválidos"})
	}
	sum, err := h.uc.Summary(c.Context(), tenantID, q)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := dto.RevenueSummaryResponse{
		GrossRevenue:  sum.Stats.GrossRevenue,
		TotalRefunded: sum.Stats.TotalRefunded,
		NetRevenue:    sum.Stats.NetRevenue,
		PaymentCount:  sum.Stats.PaymentCount,
		AvgPayment:    sum.Stats.AvgPayment,
		ByCategory:    make([]dto.CategoryRevenueResponse, 0, len(sum.ByCategory)),
		Remanentes:    sum.Remanentes,
	}
	for _, cat := range sum.ByCategory {
		out.ByCategory = append(out.ByCategory, dto.CategoryRevenueResponse{
			Category:     cat.Category,
			NetRevenue:   cat.NetRevenue,
			PaymentCount: cat.PaymentCount,
		})
	}
	return c.JSON(out)
}

// ClientRanking ranking de clientes por ingreso neto.
// GET /api/stats/clients/top?limit=&line_id=&category=&from=&to=
func (h *StatsHandler) ClientRanking(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	q, err := h.parseQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtros inválidos"})
	}
	items, err := h.uc.ClientRanking(c.Context(), tenantID, q, c.QueryInt("limit", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewClientRankingResponse(items))
}

// MonthlyTrend serie mensual de ingreso neto de un año.
// GET /api/stats/monthly?year=&line_id=&category=
func (h *StatsHandler) MonthlyTrend(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	q, err := h.parseQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtros inválidos"})
	}
	year := c.QueryInt("year", time.Now().Year())
	items, err := h.uc.MonthlyTrend(c.Context(), tenantID, q, year)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewMonthlyTrendResponse(year, items))
}
