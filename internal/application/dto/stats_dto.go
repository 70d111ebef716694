package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicios-api/internal/domain/repository"
)

// StatsQueryRequest filtros comunes de las consultas de ingresos.
// line_id acota al subárbol de esa línea; fechas en YYYY-MM-DD.
type StatsQueryRequest struct {
	LineID   string `query:"line_id"`
	Category string `query:"category"`
	From     string `query:"from"`
	To       string `query:"to"`
}

// NetRevenueResponse ingreso neto del ámbito pedido.
type NetRevenueResponse struct {
	NetRevenue decimal.Decimal `json:"net_revenue"`
}

// CategoryRevenueResponse ingreso neto por categoría.
type CategoryRevenueResponse struct {
	Category     string          `json:"category"`
	NetRevenue   decimal.Decimal `json:"net_revenue"`
	PaymentCount int             `json:"payment_count"`
}

// RevenueSummaryResponse resumen combinado de ingresos.
type RevenueSummaryResponse struct {
	GrossRevenue  decimal.Decimal           `json:"gross_revenue"`
	TotalRefunded decimal.Decimal           `json:"total_refunded"`
	NetRevenue    decimal.Decimal           `json:"net_revenue"`
	PaymentCount  int                       `json:"payment_count"`
	AvgPayment    decimal.Decimal           `json:"avg_payment"`
	ByCategory    []CategoryRevenueResponse `json:"by_category"`
	Remanentes    decimal.Decimal           `json:"remanentes"`
}

// ClientRevenueResponse posición del ranking de clientes.
type ClientRevenueResponse struct {
	ClientID     string          `json:"client_id"`
	ClientName   string          `json:"client_name"`
	NetRevenue   decimal.Decimal `json:"net_revenue"`
	PaymentCount int             `json:"payment_count"`
}

// ClientRankingResponse ranking de clientes por ingreso neto.
type ClientRankingResponse struct {
	Items []ClientRevenueResponse `json:"items"`
}

// MonthlyRevenueResponse ingreso neto de un mes.
type MonthlyRevenueResponse struct {
	Month        int             `json:"month"`
	NetRevenue   decimal.Decimal `json:"net_revenue"`
	PaymentCount int             `json:"payment_count"`
}

// MonthlyTrendResponse serie mensual de un año (12 meses, con ceros).
type MonthlyTrendResponse struct {
	Year  int                      `json:"year"`
	Items []MonthlyRevenueResponse `json:"items"`
}

// NewClientRankingResponse mapea el ranking a su respuesta HTTP.
func NewClientRankingResponse(items []repository.ClientRevenue) ClientRankingResponse {
	out := ClientRankingResponse{Items: make([]ClientRevenueResponse, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, ClientRevenueResponse{
			ClientID:     it.ClientID,
			ClientName:   it.ClientName,
			NetRevenue:   it.NetRevenue,
			PaymentCount: it.PaymentCount,
		})
	}
	return out
}

// NewMonthlyTrendResponse mapea la serie mensual a su respuesta HTTP.
func NewMonthlyTrendResponse(year int, items []repository.MonthlyRevenue) MonthlyTrendResponse {
	out := MonthlyTrendResponse{Year: year, Items: make([]MonthlyRevenueResponse, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, MonthlyRevenueResponse{
			Month:        it.Month,
			NetRevenue:   it.NetRevenue,
			PaymentCount: it.PaymentCount,
		})
	}
	return out
}
