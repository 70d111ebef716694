package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicios-api/internal/domain/entity"
)

// CreatePeriodRequest crea un período sin pago. Fechas en YYYY-MM-DD.
type CreatePeriodRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Notes     string `json:"notes"`
}

// ExtendServiceRequest extiende el servicio con un período nuevo sin pago:
// o bien Months (aritmética de calendario desde el fin actual), o bien
// TargetDate (YYYY-MM-DD) como fin exacto del período.
type ExtendServiceRequest struct {
	Months     int    `json:"months"`
	TargetDate string `json:"target_date"`
	Notes      string `json:"notes"`
}

// PeriodResponse salida de un período de facturación con su pago opcional.
type PeriodResponse struct {
	ID              string           `json:"id"`
	ClientServiceID string           `json:"client_service_id"`
	PeriodStart     time.Time        `json:"period_start"`
	PeriodEnd       time.Time        `json:"period_end"`
	Amount          *decimal.Decimal `json:"amount"`
	PaymentDate     *time.Time       `json:"payment_date"`
	PaymentMethod   *string          `json:"payment_method"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
	Status          string           `json:"status"`
	RefundedAmount  decimal.Decimal  `json:"refunded_amount"`
	NetAmount       *decimal.Decimal `json:"net_amount"`
	Remanente       *decimal.Decimal `json:"remanente"`
	WasPaidOnTime   *bool            `json:"was_paid_on_time"`
	Notes           string           `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// PeriodListResponse períodos de un servicio.
type PeriodListResponse struct {
	Items []PeriodResponse `json:"items"`
}

// NewPeriodResponse mapea la entidad a su respuesta HTTP.
func NewPeriodResponse(p *entity.ServicePayment) PeriodResponse {
	return PeriodResponse{
		ID:              p.ID,
		ClientServiceID: p.ClientServiceID,
		PeriodStart:     p.PeriodStart,
		PeriodEnd:       p.PeriodEnd,
		Amount:          p.Amount,
		PaymentDate:     p.PaymentDate,
		PaymentMethod:   p.PaymentMethod,
		ReferenceNumber: p.ReferenceNumber,
		Status:          p.Status,
		RefundedAmount:  p.RefundedAmount,
		NetAmount:       p.NetAmount(),
		Remanente:       p.Remanente,
		WasPaidOnTime:   p.WasPaidOnTime,
		Notes:           p.Notes,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// NewPeriodListResponse mapea una lista de períodos.
func NewPeriodListResponse(items []*entity.ServicePayment) PeriodListResponse {
	out := PeriodListResponse{Items: make([]PeriodResponse, 0, len(items))}
	for _, p := range items {
		out.Items = append(out.Items, NewPeriodResponse(p))
	}
	return out
}
