package dto

import (
	"github.com/shopspring/decimal"
)

// ProcessPaymentRequest pago sobre un período existente.
// PaymentDate en YYYY-MM-DD; vacía equivale a hoy.
type ProcessPaymentRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     string          `json:"payment_date"`
	PaymentMethod   string          `json:"payment_method" validate:"required,oneof=CARD CASH TRANSFER BIZUM"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
}

// PayAndExtendRequest crea y paga el siguiente período en una transacción.
type PayAndExtendRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"payment_method" validate:"required,oneof=CARD CASH TRANSFER BIZUM"`
	PaymentDate     string          `json:"payment_date"`
	ExtendMonths    int             `json:"extend_months"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
}

// CancelPeriodRequest cancelación de un período no pagado.
type CancelPeriodRequest struct {
	Reason string `json:"reason"`
}

// RefundRequest reembolso parcial o total de un período pagado.
// Amount nil reembolsa todo el neto restante.
type RefundRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Reason string           `json:"reason"`
}

// SuggestedAmountResponse monto prorrateado sugerido para un período.
type SuggestedAmountResponse struct {
	Amount decimal.Decimal `json:"amount"`
}

// PaymentTimingResponse cadencia de pagos de un servicio.
type PaymentTimingResponse struct {
	AvgDaysBetweenPayments *float64 `json:"avg_days_between_payments"`
	Frequency              string   `json:"frequency"`
	LastPaymentDaysAgo     *int     `json:"last_payment_days_ago"`
}
