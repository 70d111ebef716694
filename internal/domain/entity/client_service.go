package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categoría de facturación del servicio. BLACK permite remanentes.
const (
	CategoryWhite = "WHITE"
	CategoryBlack = "BLACK"
)

// Estado administrativo del servicio, independiente del operacional.
const (
	AdminStatusEnabled   = "ENABLED"
	AdminStatusSuspended = "SUSPENDED"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCard     = "CARD"
	PaymentMethodCash     = "CASH"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodBizum    = "BIZUM"
)

// ClientService es la contratación de una línea de negocio por un cliente
// bajo una categoría. EndDate es un valor cacheado: siempre igual al mayor
// period_end entre sus períodos no cancelados, o nil si no hay ninguno;
// lo resincronizan los casos de uso mutadores dentro de su transacción.
type ClientService struct {
	ID             string
	TenantID       string
	ClientID       string
	BusinessLineID string
	Category       string
	Price          decimal.Decimal
	AdminStatus    string
	StartDate      *time.Time
	EndDate        *time.Time
	IsActive       bool
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidCategory informa si la categoría es una de las conocidas.
func ValidCategory(c string) bool {
	return c == CategoryWhite || c == CategoryBlack
}

// ValidPaymentMethod informa si el método de pago es uno de los conocidos.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCard, PaymentMethodCash, PaymentMethodTransfer, PaymentMethodBizum:
		return true
	}
	return false
}

// AllowsRemanentes informa si el servicio admite remanentes (solo BLACK).
func (s *ClientService) AllowsRemanentes() bool {
	return s.Category == CategoryBlack
}
