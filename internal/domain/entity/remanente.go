package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RemanenteType tipo de remanente configurable (modelo flexible).
// DefaultAmount nunca puede ser cero: un remanente es siempre un ajuste
// con signo, positivo o negativo.
type RemanenteType struct {
	ID            string
	TenantID      string
	Name          string
	Description   string
	DefaultAmount *decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BusinessLineRemanenteConfig habilita un tipo de remanente para una línea
// de negocio concreta, con monto por defecto opcional que sobrescribe el
// del tipo.
type BusinessLineRemanenteConfig struct {
	ID              string
	TenantID        string
	BusinessLineID  string
	RemanenteTypeID string
	IsEnabled       bool
	DefaultAmount   *decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EffectiveDefault devuelve el monto por defecto aplicable: el de la
// configuración de línea si existe, si no el del tipo.
func (c *BusinessLineRemanenteConfig) EffectiveDefault(t *RemanenteType) *decimal.Decimal {
	if c.DefaultAmount != nil {
		return c.DefaultAmount
	}
	if t != nil {
		return t.DefaultAmount
	}
	return nil
}
