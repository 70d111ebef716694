package clientstate

import (
	"context"

	"github.com/jhoicas/servicios-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de la cascada de activación atados a esa tx. La congelación
// de servicios de un cliente es todo-o-nada: nunca debe quedar un conjunto
// parcialmente congelado.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		clientRepo repository.ClientRepository,
		serviceRepo repository.ClientServiceRepository,
		paymentRepo repository.ServicePaymentRepository,
	) error) error
}

// LineRefresher recalcula el estado activo de una línea de negocio y lo
// propaga hacia los ancestros. Lo implementa el caso de uso de catálogo;
// la cascada lo invoca explícitamente tras cada commit en lugar de
// depender de hooks implícitos.
type LineRefresher interface {
	RefreshLineStatus(ctx context.Context, tenantID, lineID string) error
}
