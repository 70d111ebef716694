package periods

import (
	"context"

	"github.com/jhoicas/servicios-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la escritura del período y
// la resincronización del end_date del servicio sean atómicas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		serviceRepo repository.ClientServiceRepository,
		paymentRepo repository.ServicePaymentRepository,
	) error) error
}
