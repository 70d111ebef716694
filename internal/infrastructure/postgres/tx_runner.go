package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/servicios-api/internal/application/clientstate"
	"github.com/jhoicas/servicios-api/internal/application/periods"
	"github.com/jhoicas/servicios-api/internal/domain/repository"
)

var _ periods.TxRunner = (*TxRunner)(nil)
var _ clientstate.TxRunner = (*CascadeTxRunner)(nil)

// TxRunner ejecuta los callbacks del motor de períodos dentro de una
// transacción PostgreSQL: alta de período, pago, cancelación y reembolso
// mutan el período y resincronizan el end_date del servicio de forma atómica.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	serviceRepo repository.ClientServiceRepository,
	paymentRepo repository.ServicePaymentRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	serviceRepo := NewClientServiceRepository(tx)
	paymentRepo := NewServicePaymentRepository(tx)

	if err := fn(serviceRepo, paymentRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// CascadeTxRunner ejecuta la cascada de activación/desactivación de un
// cliente en una única transacción: la congelación de sus servicios es
// todo-o-nada.
type CascadeTxRunner struct {
	pool *pgxpool.Pool
}

// NewCascadeTxRunner construye el runner con el pool.
func NewCascadeTxRunner(pool *pgxpool.Pool) *CascadeTxRunner {
	return &CascadeTxRunner{pool: pool}
}

// Run inicia una transacción con los repos de la cascada atados a ella.
func (r *CascadeTxRunner) Run(ctx context.Context, fn func(
	clientRepo repository.ClientRepository,
	serviceRepo repository.ClientServiceRepository,
	paymentRepo repository.ServicePaymentRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	clientRepo := NewClientRepository(tx)
	serviceRepo := NewClientServiceRepository(tx)
	paymentRepo := NewServicePaymentRepository(tx)

	if err := fn(clientRepo, serviceRepo, paymentRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
