package remanentes

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicios-api/internal/application/periods"
	"github.com/jhoicas/servicios-api/internal/domain"
	"github.com/jhoicas/servicios-api/internal/domain/entity"
	"github.com/jhoicas/servicios-api/internal/domain/repository"
)

// RemanenteUseCase administra los tipos de remanente, su habilitación por
// línea de negocio y el registro del ajuste sobre los períodos del
// servicio, cualquiera que sea su estado.
// El remanente es un ajuste con signo que viaja junto al período pero
// nunca se netea dentro del ingreso: las agregaciones lo suman aparte.
type RemanenteUseCase struct {
	txRunner      periods.TxRunner
	remanenteRepo repository.RemanenteRepository
	serviceRepo   repository.ClientServiceRepository
	paymentRepo   repository.ServicePaymentRepository
}

// NewRemanenteUseCase construye el caso de uso.
func NewRemanenteUseCase(
	txRunner periods.TxRunner,
	remanenteRepo repository.RemanenteRepository,
	serviceRepo repository.ClientServiceRepository,
	paymentRepo repository.ServicePaymentRepository,
) *RemanenteUseCase {
	return &RemanenteUseCase{
		txRunner:      txRunner,
		remanenteRepo: remanenteRepo,
		serviceRepo:   serviceRepo,
		paymentRepo:   paymentRepo,
	}
}

// CreateTypeInput alta de un tipo de remanente.
type CreateTypeInput struct {
	Name          string
	Description   string
	DefaultAmount *decimal.Decimal
}

// CreateType registra un tipo de remanente. El monto por defecto, si se
// indica, no puede ser cero.
func (uc *RemanenteUseCase) CreateType(ctx context.Context, tenantID string, in CreateTypeInput) (*entity.RemanenteType, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.DefaultAmount != nil && in.DefaultAmount.IsZero() {
		return nil, domain.ErrZeroAdjustment
	}
	now := time.Now()
	t := &entity.RemanenteType{
		TenantID:      tenantID,
		Name:          in.Name,
		Description:   in.Description,
		DefaultAmount: in.DefaultAmount,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.remanenteRepo.CreateType(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTypes devuelve los tipos de remanente del tenant.
func (uc *RemanenteUseCase) ListTypes(ctx context.Context, tenantID string, onlyActive bool) ([]*entity.RemanenteType, error) {
	return uc.remanenteRepo.ListTypes(ctx, tenantID, onlyActive)
}

// ConfigureLineInput habilitación de un tipo para una línea de negocio.
type ConfigureLineInput struct {
	BusinessLineID  string
	RemanenteTypeID string
	IsEnabled       bool
	DefaultAmount   *decimal.Decimal
}

// ConfigureLine crea o actualiza la configuración (línea, tipo). El monto
// por defecto de la línea, si se indica, sobrescribe el del tipo y no
// puede ser cero.
func (uc *RemanenteUseCase) ConfigureLine(ctx context.Context, tenantID string, in ConfigureLineInput) (*entity.BusinessLineRemanenteConfig, error) {
	if in.BusinessLineID == "" || in.RemanenteTypeID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.DefaultAmount != nil && in.DefaultAmount.IsZero() {
		return nil, domain.ErrZeroAdjustment
	}
	t, err := uc.remanenteRepo.GetType(ctx, tenantID, in.RemanenteTypeID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	cfg := &entity.BusinessLineRemanenteConfig{
		TenantID:        tenantID,
		BusinessLineID:  in.BusinessLineID,
		RemanenteTypeID: in.RemanenteTypeID,
		IsEnabled:       in.IsEnabled,
		DefaultAmount:   in.DefaultAmount,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.remanenteRepo.UpsertConfig(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ListLineConfigs devuelve las configuraciones de una línea de negocio.
func (uc *RemanenteUseCase) ListLineConfigs(ctx context.Context, tenantID, businessLineID string) ([]*entity.BusinessLineRemanenteConfig, error) {
	return uc.remanenteRepo.ListConfigsByLine(ctx, tenantID, businessLineID)
}

// AttachAdjustment registra el remanente de un período. Solo lo admiten
// los servicios BLACK cuya línea de negocio tenga habilitado el tipo.
// amount nil toma el monto por defecto efectivo (línea o tipo); el ajuste
// nunca puede quedar en cero. Corre bajo el candado del servicio para que
// no compita con pagos, cancelaciones o reembolsos del mismo período.
func (uc *RemanenteUseCase) AttachAdjustment(ctx context.Context, tenantID, periodID, remanenteTypeID string, amount *decimal.Decimal) (*entity.ServicePayment, error) {
	if amount != nil && amount.IsZero() {
		return nil, domain.ErrZeroAdjustment
	}

	var updated *entity.ServicePayment
	err := uc.txRunner.Run(ctx, func(
		serviceRepo repository.ClientServiceRepository,
		paymentRepo repository.ServicePaymentRepository,
	) error {
		period, err := paymentRepo.GetByID(ctx, tenantID, periodID)
		if err != nil {
			return err
		}
		if period == nil {
			return domain.ErrNotFound
		}
		svc, err := serviceRepo.GetForUpdate(ctx, tenantID, period.ClientServiceID)
		if err != nil {
			return err
		}
		if svc == nil {
			return domain.ErrNotFound
		}
		if !svc.AllowsRemanentes() {
			return domain.ErrCategoryNotBlack
		}

		cfg, err := uc.remanenteRepo.GetConfig(ctx, tenantID, svc.BusinessLineID, remanenteTypeID)
		if err != nil {
			return err
		}
		if cfg == nil || !cfg.IsEnabled {
			return domain.ErrAdjustmentNotConfigured
		}

		adj := amount
		if adj == nil {
			t, err := uc.remanenteRepo.GetType(ctx, tenantID, remanenteTypeID)
			if err != nil {
				return err
			}
			adj = cfg.EffectiveDefault(t)
		}
		if adj == nil || adj.IsZero() {
			return domain.ErrZeroAdjustment
		}

		// Releer el período con el candado tomado antes de mutarlo.
		period, err = paymentRepo.GetByID(ctx, tenantID, periodID)
		if err != nil {
			return err
		}
		if period == nil {
			return domain.ErrNotFound
		}

		value := *adj
		period.Remanente = &value
		period.UpdatedAt = time.Now()
		if err := paymentRepo.Update(ctx, period); err != nil {
			return err
		}
		updated = period
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ClearAdjustment elimina el remanente del período.
func (uc *RemanenteUseCase) ClearAdjustment(ctx context.Context, tenantID, periodID string) (*entity.ServicePayment, error) {
	var updated *entity.ServicePayment
	err := uc.txRunner.Run(ctx, func(
		serviceRepo repository.ClientServiceRepository,
		paymentRepo repository.ServicePaymentRepository,
	) error {
		period, err := paymentRepo.GetByID(ctx, tenantID, periodID)
		if err != nil {
			return err
		}
		if period == nil {
			return domain.ErrNotFound
		}
		if _, err := serviceRepo.GetForUpdate(ctx, tenantID, period.ClientServiceID); err != nil {
			return err
		}

		period.Remanente = nil
		period.UpdatedAt = time.Now()
		if err := paymentRepo.Update(ctx, period); err != nil {
			return err
		}
		updated = period
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
