// Package testutil contiene dobles en memoria de los puertos de
// persistencia para los tests de casos de uso. Los fakes respetan el
// contrato documentado de cada puerto (orden por period_start, filtrado
// por tenant, copias defensivas) pero no simulan aislamiento
// transaccional: los TxRunner de prueba ejecutan el callback en línea.
package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/servicios-api/internal/domain/entity"
	"github.com/jhoicas/servicios-api/internal/domain/repository"
)

// EngineTx satisface el TxRunner del motor de períodos ejecutando el
// callback directamente con los fakes dados.
type EngineTx struct {
	Services repository.ClientServiceRepository
	Payments repository.ServicePaymentRepository
}

func (t EngineTx) Run(ctx context.Context, fn func(
	serviceRepo repository.ClientServiceRepository,
	paymentRepo repository.ServicePaymentRepository,
) error) error {
	return fn(t.Services, t.Payments)
}

// CascadeTx satisface el TxRunner de la cascada de activación.
type CascadeTx struct {
	Clients  repository.ClientRepository
	Services repository.ClientServiceRepository
	Payments repository.ServicePaymentRepository
}

func (t CascadeTx) Run(ctx context.Context, fn func(
	clientRepo repository.ClientRepository,
	serviceRepo repository.ClientServiceRepository,
	paymentRepo repository.ServicePaymentRepository,
) error) error {
	return fn(t.Clients, t.Services, t.Payments)
}

// NoopRefresher descarta las peticiones de recálculo de líneas pero
// registra los IDs recibidos.
type NoopRefresher struct {
	Refreshed []string
}

func (r *NoopRefresher) RefreshLineStatus(ctx context.Context, tenantID, lineID string) error {
	r.Refreshed = append(r.Refreshed, lineID)
	return nil
}

// ---------------------------------------------------------------------------

// ClientRepo fake en memoria de repository.ClientRepository.
type ClientRepo struct {
	Items map[string]*entity.Client
}

func NewClientRepo() *ClientRepo {
	return &ClientRepo{Items: make(map[string]*entity.Client)}
}

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	cp := *c
	r.Items[c.ID] = &cp
	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Client, error) {
	c, ok := r.Items[id]
	if !ok || c.TenantID != tenantID || c.DeletedAt != nil {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *ClientRepo) GetByDNI(ctx context.Context, tenantID, dni string) (*entity.Client, error) {
	for _, c := range r.Items {
		if c.TenantID == tenantID && c.DNI == dni && c.DeletedAt == nil {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ClientRepo) List(ctx context.Context, tenantID string, onlyActive bool, limit, offset int) ([]*entity.Client, error) {
	var out []*entity.Client
	for _, c := range r.Items {
		if c.TenantID != tenantID || c.DeletedAt != nil {
			continue
		}
		if onlyActive && !c.IsActive {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	cp := *c
	r.Items[c.ID] = &cp
	return nil
}

func (r *ClientRepo) SetActive(ctx context.Context, tenantID, id string, active bool, now time.Time) error {
	if c, ok := r.Items[id]; ok && c.TenantID == tenantID {
		c.IsActive = active
		c.UpdatedAt = now
	}
	return nil
}

func (r *ClientRepo) SoftDelete(ctx context.Context, tenantID, id string, now time.Time) error {
	if c, ok := r.Items[id]; ok && c.TenantID == tenantID {
		c.DeletedAt = &now
		c.UpdatedAt = now
	}
	return nil
}

// ---------------------------------------------------------------------------

// ServiceRepo fake en memoria de repository.ClientServiceRepository.
// GetForUpdate equivale a GetByID: aquí no hay concurrencia que serializar.
type ServiceRepo struct {
	Items map[string]*entity.ClientService
}

func NewServiceRepo() *ServiceRepo {
	return &ServiceRepo{Items: make(map[string]*entity.ClientService)}
}

func (r *ServiceRepo) Create(ctx context.Context, s *entity.ClientService) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	cp := *s
	r.Items[s.ID] = &cp
	return nil
}

func (r *ServiceRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.ClientService, error) {
	s, ok := r.Items[id]
	if !ok || s.TenantID != tenantID {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *ServiceRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.ClientService, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r *ServiceRepo) ListByClient(ctx context.Context, tenantID, clientID string, onlyActive bool) ([]*entity.ClientService, error) {
	var out []*entity.ClientService
	for _, s := range r.Items {
		if s.TenantID != tenantID || s.ClientID != clientID {
			continue
		}
		if onlyActive && !s.IsActive {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ServiceRepo) Update(ctx context.Context, s *entity.ClientService) error {
	cp := *s
	r.Items[s.ID] = &cp
	return nil
}

func (r *ServiceRepo) UpdateEndDate(ctx context.Context, tenantID, id string, endDate *time.Time, now time.Time) error {
	if s, ok := r.Items[id]; ok && s.TenantID == tenantID {
		if endDate != nil {
			d := *endDate
			s.EndDate = &d
		} else {
			s.EndDate = nil
		}
		s.UpdatedAt = now
	}
	return nil
}

func (r *ServiceRepo) SetActive(ctx context.Context, tenantID, id string, active bool, now time.Time) error {
	if s, ok := r.Items[id]; ok && s.TenantID == tenantID {
		s.IsActive = active
		s.UpdatedAt = now
	}
	return nil
}

func (r *ServiceRepo) HasActiveByLine(ctx context.Context, tenantID, lineID string) (bool, error) {
	for _, s := range r.Items {
		if s.TenantID == tenantID && s.BusinessLineID == lineID && s.IsActive {
			return true, nil
		}
	}
	return false, nil
}

// ---------------------------------------------------------------------------

// PaymentRepo fake en memoria de repository.ServicePaymentRepository.
type PaymentRepo struct {
	Items map[string]*entity.ServicePayment
}

func NewPaymentRepo() *PaymentRepo {
	return &PaymentRepo{Items: make(map[string]*entity.ServicePayment)}
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.ServicePayment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := *p
	r.Items[p.ID] = &cp
	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.ServicePayment, error) {
	p, ok := r.Items[id]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *PaymentRepo) Update(ctx context.Context, p *entity.ServicePayment) error {
	cp := *p
	r.Items[p.ID] = &cp
	return nil
}

func (r *PaymentRepo) ListByService(ctx context.Context, tenantID, serviceID string) ([]*entity.ServicePayment, error) {
	return r.list(tenantID, serviceID, nil), nil
}

func (r *PaymentRepo) ListByStatus(ctx context.Context, tenantID, serviceID string, statuses ...string) ([]*entity.ServicePayment, error) {
	return r.list(tenantID, serviceID, statuses), nil
}

func (r *PaymentRepo) HasOverlap(ctx context.Context, tenantID, serviceID string, start, end time.Time, excludeID string) (bool, error) {
	for _, p := range r.Items {
		if p.TenantID != tenantID || p.ClientServiceID != serviceID || p.ID == excludeID {
			continue
		}
		if p.Status == entity.StatusCancelled {
			continue
		}
		if p.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *PaymentRepo) MaxActivePeriodEnd(ctx context.Context, tenantID, serviceID string) (*time.Time, error) {
	var max *time.Time
	for _, p := range r.Items {
		if p.TenantID != tenantID || p.ClientServiceID != serviceID {
			continue
		}
		switch p.Status {
		case entity.StatusAwaitingStart, entity.StatusUnpaidActive, entity.StatusPaid:
			if max == nil || p.PeriodEnd.After(*max) {
				end := p.PeriodEnd
				max = &end
			}
		}
	}
	return max, nil
}

func (r *PaymentRepo) LastPaid(ctx context.Context, tenantID, serviceID string) (*entity.ServicePayment, error) {
	var last *entity.ServicePayment
	for _, p := range r.Items {
		if p.TenantID != tenantID || p.ClientServiceID != serviceID {
			continue
		}
		if p.Status != entity.StatusPaid || p.PaymentDate == nil {
			continue
		}
		if last == nil || p.PaymentDate.After(*last.PaymentDate) {
			cp := *p
			last = &cp
		}
	}
	return last, nil
}

func (r *PaymentRepo) LastPaidPeriodEnd(ctx context.Context, tenantID, serviceID string) (*time.Time, error) {
	var max *time.Time
	for _, p := range r.Items {
		if p.TenantID != tenantID || p.ClientServiceID != serviceID || p.Status != entity.StatusPaid {
			continue
		}
		if max == nil || p.PeriodEnd.After(*max) {
			end := p.PeriodEnd
			max = &end
		}
	}
	return max, nil
}

func (r *PaymentRepo) DeletePendingFrom(ctx context.Context, tenantID, serviceID string, from time.Time) (int, error) {
	deleted := 0
	for id, p := range r.Items {
		if p.TenantID != tenantID || p.ClientServiceID != serviceID {
			continue
		}
		switch p.Status {
		case entity.StatusAwaitingStart, entity.StatusUnpaidActive, entity.StatusOverdue:
			if !p.PeriodStart.Before(from) {
				delete(r.Items, id)
				deleted++
			}
		}
	}
	return deleted, nil
}

func (r *PaymentRepo) list(tenantID, serviceID string, statuses []string) []*entity.ServicePayment {
	var out []*entity.ServicePayment
	for _, p := range r.Items {
		if p.TenantID != tenantID || p.ClientServiceID != serviceID {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, s := range statuses {
				if p.Status == s {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodStart.Before(out[j].PeriodStart) })
	return out
}

// ---------------------------------------------------------------------------

// LineRepo fake en memoria de repository.BusinessLineRepository.
type LineRepo struct {
	Items map[string]*entity.BusinessLine
}

func NewLineRepo() *LineRepo {
	return &LineRepo{Items: make(map[string]*entity.BusinessLine)}
}

func (r *LineRepo) Create(ctx context.Context, l *entity.BusinessLine) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	cp := *l
	r.Items[l.ID] = &cp
	return nil
}

func (r *LineRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.BusinessLine, error) {
	l, ok := r.Items[id]
	if !ok || l.TenantID != tenantID {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *LineRepo) GetBySlug(ctx context.Context, tenantID string, parentID *string, slug string) (*entity.BusinessLine, error) {
	for _, l := range r.Items {
		if l.TenantID == tenantID && l.Slug == slug && sameParent(l.ParentID, parentID) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *LineRepo) ChildrenOf(ctx context.Context, tenantID string, parentID *string) ([]*entity.BusinessLine, error) {
	var out []*entity.BusinessLine
	for _, l := range r.Items {
		if l.TenantID == tenantID && sameParent(l.ParentID, parentID) {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *LineRepo) SlugExists(ctx context.Context, tenantID string, parentID *string, slug string) (bool, error) {
	l, err := r.GetBySlug(ctx, tenantID, parentID, slug)
	return l != nil, err
}

func (r *LineRepo) NameExists(ctx context.Context, tenantID string, parentID *string, name string) (bool, error) {
	for _, l := range r.Items {
		if l.TenantID == tenantID && l.Name == name && sameParent(l.ParentID, parentID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *LineRepo) Update(ctx context.Context, l *entity.BusinessLine) error {
	cp := *l
	r.Items[l.ID] = &cp
	return nil
}

func (r *LineRepo) SetActive(ctx context.Context, tenantID, id string, active bool) error {
	if l, ok := r.Items[id]; ok && l.TenantID == tenantID {
		l.IsActive = active
	}
	return nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ---------------------------------------------------------------------------

// RemanenteRepo fake en memoria de repository.RemanenteRepository.
type RemanenteRepo struct {
	Types   map[string]*entity.RemanenteType
	Configs map[string]*entity.BusinessLineRemanenteConfig // clave lineID|typeID
}

func NewRemanenteRepo() *RemanenteRepo {
	return &RemanenteRepo{
		Types:   make(map[string]*entity.RemanenteType),
		Configs: make(map[string]*entity.BusinessLineRemanenteConfig),
	}
}

func (r *RemanenteRepo) CreateType(ctx context.Context, t *entity.RemanenteType) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	cp := *t
	r.Types[t.ID] = &cp
	return nil
}

func (r *RemanenteRepo) GetType(ctx context.Context, tenantID, id string) (*entity.RemanenteType, error) {
	t, ok := r.Types[id]
	if !ok || t.TenantID != tenantID {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *RemanenteRepo) ListTypes(ctx context.Context, tenantID string, onlyActive bool) ([]*entity.RemanenteType, error) {
	var out []*entity.RemanenteType
	for _, t := range r.Types {
		if t.TenantID != tenantID {
			continue
		}
		if onlyActive && !t.IsActive {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *RemanenteRepo) UpsertConfig(ctx context.Context, cfg *entity.BusinessLineRemanenteConfig) error {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	cp := *cfg
	r.Configs[cfg.BusinessLineID+"|"+cfg.RemanenteTypeID] = &cp
	return nil
}

func (r *RemanenteRepo) GetConfig(ctx context.Context, tenantID, businessLineID, remanenteTypeID string) (*entity.BusinessLineRemanenteConfig, error) {
	cfg, ok := r.Configs[businessLineID+"|"+remanenteTypeID]
	if !ok || cfg.TenantID != tenantID {
		return nil, nil
	}
	cp := *cfg
	return &cp, nil
}

func (r *RemanenteRepo) ListConfigsByLine(ctx context.Context, tenantID, businessLineID string) ([]*entity.BusinessLineRemanenteConfig, error) {
	var out []*entity.BusinessLineRemanenteConfig
	for _, cfg := range r.Configs {
		if cfg.TenantID == tenantID && cfg.BusinessLineID == businessLineID {
			cp := *cfg
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RemanenteTypeID < out[j].RemanenteTypeID })
	return out, nil
}
