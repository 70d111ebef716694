package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/servicios-api/internal/domain"
	"github.com/jhoicas/servicios-api/internal/domain/entity"
	"github.com/jhoicas/servicios-api/internal/domain/repository"
)

// CatalogUseCase opera el árbol de líneas de negocio: resolución de rutas
// por slug, enumeración de descendientes y recálculo explícito del estado
// activo (de abajo hacia arriba). El recorrido del árbol es siempre
// iterativo con cola, nunca recursión sin cota: la profundidad máxima es 3
// pero el invariante no depende de ello.
type CatalogUseCase struct {
	lineRepo    repository.BusinessLineRepository
	serviceRepo repository.ClientServiceRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(lineRepo repository.BusinessLineRepository, serviceRepo repository.ClientServiceRepository) *CatalogUseCase {
	return &CatalogUseCase{lineRepo: lineRepo, serviceRepo: serviceRepo}
}

// GetLine obtiene un nodo por ID.
func (uc *CatalogUseCase) GetLine(ctx context.Context, tenantID, id string) (*entity.BusinessLine, error) {
	line, err := uc.lineRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNodeNotFound
	}
	return line, nil
}

// Children lista los hijos directos de un nodo; parentID nil lista las raíces.
func (uc *CatalogUseCase) Children(ctx context.Context, tenantID string, parentID *string) ([]*entity.BusinessLine, error) {
	return uc.lineRepo.ChildrenOf(ctx, tenantID, parentID)
}

// ResolvePath camina el árbol segmento a segmento por slug. Falla con
// ErrNodeNotFound en el primer segmento que no case.
func (uc *CatalogUseCase) ResolvePath(ctx context.Context, tenantID string, segments []string) (*entity.BusinessLine, error) {
	if len(segments) == 0 {
		return nil, domain.ErrNodeNotFound
	}
	var parentID *string
	var current *entity.BusinessLine
	for _, seg := range segments {
		line, err := uc.lineRepo.GetBySlug(ctx, tenantID, parentID, seg)
		if err != nil {
			return nil, err
		}
		if line == nil {
			return nil, domain.ErrNodeNotFound
		}
		current = line
		parentID = &line.ID
	}
	return current, nil
}

// DescendantIDs devuelve los IDs del subárbol del nodo, incluido él mismo,
// mediante recorrido en anchura.
func (uc *CatalogUseCase) DescendantIDs(ctx context.Context, tenantID, lineID string) ([]string, error) {
	root, err := uc.lineRepo.GetByID(ctx, tenantID, lineID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, domain.ErrNotFound
	}

	ids := []string{root.ID}
	queue := []string{root.ID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		children, err := uc.lineRepo.ChildrenOf(ctx, tenantID, &cur)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			ids = append(ids, child.ID)
			queue = append(queue, child.ID)
		}
	}
	return ids, nil
}

// RefreshLineStatus recalcula el estado activo del nodo — activo si tiene
// algún servicio activo directo o algún descendiente activo — y propaga el
// cambio hacia los ancestros. Es la operación explícita que los mutadores
// de servicios deben invocar; no hay hooks implícitos.
func (uc *CatalogUseCase) RefreshLineStatus(ctx context.Context, tenantID, lineID string) error {
	line, err := uc.lineRepo.GetByID(ctx, tenantID, lineID)
	if err != nil {
		return err
	}
	if line == nil {
		return domain.ErrNotFound
	}

	for line != nil {
		active, err := uc.subtreeHasActiveServices(ctx, tenantID, line.ID)
		if err != nil {
			return err
		}
		if line.IsActive != active {
			if err := uc.lineRepo.SetActive(ctx, tenantID, line.ID, active); err != nil {
				return err
			}
		}
		if line.ParentID == nil {
			break
		}
		line, err = uc.lineRepo.GetByID(ctx, tenantID, *line.ParentID)
		if err != nil {
			return err
		}
	}
	return nil
}

// CreateLineInput datos para dar de alta un nodo del catálogo.
type CreateLineInput struct {
	Name     string
	ParentID *string
	Order    int
}

// CreateLine valida el nivel (padre.level+1, máximo 3), rechaza nombres
// repetidos entre hermanos, genera un slug único y persiste el nodo. Los nodos nacen inactivos:
// se activan cuando cuelga de ellos un servicio activo.
func (uc *CatalogUseCase) CreateLine(ctx context.Context, tenantID string, in CreateLineInput) (*entity.BusinessLine, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}

	level := 1
	if in.ParentID != nil {
		parent, err := uc.lineRepo.GetByID(ctx, tenantID, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.ErrNotFound
		}
		level = parent.Level + 1
		if level > entity.MaxBusinessLineLevel {
			return nil, domain.ErrMaxLevelExceeded
		}
	}

	// El nombre es único entre hermanos; el slug, en cambio, recibe
	// sufijo cuando dos nombres distintos colapsan al mismo slug.
	taken, err := uc.lineRepo.NameExists(ctx, tenantID, in.ParentID, in.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrDuplicate
	}

	slug, err := uc.uniqueSlug(ctx, tenantID, in.ParentID, entity.Slugify(in.Name))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	line := &entity.BusinessLine{
		TenantID:  tenantID,
		Name:      in.Name,
		Slug:      slug,
		ParentID:  in.ParentID,
		Level:     level,
		IsActive:  false,
		Order:     in.Order,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.lineRepo.Create(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

// MoveLine recuelga un nodo bajo otro padre (nil lo convierte en raíz).
// Rechaza mover un nodo bajo sí mismo o bajo uno de sus descendientes,
// verifica que el subárbol completo siga cabiendo en los 3 niveles y que
// ningún hermano del destino tenga ya su nombre. Si el slug choca entre
// los nuevos hermanos se regenera con sufijo. Al terminar
// recalcula el estado activo de la cadena de origen y la de destino.
func (uc *CatalogUseCase) MoveLine(ctx context.Context, tenantID, lineID string, newParentID *string) (*entity.BusinessLine, error) {
	line, err := uc.lineRepo.GetByID(ctx, tenantID, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}

	newLevel := 1
	if newParentID != nil {
		if *newParentID == line.ID {
			return nil, domain.ErrConflict
		}
		parent, err := uc.lineRepo.GetByID(ctx, tenantID, *newParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.ErrNotFound
		}
		subtree, err := uc.DescendantIDs(ctx, tenantID, line.ID)
		if err != nil {
			return nil, err
		}
		for _, id := range subtree {
			if id == parent.ID {
				return nil, domain.ErrConflict
			}
		}
		newLevel = parent.Level + 1
	}

	depth, err := uc.subtreeDepth(ctx, tenantID, line.ID)
	if err != nil {
		return nil, err
	}
	if newLevel+depth-1 > entity.MaxBusinessLineLevel {
		return nil, domain.ErrMaxLevelExceeded
	}

	sameParent := (line.ParentID == nil && newParentID == nil) ||
		(line.ParentID != nil && newParentID != nil && *line.ParentID == *newParentID)
	if sameParent && newLevel == line.Level {
		return line, nil
	}

	taken, err := uc.lineRepo.NameExists(ctx, tenantID, newParentID, line.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrDuplicate
	}

	slug, err := uc.uniqueSlug(ctx, tenantID, newParentID, entity.Slugify(line.Name))
	if err != nil {
		return nil, err
	}

	oldParentID := line.ParentID
	delta := newLevel - line.Level
	line.ParentID = newParentID
	line.Level = newLevel
	line.Slug = slug
	line.UpdatedAt = time.Now()
	if err := uc.lineRepo.Update(ctx, line); err != nil {
		return nil, err
	}
	if delta != 0 {
		if err := uc.shiftSubtreeLevels(ctx, tenantID, line.ID, delta); err != nil {
			return nil, err
		}
	}

	if oldParentID != nil {
		if err := uc.RefreshLineStatus(ctx, tenantID, *oldParentID); err != nil {
			return nil, err
		}
	}
	if err := uc.RefreshLineStatus(ctx, tenantID, line.ID); err != nil {
		return nil, err
	}
	return line, nil
}

// subtreeDepth mide la altura del subárbol del nodo (1 = sin hijos).
func (uc *CatalogUseCase) subtreeDepth(ctx context.Context, tenantID, rootID string) (int, error) {
	type frame struct {
		id    string
		depth int
	}
	max := 0
	queue := []frame{{rootID, 1}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth > max {
			max = cur.depth
		}
		children, err := uc.lineRepo.ChildrenOf(ctx, tenantID, &cur.id)
		if err != nil {
			return 0, err
		}
		for _, child := range children {
			queue = append(queue, frame{child.ID, cur.depth + 1})
		}
	}
	return max, nil
}

// shiftSubtreeLevels corrige el nivel de todos los descendientes tras un
// movimiento que cambió la profundidad del nodo raíz del subárbol.
func (uc *CatalogUseCase) shiftSubtreeLevels(ctx context.Context, tenantID, rootID string, delta int) error {
	queue := []string{rootID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		children, err := uc.lineRepo.ChildrenOf(ctx, tenantID, &cur)
		if err != nil {
			return err
		}
		for _, child := range children {
			child.Level += delta
			child.UpdatedAt = time.Now()
			if err := uc.lineRepo.Update(ctx, child); err != nil {
				return err
			}
			queue = append(queue, child.ID)
		}
	}
	return nil
}

// PathOf reconstruye la ruta de slugs desde la raíz hasta el nodo.
func (uc *CatalogUseCase) PathOf(ctx context.Context, tenantID, lineID string) ([]string, error) {
	line, err := uc.lineRepo.GetByID(ctx, tenantID, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}

	var path []string
	for line != nil {
		path = append([]string{line.Slug}, path...)
		if line.ParentID == nil {
			break
		}
		line, err = uc.lineRepo.GetByID(ctx, tenantID, *line.ParentID)
		if err != nil {
			return nil, err
		}
	}
	return path, nil
}

// subtreeHasActiveServices informa si el subárbol del nodo (incluido él)
// tiene algún servicio activo directo. Recorrido en anchura con corte en
// el primer hallazgo.
func (uc *CatalogUseCase) subtreeHasActiveServices(ctx context.Context, tenantID, lineID string) (bool, error) {
	queue := []string{lineID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		has, err := uc.serviceRepo.HasActiveByLine(ctx, tenantID, cur)
		if err != nil {
			return false, err
		}
		if has {
			return true, nil
		}
		children, err := uc.lineRepo.ChildrenOf(ctx, tenantID, &cur)
		if err != nil {
			return false, err
		}
		for _, child := range children {
			queue = append(queue, child.ID)
		}
	}
	return false, nil
}

// uniqueSlug añade un sufijo numérico hasta que el slug sea único entre
// los hermanos del mismo padre.
func (uc *CatalogUseCase) uniqueSlug(ctx context.Context, tenantID string, parentID *string, base string) (string, error) {
	slug := base
	for counter := 1; ; counter++ {
		exists, err := uc.lineRepo.SlugExists(ctx, tenantID, parentID, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}
