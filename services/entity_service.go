package services

import (
	"context"
	"time"

	"booking-api/domain"
	"booking-api/repositories"

	"github.com/google/uuid"
)

// EntityService es el contrato CRUD común a todas las entidades.
// Create y Update validan antes de guardar. Con saveChanges=false el cambio
// queda pendiente en el change scope del contexto hasta que alguien llame a
// SaveChanges (así un caller puede agrupar varias operaciones).
type EntityService[T any] interface {
	Create(ctx context.Context, entity *T, saveChanges bool) (*T, error)
	Get(ctx context.Context, predicate func(*T) bool) ([]*T, error)
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*T, error)
	Update(ctx context.Context, entity *T, saveChanges bool) (*T, error)
	Delete(ctx context.Context, id uuid.UUID, saveChanges bool) (*T, error)
}

// entityService tiene la lógica compartida: filtro de borrados, lecturas,
// borrado lógico y commit. Cada servicio concreto agrega su validación.
type entityService[T any] struct {
	dc   repositories.DataContext
	set  repositories.Set[T]
	name string
	now  func() time.Time
}

func newEntityService[T any](dc repositories.DataContext, set repositories.Set[T], name string) *entityService[T] {
	return &entityService[T]{
		dc:   dc,
		set:  set,
		name: name,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func base[T any](entity *T) *domain.Entity {
	return any(entity).(domain.Record).Base()
}

// Get devuelve las entidades no borradas que cumplen el predicado (nil = todas)
func (s *entityService[T]) Get(ctx context.Context, predicate func(*T) bool) ([]*T, error) {
	rows, err := s.set.Query(ctx)
	if err != nil {
		return nil, err
	}
	if predicate == nil {
		return rows, nil
	}

	result := make([]*T, 0, len(rows))
	for _, row := range rows {
		if predicate(row) {
			result = append(result, row)
		}
	}
	return result, nil
}

// GetByID busca una entidad no borrada, si no existe devuelve NotFound
func (s *entityService[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	row, err := s.set.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil || base(row).IsDeleted {
		return nil, domain.NotFoundError(s.name, "%s %s not found", s.name, id)
	}
	return row, nil
}

// GetByIDs devuelve las que existan, los IDs desconocidos se ignoran
func (s *entityService[T]) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*T, error) {
	wanted := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	return s.Get(ctx, func(row *T) bool {
		_, ok := wanted[base(row).ID]
		return ok
	})
}

// Delete hace borrado lógico. Borrar dos veces devuelve NotFound.
func (s *entityService[T]) Delete(ctx context.Context, id uuid.UUID, saveChanges bool) (*T, error) {
	found, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	base(found).MarkDeleted(s.now())
	if err := s.set.Update(ctx, found); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, saveChanges); err != nil {
		return nil, err
	}
	return found, nil
}

// exists indica si alguna entidad no borrada cumple el predicado
func (s *entityService[T]) exists(ctx context.Context, predicate func(*T) bool) (bool, error) {
	rows, err := s.Get(ctx, predicate)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

func (s *entityService[T]) add(ctx context.Context, entity *T, saveChanges bool) (*T, error) {
	base(entity).MarkCreated(s.now())
	if err := s.set.Add(ctx, entity); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, saveChanges); err != nil {
		return nil, err
	}
	return entity, nil
}

// update guarda la entidad ya cargada y modificada por el servicio concreto
func (s *entityService[T]) update(ctx context.Context, found *T, saveChanges bool) (*T, error) {
	base(found).MarkModified(s.now())
	if err := s.set.Update(ctx, found); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, saveChanges); err != nil {
		return nil, err
	}
	return found, nil
}

func (s *entityService[T]) commit(ctx context.Context, saveChanges bool) error {
	if !saveChanges {
		return nil
	}
	return s.dc.SaveChanges(ctx)
}

func (s *entityService[T]) invalid(format string, args ...any) error {
	return domain.ValidationError(s.name, format, args...)
}

func (s *entityService[T]) duplicate(format string, args ...any) error {
	return domain.DuplicateError(s.name, format, args...)
}

// requireExisting verifica que exista una entidad no borrada en otro set
func requireExisting[T any](ctx context.Context, set repositories.Set[T], id uuid.UUID, entity string) error {
	if id == uuid.Nil {
		return domain.ValidationError(entity, "%s id is required", entity)
	}
	row, err := set.Find(ctx, id)
	if err != nil {
		return err
	}
	if row == nil || base(row).IsDeleted {
		return domain.NotFoundError(entity, "%s %s not found", entity, id)
	}
	return nil
}
