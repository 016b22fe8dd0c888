package services

import (
	"context"

	"booking-api/domain"
	"booking-api/repositories"
)

type RoleService interface {
	EntityService[domain.Role]
	GetByType(ctx context.Context, roleType domain.RoleType) (*domain.Role, error)
}

type roleService struct {
	*entityService[domain.Role]
}

func NewRoleService(dc repositories.DataContext) RoleService {
	return &roleService{entityService: newEntityService(dc, dc.Roles(), "Role")}
}

func (s *roleService) Create(ctx context.Context, role *domain.Role, saveChanges bool) (*domain.Role, error) {
	if err := s.validate(ctx, role); err != nil {
		return nil, err
	}
	return s.add(ctx, role, saveChanges)
}

func (s *roleService) Update(ctx context.Context, role *domain.Role, saveChanges bool) (*domain.Role, error) {
	found, err := s.GetByID(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, role); err != nil {
		return nil, err
	}

	found.Type = role.Type
	found.IsDisabled = role.IsDisabled
	return s.update(ctx, found, saveChanges)
}

func (s *roleService) GetByType(ctx context.Context, roleType domain.RoleType) (*domain.Role, error) {
	roles, err := s.Get(ctx, func(r *domain.Role) bool { return r.Type == roleType })
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, domain.NotFoundError(s.name, "role %s not found", roleType)
	}
	return roles[0], nil
}

// validate: el tipo tiene que ser conocido y único
func (s *roleService) validate(ctx context.Context, role *domain.Role) error {
	if !role.Type.IsValid() {
		return s.invalid("invalid role type %q", role.Type)
	}
	taken, err := s.exists(ctx, func(r *domain.Role) bool {
		return r.ID != role.ID && r.Type == role.Type
	})
	if err != nil {
		return err
	}
	if taken {
		return s.duplicate("role %s already exists", role.Type)
	}
	return nil
}
