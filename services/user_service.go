package services

import (
	"context"
	"net/mail"
	"strings"

	"booking-api/domain"
	"booking-api/repositories"
	"booking-api/utils"

	"github.com/google/uuid"
)

const minPasswordLength = 6

// UserService define la interfaz del servicio de usuarios
type UserService interface {
	EntityService[domain.User]
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

// userService es la implementación real del servicio
type userService struct {
	*entityService[domain.User]
	roles repositories.Set[domain.Role]
}

// NewUserService crea una nueva instancia del servicio
func NewUserService(dc repositories.DataContext) UserService {
	return &userService{
		entityService: newEntityService(dc, dc.Users(), "User"),
		roles:         dc.Roles(),
	}
}

// Create crea un nuevo usuario: valida, verifica email único y hashea la contraseña
func (s *userService) Create(ctx context.Context, user *domain.User, saveChanges bool) (*domain.User, error) {
	if err := s.validate(ctx, user); err != nil {
		return nil, err
	}
	if len(user.Password) < minPasswordLength {
		return nil, s.invalid("password must be at least %d characters", minPasswordLength)
	}

	// NUNCA guardamos contraseñas en texto plano
	hashed, err := utils.HashPassword(user.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hashed
	user.Password = ""

	return s.add(ctx, user, saveChanges)
}

// Update actualiza datos personales y, si viene, la contraseña
func (s *userService) Update(ctx context.Context, user *domain.User, saveChanges bool) (*domain.User, error) {
	found, err := s.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, user); err != nil {
		return nil, err
	}

	found.FirstName = user.FirstName
	found.LastName = user.LastName
	found.PhoneNumber = user.PhoneNumber
	found.RoleID = user.RoleID
	if !strings.EqualFold(found.EmailAddress, user.EmailAddress) {
		found.EmailAddress = user.EmailAddress
		found.IsEmailAddressVerified = false
	}

	if user.Password != "" {
		if len(user.Password) < minPasswordLength {
			return nil, s.invalid("password must be at least %d characters", minPasswordLength)
		}
		hashed, err := utils.HashPassword(user.Password)
		if err != nil {
			return nil, err
		}
		found.PasswordHash = hashed
	}

	return s.update(ctx, found, saveChanges)
}

// GetByEmail busca por email sin distinguir mayúsculas
func (s *userService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := s.Get(ctx, func(u *domain.User) bool {
		return strings.EqualFold(u.EmailAddress, email)
	})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.NotFoundError(s.name, "user with email %s not found", email)
	}
	return users[0], nil
}

// Authenticate verifica las credenciales de un usuario.
// Por seguridad no se distingue entre email inexistente y contraseña incorrecta.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, s.invalid("invalid credentials")
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, s.invalid("invalid credentials")
	}
	return user, nil
}

func (s *userService) validate(ctx context.Context, user *domain.User) error {
	user.FirstName = strings.TrimSpace(user.FirstName)
	user.LastName = strings.TrimSpace(user.LastName)
	user.EmailAddress = strings.TrimSpace(user.EmailAddress)

	if user.FirstName == "" || len(user.FirstName) > 64 {
		return s.invalid("first name is required and must be at most 64 characters")
	}
	if user.LastName == "" || len(user.LastName) > 64 {
		return s.invalid("last name is required and must be at most 64 characters")
	}
	if _, err := mail.ParseAddress(user.EmailAddress); err != nil {
		return s.invalid("invalid email address %q", user.EmailAddress)
	}

	taken, err := s.exists(ctx, func(u *domain.User) bool {
		return u.ID != user.ID && strings.EqualFold(u.EmailAddress, user.EmailAddress)
	})
	if err != nil {
		return err
	}
	if taken {
		return s.duplicate("email address %s already exists", user.EmailAddress)
	}

	if user.RoleID != uuid.Nil {
		if err := requireExisting(ctx, s.roles, user.RoleID, "Role"); err != nil {
			return err
		}
	}
	return nil
}
