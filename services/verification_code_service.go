package services

import (
	"context"
	"fmt"
	"time"

	"booking-api/config"
	"booking-api/domain"
	"booking-api/repositories"
	"booking-api/utils"
)

// maxCodeAttempts limita los reintentos al generar un código que no choque con otro vigente
const maxCodeAttempts = 100

type VerificationCodeService interface {
	EntityService[domain.UserInfoVerificationCode]
	Verify(ctx context.Context, code string, saveChanges bool) (*domain.UserInfoVerificationCode, error)
}

type verificationCodeService struct {
	*entityService[domain.UserInfoVerificationCode]
	users    repositories.Set[domain.User]
	settings config.VerificationSettings
}

func NewVerificationCodeService(dc repositories.DataContext, settings config.VerificationSettings) VerificationCodeService {
	return &verificationCodeService{
		entityService: newEntityService(dc, dc.VerificationCodes(), "VerificationCode"),
		users:         dc.Users(),
		settings:      settings,
	}
}

// Create genera el código y su vencimiento. Los códigos anteriores del mismo
// usuario y tipo quedan inactivos.
func (s *verificationCodeService) Create(ctx context.Context, code *domain.UserInfoVerificationCode, saveChanges bool) (*domain.UserInfoVerificationCode, error) {
	if !code.CodeType.IsValid() {
		return nil, s.invalid("invalid code type %q", code.CodeType)
	}
	if err := requireExisting(ctx, s.users, code.UserID, "User"); err != nil {
		return nil, err
	}

	active, err := s.Get(ctx, func(c *domain.UserInfoVerificationCode) bool { return c.IsActive })
	if err != nil {
		return nil, err
	}

	// Valores que siguen vigentes para otros usuarios o tipos
	taken := make(map[string]struct{}, len(active))
	for _, c := range active {
		if c.UserID == code.UserID && c.CodeType == code.CodeType {
			c.IsActive = false
			c.MarkModified(s.now())
			if err := s.set.Update(ctx, c); err != nil {
				return nil, err
			}
			continue
		}
		if c.IsUsable(s.now()) {
			taken[c.Code] = struct{}{}
		}
	}

	value, err := s.generateUnique(taken)
	if err != nil {
		return nil, err
	}
	code.Code = value
	code.IsActive = true
	code.ExpiryTime = s.now().Add(time.Duration(s.settings.ExpirationMinutes) * time.Minute)
	return s.add(ctx, code, saveChanges)
}

// Update solo permite desactivar o reactivar un código
func (s *verificationCodeService) Update(ctx context.Context, code *domain.UserInfoVerificationCode, saveChanges bool) (*domain.UserInfoVerificationCode, error) {
	found, err := s.GetByID(ctx, code.ID)
	if err != nil {
		return nil, err
	}

	found.IsActive = code.IsActive
	found.VerificationLink = code.VerificationLink
	return s.update(ctx, found, saveChanges)
}

func (s *verificationCodeService) generateUnique(taken map[string]struct{}) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		value, err := utils.GenerateCode(s.settings.CodeLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate verification code: %w", err)
		}
		if _, ok := taken[value]; !ok {
			return value, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique verification code after %d attempts", maxCodeAttempts)
}

// Verify valida el código, lo desactiva y marca el dato del usuario como verificado.
// Si el mismo valor está vigente para más de un usuario no verifica a ninguno.
func (s *verificationCodeService) Verify(ctx context.Context, code string, saveChanges bool) (*domain.UserInfoVerificationCode, error) {
	matches, err := s.Get(ctx, func(c *domain.UserInfoVerificationCode) bool { return c.IsActive && c.Code == code })
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, domain.NotFoundError(s.name, "verification code not found")
	}

	now := s.now()
	usable := matches[:0]
	for _, m := range matches {
		if m.IsUsable(now) {
			usable = append(usable, m)
		}
	}
	switch len(usable) {
	case 0:
		return nil, s.invalid("verification code expired")
	case 1:
	default:
		return nil, s.invalid("verification code is ambiguous, request a new one")
	}

	found := usable[0]

	if found.CodeType == domain.VerificationEmailAddress {
		user, err := s.users.Find(ctx, found.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil || user.IsDeleted {
			return nil, domain.NotFoundError("User", "User %s not found", found.UserID)
		}
		user.IsEmailAddressVerified = true
		user.MarkModified(s.now())
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	found.IsActive = false
	return s.update(ctx, found, saveChanges)
}
