package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"booking-api/config"
	"booking-api/domain"

	"github.com/google/uuid"
)

const (
	placeholderFullName     = "{{FullName}}"
	placeholderFirstName    = "{{FirstName}}"
	placeholderLastName     = "{{LastName}}"
	placeholderEmailAddress = "{{EmailAddress}}"
	placeholderDate         = "{{Date}}"
	placeholderCompanyName  = "{{CompanyName}}"
)

// EmailPlaceholderService resuelve los placeholders {{...}} de un template
// con los datos del usuario destinatario
type EmailPlaceholderService interface {
	GetTemplateValues(ctx context.Context, userID uuid.UUID, template *domain.EmailTemplate) (map[string]string, error)
	GetValues(ctx context.Context, userID uuid.UUID, texts ...string) (map[string]string, error)
}

type emailPlaceholderService struct {
	users    UserService
	settings config.EmailSenderSettings
	pattern  *regexp.Regexp
	now      func() time.Time
}

func NewEmailPlaceholderService(users UserService, settings config.EmailSenderSettings) (EmailPlaceholderService, error) {
	pattern, err := regexp.Compile(settings.PlaceholderPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid placeholder pattern: %w", err)
	}
	return &emailPlaceholderService{
		users:    users,
		settings: settings,
		pattern:  pattern,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *emailPlaceholderService) GetTemplateValues(ctx context.Context, userID uuid.UUID, template *domain.EmailTemplate) (map[string]string, error) {
	return s.GetValues(ctx, userID, template.Subject, template.Content)
}

// GetValues busca placeholders en todos los textos. Un placeholder desconocido
// es un error de validación.
func (s *emailPlaceholderService) GetValues(ctx context.Context, userID uuid.UUID, texts ...string) (map[string]string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string)
	for _, text := range texts {
		for _, placeholder := range s.pattern.FindAllString(text, -1) {
			if _, ok := values[placeholder]; ok {
				continue
			}
			value, err := s.resolve(placeholder, user)
			if err != nil {
				return nil, err
			}
			values[placeholder] = value
		}
	}
	return values, nil
}

func (s *emailPlaceholderService) resolve(placeholder string, user *domain.User) (string, error) {
	switch placeholder {
	case placeholderFullName:
		return user.FullName(), nil
	case placeholderFirstName:
		return user.FirstName, nil
	case placeholderLastName:
		return user.LastName, nil
	case placeholderEmailAddress:
		return user.EmailAddress, nil
	case placeholderDate:
		return s.now().Format(s.settings.DateFormat), nil
	case placeholderCompanyName:
		return s.settings.CompanyName, nil
	}
	return "", domain.ValidationError("EmailTemplate", "unknown placeholder %s", placeholder)
}
