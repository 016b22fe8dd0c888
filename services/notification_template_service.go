package services

import (
	"context"
	"strings"

	"booking-api/domain"
	"booking-api/repositories"
)

const maxSubjectLength = 256

type EmailTemplateService interface {
	EntityService[domain.EmailTemplate]
	GetByTemplateType(ctx context.Context, templateType domain.NotificationTemplateType) (*domain.EmailTemplate, error)
}

type emailTemplateService struct {
	*entityService[domain.EmailTemplate]
}

func NewEmailTemplateService(dc repositories.DataContext) EmailTemplateService {
	return &emailTemplateService{entityService: newEntityService(dc, dc.EmailTemplates(), "EmailTemplate")}
}

func (s *emailTemplateService) Create(ctx context.Context, template *domain.EmailTemplate, saveChanges bool) (*domain.EmailTemplate, error) {
	template.Type = domain.NotificationTypeEmail
	if err := s.validate(ctx, template); err != nil {
		return nil, err
	}
	return s.add(ctx, template, saveChanges)
}

func (s *emailTemplateService) Update(ctx context.Context, template *domain.EmailTemplate, saveChanges bool) (*domain.EmailTemplate, error) {
	found, err := s.GetByID(ctx, template.ID)
	if err != nil {
		return nil, err
	}
	template.Type = domain.NotificationTypeEmail
	if err := s.validate(ctx, template); err != nil {
		return nil, err
	}

	found.TemplateType = template.TemplateType
	found.Subject = template.Subject
	found.Content = template.Content
	return s.update(ctx, found, saveChanges)
}

func (s *emailTemplateService) GetByTemplateType(ctx context.Context, templateType domain.NotificationTemplateType) (*domain.EmailTemplate, error) {
	templates, err := s.Get(ctx, func(t *domain.EmailTemplate) bool { return t.TemplateType == templateType })
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, domain.NotFoundError(s.name, "email template %s not found", templateType)
	}
	return templates[0], nil
}

func (s *emailTemplateService) validate(ctx context.Context, template *domain.EmailTemplate) error {
	if !template.TemplateType.IsValid() {
		return s.invalid("invalid template type %q", template.TemplateType)
	}
	template.Subject = strings.TrimSpace(template.Subject)
	if template.Subject == "" {
		return s.invalid("subject is required")
	}
	if len([]rune(template.Subject)) > maxSubjectLength {
		return s.invalid("subject must be at most %d characters", maxSubjectLength)
	}
	if strings.TrimSpace(template.Content) == "" {
		return s.invalid("content is required")
	}

	taken, err := s.exists(ctx, func(t *domain.EmailTemplate) bool {
		return t.ID != template.ID && t.TemplateType == template.TemplateType
	})
	if err != nil {
		return err
	}
	if taken {
		return s.duplicate("email template %s already exists", template.TemplateType)
	}
	return nil
}

type SmsTemplateService interface {
	EntityService[domain.SmsTemplate]
	GetByTemplateType(ctx context.Context, templateType domain.NotificationTemplateType) (*domain.SmsTemplate, error)
}

type smsTemplateService struct {
	*entityService[domain.SmsTemplate]
}

func NewSmsTemplateService(dc repositories.DataContext) SmsTemplateService {
	return &smsTemplateService{entityService: newEntityService(dc, dc.SmsTemplates(), "SmsTemplate")}
}

func (s *smsTemplateService) Create(ctx context.Context, template *domain.SmsTemplate, saveChanges bool) (*domain.SmsTemplate, error) {
	template.Type = domain.NotificationTypeSms
	if err := s.validate(ctx, template); err != nil {
		return nil, err
	}
	return s.add(ctx, template, saveChanges)
}

func (s *smsTemplateService) Update(ctx context.Context, template *domain.SmsTemplate, saveChanges bool) (*domain.SmsTemplate, error) {
	found, err := s.GetByID(ctx, template.ID)
	if err != nil {
		return nil, err
	}
	template.Type = domain.NotificationTypeSms
	if err := s.validate(ctx, template); err != nil {
		return nil, err
	}

	found.TemplateType = template.TemplateType
	found.Content = template.Content
	return s.update(ctx, found, saveChanges)
}

func (s *smsTemplateService) GetByTemplateType(ctx context.Context, templateType domain.NotificationTemplateType) (*domain.SmsTemplate, error) {
	templates, err := s.Get(ctx, func(t *domain.SmsTemplate) bool { return t.TemplateType == templateType })
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, domain.NotFoundError(s.name, "sms template %s not found", templateType)
	}
	return templates[0], nil
}

func (s *smsTemplateService) validate(ctx context.Context, template *domain.SmsTemplate) error {
	if !template.TemplateType.IsValid() {
		return s.invalid("invalid template type %q", template.TemplateType)
	}
	if strings.TrimSpace(template.Content) == "" {
		return s.invalid("content is required")
	}

	taken, err := s.exists(ctx, func(t *domain.SmsTemplate) bool {
		return t.ID != template.ID && t.TemplateType == template.TemplateType
	})
	if err != nil {
		return err
	}
	if taken {
		return s.duplicate("sms template %s already exists", template.TemplateType)
	}
	return nil
}
