package services

import (
	"context"

	"booking-api/domain"
	"booking-api/repositories"

	"github.com/google/uuid"
)

// Los historiales no se editan, Update solo existe para cumplir el contrato
// y permite corregir el resultado del envío.

type EmailHistoryService interface {
	EntityService[domain.EmailHistory]
	GetByReceiverID(ctx context.Context, userID uuid.UUID) ([]*domain.EmailHistory, error)
}

type emailHistoryService struct {
	*entityService[domain.EmailHistory]
	templates repositories.Set[domain.EmailTemplate]
}

func NewEmailHistoryService(dc repositories.DataContext) EmailHistoryService {
	return &emailHistoryService{
		entityService: newEntityService(dc, dc.EmailHistories(), "EmailHistory"),
		templates:     dc.EmailTemplates(),
	}
}

func (s *emailHistoryService) Create(ctx context.Context, history *domain.EmailHistory, saveChanges bool) (*domain.EmailHistory, error) {
	history.Type = domain.NotificationTypeEmail
	if history.ReceiverUserID == uuid.Nil || history.ReceiverEmailAddress == "" {
		return nil, s.invalid("receiver is required")
	}
	if err := requireExisting(ctx, s.templates, history.TemplateID, "EmailTemplate"); err != nil {
		return nil, err
	}
	return s.add(ctx, history, saveChanges)
}

func (s *emailHistoryService) Update(ctx context.Context, history *domain.EmailHistory, saveChanges bool) (*domain.EmailHistory, error) {
	found, err := s.GetByID(ctx, history.ID)
	if err != nil {
		return nil, err
	}

	found.IsSuccessful = history.IsSuccessful
	found.ErrorMessage = history.ErrorMessage
	return s.update(ctx, found, saveChanges)
}

func (s *emailHistoryService) GetByReceiverID(ctx context.Context, userID uuid.UUID) ([]*domain.EmailHistory, error) {
	return s.Get(ctx, func(h *domain.EmailHistory) bool { return h.ReceiverUserID == userID })
}

type SmsHistoryService interface {
	EntityService[domain.SmsHistory]
	GetByReceiverID(ctx context.Context, userID uuid.UUID) ([]*domain.SmsHistory, error)
}

type smsHistoryService struct {
	*entityService[domain.SmsHistory]
	templates repositories.Set[domain.SmsTemplate]
}

func NewSmsHistoryService(dc repositories.DataContext) SmsHistoryService {
	return &smsHistoryService{
		entityService: newEntityService(dc, dc.SmsHistories(), "SmsHistory"),
		templates:     dc.SmsTemplates(),
	}
}

func (s *smsHistoryService) Create(ctx context.Context, history *domain.SmsHistory, saveChanges bool) (*domain.SmsHistory, error) {
	history.Type = domain.NotificationTypeSms
	if history.ReceiverUserID == uuid.Nil || history.ReceiverPhoneNumber == "" {
		return nil, s.invalid("receiver is required")
	}
	if err := requireExisting(ctx, s.templates, history.TemplateID, "SmsTemplate"); err != nil {
		return nil, err
	}
	return s.add(ctx, history, saveChanges)
}

func (s *smsHistoryService) Update(ctx context.Context, history *domain.SmsHistory, saveChanges bool) (*domain.SmsHistory, error) {
	found, err := s.GetByID(ctx, history.ID)
	if err != nil {
		return nil, err
	}

	found.IsSuccessful = history.IsSuccessful
	found.ErrorMessage = history.ErrorMessage
	return s.update(ctx, found, saveChanges)
}

func (s *smsHistoryService) GetByReceiverID(ctx context.Context, userID uuid.UUID) ([]*domain.SmsHistory, error) {
	return s.Get(ctx, func(h *domain.SmsHistory) bool { return h.ReceiverUserID == userID })
}
