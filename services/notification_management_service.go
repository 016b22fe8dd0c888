package services

import (
	"context"

	"booking-api/domain"
	"booking-api/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmailManagementService arma, envía y registra un email para un usuario
type EmailManagementService interface {
	SendEmail(ctx context.Context, userID, templateID uuid.UUID) (*domain.EmailHistory, error)
}

type emailManagementService struct {
	users        UserService
	templates    EmailTemplateService
	placeholders EmailPlaceholderService
	messages     EmailMessageService
	sender       EmailSenderService
	histories    EmailHistoryService
	archive      repositories.HistoryArchive
	log          *zap.Logger
}

func NewEmailManagementService(
	users UserService,
	templates EmailTemplateService,
	placeholders EmailPlaceholderService,
	messages EmailMessageService,
	sender EmailSenderService,
	histories EmailHistoryService,
	archive repositories.HistoryArchive,
	log *zap.Logger,
) EmailManagementService {
	return &emailManagementService{
		users:        users,
		templates:    templates,
		placeholders: placeholders,
		messages:     messages,
		sender:       sender,
		histories:    histories,
		archive:      archive,
		log:          log,
	}
}

// SendEmail guarda el historial aunque ningún broker acepte el mensaje,
// con IsSuccessful en false y el error del último intento
func (s *emailManagementService) SendEmail(ctx context.Context, userID, templateID uuid.UUID) (*domain.EmailHistory, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	template, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	values, err := s.placeholders.GetTemplateValues(ctx, userID, template)
	if err != nil {
		return nil, err
	}
	message := s.messages.Render(user, template, values)
	if _, err := s.sender.Send(ctx, message); err != nil {
		return nil, err
	}

	history := &domain.EmailHistory{
		NotificationHistory: domain.NotificationHistory{
			TemplateID:     template.ID,
			ReceiverUserID: user.ID,
			Content:        message.Body,
			IsSuccessful:   message.IsSuccessful,
			ErrorMessage:   message.ErrorMessage,
		},
		SenderEmailAddress:   message.SenderAddress,
		ReceiverEmailAddress: message.ReceiverAddress,
		Subject:              message.Subject,
	}
	created, err := s.histories.Create(ctx, history, true)
	if err != nil {
		return nil, err
	}

	if err := s.archive.ArchiveEmail(ctx, created); err != nil {
		s.log.Warn("failed to archive email history", zap.String("history_id", created.ID.String()), zap.Error(err))
	}
	s.log.Info("email processed",
		zap.String("user_id", user.ID.String()),
		zap.String("template_type", string(template.TemplateType)),
		zap.Bool("successful", created.IsSuccessful))
	return created, nil
}

// SmsManagementService es el equivalente para SMS
type SmsManagementService interface {
	SendSms(ctx context.Context, userID, templateID uuid.UUID) (*domain.SmsHistory, error)
}

type smsManagementService struct {
	users        UserService
	templates    SmsTemplateService
	placeholders EmailPlaceholderService
	messages     EmailMessageService
	sender       SmsSenderService
	histories    SmsHistoryService
	archive      repositories.HistoryArchive
	log          *zap.Logger
}

func NewSmsManagementService(
	users UserService,
	templates SmsTemplateService,
	placeholders EmailPlaceholderService,
	messages EmailMessageService,
	sender SmsSenderService,
	histories SmsHistoryService,
	archive repositories.HistoryArchive,
	log *zap.Logger,
) SmsManagementService {
	return &smsManagementService{
		users:        users,
		templates:    templates,
		placeholders: placeholders,
		messages:     messages,
		sender:       sender,
		histories:    histories,
		archive:      archive,
		log:          log,
	}
}

func (s *smsManagementService) SendSms(ctx context.Context, userID, templateID uuid.UUID) (*domain.SmsHistory, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	template, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	values, err := s.placeholders.GetValues(ctx, userID, template.Content)
	if err != nil {
		return nil, err
	}
	message := s.messages.RenderSms(user, template, values)
	if _, err := s.sender.Send(ctx, message); err != nil {
		return nil, err
	}

	history := &domain.SmsHistory{
		NotificationHistory: domain.NotificationHistory{
			TemplateID:     template.ID,
			ReceiverUserID: user.ID,
			Content:        message.Message,
			IsSuccessful:   message.IsSuccessful,
			ErrorMessage:   message.ErrorMessage,
		},
		SenderPhoneNumber:   message.SenderPhoneNumber,
		ReceiverPhoneNumber: message.ReceiverPhoneNumber,
	}
	created, err := s.histories.Create(ctx, history, true)
	if err != nil {
		return nil, err
	}

	if err := s.archive.ArchiveSms(ctx, created); err != nil {
		s.log.Warn("failed to archive sms history", zap.String("history_id", created.ID.String()), zap.Error(err))
	}
	return created, nil
}
