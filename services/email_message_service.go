package services

import (
	"strings"

	"booking-api/config"
	"booking-api/domain"
)

// EmailMessageService arma el mensaje final a partir del template y los valores
type EmailMessageService interface {
	Render(user *domain.User, template *domain.EmailTemplate, values map[string]string) *domain.EmailMessage
	RenderSms(user *domain.User, template *domain.SmsTemplate, values map[string]string) *domain.SmsMessage
}

type emailMessageService struct {
	settings config.EmailSenderSettings
}

func NewEmailMessageService(settings config.EmailSenderSettings) EmailMessageService {
	return &emailMessageService{settings: settings}
}

func (s *emailMessageService) Render(user *domain.User, template *domain.EmailTemplate, values map[string]string) *domain.EmailMessage {
	return &domain.EmailMessage{
		SenderAddress:   s.settings.CredentialAddress,
		ReceiverAddress: user.EmailAddress,
		Subject:         substitute(template.Subject, values),
		Body:            substitute(template.Content, values),
		Variables:       values,
	}
}

// RenderSms usa el teléfono del usuario; el remitente lo pone el broker
func (s *emailMessageService) RenderSms(user *domain.User, template *domain.SmsTemplate, values map[string]string) *domain.SmsMessage {
	return &domain.SmsMessage{
		ReceiverPhoneNumber: user.PhoneNumber,
		Message:             substitute(template.Content, values),
	}
}

func substitute(text string, values map[string]string) string {
	if len(values) == 0 {
		return text
	}
	pairs := make([]string, 0, len(values)*2)
	for placeholder, value := range values {
		pairs = append(pairs, placeholder, value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
