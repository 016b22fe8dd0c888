package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"booking-api/domain"

	"go.uber.org/zap"
)

var ErrNoBrokerAvailable = errors.New("no notification broker accepted the message")

// EmailSenderBroker entrega un email ya renderizado (cola, SMTP, log, etc.)
type EmailSenderBroker interface {
	Name() string
	SendEmail(ctx context.Context, message *domain.EmailMessage) error
}

type SmsSenderBroker interface {
	Name() string
	SendSms(ctx context.Context, message *domain.SmsMessage) error
}

// EmailSenderService prueba los brokers en orden hasta que uno acepte el mensaje
type EmailSenderService interface {
	Send(ctx context.Context, message *domain.EmailMessage) (bool, error)
}

type emailSenderService struct {
	brokers []EmailSenderBroker
	log     *zap.Logger
	now     func() time.Time
}

func NewEmailSenderService(log *zap.Logger, brokers ...EmailSenderBroker) EmailSenderService {
	return &emailSenderService{
		brokers: brokers,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Send valida el mensaje y devuelve true si algún broker lo aceptó.
// El resultado queda registrado en el mensaje.
func (s *emailSenderService) Send(ctx context.Context, message *domain.EmailMessage) (bool, error) {
	if err := validateEmailMessage(message); err != nil {
		return false, err
	}

	message.IsSuccessful = false
	message.ErrorMessage = ErrNoBrokerAvailable.Error()
	for _, broker := range s.brokers {
		err := broker.SendEmail(ctx, message)
		message.SentTime = s.now()
		if err == nil {
			message.IsSuccessful = true
			message.ErrorMessage = ""
			return true, nil
		}
		message.ErrorMessage = err.Error()
		s.log.Warn("email broker failed",
			zap.String("broker", broker.Name()),
			zap.String("receiver", message.ReceiverAddress),
			zap.Error(err))
	}
	return false, nil
}

func validateEmailMessage(message *domain.EmailMessage) error {
	if _, err := mail.ParseAddress(message.SenderAddress); err != nil {
		return domain.ValidationError("EmailMessage", "invalid sender address %q", message.SenderAddress)
	}
	if _, err := mail.ParseAddress(message.ReceiverAddress); err != nil {
		return domain.ValidationError("EmailMessage", "invalid receiver address %q", message.ReceiverAddress)
	}
	if strings.TrimSpace(message.Subject) == "" {
		return domain.ValidationError("EmailMessage", "subject is required")
	}
	if strings.TrimSpace(message.Body) == "" {
		return domain.ValidationError("EmailMessage", "body is required")
	}
	return nil
}

type SmsSenderService interface {
	Send(ctx context.Context, message *domain.SmsMessage) (bool, error)
}

type smsSenderService struct {
	brokers []SmsSenderBroker
	log     *zap.Logger
	now     func() time.Time
}

func NewSmsSenderService(log *zap.Logger, brokers ...SmsSenderBroker) SmsSenderService {
	return &smsSenderService{
		brokers: brokers,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *smsSenderService) Send(ctx context.Context, message *domain.SmsMessage) (bool, error) {
	if strings.TrimSpace(message.ReceiverPhoneNumber) == "" {
		return false, domain.ValidationError("SmsMessage", "receiver phone number is required")
	}
	if strings.TrimSpace(message.Message) == "" {
		return false, domain.ValidationError("SmsMessage", "message is required")
	}

	message.IsSuccessful = false
	message.ErrorMessage = ErrNoBrokerAvailable.Error()
	for _, broker := range s.brokers {
		err := broker.SendSms(ctx, message)
		message.SentTime = s.now()
		if err == nil {
			message.IsSuccessful = true
			message.ErrorMessage = ""
			return true, nil
		}
		message.ErrorMessage = err.Error()
		s.log.Warn("sms broker failed",
			zap.String("broker", broker.Name()),
			zap.String("receiver", message.ReceiverPhoneNumber),
			zap.Error(err))
	}
	return false, nil
}
