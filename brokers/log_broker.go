package brokers

import (
	"context"

	"booking-api/domain"

	"go.uber.org/zap"
)

// LogBroker solo escribe el mensaje en el log, se usa en desarrollo
type LogBroker struct {
	log *zap.Logger
}

func NewLogBroker(log *zap.Logger) *LogBroker {
	return &LogBroker{log: log}
}

func (b *LogBroker) Name() string {
	return "log"
}

func (b *LogBroker) SendEmail(_ context.Context, message *domain.EmailMessage) error {
	b.log.Info("email sent",
		zap.String("from", message.SenderAddress),
		zap.String("to", message.ReceiverAddress),
		zap.String("subject", message.Subject),
		zap.Int("body_length", len(message.Body)))
	return nil
}

func (b *LogBroker) SendSms(_ context.Context, message *domain.SmsMessage) error {
	b.log.Info("sms sent",
		zap.String("to", message.ReceiverPhoneNumber),
		zap.Int("message_length", len(message.Message)))
	return nil
}
