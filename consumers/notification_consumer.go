package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"booking-api/domain"
	"booking-api/dto"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const processTimeout = 30 * time.Second

// EmailSender y SmsSender son las partes de los servicios de notificaciones que usa el consumer
type EmailSender interface {
	SendEmail(ctx context.Context, userID, templateID uuid.UUID) (*domain.EmailHistory, error)
}

type SmsSender interface {
	SendSms(ctx context.Context, userID, templateID uuid.UUID) (*domain.SmsHistory, error)
}

// NotificationConsumer consume pedidos de notificación de RabbitMQ y los envía
type NotificationConsumer struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
	emails     EmailSender
	sms        SmsSender
	log        *zap.Logger
}

// NewNotificationConsumer conecta con RabbitMQ y declara la cola
func NewNotificationConsumer(rabbitURL, queueName string, emails EmailSender, sms SmsSender, log *zap.Logger) (*NotificationConsumer, error) {
	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	log.Info("notification consumer connected", zap.String("queue", queueName))
	consumer := newNotificationConsumer(queueName, emails, sms, log)
	consumer.connection = conn
	consumer.channel = ch
	return consumer, nil
}

func newNotificationConsumer(queueName string, emails EmailSender, sms SmsSender, log *zap.Logger) *NotificationConsumer {
	return &NotificationConsumer{
		queueName: queueName,
		emails:    emails,
		sms:       sms,
		log:       log,
	}
}

// Start registra el consumer y procesa los mensajes de a uno
func (c *NotificationConsumer) Start() error {
	err := c.channel.Qos(
		1,     // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (manejamos manualmente)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.log.Info("consumer registered, waiting for messages", zap.String("queue", c.queueName))
	go func() {
		for msg := range msgs {
			c.processMessage(msg)
		}
	}()
	return nil
}

// processMessage: mensajes mal formados o errores de dominio se descartan,
// los errores de infraestructura vuelven a la cola
func (c *NotificationConsumer) processMessage(msg amqp.Delivery) {
	var request dto.NotificationRequest
	if err := json.Unmarshal(msg.Body, &request); err != nil {
		c.log.Warn("discarding malformed notification request", zap.Error(err))
		c.nack(msg, false)
		return
	}
	if request.UserID == uuid.Nil || request.TemplateID == uuid.Nil {
		c.log.Warn("discarding notification request without user or template")
		c.nack(msg, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	var err error
	switch request.Channel {
	case domain.NotificationTypeEmail:
		_, err = c.emails.SendEmail(ctx, request.UserID, request.TemplateID)
	case domain.NotificationTypeSms:
		_, err = c.sms.SendSms(ctx, request.UserID, request.TemplateID)
	default:
		c.log.Warn("unknown notification channel", zap.String("channel", string(request.Channel)))
		c.nack(msg, false)
		return
	}

	fields := []zap.Field{
		zap.String("channel", string(request.Channel)),
		zap.String("user_id", request.UserID.String()),
		zap.String("template_id", request.TemplateID.String()),
	}
	if err != nil {
		if domain.KindOf(err) != "" {
			c.log.Warn("notification request rejected", append(fields, zap.Error(err))...)
			c.nack(msg, false)
			return
		}
		c.log.Error("error processing notification request", append(fields, zap.Error(err))...)
		c.nack(msg, true)
		return
	}

	c.log.Info("notification request processed", fields...)
	if err := msg.Ack(false); err != nil {
		c.log.Error("error acknowledging message", zap.Error(err))
	}
}

func (c *NotificationConsumer) nack(msg amqp.Delivery, requeue bool) {
	if err := msg.Nack(false, requeue); err != nil {
		c.log.Error("error rejecting message", zap.Error(err))
	}
}

// Close cierra las conexiones de RabbitMQ
func (c *NotificationConsumer) Close() error {
	var errs []error

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing channel: %w", err))
		}
	}
	if c.connection != nil {
		if err := c.connection.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing connection: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ consumer: %v", errs)
	}
	c.log.Info("notification consumer closed")
	return nil
}
