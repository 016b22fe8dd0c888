package brokers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"booking-api/domain"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// publisher es la parte de *amqp.Channel que usa el broker
type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// outboxMessage es lo que lee el relay externo de la cola de salida
type outboxMessage struct {
	Channel  domain.NotificationType `json:"channel"`
	Sender   string                  `json:"sender"`
	Receiver string                  `json:"receiver"`
	Subject  string                  `json:"subject,omitempty"`
	Body     string                  `json:"body"`
	QueuedAt time.Time               `json:"queued_at"`
}

// AMQPBroker publica los mensajes renderizados en colas durables de RabbitMQ.
// Un relay externo (SMTP, proveedor de SMS) las consume.
type AMQPBroker struct {
	connection *amqp.Connection
	channel    publisher
	emailQueue string
	smsQueue   string
	log        *zap.Logger
}

// NewAMQPBroker conecta con RabbitMQ y declara las colas de salida
func NewAMQPBroker(rabbitURL, emailQueue, smsQueue string, log *zap.Logger) (*AMQPBroker, error) {
	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	for _, queue := range []string{emailQueue, smsQueue} {
		_, err = ch.QueueDeclare(
			queue, // name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
		}
	}

	log.Info("amqp broker ready", zap.String("email_queue", emailQueue), zap.String("sms_queue", smsQueue))
	broker := newAMQPBroker(ch, emailQueue, smsQueue, log)
	broker.connection = conn
	return broker, nil
}

func newAMQPBroker(ch publisher, emailQueue, smsQueue string, log *zap.Logger) *AMQPBroker {
	return &AMQPBroker{
		channel:    ch,
		emailQueue: emailQueue,
		smsQueue:   smsQueue,
		log:        log,
	}
}

func (b *AMQPBroker) Name() string {
	return "amqp"
}

func (b *AMQPBroker) SendEmail(ctx context.Context, message *domain.EmailMessage) error {
	return b.publish(ctx, b.emailQueue, outboxMessage{
		Channel:  domain.NotificationTypeEmail,
		Sender:   message.SenderAddress,
		Receiver: message.ReceiverAddress,
		Subject:  message.Subject,
		Body:     message.Body,
	})
}

func (b *AMQPBroker) SendSms(ctx context.Context, message *domain.SmsMessage) error {
	return b.publish(ctx, b.smsQueue, outboxMessage{
		Channel:  domain.NotificationTypeSms,
		Sender:   message.SenderPhoneNumber,
		Receiver: message.ReceiverPhoneNumber,
		Body:     message.Message,
	})
}

func (b *AMQPBroker) publish(ctx context.Context, queue string, message outboxMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message.QueuedAt = time.Now().UTC()
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode outbox message: %w", err)
	}

	err = b.channel.Publish(
		"",    // exchange por defecto, enruta por nombre de cola
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    message.QueuedAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queue, err)
	}

	b.log.Debug("message queued", zap.String("queue", queue), zap.String("receiver", message.Receiver))
	return nil
}

// Close cierra el channel y la conexión
func (b *AMQPBroker) Close() error {
	var errs []error
	if b.channel != nil {
		if err := b.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing channel: %w", err))
		}
	}
	if b.connection != nil {
		if err := b.connection.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing amqp broker: %v", errs)
	}
	return nil
}
