package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"booking-api/domain"
	"booking-api/dto"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type ackRecorder struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *ackRecorder) Ack(uint64, bool) error {
	a.acked = true
	return nil
}

func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *ackRecorder) Reject(_ uint64, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

type fakeSender struct {
	err    error
	emails int
	sms    int
}

func (s *fakeSender) SendEmail(context.Context, uuid.UUID, uuid.UUID) (*domain.EmailHistory, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.emails++
	return &domain.EmailHistory{}, nil
}

func (s *fakeSender) SendSms(context.Context, uuid.UUID, uuid.UUID) (*domain.SmsHistory, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.sms++
	return &domain.SmsHistory{}, nil
}

func delivery(t *testing.T, ack amqp.Acknowledger, body any) amqp.Delivery {
	t.Helper()
	raw, ok := body.([]byte)
	if !ok {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	return amqp.Delivery{Acknowledger: ack, Body: raw}
}

func validRequest(channel domain.NotificationType) dto.NotificationRequest {
	return dto.NotificationRequest{Channel: channel, UserID: uuid.New(), TemplateID: uuid.New()}
}

func TestProcessMessage(t *testing.T) {
	tests := []struct {
		name    string
		body    any
		err     error
		acked   bool
		requeue bool
		emails  int
		sms     int
	}{
		{name: "email ok", body: validRequest(domain.NotificationTypeEmail), acked: true, emails: 1},
		{name: "sms ok", body: validRequest(domain.NotificationTypeSms), acked: true, sms: 1},
		{name: "malformed json", body: []byte("{not json")},
		{name: "missing ids", body: dto.NotificationRequest{Channel: domain.NotificationTypeEmail}},
		{name: "unknown channel", body: validRequest("fax")},
		{name: "domain error is dropped", body: validRequest(domain.NotificationTypeEmail), err: domain.NotFoundError("User", "not found")},
		{name: "infrastructure error is requeued", body: validRequest(domain.NotificationTypeEmail), err: errors.New("database is down"), requeue: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{err: tt.err}
			consumer := newNotificationConsumer("notification_requests", sender, sender, zap.NewNop())
			ack := &ackRecorder{}

			consumer.processMessage(delivery(t, ack, tt.body))

			assert.Equal(t, tt.acked, ack.acked)
			assert.Equal(t, !tt.acked, ack.nacked)
			assert.Equal(t, tt.requeue, ack.requeue)
			assert.Equal(t, tt.emails, sender.emails)
			assert.Equal(t, tt.sms, sender.sms)
		})
	}
}

func TestClose_WithoutConnection(t *testing.T) {
	consumer := newNotificationConsumer("notification_requests", &fakeSender{}, &fakeSender{}, zap.NewNop())
	assert.NoError(t, consumer.Close())
}
