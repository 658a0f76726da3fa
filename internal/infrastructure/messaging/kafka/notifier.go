package kafka

import (
	"context"
	"encoding/json"

	"github.com/opengov-in/rti-sahayak/internal/domain/request"
	"github.com/opengov-in/rti-sahayak/pkg/errors"
)

const eventSource = "rti-sahayak"

// Notifier publishes lifecycle events, one topic per event type. Messages
// are keyed by reference number so a request's events stay in order.
type Notifier struct {
	producer *Producer
}

// NewNotifier wraps a producer.
func NewNotifier(producer *Producer) *Notifier {
	return &Notifier{producer: producer}
}

func (n *Notifier) RequestFiled(ctx context.Context, req *request.Request) error {
	return n.publish(ctx, TopicRequestFiled, req.RefNumber, RequestFiledPayload{
		RefNumber:        req.RefNumber,
		OfficeID:         req.OfficeID,
		GatewayAckID:     req.GatewayAckID,
		Fee:              req.Fee,
		FiledAt:          req.FiledAt,
		ResponseDeadline: req.ResponseDeadline,
	})
}

func (n *Notifier) ReminderDue(ctx context.Context, req *request.Request) error {
	payload := ReminderDuePayload{
		RefNumber:        req.RefNumber,
		OfficeID:         req.OfficeID,
		ResponseDeadline: req.ResponseDeadline,
	}
	if req.ReminderSentAt != nil {
		payload.SentAt = *req.ReminderSentAt
	}
	return n.publish(ctx, TopicReminderDue, req.RefNumber, payload)
}

func (n *Notifier) AppealFiled(ctx context.Context, req *request.Request, appeal *request.Appeal) error {
	return n.publish(ctx, TopicAppealFiled, req.RefNumber, AppealFiledPayload{
		RefNumber: req.RefNumber,
		AppealID:  appeal.ID,
		Ground:    string(appeal.Ground),
		FiledAt:   appeal.FiledAt,
	})
}

func (n *Notifier) publish(ctx context.Context, topic, key string, payload interface{}) error {
	envelope, err := NewEventEnvelope(topic, eventSource, payload)
	if err != nil {
		return err
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event envelope")
	}
	return n.producer.Publish(ctx, &Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Headers: map[string]string{
			"event_id":   envelope.EventID,
			"event_type": envelope.EventType,
		},
	})
}
