package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/opengov-in/rti-sahayak/pkg/errors"
)

// Topics carrying lifecycle events for the notification workers.
const (
	TopicRequestFiled = "rti.request.filed"
	TopicReminderDue  = "rti.reminder.due"
	TopicAppealFiled  = "rti.appeal.filed"
)

// EventEnvelope is the wire format shared by every topic.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// RequestFiledPayload announces a successful portal submission.
type RequestFiledPayload struct {
	RefNumber        string     `json:"ref_number"`
	OfficeID         string     `json:"office_id"`
	GatewayAckID     string     `json:"gateway_ack_id"`
	Fee              int64      `json:"fee"`
	FiledAt          *time.Time `json:"filed_at"`
	ResponseDeadline *time.Time `json:"response_deadline"`
}

// ReminderDuePayload asks the notification workers to nudge the applicant
// before the statutory deadline lapses.
type ReminderDuePayload struct {
	RefNumber        string     `json:"ref_number"`
	OfficeID         string     `json:"office_id"`
	ResponseDeadline *time.Time `json:"response_deadline"`
	SentAt           time.Time  `json:"sent_at"`
}

// AppealFiledPayload announces an automatic first appeal.
type AppealFiledPayload struct {
	RefNumber string    `json:"ref_number"`
	AppealID  string    `json:"appeal_id"`
	Ground    string    `json:"ground"`
	FiledAt   time.Time `json:"filed_at"`
}

// NewEventEnvelope wraps a payload for publishing.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 {
		return errors.New(errors.ErrCodeSerialization, "empty event payload")
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode event payload")
	}
	return nil
}
