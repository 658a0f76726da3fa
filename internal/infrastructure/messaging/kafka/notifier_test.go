package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengov-in/rti-sahayak/internal/domain/request"
)

func filedRequest(t *testing.T) *request.Request {
	t.Helper()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	req := request.New("RTI2026-00042", request.Applicant{Name: "Asha Devi", Address: "Delhi"},
		"ration card not issued", "en", now)
	req.OfficeID = "DL-FS"
	req.Fee = 10
	require.NoError(t, req.MarkFiled(now, now.AddDate(0, 0, 30)))
	req.GatewayAckID = "ACK-7"
	return req
}

func capturedEnvelope(t *testing.T, w *mockWriter) *EventEnvelope {
	t.Helper()
	require.Len(t, w.captured, 1)
	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(w.captured[0].Value, &envelope))
	return &envelope
}

func TestNotifier_RequestFiled(t *testing.T) {
	w := &mockWriter{}
	n := NewNotifier(newTestProducer(w))
	req := filedRequest(t)

	require.NoError(t, n.RequestFiled(context.Background(), req))

	assert.Equal(t, TopicRequestFiled, w.captured[0].Topic)
	assert.Equal(t, []byte("RTI2026-00042"), w.captured[0].Key)

	envelope := capturedEnvelope(t, w)
	assert.Equal(t, TopicRequestFiled, envelope.EventType)
	assert.Equal(t, "rti-sahayak", envelope.Source)
	assert.NotEmpty(t, envelope.EventID)
	assert.Equal(t, "v1", envelope.SchemaVersion)

	var payload RequestFiledPayload
	require.NoError(t, envelope.DecodePayload(&payload))
	assert.Equal(t, "RTI2026-00042", payload.RefNumber)
	assert.Equal(t, "DL-FS", payload.OfficeID)
	assert.Equal(t, "ACK-7", payload.GatewayAckID)
	assert.Equal(t, int64(10), payload.Fee)
	require.NotNil(t, payload.ResponseDeadline)
}

func TestNotifier_ReminderDue(t *testing.T) {
	w := &mockWriter{}
	n := NewNotifier(newTestProducer(w))
	req := filedRequest(t)
	sent := time.Date(2026, 4, 4, 9, 0, 0, 0, time.UTC)
	req.ReminderSentAt = &sent

	require.NoError(t, n.ReminderDue(context.Background(), req))

	assert.Equal(t, TopicReminderDue, w.captured[0].Topic)

	var payload ReminderDuePayload
	require.NoError(t, capturedEnvelope(t, w).DecodePayload(&payload))
	assert.Equal(t, "RTI2026-00042", payload.RefNumber)
	assert.Equal(t, sent, payload.SentAt)
}

func TestNotifier_AppealFiled(t *testing.T) {
	w := &mockWriter{}
	n := NewNotifier(newTestProducer(w))
	req := filedRequest(t)
	appeal := request.NewAppeal(req.RefNumber, request.GroundDeemedRefusal,
		"appeal text", time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC))

	require.NoError(t, n.AppealFiled(context.Background(), req, appeal))

	assert.Equal(t, TopicAppealFiled, w.captured[0].Topic)

	var payload AppealFiledPayload
	require.NoError(t, capturedEnvelope(t, w).DecodePayload(&payload))
	assert.Equal(t, appeal.ID, payload.AppealID)
	assert.Equal(t, "deemed_refusal", payload.Ground)
}

func TestEventEnvelope_DecodeEmptyPayload(t *testing.T) {
	envelope := &EventEnvelope{}
	var payload RequestFiledPayload
	assert.Error(t, envelope.DecodePayload(&payload))
}
