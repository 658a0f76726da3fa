package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengov-in/rti-sahayak/pkg/errors"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusDrafted, StatusFiled, true},
		{StatusDrafted, StatusAcknowledged, false},
		{StatusDrafted, StatusClosed, false},
		{StatusFiled, StatusAcknowledged, true},
		{StatusFiled, StatusResponseReceived, true},
		{StatusFiled, StatusAppealFiled, true},
		{StatusFiled, StatusDrafted, false},
		{StatusAcknowledged, StatusResponseReceived, true},
		{StatusAcknowledged, StatusAppealFiled, true},
		{StatusAcknowledged, StatusFiled, false},
		{StatusResponseReceived, StatusClosed, true},
		{StatusResponseReceived, StatusAppealFiled, false},
		{StatusAppealFiled, StatusClosed, true},
		{StatusAppealFiled, StatusResponseReceived, false},
		{StatusClosed, StatusFiled, false},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.allowed, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, StatusClosed.Terminal())
	assert.False(t, StatusFiled.Terminal())

	assert.True(t, StatusFiled.Open())
	assert.True(t, StatusAcknowledged.Open())
	assert.False(t, StatusDrafted.Open())
	assert.False(t, StatusResponseReceived.Open())
	assert.False(t, StatusAppealFiled.Open())
	assert.False(t, StatusClosed.Open())

	assert.True(t, StatusDrafted.Valid())
	assert.False(t, Status("pending").Valid())
}

func TestNewRefNumber(t *testing.T) {
	assert.Equal(t, "RTI2026-00421", NewRefNumber(2026, 421))
	assert.Equal(t, "RTI2026-00001", NewRefNumber(2026, 1))
	assert.Equal(t, "RTI2027-123456", NewRefNumber(2027, 123456))
}

func newDrafted(t *testing.T) *Request {
	t.Helper()
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	req := New("RTI2026-00001", Applicant{Name: "Asha Rao", Address: "Pune"}, "road is broken", "en", now)
	require.Equal(t, StatusDrafted, req.Status)
	require.NotEmpty(t, req.ID)
	return req
}

func TestMarkFiledSetsDeadlineOnce(t *testing.T) {
	req := newDrafted(t)
	filedAt := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	deadline := filedAt.AddDate(0, 0, 30)

	require.NoError(t, req.MarkFiled(filedAt, deadline))
	assert.Equal(t, StatusFiled, req.Status)
	require.NotNil(t, req.FiledAt)
	assert.Equal(t, filedAt, *req.FiledAt)
	require.NotNil(t, req.ResponseDeadline)
	assert.Equal(t, deadline, *req.ResponseDeadline)

	// Re-filing is a state conflict and leaves the original stamps alone.
	err := req.MarkFiled(filedAt.Add(time.Hour), deadline.Add(time.Hour))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStateConflict))
	assert.Equal(t, filedAt, *req.FiledAt)
	assert.Equal(t, deadline, *req.ResponseDeadline)
}

func TestLifecycleHappyPath(t *testing.T) {
	req := newDrafted(t)
	now := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, req.MarkFiled(now, now.AddDate(0, 0, 30)))
	require.NoError(t, req.MarkAcknowledged(now.AddDate(0, 0, 3)))
	require.NoError(t, req.MarkResponseReceived(now.AddDate(0, 0, 20)))
	require.NoError(t, req.MarkClosed(now.AddDate(0, 0, 21)))

	assert.Equal(t, StatusClosed, req.Status)
	assert.NotNil(t, req.AcknowledgedAt)
	assert.NotNil(t, req.ResponseAt)
	assert.NotNil(t, req.ClosedAt)
}

func TestEscalationPath(t *testing.T) {
	req := newDrafted(t)
	now := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, req.MarkFiled(now, now.AddDate(0, 0, 30)))
	require.NoError(t, req.MarkAppealFiled(now.AddDate(0, 0, 31)))
	assert.Equal(t, StatusAppealFiled, req.Status)

	err := req.MarkResponseReceived(now.AddDate(0, 0, 32))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStateConflict))

	require.NoError(t, req.MarkClosed(now.AddDate(0, 0, 40)))
	assert.Equal(t, StatusClosed, req.Status)
}

func TestDeadlineElapsed(t *testing.T) {
	req := newDrafted(t)
	filedAt := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	deadline := filedAt.AddDate(0, 0, 30)
	require.NoError(t, req.MarkFiled(filedAt, deadline))

	assert.False(t, req.DeadlineElapsed(deadline.Add(-time.Minute)))
	assert.True(t, req.DeadlineElapsed(deadline))
	assert.True(t, req.DeadlineElapsed(deadline.Add(time.Hour)))

	require.NoError(t, req.MarkAppealFiled(deadline.Add(time.Hour)))
	assert.False(t, req.DeadlineElapsed(deadline.Add(2*time.Hour)))
}

func TestReminderDue(t *testing.T) {
	req := newDrafted(t)
	filedAt := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	reminderAfter := 25 * 24 * time.Hour
	require.NoError(t, req.MarkFiled(filedAt, filedAt.AddDate(0, 0, 30)))

	assert.False(t, req.ReminderDue(filedAt.AddDate(0, 0, 24), reminderAfter))
	assert.True(t, req.ReminderDue(filedAt.AddDate(0, 0, 25), reminderAfter))

	assert.True(t, req.MarkReminderSent(filedAt.AddDate(0, 0, 25)))
	assert.False(t, req.ReminderDue(filedAt.AddDate(0, 0, 26), reminderAfter))
	assert.False(t, req.MarkReminderSent(filedAt.AddDate(0, 0, 26)))
}

func TestNewAppeal(t *testing.T) {
	now := time.Date(2026, time.April, 2, 9, 0, 0, 0, time.UTC)
	appeal := NewAppeal("RTI2026-00001", GroundDeemedRefusal, "appeal text", now)

	assert.NotEmpty(t, appeal.ID)
	assert.Equal(t, "RTI2026-00001", appeal.RequestRef)
	assert.Equal(t, GroundDeemedRefusal, appeal.Ground)
	assert.Equal(t, now, appeal.FiledAt)
}
