// Package request holds the application aggregate: one citizen query carried
// from classification through drafting, filing, and escalation. The aggregate
// enforces the status machine and the set-once filing fields; persistence and
// transport live elsewhere.
package request

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opengov-in/rti-sahayak/pkg/errors"
)

// Applicant is the citizen snapshot embedded in a request. It is captured at
// submission time and never updated afterwards, so a later profile change
// cannot silently alter an already-drafted document.
type Applicant struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`

	// BPL marks below-poverty-line applicants, who are fee-exempt under
	// Section 7(5) of the RTI Act. The exemption applies only when the card
	// number is also supplied; the declaration alone is not enough.
	BPL           bool   `json:"bpl"`
	BPLCardNumber string `json:"bpl_card_number,omitempty"`
}

// FeeExempt reports whether the applicant qualifies for the Section 7(5)
// fee exemption.
func (a Applicant) FeeExempt() bool {
	return a.BPL && a.BPLCardNumber != ""
}

// Slots carries the structured fragments extracted from the query text.
type Slots struct {
	// TimeWindow is the period the query asks about, verbatim ("last 6
	// months", "2023-24"), empty when none was found.
	TimeWindow string `json:"time_window,omitempty"`

	// Place is the raw place mention from the text; Region is its canonical
	// resolution against the place-alias table, empty when unresolved.
	Place  string `json:"place,omitempty"`
	Region string `json:"region,omitempty"`

	// Urgent is set when the text carries urgency markers. It never changes
	// routing or deadlines; it is surfaced for downstream prioritisation.
	Urgent bool `json:"urgent,omitempty"`
}

// Classification is the immutable outcome of running the classifier over the
// query text.
type Classification struct {
	CategoryID string  `json:"category_id"`
	Confidence float64 `json:"confidence"`
	Slots      Slots   `json:"slots"`
}

// Request is the aggregate root for one application lifecycle.
type Request struct {
	ID        string `json:"id"`
	RefNumber string `json:"ref_number"`

	Applicant Applicant `json:"applicant"`

	// QueryText is the citizen's grievance as submitted; Language is its
	// declared language code.
	QueryText string `json:"query_text"`
	Language  string `json:"language"`

	Classification Classification `json:"classification"`

	// OfficeID is the routed destination, possibly the unresolved sentinel.
	OfficeID string `json:"office_id"`

	// Fee is the application fee in whole rupees after exemptions.
	Fee int64 `json:"fee"`

	Subject      string   `json:"subject"`
	Questions    []string `json:"questions"`
	DocumentText string   `json:"document_text"`

	Status Status `json:"status"`

	// GatewayAckID is the acknowledgement id returned by the filing
	// gateway, empty until the request is filed.
	GatewayAckID string `json:"gateway_ack_id,omitempty"`

	// FiledAt and ResponseDeadline are set exactly once, by the filing
	// transition. ReminderSentAt marks the pre-deadline reminder so sweeps
	// stay idempotent.
	FiledAt          *time.Time `json:"filed_at,omitempty"`
	ResponseDeadline *time.Time `json:"response_deadline,omitempty"`
	AcknowledgedAt   *time.Time `json:"acknowledged_at,omitempty"`
	ResponseAt       *time.Time `json:"response_at,omitempty"`
	ReminderSentAt   *time.Time `json:"reminder_sent_at,omitempty"`
	ClosedAt         *time.Time `json:"closed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRefNumber formats the human-facing reference for a given year and
// sequence value, e.g. RTI2026-00421.
func NewRefNumber(year int, seq int64) string {
	return fmt.Sprintf("RTI%d-%05d", year, seq)
}

// New builds a drafted request with a fresh id. The caller supplies the
// reference number since sequencing belongs to the store.
func New(refNumber string, applicant Applicant, queryText, language string, now time.Time) *Request {
	return &Request{
		ID:        uuid.New().String(),
		RefNumber: refNumber,
		Applicant: applicant,
		QueryText: queryText,
		Language:  language,
		Status:    StatusDrafted,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// transition moves the request to target or returns a state-conflict error
// naming both states. All lifecycle mutations funnel through here.
func (r *Request) transition(target Status, now time.Time) error {
	if !r.Status.CanTransition(target) {
		return errors.Newf(errors.ErrCodeStateConflict,
			"request %s cannot move from %s to %s", r.RefNumber, r.Status, target)
	}
	r.Status = target
	r.UpdatedAt = now
	return nil
}

// MarkFiled records the successful filing: status, filed timestamp, and the
// statutory response deadline, all in one move. Calling it twice fails on the
// transition check, so the deadline can never be rewritten.
func (r *Request) MarkFiled(now time.Time, deadline time.Time) error {
	if err := r.transition(StatusFiled, now); err != nil {
		return err
	}
	filedAt := now
	r.FiledAt = &filedAt
	r.ResponseDeadline = &deadline
	return nil
}

// MarkAcknowledged records the public authority's acknowledgement.
func (r *Request) MarkAcknowledged(now time.Time) error {
	if err := r.transition(StatusAcknowledged, now); err != nil {
		return err
	}
	ackAt := now
	r.AcknowledgedAt = &ackAt
	return nil
}

// MarkResponseReceived records that a substantive response arrived.
func (r *Request) MarkResponseReceived(now time.Time) error {
	if err := r.transition(StatusResponseReceived, now); err != nil {
		return err
	}
	respAt := now
	r.ResponseAt = &respAt
	return nil
}

// MarkAppealFiled moves the request onto the escalation path.
func (r *Request) MarkAppealFiled(now time.Time) error {
	return r.transition(StatusAppealFiled, now)
}

// MarkClosed finishes the lifecycle.
func (r *Request) MarkClosed(now time.Time) error {
	if err := r.transition(StatusClosed, now); err != nil {
		return err
	}
	closedAt := now
	r.ClosedAt = &closedAt
	return nil
}

// MarkReminderSent stamps the pre-deadline reminder. It is a no-op when the
// reminder was already sent.
func (r *Request) MarkReminderSent(now time.Time) bool {
	if r.ReminderSentAt != nil {
		return false
	}
	sentAt := now
	r.ReminderSentAt = &sentAt
	r.UpdatedAt = now
	return true
}

// DeadlineElapsed reports whether the statutory response deadline has passed
// without an outcome.
func (r *Request) DeadlineElapsed(now time.Time) bool {
	return r.Status.Open() && r.ResponseDeadline != nil && !now.Before(*r.ResponseDeadline)
}

// ReminderDue reports whether the pre-deadline reminder should go out: the
// request is open, the reminder window has started, and none was sent yet.
func (r *Request) ReminderDue(now time.Time, reminderAfter time.Duration) bool {
	if !r.Status.Open() || r.FiledAt == nil || r.ReminderSentAt != nil {
		return false
	}
	return !now.Before(r.FiledAt.Add(reminderAfter))
}
