package client

import "time"

// The SDK defines its own wire types rather than importing server internals,
// so external consumers vendor nothing beyond this package.

// Applicant identifies the citizen filing an application.
type Applicant struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	BPL           bool   `json:"bpl"`
	BPLCardNumber string `json:"bpl_card_number,omitempty"`
}

// Slots carries structured fragments extracted from the query text.
type Slots struct {
	TimeWindow string `json:"time_window,omitempty"`
	Place      string `json:"place,omitempty"`
	Region     string `json:"region,omitempty"`
	Urgent     bool   `json:"urgent,omitempty"`
}

// Classification is the grievance category assignment.
type Classification struct {
	CategoryID string  `json:"category_id"`
	Confidence float64 `json:"confidence"`
	Slots      Slots   `json:"slots"`
}

// Request is one application as the server reports it.
type Request struct {
	ID               string         `json:"id"`
	RefNumber        string         `json:"ref_number"`
	Applicant        Applicant      `json:"applicant"`
	QueryText        string         `json:"query_text"`
	Language         string         `json:"language"`
	Classification   Classification `json:"classification"`
	OfficeID         string         `json:"office_id"`
	Fee              int64          `json:"fee"`
	Subject          string         `json:"subject"`
	Questions        []string       `json:"questions"`
	DocumentText     string         `json:"document_text"`
	Status           string         `json:"status"`
	GatewayAckID     string         `json:"gateway_ack_id,omitempty"`
	FiledAt          *time.Time     `json:"filed_at,omitempty"`
	ResponseDeadline *time.Time     `json:"response_deadline,omitempty"`
	AcknowledgedAt   *time.Time     `json:"acknowledged_at,omitempty"`
	ResponseAt       *time.Time     `json:"response_at,omitempty"`
	ReminderSentAt   *time.Time     `json:"reminder_sent_at,omitempty"`
	ClosedAt         *time.Time     `json:"closed_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Appeal is a filed first appeal.
type Appeal struct {
	ID           string    `json:"id"`
	RequestRef   string    `json:"request_ref"`
	Ground       string    `json:"ground"`
	DocumentText string    `json:"document_text"`
	FiledAt      time.Time `json:"filed_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// AppealStatus is the escalation view of one request.
type AppealStatus struct {
	RefNumber        string     `json:"ref_number"`
	Status           string     `json:"status"`
	ResponseDeadline *time.Time `json:"response_deadline,omitempty"`
	DaysRemaining    int        `json:"days_remaining"`
	ReminderSent     bool       `json:"reminder_sent"`
	Appeal           *Appeal    `json:"appeal,omitempty"`
}

// SubmitInput is the citizen submission payload.
type SubmitInput struct {
	Applicant Applicant `json:"applicant"`
	QueryText string    `json:"query_text"`
	Language  string    `json:"language,omitempty"`
}

// ListOptions filters a request listing.
type ListOptions struct {
	OpenOnly bool
	Limit    int
}

// ClassifyResult is the dry-run classification preview.
type ClassifyResult struct {
	Classification Classification `json:"classification"`
	OfficeID       string         `json:"office_id,omitempty"`
	OfficeName     string         `json:"office_name,omitempty"`
}

// SweepResult summarises one escalation sweep.
type SweepResult struct {
	Scanned   int `json:"scanned"`
	Reminders int `json:"reminders"`
	Appeals   int `json:"appeals"`
	Failures  int `json:"failures"`
}
