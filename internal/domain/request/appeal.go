package request

import (
	"time"

	"github.com/google/uuid"
)

// AppealGround names why a first appeal under Section 19(1) was raised.
type AppealGround string

const (
	// GroundDeemedRefusal covers the deadline elapsing with no response,
	// a deemed refusal under Section 7(2).
	GroundDeemedRefusal AppealGround = "deemed_refusal"

	// GroundUnsatisfactory covers an explicit but deficient response.
	GroundUnsatisfactory AppealGround = "unsatisfactory_response"
)

// Appeal is the first-appeal record attached to a request. At most one
// appeal exists per request; the store enforces this with a unique
// constraint on the request reference.
type Appeal struct {
	ID         string `json:"id"`
	RequestRef string `json:"request_ref"`

	Ground AppealGround `json:"ground"`

	// DocumentText is the assembled appeal letter.
	DocumentText string `json:"document_text"`

	FiledAt   time.Time `json:"filed_at"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAppeal builds an appeal record for the given request reference.
func NewAppeal(requestRef string, ground AppealGround, documentText string, now time.Time) *Appeal {
	return &Appeal{
		ID:           uuid.New().String(),
		RequestRef:   requestRef,
		Ground:       ground,
		DocumentText: documentText,
		FiledAt:      now,
		CreatedAt:    now,
	}
}
