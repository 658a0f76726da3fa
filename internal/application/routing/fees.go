package routing

import (
	"github.com/opengov-in/rti-sahayak/internal/domain/request"
	"github.com/opengov-in/rti-sahayak/internal/domain/taxonomy"
)

// FeeResolver computes the application fee in whole rupees.
type FeeResolver struct {
	// standardAmount applies when the office carries no fee of its own,
	// the unresolved sentinel included.
	standardAmount int64
}

// NewFeeResolver builds a resolver with the given standard fee.
func NewFeeResolver(standardAmount int64) *FeeResolver {
	return &FeeResolver{standardAmount: standardAmount}
}

// Resolve returns the fee for applicant at office. Below-poverty-line
// applicants with a card number are exempt under Section 7(5).
func (f *FeeResolver) Resolve(applicant request.Applicant, office *taxonomy.Office) int64 {
	if applicant.FeeExempt() {
		return 0
	}
	if office != nil && !office.Unresolved() && office.BaseFee > 0 {
		return office.BaseFee
	}
	return f.standardAmount
}
