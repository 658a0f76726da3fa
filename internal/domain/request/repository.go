package request

import (
	"context"
	"time"
)

// Repository persists request aggregates. Implementations return
// ErrCodeRequestNotFound for unknown references and ErrCodeConflict for
// duplicate ones.
type Repository interface {
	// Create stores a new request and fails on a duplicate reference.
	Create(ctx context.Context, req *Request) error

	// GetByRef returns the request for a reference number.
	GetByRef(ctx context.Context, refNumber string) (*Request, error)

	// Update persists the current aggregate state.
	Update(ctx context.Context, req *Request) error

	// ListOpen returns open requests filed on or before cutoff, oldest
	// first, at most limit of them. It feeds the escalation sweep.
	ListOpen(ctx context.Context, cutoff time.Time, limit int) ([]*Request, error)

	// List returns requests ordered newest first. When openOnly is set only
	// open statuses are returned.
	List(ctx context.Context, openOnly bool, limit int) ([]*Request, error)

	// NextSequence reserves the next reference sequence number for a year.
	NextSequence(ctx context.Context, year int) (int64, error)
}

// AppealRepository persists appeal records. Create must be safe to race:
// when an appeal already exists for the reference it returns
// ErrCodeAppealExists and leaves the existing row untouched.
type AppealRepository interface {
	Create(ctx context.Context, appeal *Appeal) error
	GetByRequestRef(ctx context.Context, refNumber string) (*Appeal, error)
}
