package lifecycle

import (
	"context"

	"github.com/opengov-in/rti-sahayak/internal/domain/request"
	"github.com/opengov-in/rti-sahayak/internal/domain/taxonomy"
)

// Locker serialises lifecycle mutations per request reference. Acquire
// blocks until the lock is held or ctx ends; the returned release function
// must always be called.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// FilingGateway submits an assembled application to the government portal
// and returns the portal acknowledgement id.
type FilingGateway interface {
	File(ctx context.Context, req *request.Request, office *taxonomy.Office) (ackID string, err error)
}

// Notifier publishes lifecycle events to the notification sink. Publish
// failures are reported but never fail the lifecycle operation itself.
type Notifier interface {
	RequestFiled(ctx context.Context, req *request.Request) error
	ReminderDue(ctx context.Context, req *request.Request) error
	AppealFiled(ctx context.Context, req *request.Request, appeal *request.Appeal) error
}
