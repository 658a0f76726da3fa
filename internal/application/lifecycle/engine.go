// Package lifecycle orchestrates the request aggregate through its full
// arc: submission, filing, external signals, and the elapsed-deadline
// escalation. Every mutation runs under a per-reference lock so concurrent
// API calls and sweep workers never interleave on one request.
package lifecycle

import (
	"context"
	"strings"
	"time"

	"github.com/opengov-in/rti-sahayak/internal/application/classify"
	"github.com/opengov-in/rti-sahayak/internal/application/draft"
	"github.com/opengov-in/rti-sahayak/internal/application/routing"
	"github.com/opengov-in/rti-sahayak/internal/domain/request"
	"github.com/opengov-in/rti-sahayak/internal/domain/taxonomy"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
	"github.com/opengov-in/rti-sahayak/pkg/errors"
)

// Engine wires the classification, routing, drafting, and persistence
// pieces into the lifecycle operations the interfaces expose.
type Engine struct {
	repo       request.Repository
	appeals    request.AppealRepository
	catalog    *taxonomy.Store
	classifier *classify.Classifier
	router     *routing.Router
	fees       *routing.FeeResolver
	assembler  *draft.Assembler
	gateway    FilingGateway
	locker     Locker
	notifier   Notifier
	log        logging.Logger

	responseDeadline time.Duration

	// now is swapped in tests.
	now func() time.Time
}

// Config carries the engine's construction dependencies.
type Config struct {
	Repo       request.Repository
	Appeals    request.AppealRepository
	Catalog    *taxonomy.Store
	Classifier *classify.Classifier
	Router     *routing.Router
	Fees       *routing.FeeResolver
	Assembler  *draft.Assembler
	Gateway    FilingGateway
	Locker     Locker
	Notifier   Notifier
	Logger     logging.Logger

	// ResponseDeadlineDays is the statutory response period applied at
	// filing time.
	ResponseDeadlineDays int
}

// NewEngine builds the lifecycle engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		repo:             cfg.Repo,
		appeals:          cfg.Appeals,
		catalog:          cfg.Catalog,
		classifier:       cfg.Classifier,
		router:           cfg.Router,
		fees:             cfg.Fees,
		assembler:        cfg.Assembler,
		gateway:          cfg.Gateway,
		locker:           cfg.Locker,
		notifier:         cfg.Notifier,
		log:              cfg.Logger,
		responseDeadline: time.Duration(cfg.ResponseDeadlineDays) * 24 * time.Hour,
		now:              time.Now,
	}
}

// SubmitInput is the citizen submission.
type SubmitInput struct {
	Applicant request.Applicant `json:"applicant"`
	QueryText string            `json:"query_text"`
	Language  string            `json:"language"`
}

func (in SubmitInput) validate() error {
	if strings.TrimSpace(in.Applicant.Name) == "" {
		return errors.Validation("applicant name is required")
	}
	if strings.TrimSpace(in.Applicant.Address) == "" {
		return errors.Validation("applicant address is required")
	}
	if strings.TrimSpace(in.QueryText) == "" {
		return errors.Validation("query text is required")
	}
	return nil
}

// Submit runs the full intake pipeline: classify, route, resolve the fee,
// assemble the document, and persist a drafted request. Nothing external is
// contacted except the optional collaborators, so a submission always
// succeeds when the input is valid and the document assembles.
func (e *Engine) Submit(ctx context.Context, in SubmitInput) (*request.Request, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := e.now().UTC()
	seq, err := e.repo.NextSequence(ctx, now.Year())
	if err != nil {
		return nil, err
	}
	language := in.Language
	if language == "" {
		language = "en"
	}
	req := request.New(request.NewRefNumber(now.Year(), seq), in.Applicant, strings.TrimSpace(in.QueryText), language, now)

	snap := e.catalog.Snapshot()
	req.Classification = e.classifier.Classify(snap, req.QueryText)

	office := e.router.Route(ctx, snap, req.QueryText, req.Classification)
	req.OfficeID = office.ID
	req.Fee = e.fees.Resolve(req.Applicant, office)

	category := snap.CategoryByID(req.Classification.CategoryID)
	if category == nil {
		return nil, errors.Newf(errors.ErrCodeCategoryUnknown, "category %q not in catalog", req.Classification.CategoryID)
	}
	d, err := e.assembler.Assemble(ctx, req, category, office)
	if err != nil {
		return nil, err
	}
	req.Subject = d.Subject
	req.Questions = d.Questions
	req.DocumentText = d.Document

	if err := e.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	e.log.Info("request drafted",
		logging.String("ref", req.RefNumber),
		logging.String("category", req.Classification.CategoryID),
		logging.String("office", req.OfficeID),
		logging.Float64("confidence", req.Classification.Confidence),
	)
	return req, nil
}

// Get returns the request for a reference number.
func (e *Engine) Get(ctx context.Context, refNumber string) (*request.Request, error) {
	return e.repo.GetByRef(ctx, refNumber)
}

// List returns requests, optionally restricted to open ones.
func (e *Engine) List(ctx context.Context, openOnly bool, limit int) ([]*request.Request, error) {
	return e.repo.List(ctx, openOnly, limit)
}

// File submits the drafted document through the filing gateway. On gateway
// failure the request stays drafted and the error is returned; on success
// the filed timestamp and the statutory response deadline are stamped
// exactly once.
func (e *Engine) File(ctx context.Context, refNumber string) (*request.Request, error) {
	return e.withLock(ctx, refNumber, func(req *request.Request) error {
		if !req.Status.CanTransition(request.StatusFiled) {
			return errors.Newf(errors.ErrCodeStateConflict,
				"request %s cannot move from %s to %s", req.RefNumber, req.Status, request.StatusFiled)
		}
		snap := e.catalog.Snapshot()
		office := snap.OfficeByID(req.OfficeID)
		if office == nil || office.Unresolved() {
			return errors.Newf(errors.ErrCodeOfficeUnknown,
				"request %s has no resolved office, filing needs manual routing", req.RefNumber)
		}

		ackID, err := e.gateway.File(ctx, req, office)
		if err != nil {
			return err
		}

		now := e.now().UTC()
		if err := req.MarkFiled(now, now.Add(e.responseDeadline)); err != nil {
			return err
		}
		req.GatewayAckID = ackID

		if err := e.repo.Update(ctx, req); err != nil {
			return err
		}
		if e.notifier != nil {
			if err := e.notifier.RequestFiled(ctx, req); err != nil {
				e.log.Warn("filed notification failed", logging.String("ref", req.RefNumber), logging.Err(err))
			}
		}
		e.log.Info("request filed",
			logging.String("ref", req.RefNumber),
			logging.String("ack_id", ackID),
			logging.Time("deadline", *req.ResponseDeadline),
		)
		return nil
	})
}

// Acknowledge records the public authority's acknowledgement signal.
func (e *Engine) Acknowledge(ctx context.Context, refNumber string) (*request.Request, error) {
	return e.signal(ctx, refNumber, func(req *request.Request, now time.Time) error {
		return req.MarkAcknowledged(now)
	})
}

// RecordResponse records that a substantive response arrived.
func (e *Engine) RecordResponse(ctx context.Context, refNumber string) (*request.Request, error) {
	return e.signal(ctx, refNumber, func(req *request.Request, now time.Time) error {
		return req.MarkResponseReceived(now)
	})
}

// Close finishes the lifecycle.
func (e *Engine) Close(ctx context.Context, refNumber string) (*request.Request, error) {
	return e.signal(ctx, refNumber, func(req *request.Request, now time.Time) error {
		return req.MarkClosed(now)
	})
}

func (e *Engine) signal(ctx context.Context, refNumber string, mutate func(*request.Request, time.Time) error) (*request.Request, error) {
	return e.withLock(ctx, refNumber, func(req *request.Request) error {
		if err := mutate(req, e.now().UTC()); err != nil {
			return err
		}
		return e.repo.Update(ctx, req)
	})
}

// EscalateElapsed runs the elapsed-deadline transition for one request the
// caller has already loaded under its lock: assemble the appeal, create the
// single appeal record, and move the status. A concurrent or repeated run
// finds either the existing appeal row or the already-moved status and does
// nothing.
func (e *Engine) EscalateElapsed(ctx context.Context, req *request.Request) (*request.Appeal, error) {
	now := e.now().UTC()
	if !req.DeadlineElapsed(now) {
		return nil, nil
	}

	snap := e.catalog.Snapshot()
	office := snap.OfficeByID(req.OfficeID)
	doc := draft.AssembleAppeal(req, office, request.GroundDeemedRefusal, now)
	appeal := request.NewAppeal(req.RefNumber, request.GroundDeemedRefusal, doc, now)

	if err := e.appeals.Create(ctx, appeal); err != nil {
		if !errors.IsCode(err, errors.ErrCodeAppealExists) {
			return nil, err
		}
		// The record exists from an earlier run; finish the status move if
		// that run stopped between the insert and the update.
		existing, err := e.appeals.GetByRequestRef(ctx, req.RefNumber)
		if err != nil {
			return nil, err
		}
		if req.Status.CanTransition(request.StatusAppealFiled) {
			if err := req.MarkAppealFiled(now); err != nil {
				return nil, err
			}
			if err := e.repo.Update(ctx, req); err != nil {
				return nil, err
			}
		}
		return existing, nil
	}

	if err := req.MarkAppealFiled(now); err != nil {
		return nil, err
	}
	if err := e.repo.Update(ctx, req); err != nil {
		return nil, err
	}
	if e.notifier != nil {
		if err := e.notifier.AppealFiled(ctx, req, appeal); err != nil {
			e.log.Warn("appeal notification failed", logging.String("ref", req.RefNumber), logging.Err(err))
		}
	}
	e.log.Info("first appeal prepared",
		logging.String("ref", req.RefNumber),
		logging.String("ground", string(appeal.Ground)),
	)
	return appeal, nil
}

// AppealStatus is the escalation view of one request.
type AppealStatus struct {
	RefNumber        string          `json:"ref_number"`
	Status           request.Status  `json:"status"`
	ResponseDeadline *time.Time      `json:"response_deadline,omitempty"`
	DaysRemaining    int             `json:"days_remaining"`
	ReminderSent     bool            `json:"reminder_sent"`
	Appeal           *request.Appeal `json:"appeal,omitempty"`
}

// CheckAppeal reports where a request stands on the escalation path.
func (e *Engine) CheckAppeal(ctx context.Context, refNumber string) (*AppealStatus, error) {
	req, err := e.repo.GetByRef(ctx, refNumber)
	if err != nil {
		return nil, err
	}
	status := &AppealStatus{
		RefNumber:        req.RefNumber,
		Status:           req.Status,
		ResponseDeadline: req.ResponseDeadline,
		ReminderSent:     req.ReminderSentAt != nil,
	}
	if req.ResponseDeadline != nil {
		remaining := int(req.ResponseDeadline.Sub(e.now().UTC()).Hours() / 24)
		if remaining > 0 {
			status.DaysRemaining = remaining
		}
	}
	appeal, err := e.appeals.GetByRequestRef(ctx, refNumber)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	status.Appeal = appeal
	return status, nil
}

// WithLock exposes the per-reference lock scope to callers orchestrating
// multiple engine steps, the escalation sweeper in particular.
func (e *Engine) WithLock(ctx context.Context, refNumber string, fn func(req *request.Request) error) (*request.Request, error) {
	return e.withLock(ctx, refNumber, fn)
}

func (e *Engine) withLock(ctx context.Context, refNumber string, fn func(req *request.Request) error) (*request.Request, error) {
	release, err := e.locker.Acquire(ctx, refNumber)
	if err != nil {
		return nil, err
	}
	defer release()

	req, err := e.repo.GetByRef(ctx, refNumber)
	if err != nil {
		return nil, err
	}
	if err := fn(req); err != nil {
		return nil, err
	}
	return req, nil
}
