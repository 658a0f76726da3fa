package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengov-in/rti-sahayak/internal/application/classify"
	"github.com/opengov-in/rti-sahayak/internal/application/draft"
	"github.com/opengov-in/rti-sahayak/internal/application/routing"
	"github.com/opengov-in/rti-sahayak/internal/domain/request"
	"github.com/opengov-in/rti-sahayak/internal/domain/taxonomy"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
	"github.com/opengov-in/rti-sahayak/pkg/errors"
)

const fixtureCategories = `[
  {
    "id": "road_infrastructure",
    "name": "Roads & Infrastructure",
    "central_office_id": "C004",
    "state_subject": true,
    "keywords": {"en": ["road", "pothole", "road repair"]},
    "default_questions": [
      "Please provide the sanctioned budget for the road work.",
      "Please provide the name of the contractor."
    ]
  },
  {
    "id": "other",
    "name": "General Administration",
    "central_office_id": "C013",
    "keywords": {},
    "default_questions": ["Please provide complete information regarding the matter described above."]
  }
]`

const fixtureOffices = `{
  "central": [
    {"id": "C004", "department": "Ministry of Road Transport and Highways", "officer_name": "CPIO", "address": "New Delhi", "base_fee": 10, "categories": ["road_infrastructure"]},
    {"id": "C013", "department": "Department of Personnel and Training", "officer_name": "CPIO", "address": "New Delhi", "base_fee": 10, "categories": ["other"]}
  ],
  "state": {
    "Maharashtra": [
      {"id": "MH-PWD", "department": "Public Works Department, Government of Maharashtra", "officer_name": "SPIO", "address": "Mantralaya, Mumbai", "base_fee": 10, "categories": ["road_infrastructure"]}
    ]
  }
}`

const fixturePlaces = `{"mumbai": "Maharashtra", "pune": "Maharashtra"}`

func fixtureCatalog(t *testing.T) *taxonomy.Store {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "categories.json"), []byte(fixtureCategories), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "offices.json"), []byte(fixtureOffices), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "places.json"), []byte(fixturePlaces), 0o644))
	store, err := taxonomy.NewStore(dir, logging.NewNop())
	require.NoError(t, err)
	return store
}

type memRepo struct {
	mu      sync.Mutex
	byRef   map[string]*request.Request
	seq     int64
	updates int
}

func newMemRepo() *memRepo {
	return &memRepo{byRef: map[string]*request.Request{}}
}

func cloneRequest(r *request.Request) *request.Request {
	c := *r
	c.Questions = append([]string(nil), r.Questions...)
	return &c
}

func (m *memRepo) Create(_ context.Context, req *request.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byRef[req.RefNumber]; ok {
		return errors.Newf(errors.ErrCodeConflict, "duplicate ref %s", req.RefNumber)
	}
	m.byRef[req.RefNumber] = cloneRequest(req)
	return nil
}

func (m *memRepo) GetByRef(_ context.Context, ref string) (*request.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.byRef[ref]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeRequestNotFound, "no request %s", ref)
	}
	return cloneRequest(req), nil
}

func (m *memRepo) Update(_ context.Context, req *request.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byRef[req.RefNumber]; !ok {
		return errors.Newf(errors.ErrCodeRequestNotFound, "no request %s", req.RefNumber)
	}
	m.byRef[req.RefNumber] = cloneRequest(req)
	m.updates++
	return nil
}

func (m *memRepo) ListOpen(_ context.Context, cutoff time.Time, limit int) ([]*request.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*request.Request
	for _, req := range m.byRef {
		if req.Status.Open() && req.FiledAt != nil && !req.FiledAt.After(cutoff) {
			out = append(out, cloneRequest(req))
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memRepo) List(_ context.Context, openOnly bool, limit int) ([]*request.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*request.Request
	for _, req := range m.byRef {
		if openOnly && !req.Status.Open() {
			continue
		}
		out = append(out, cloneRequest(req))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memRepo) NextSequence(_ context.Context, _ int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return m.seq, nil
}

type memAppeals struct {
	mu    sync.Mutex
	byRef map[string]*request.Appeal
}

func newMemAppeals() *memAppeals {
	return &memAppeals{byRef: map[string]*request.Appeal{}}
}

func (m *memAppeals) Create(_ context.Context, appeal *request.Appeal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byRef[appeal.RequestRef]; ok {
		return errors.Newf(errors.ErrCodeAppealExists, "appeal exists for %s", appeal.RequestRef)
	}
	m.byRef[appeal.RequestRef] = appeal
	return nil
}

func (m *memAppeals) GetByRequestRef(_ context.Context, ref string) (*request.Appeal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	appeal, ok := m.byRef[ref]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeNotFound, "no appeal for %s", ref)
	}
	return appeal, nil
}

type countingLocker struct {
	mu       sync.Mutex
	acquired int
	released int
}

func (l *countingLocker) Acquire(_ context.Context, _ string) (func(), error) {
	l.mu.Lock()
	l.acquired++
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		l.released++
		l.mu.Unlock()
	}, nil
}

type stubGateway struct {
	ackID string
	err   error
	calls int
}

func (g *stubGateway) File(_ context.Context, _ *request.Request, _ *taxonomy.Office) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.ackID, nil
}

type recordingNotifier struct {
	filed     int
	reminders int
	appeals   int
}

func (n *recordingNotifier) RequestFiled(_ context.Context, _ *request.Request) error {
	n.filed++
	return nil
}

func (n *recordingNotifier) ReminderDue(_ context.Context, _ *request.Request) error {
	n.reminders++
	return nil
}

func (n *recordingNotifier) AppealFiled(_ context.Context, _ *request.Request, _ *request.Appeal) error {
	n.appeals++
	return nil
}

type engineFixture struct {
	engine   *Engine
	repo     *memRepo
	appeals  *memAppeals
	locker   *countingLocker
	gateway  *stubGateway
	notifier *recordingNotifier
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	f := &engineFixture{
		repo:     newMemRepo(),
		appeals:  newMemAppeals(),
		locker:   &countingLocker{},
		gateway:  &stubGateway{ackID: "ACK-001"},
		notifier: &recordingNotifier{},
	}
	log := logging.NewNop()
	f.engine = NewEngine(Config{
		Repo:                 f.repo,
		Appeals:              f.appeals,
		Catalog:              fixtureCatalog(t),
		Classifier:           classify.NewClassifier(1.0),
		Router:               routing.NewRouter(nil, 0, log),
		Fees:                 routing.NewFeeResolver(10),
		Assembler:            draft.NewAssembler(nil, log),
		Gateway:              f.gateway,
		Locker:               f.locker,
		Notifier:             f.notifier,
		Logger:               log,
		ResponseDeadlineDays: 30,
	})
	return f
}

func submitRoadQuery(t *testing.T, f *engineFixture) *request.Request {
	t.Helper()
	req, err := f.engine.Submit(context.Background(), SubmitInput{
		Applicant: request.Applicant{Name: "Asha Rao", Address: "12 MG Road, Pune"},
		QueryText: "The road in mumbai has potholes and nothing was done for the last 6 months",
	})
	require.NoError(t, err)
	return req
}

func TestSubmitEndToEnd(t *testing.T) {
	f := newEngineFixture(t)
	req := submitRoadQuery(t, f)

	assert.Equal(t, request.StatusDrafted, req.Status)
	assert.Equal(t, "road_infrastructure", req.Classification.CategoryID)
	assert.Equal(t, "MH-PWD", req.OfficeID)
	assert.Equal(t, int64(10), req.Fee)
	assert.Regexp(t, `^RTI\d{4}-\d{5}$`, req.RefNumber)

	assert.Contains(t, req.DocumentText, "Public Works Department")
	assert.Contains(t, req.DocumentText, "fee of Rs. 10")
	assert.Contains(t, req.DocumentText, "Section 7(1)")
	assert.Contains(t, req.DocumentText, "Section 6(3)")

	stored, err := f.engine.Get(context.Background(), req.RefNumber)
	require.NoError(t, err)
	assert.Equal(t, req.RefNumber, stored.RefNumber)
}

func TestSubmitNoSignalGetsCatchAll(t *testing.T) {
	f := newEngineFixture(t)

	req, err := f.engine.Submit(context.Background(), SubmitInput{
		Applicant: request.Applicant{Name: "Asha Rao", Address: "Pune"},
		QueryText: "asdkjhasd qwerty zzz",
	})
	require.NoError(t, err)
	assert.Equal(t, taxonomy.CategoryOther, req.Classification.CategoryID)
	assert.Zero(t, req.Classification.Confidence)
	assert.Equal(t, "C013", req.OfficeID)
}

func TestSubmitFeeExemption(t *testing.T) {
	f := newEngineFixture(t)

	req, err := f.engine.Submit(context.Background(), SubmitInput{
		Applicant: request.Applicant{Name: "Asha Rao", Address: "Pune", BPL: true, BPLCardNumber: "BPL-1"},
		QueryText: "road has potholes",
	})
	require.NoError(t, err)
	assert.Zero(t, req.Fee)
	assert.Contains(t, req.DocumentText, "Section 7(5)")
}

func TestSubmitValidation(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	_, err := f.engine.Submit(ctx, SubmitInput{QueryText: "road"})
	assert.True(t, errors.IsValidation(err))

	_, err = f.engine.Submit(ctx, SubmitInput{Applicant: request.Applicant{Name: "A", Address: "B"}})
	assert.True(t, errors.IsValidation(err))
}

func TestFileSetsDeadlineOnce(t *testing.T) {
	f := newEngineFixture(t)
	req := submitRoadQuery(t, f)

	filed, err := f.engine.File(context.Background(), req.RefNumber)
	require.NoError(t, err)
	assert.Equal(t, request.StatusFiled, filed.Status)
	assert.Equal(t, "ACK-001", filed.GatewayAckID)
	require.NotNil(t, filed.FiledAt)
	require.NotNil(t, filed.ResponseDeadline)
	assert.Equal(t, filed.FiledAt.Add(30*24*time.Hour), *filed.ResponseDeadline)
	assert.Equal(t, 1, f.notifier.filed)

	// Filing again conflicts before the gateway is ever called.
	_, err = f.engine.File(context.Background(), req.RefNumber)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStateConflict))
	assert.Equal(t, 1, f.gateway.calls)
}

func TestFileGatewayFailureLeavesDrafted(t *testing.T) {
	f := newEngineFixture(t)
	f.gateway.err = errors.New(errors.ErrCodeGatewayTimeout, "portal timeout")
	req := submitRoadQuery(t, f)

	_, err := f.engine.File(context.Background(), req.RefNumber)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeGatewayTimeout))

	stored, err := f.engine.Get(context.Background(), req.RefNumber)
	require.NoError(t, err)
	assert.Equal(t, request.StatusDrafted, stored.Status)
	assert.Nil(t, stored.FiledAt)
	assert.Nil(t, stored.ResponseDeadline)
}

func TestFileUnresolvedOfficeRejected(t *testing.T) {
	f := newEngineFixture(t)
	req := submitRoadQuery(t, f)

	// Force the unresolved sentinel as the routed destination.
	stored, err := f.repo.GetByRef(context.Background(), req.RefNumber)
	require.NoError(t, err)
	stored.OfficeID = taxonomy.OfficeIDUnresolved
	require.NoError(t, f.repo.Update(context.Background(), stored))

	_, err = f.engine.File(context.Background(), req.RefNumber)
	assert.True(t, errors.IsCode(err, errors.ErrCodeOfficeUnknown))
	assert.Zero(t, f.gateway.calls)
}

func TestSignalsAndIllegalTransition(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	req := submitRoadQuery(t, f)

	_, err := f.engine.File(ctx, req.RefNumber)
	require.NoError(t, err)

	ack, err := f.engine.Acknowledge(ctx, req.RefNumber)
	require.NoError(t, err)
	assert.Equal(t, request.StatusAcknowledged, ack.Status)

	resp, err := f.engine.RecordResponse(ctx, req.RefNumber)
	require.NoError(t, err)
	assert.Equal(t, request.StatusResponseReceived, resp.Status)

	closed, err := f.engine.Close(ctx, req.RefNumber)
	require.NoError(t, err)
	assert.Equal(t, request.StatusClosed, closed.Status)

	// A closed request rejects further signals and stays untouched.
	updatesBefore := f.repo.updates
	_, err = f.engine.Acknowledge(ctx, req.RefNumber)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStateConflict))
	assert.Equal(t, updatesBefore, f.repo.updates)

	stored, err := f.engine.Get(ctx, req.RefNumber)
	require.NoError(t, err)
	assert.Equal(t, request.StatusClosed, stored.Status)
}

func TestEscalateElapsedIdempotent(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	req := submitRoadQuery(t, f)
	_, err := f.engine.File(ctx, req.RefNumber)
	require.NoError(t, err)

	// Move the deadline into the past.
	stored, err := f.repo.GetByRef(ctx, req.RefNumber)
	require.NoError(t, err)
	past := time.Now().UTC().AddDate(0, 0, -1)
	stored.ResponseDeadline = &past
	require.NoError(t, f.repo.Update(ctx, stored))

	var firstAppeal *request.Appeal
	for i := 0; i < 5; i++ {
		current, err := f.repo.GetByRef(ctx, req.RefNumber)
		require.NoError(t, err)
		appeal, err := f.engine.EscalateElapsed(ctx, current)
		require.NoError(t, err)
		if i == 0 {
			require.NotNil(t, appeal)
			firstAppeal = appeal
			require.NoError(t, f.repo.Update(ctx, current))
		}
	}

	// Exactly one appeal record and one transition.
	assert.Len(t, f.appeals.byRef, 1)
	assert.Equal(t, 1, f.notifier.appeals)

	final, err := f.repo.GetByRef(ctx, req.RefNumber)
	require.NoError(t, err)
	assert.Equal(t, request.StatusAppealFiled, final.Status)

	appeal, err := f.appeals.GetByRequestRef(ctx, req.RefNumber)
	require.NoError(t, err)
	assert.Equal(t, firstAppeal.ID, appeal.ID)
	assert.Contains(t, appeal.DocumentText, "Section 19(1)")
}

func TestEscalateNotElapsedIsNoop(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	req := submitRoadQuery(t, f)
	_, err := f.engine.File(ctx, req.RefNumber)
	require.NoError(t, err)

	current, err := f.repo.GetByRef(ctx, req.RefNumber)
	require.NoError(t, err)
	appeal, err := f.engine.EscalateElapsed(ctx, current)
	require.NoError(t, err)
	assert.Nil(t, appeal)
	assert.Empty(t, f.appeals.byRef)
}

func TestCheckAppeal(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	req := submitRoadQuery(t, f)
	_, err := f.engine.File(ctx, req.RefNumber)
	require.NoError(t, err)

	status, err := f.engine.CheckAppeal(ctx, req.RefNumber)
	require.NoError(t, err)
	assert.Equal(t, request.StatusFiled, status.Status)
	assert.Nil(t, status.Appeal)
	assert.Greater(t, status.DaysRemaining, 25)
	assert.False(t, status.ReminderSent)
}

func TestLockAlwaysReleased(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	req := submitRoadQuery(t, f)

	_, err := f.engine.File(ctx, req.RefNumber)
	require.NoError(t, err)
	_, err = f.engine.File(ctx, req.RefNumber)
	require.Error(t, err)

	assert.Equal(t, f.locker.acquired, f.locker.released)
	assert.GreaterOrEqual(t, f.locker.acquired, 2)
}
