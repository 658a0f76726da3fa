package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/opengov-in/rti-sahayak/internal/domain/request"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/opengov-in/rti-sahayak/pkg/errors"
)

const requestColumns = `id, ref_number, applicant, query_text, language, classification,
	office_id, fee, subject, questions, document_text, status, gateway_ack_id,
	filed_at, response_deadline, acknowledged_at, response_at, reminder_sent_at,
	closed_at, created_at, updated_at`

// RequestRepository is the PostgreSQL request.Repository.
type RequestRepository struct {
	db  *sql.DB
	log logging.Logger
}

// NewRequestRepository builds the repository.
func NewRequestRepository(db *sql.DB, log logging.Logger) *RequestRepository {
	return &RequestRepository{db: db, log: log}
}

func (r *RequestRepository) Create(ctx context.Context, req *request.Request) error {
	applicant, err := marshalJSON(req.Applicant)
	if err != nil {
		return err
	}
	classification, err := marshalJSON(req.Classification)
	if err != nil {
		return err
	}
	questions, err := marshalJSON(req.Questions)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO rti_requests (`+requestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21)`,
		req.ID, req.RefNumber, applicant, req.QueryText, req.Language, classification,
		req.OfficeID, req.Fee, req.Subject, questions, req.DocumentText, string(req.Status), req.GatewayAckID,
		nullTime(req.FiledAt), nullTime(req.ResponseDeadline), nullTime(req.AcknowledgedAt),
		nullTime(req.ResponseAt), nullTime(req.ReminderSentAt), nullTime(req.ClosedAt),
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return pkgerrors.Newf(pkgerrors.ErrCodeConflict, "request %s already exists", req.RefNumber)
		}
		return pkgerrors.Wrap(err, pkgerrors.ErrCodeDatabaseError, "failed to insert request")
	}
	return nil
}

func (r *RequestRepository) GetByRef(ctx context.Context, refNumber string) (*request.Request, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM rti_requests WHERE ref_number = $1`, refNumber)
	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, pkgerrors.Newf(pkgerrors.ErrCodeRequestNotFound, "no request %s", refNumber)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrCodeDatabaseError, "failed to load request")
	}
	return req, nil
}

func (r *RequestRepository) Update(ctx context.Context, req *request.Request) error {
	applicant, err := marshalJSON(req.Applicant)
	if err != nil {
		return err
	}
	classification, err := marshalJSON(req.Classification)
	if err != nil {
		return err
	}
	questions, err := marshalJSON(req.Questions)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE rti_requests SET
			applicant = $2, query_text = $3, language = $4, classification = $5,
			office_id = $6, fee = $7, subject = $8, questions = $9,
			document_text = $10, status = $11, gateway_ack_id = $12,
			filed_at = $13, response_deadline = $14, acknowledged_at = $15,
			response_at = $16, reminder_sent_at = $17, closed_at = $18,
			updated_at = $19
		WHERE ref_number = $1`,
		req.RefNumber, applicant, req.QueryText, req.Language, classification,
		req.OfficeID, req.Fee, req.Subject, questions,
		req.DocumentText, string(req.Status), req.GatewayAckID,
		nullTime(req.FiledAt), nullTime(req.ResponseDeadline), nullTime(req.AcknowledgedAt),
		nullTime(req.ResponseAt), nullTime(req.ReminderSentAt), nullTime(req.ClosedAt),
		req.UpdatedAt,
	)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrCodeDatabaseError, "failed to update request")
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return pkgerrors.Newf(pkgerrors.ErrCodeRequestNotFound, "no request %s", req.RefNumber)
	}
	return nil
}

func (r *RequestRepository) ListOpen(ctx context.Context, cutoff time.Time, limit int) ([]*request.Request, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+requestColumns+` FROM rti_requests
		WHERE status IN ($1, $2) AND filed_at IS NOT NULL AND filed_at <= $3
		ORDER BY filed_at ASC
		LIMIT $4`,
		string(request.StatusFiled), string(request.StatusAcknowledged), cutoff, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrCodeDatabaseError, "failed to list open requests")
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (r *RequestRepository) List(ctx context.Context, openOnly bool, limit int) ([]*request.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM rti_requests ORDER BY created_at DESC LIMIT $1`
	args := []interface{}{limit}
	if openOnly {
		query = `SELECT ` + requestColumns + ` FROM rti_requests
			WHERE status IN ($2, $3) ORDER BY created_at DESC LIMIT $1`
		args = append(args, string(request.StatusFiled), string(request.StatusAcknowledged))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrCodeDatabaseError, "failed to list requests")
	}
	defer rows.Close()
	return collectRequests(rows)
}

// NextSequence reserves the next per-year reference number atomically via
// an upsert, so concurrent submissions never collide.
func (r *RequestRepository) NextSequence(ctx context.Context, year int) (int64, error) {
	var value int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO rti_sequences (year, value) VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET value = rti_sequences.value + 1
		RETURNING value`, year).Scan(&value)
	if err != nil {
		return 0, pkgerrors.Wrap(err, pkgerrors.ErrCodeDatabaseError, "failed to reserve sequence")
	}
	return value, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*request.Request, error) {
	var (
		req            request.Request
		applicant      []byte
		classification []byte
		questions      []byte
		status         string
		filedAt        sql.NullTime
		deadline       sql.NullTime
		acknowledgedAt sql.NullTime
		responseAt     sql.NullTime
		reminderSentAt sql.NullTime
		closedAt       sql.NullTime
	)
	err := row.Scan(
		&req.ID, &req.RefNumber, &applicant, &req.QueryText, &req.Language, &classification,
		&req.OfficeID, &req.Fee, &req.Subject, &questions, &req.DocumentText, &status, &req.GatewayAckID,
		&filedAt, &deadline, &acknowledgedAt, &responseAt, &reminderSentAt,
		&closedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSON(applicant, &req.Applicant); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(classification, &req.Classification); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(questions, &req.Questions); err != nil {
		return nil, err
	}
	req.Status = request.Status(status)
	req.FiledAt = timePtr(filedAt)
	req.ResponseDeadline = timePtr(deadline)
	req.AcknowledgedAt = timePtr(acknowledgedAt)
	req.ResponseAt = timePtr(responseAt)
	req.ReminderSentAt = timePtr(reminderSentAt)
	req.ClosedAt = timePtr(closedAt)
	return &req, nil
}

func collectRequests(rows *sql.Rows) ([]*request.Request, error) {
	var out []*request.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.ErrCodeDatabaseError, "failed to scan request row")
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrCodeDatabaseError, "request row iteration failed")
	}
	return out, nil
}
