package repositories

import (
	"context"
	"database/sql"

	"github.com/opengov-in/rti-sahayak/internal/domain/request"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/opengov-in/rti-sahayak/pkg/errors"
)

// AppealRepository is the PostgreSQL request.AppealRepository. The unique
// constraint on request_ref is the single-appeal guarantee: racing sweepers
// both insert, one wins, the other gets the appeal-exists error and moves on.
type AppealRepository struct {
	db  *sql.DB
	log logging.Logger
}

// NewAppealRepository builds the repository.
func NewAppealRepository(db *sql.DB, log logging.Logger) *AppealRepository {
	return &AppealRepository{db: db, log: log}
}

func (r *AppealRepository) Create(ctx context.Context, appeal *request.Appeal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rti_appeals (id, request_ref, ground, document_text, filed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		appeal.ID, appeal.RequestRef, string(appeal.Ground), appeal.DocumentText,
		appeal.FiledAt, appeal.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return pkgerrors.Newf(pkgerrors.ErrCodeAppealExists, "appeal exists for %s", appeal.RequestRef)
		}
		return pkgerrors.Wrap(err, pkgerrors.ErrCodeDatabaseError, "failed to insert appeal")
	}
	return nil
}

func (r *AppealRepository) GetByRequestRef(ctx context.Context, refNumber string) (*request.Appeal, error) {
	var (
		appeal request.Appeal
		ground string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, request_ref, ground, document_text, filed_at, created_at
		FROM rti_appeals WHERE request_ref = $1`, refNumber).
		Scan(&appeal.ID, &appeal.RequestRef, &ground, &appeal.DocumentText,
			&appeal.FiledAt, &appeal.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, pkgerrors.Newf(pkgerrors.ErrCodeNotFound, "no appeal for %s", refNumber)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrCodeDatabaseError, "failed to load appeal")
	}
	appeal.Ground = request.AppealGround(ground)
	return &appeal, nil
}
