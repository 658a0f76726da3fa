// Package repositories implements the domain repository interfaces over
// PostgreSQL. Structured fields (applicant, classification, questions) are
// stored as JSONB; everything the queries filter or sort on is a column.
package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	pkgerrors "github.com/opengov-in/rti-sahayak/pkg/errors"
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func marshalJSON(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrCodeSerialization, "failed to encode row field")
	}
	return data, nil
}

func unmarshalJSON(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrCodeSerialization, "failed to decode row field")
	}
	return nil
}
