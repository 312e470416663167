package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	apperrors "canned-answers/errors"
	"canned-answers/web/types"

	"github.com/google/uuid"
)

const cannedColumns = `id, date, pf_meeting_id, race_number, prompt_type, prompt_text,
    raw_response, use_count, first_used_at, first_used_ip, first_used_ua,
    last_used_at, last_used_ip, last_used_ua, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCannedAnswer(row rowScanner) (*types.CannedAnswer, error) {
	var a types.CannedAnswer
	var promptText, firstIP, firstUA, lastIP, lastUA sql.NullString
	var firstAt, lastAt sql.NullTime

	err := row.Scan(
		&a.ID, &a.Date, &a.PFMeetingID, &a.RaceNumber, &a.PromptType,
		&promptText, &a.RawResponse, &a.UseCount,
		&firstAt, &firstIP, &firstUA,
		&lastAt, &lastIP, &lastUA,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.PromptText = promptText.String
	a.FirstUsedIP = firstIP.String
	a.FirstUsedUA = firstUA.String
	a.LastUsedIP = lastIP.String
	a.LastUsedUA = lastUA.String
	if firstAt.Valid {
		t := firstAt.Time
		a.FirstUsedAt = &t
	}
	if lastAt.Valid {
		t := lastAt.Time
		a.LastUsedAt = &t
	}
	return &a, nil
}

// GetCannedAnswer returns the answer for an exact key and records the read:
// use_count is incremented, first_used_* is set once, last_used_* is
// overwritten. The read and the usage bump are one statement, so they are
// atomic from the caller's point of view.
func (s *PostgresStore) GetCannedAnswer(ctx context.Context, key types.CannedKey, stamp types.UsageStamp) (*types.CannedAnswer, error) {
	query := `
        UPDATE canned_answers SET
            use_count = use_count + 1,
            first_used_at = COALESCE(first_used_at, $5),
            first_used_ip = COALESCE(first_used_ip, $6),
            first_used_ua = COALESCE(first_used_ua, $7),
            last_used_at = $5,
            last_used_ip = $6,
            last_used_ua = $7,
            updated_at = NOW()
        WHERE date = $1 AND pf_meeting_id = $2 AND race_number = $3 AND prompt_type = $4
        RETURNING ` + cannedColumns

	row := s.DB.QueryRowContext(ctx, query,
		key.Date, key.PFMeetingID, key.RaceNumber, key.PromptType,
		stamp.At, stamp.IP, stamp.UserAgent)

	answer, err := scanCannedAnswer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.WrapError(err, "failed to get canned answer")
	}
	return answer, nil
}

// CreateCannedAnswer inserts a new answer for the key, or returns the
// existing row unchanged when one is already there. The unique constraint
// arbitrates concurrent creates: losers fall through to the re-read, so
// every caller observes whichever raw_response was persisted first.
func (s *PostgresStore) CreateCannedAnswer(ctx context.Context, key types.CannedKey, promptText, rawResponse string) (*types.CannedAnswer, error) {
	insert := `
        INSERT INTO canned_answers (id, date, pf_meeting_id, race_number, prompt_type, prompt_text, raw_response)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT ON CONSTRAINT uq_canned_key DO NOTHING
        RETURNING ` + cannedColumns

	prompt := sql.NullString{String: promptText, Valid: promptText != ""}
	row := s.DB.QueryRowContext(ctx, insert,
		uuid.New(), key.Date, key.PFMeetingID, key.RaceNumber, key.PromptType,
		prompt, rawResponse)

	answer, err := scanCannedAnswer(row)
	if err == nil {
		return answer, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapError(err, "failed to create canned answer")
	}

	// Insert conflicted: the key exists. First write wins, return it.
	return s.findCannedAnswer(ctx, key)
}

func (s *PostgresStore) findCannedAnswer(ctx context.Context, key types.CannedKey) (*types.CannedAnswer, error) {
	query := `SELECT ` + cannedColumns + `
        FROM canned_answers
        WHERE date = $1 AND pf_meeting_id = $2 AND race_number = $3 AND prompt_type = $4`

	row := s.DB.QueryRowContext(ctx, query, key.Date, key.PFMeetingID, key.RaceNumber, key.PromptType)
	answer, err := scanCannedAnswer(row)
	if errors.Is(err, sql.ErrNoRows) {
		// Rows are never deleted, so a conflicting insert implies the row is
		// readable. Absent anyway means something external removed it.
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.WrapError(err, "failed to read existing canned answer")
	}
	return answer, nil
}

// ListCannedByDay returns every canned answer for one day, ordered by
// meeting, race and prompt type for the day view.
func (s *PostgresStore) ListCannedByDay(ctx context.Context, day time.Time) ([]types.CannedAnswer, error) {
	query := `SELECT ` + cannedColumns + `
        FROM canned_answers
        WHERE date = $1
        ORDER BY pf_meeting_id, race_number, prompt_type`

	rows, err := s.DB.QueryContext(ctx, query, day)
	if err != nil {
		return nil, apperrors.WrapError(err, "failed to list canned answers")
	}
	defer rows.Close()

	var answers []types.CannedAnswer
	for rows.Next() {
		a, err := scanCannedAnswer(rows)
		if err != nil {
			return nil, apperrors.WrapError(err, "failed to scan canned answer")
		}
		answers = append(answers, *a)
	}
	return answers, rows.Err()
}
