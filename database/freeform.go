package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	apperrors "canned-answers/errors"
	"canned-answers/web/types"

	"github.com/google/uuid"
)

const freeformColumns = `id, date, pf_meeting_id, race_number, question,
    question_normalized, question_tokens, raw_response, use_count, created_at, updated_at`

func scanFreeformQuestion(row rowScanner) (*types.FreeformQuestion, error) {
	var q types.FreeformQuestion
	var tokensJSON []byte

	err := row.Scan(
		&q.ID, &q.Date, &q.PFMeetingID, &q.RaceNumber,
		&q.Question, &q.QuestionNormalized, &tokensJSON,
		&q.RawResponse, &q.UseCount, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tokensJSON, &q.QuestionTokens); err != nil {
		return nil, apperrors.WrapError(err, "malformed question_tokens column")
	}
	return &q, nil
}

// InsertFreeformQuestion stores a new question/answer pair for a race, or
// returns the existing row when the scope already holds this normalized
// question. The unique constraint on (scope, question_normalized) arbitrates
// concurrent submissions the same way the canned-answer key does.
func (s *PostgresStore) InsertFreeformQuestion(ctx context.Context, scope types.RaceScope, question, normalized string, tokens []string, rawResponse string) (*types.FreeformQuestion, error) {
	tokensJSON, err := json.Marshal(tokens)
	if err != nil {
		return nil, apperrors.WrapError(err, "failed to encode question tokens")
	}

	insert := `
        INSERT INTO freeform_questions
            (id, date, pf_meeting_id, race_number, question, question_normalized, question_tokens, raw_response)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT ON CONSTRAINT uq_freeform_normalized DO NOTHING
        RETURNING ` + freeformColumns

	row := s.DB.QueryRowContext(ctx, insert,
		uuid.New(), scope.Date, scope.PFMeetingID, scope.RaceNumber,
		question, normalized, tokensJSON, rawResponse)

	entry, err := scanFreeformQuestion(row)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapError(err, "failed to insert freeform question")
	}

	return s.findFreeformQuestion(ctx, scope, normalized)
}

func (s *PostgresStore) findFreeformQuestion(ctx context.Context, scope types.RaceScope, normalized string) (*types.FreeformQuestion, error) {
	query := `SELECT ` + freeformColumns + `
        FROM freeform_questions
        WHERE date = $1 AND pf_meeting_id = $2 AND race_number = $3 AND question_normalized = $4`

	row := s.DB.QueryRowContext(ctx, query, scope.Date, scope.PFMeetingID, scope.RaceNumber, normalized)
	entry, err := scanFreeformQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.WrapError(err, "failed to read existing freeform question")
	}
	return entry, nil
}

// ListFreeformByScope returns every stored question for one race, in
// creation order. The ordering makes tie-breaks in match selection
// reproducible: on equal scores the earliest submission wins.
func (s *PostgresStore) ListFreeformByScope(ctx context.Context, scope types.RaceScope) ([]types.FreeformQuestion, error) {
	query := `SELECT ` + freeformColumns + `
        FROM freeform_questions
        WHERE date = $1 AND pf_meeting_id = $2 AND race_number = $3
        ORDER BY created_at, id`

	rows, err := s.DB.QueryContext(ctx, query, scope.Date, scope.PFMeetingID, scope.RaceNumber)
	if err != nil {
		return nil, apperrors.WrapError(err, "failed to list freeform questions")
	}
	defer rows.Close()

	var entries []types.FreeformQuestion
	for rows.Next() {
		q, err := scanFreeformQuestion(rows)
		if err != nil {
			return nil, apperrors.WrapError(err, "failed to scan freeform question")
		}
		entries = append(entries, *q)
	}
	return entries, rows.Err()
}

// IncrementFreeformUse bumps the winner's use counter. A single UPDATE keeps
// the count exact under concurrent matches.
func (s *PostgresStore) IncrementFreeformUse(ctx context.Context, id uuid.UUID) (int, error) {
	var useCount int
	query := `UPDATE freeform_questions
        SET use_count = use_count + 1, updated_at = NOW()
        WHERE id = $1
        RETURNING use_count`

	err := s.DB.QueryRowContext(ctx, query, id).Scan(&useCount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperrors.ErrNotFound
	}
	if err != nil {
		return 0, apperrors.WrapError(err, "failed to increment use count")
	}
	return useCount, nil
}
