package database

import (
	"context"

	apperrors "canned-answers/errors"
)

// GetMeetingLabels returns the cached labels for the given meeting ids.
// Ids without a cached label are simply absent from the result.
func (s *PostgresStore) GetMeetingLabels(ctx context.Context, meetingIDs []int) (map[int]string, error) {
	labels := make(map[int]string, len(meetingIDs))
	if len(meetingIDs) == 0 {
		return labels, nil
	}

	query := `SELECT pf_meeting_id, label FROM meeting_labels WHERE pf_meeting_id = ANY($1)`
	rows, err := s.DB.QueryContext(ctx, query, intArray(meetingIDs))
	if err != nil {
		return nil, apperrors.WrapError(err, "failed to load meeting labels")
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var label string
		if err := rows.Scan(&id, &label); err != nil {
			return nil, apperrors.WrapError(err, "failed to scan meeting label")
		}
		labels[id] = label
	}
	return labels, rows.Err()
}

// UpsertMeetingLabel writes a resolved label through to the local cache.
// Labels never expire; a re-resolved label overwrites the old one.
func (s *PostgresStore) UpsertMeetingLabel(ctx context.Context, meetingID int, label string) error {
	query := `INSERT INTO meeting_labels (pf_meeting_id, label)
        VALUES ($1, $2)
        ON CONFLICT (pf_meeting_id) DO UPDATE SET label = EXCLUDED.label`

	if _, err := s.DB.ExecContext(ctx, query, meetingID, label); err != nil {
		return apperrors.WrapError(err, "failed to upsert meeting label")
	}
	return nil
}

// intArray adapts a []int for a Postgres int[] bind parameter. The pgx
// stdlib driver handles []int32 natively.
func intArray(ids []int) []int32 {
	out := make([]int32, len(ids))
	for i, id := range ids {
		out[i] = int32(id)
	}
	return out
}
