package types

import (
	"time"

	"github.com/google/uuid"
)

// DateFormat is the wire format for event dates. Dates are parsed once at
// the handler boundary and typed time.Time everywhere below it.
const DateFormat = "2006-01-02"

// CannedKey is the composite natural key of a canned answer. All four
// fields are required; together they are unique.
type CannedKey struct {
	Date        time.Time
	PFMeetingID int
	RaceNumber  int
	PromptType  string
}

// RaceScope restricts freeform matching to one race.
type RaceScope struct {
	Date        time.Time
	PFMeetingID int
	RaceNumber  int
}

// UsageStamp carries the request context applied to usage fields when a
// canned answer is read.
type UsageStamp struct {
	At        time.Time
	IP        string
	UserAgent string
}

// CannedAnswer is a cached response for an exact prompt key. RawResponse is
// immutable after creation; reads mutate only the usage fields.
type CannedAnswer struct {
	ID          uuid.UUID
	Date        time.Time
	PFMeetingID int
	RaceNumber  int
	PromptType  string
	PromptText  string
	RawResponse string
	UseCount    int
	FirstUsedAt *time.Time
	FirstUsedIP string
	FirstUsedUA string
	LastUsedAt  *time.Time
	LastUsedIP  string
	LastUsedUA  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Key returns the natural key of the answer.
func (a *CannedAnswer) Key() CannedKey {
	return CannedKey{
		Date:        a.Date,
		PFMeetingID: a.PFMeetingID,
		RaceNumber:  a.RaceNumber,
		PromptType:  a.PromptType,
	}
}

// FreeformQuestion is a cached question/answer pair. The normalized text and
// token set are derived once at submission and stored for reuse; within one
// race scope at most one row exists per normalized question.
type FreeformQuestion struct {
	ID                 uuid.UUID
	Date               time.Time
	PFMeetingID        int
	RaceNumber         int
	Question           string
	QuestionNormalized string
	QuestionTokens     []string
	RawResponse        string
	UseCount           int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Scope returns the race scope the question belongs to.
func (q *FreeformQuestion) Scope() RaceScope {
	return RaceScope{Date: q.Date, PFMeetingID: q.PFMeetingID, RaceNumber: q.RaceNumber}
}

// MeetingLabel caches a resolved "Track (STATE)" label for a meeting id so
// the UI keeps working when the crawler is unavailable.
type MeetingLabel struct {
	ID          int
	PFMeetingID int
	Label       string
}
