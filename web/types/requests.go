package types

// Request and response bodies for the JSON API. Dates travel as
// "YYYY-MM-DD" strings and are validated in the handlers.

type CannedAnswerIn struct {
	Date        string `json:"date" binding:"required"`
	PFMeetingID int    `json:"pf_meeting_id" binding:"required"`
	RaceNumber  int    `json:"race_number" binding:"required"`
	PromptType  string `json:"prompt_type" binding:"required"`
	PromptText  string `json:"prompt_text"`
	RawResponse string `json:"raw_response" binding:"required"`
}

type CannedAnswerOut struct {
	Date        string `json:"date"`
	PFMeetingID int    `json:"pf_meeting_id"`
	RaceNumber  int    `json:"race_number"`
	PromptType  string `json:"prompt_type"`
	RawResponse string `json:"raw_response"`
	UseCount    int    `json:"use_count"`
}

// NewCannedAnswerOut maps a stored answer onto its wire shape.
func NewCannedAnswerOut(a *CannedAnswer) CannedAnswerOut {
	return CannedAnswerOut{
		Date:        a.Date.Format(DateFormat),
		PFMeetingID: a.PFMeetingID,
		RaceNumber:  a.RaceNumber,
		PromptType:  a.PromptType,
		RawResponse: a.RawResponse,
		UseCount:    a.UseCount,
	}
}

type FreeformQuestionIn struct {
	Date        string `json:"date" binding:"required"`
	PFMeetingID int    `json:"pf_meeting_id" binding:"required"`
	RaceNumber  int    `json:"race_number" binding:"required"`
	Question    string `json:"question" binding:"required"`
	RawResponse string `json:"raw_response" binding:"required"`
}

type FreeformQuestionOut struct {
	Date        string `json:"date"`
	PFMeetingID int    `json:"pf_meeting_id"`
	RaceNumber  int    `json:"race_number"`
	Question    string `json:"question"`
	RawResponse string `json:"raw_response"`
	UseCount    int    `json:"use_count"`
}

// NewFreeformQuestionOut maps a stored question onto its wire shape.
func NewFreeformQuestionOut(q *FreeformQuestion) FreeformQuestionOut {
	return FreeformQuestionOut{
		Date:        q.Date.Format(DateFormat),
		PFMeetingID: q.PFMeetingID,
		RaceNumber:  q.RaceNumber,
		Question:    q.Question,
		RawResponse: q.RawResponse,
		UseCount:    q.UseCount,
	}
}

type FreeformMatchOut struct {
	Entry      FreeformQuestionOut `json:"entry"`
	Confidence float64             `json:"confidence"`
}
