package handlers

import (
	"net/http"
	"strconv"
	"time"

	"canned-answers/database"
	"canned-answers/meetings"
	"canned-answers/web/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DayHandler struct {
	store    *database.PostgresStore
	resolver *meetings.Resolver
	logger   *zap.Logger
}

func NewDayHandler(store *database.PostgresStore, resolver *meetings.Resolver, logger *zap.Logger) *DayHandler {
	return &DayHandler{
		store:    store,
		resolver: resolver,
		logger:   logger,
	}
}

// dayRow is one line of the day view table.
type dayRow struct {
	Meeting     string
	RaceNumber  int
	PromptType  string
	PromptText  string
	RawResponse string
	UseCount    int
}

// Day serves GET /ui/day: an HTML table of the day's canned answers ordered
// by meeting, race and prompt type. Meeting ids are decorated with resolved
// labels where the resolver has them; otherwise the raw id is shown.
func (h *DayHandler) Day(c *gin.Context) {
	day, err := time.Parse(types.DateFormat, c.Query("day"))
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, "day must be YYYY-MM-DD")
		return
	}

	answers, err := h.store.ListCannedByDay(c.Request.Context(), day)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Internal server error", h.logger,
			zap.String("day", day.Format(types.DateFormat)))
		return
	}

	seen := make(map[int]bool)
	var meetingIDs []int
	for _, a := range answers {
		if !seen[a.PFMeetingID] {
			seen[a.PFMeetingID] = true
			meetingIDs = append(meetingIDs, a.PFMeetingID)
		}
	}
	labels := h.resolver.LabelsFor(c.Request.Context(), meetingIDs, day)

	rows := make([]dayRow, 0, len(answers))
	for _, a := range answers {
		meeting, ok := labels[a.PFMeetingID]
		if !ok {
			meeting = "Meeting " + strconv.Itoa(a.PFMeetingID)
		}
		rows = append(rows, dayRow{
			Meeting:     meeting,
			RaceNumber:  a.RaceNumber,
			PromptType:  a.PromptType,
			PromptText:  a.PromptText,
			RawResponse: a.RawResponse,
			UseCount:    a.UseCount,
		})
	}

	c.HTML(http.StatusOK, "day.html", gin.H{
		"Date": day.Format(types.DateFormat),
		"Rows": rows,
	})
}
