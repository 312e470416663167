package handlers

import (
	"net/http"
	"strconv"
	"time"

	"canned-answers/cache"
	"canned-answers/web/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FreeformHandler struct {
	cache            *cache.FreeformCache
	defaultThreshold float64
	logger           *zap.Logger
}

func NewFreeformHandler(cache *cache.FreeformCache, defaultThreshold float64, logger *zap.Logger) *FreeformHandler {
	return &FreeformHandler{
		cache:            cache,
		defaultThreshold: defaultThreshold,
		logger:           logger,
	}
}

// Submit serves POST /freeform. Resubmitting a question that normalizes to
// the same text as an existing one in the scope returns the stored entry
// unchanged.
func (h *FreeformHandler) Submit(c *gin.Context) {
	var payload types.FreeformQuestionIn
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	date, err := time.Parse(types.DateFormat, payload.Date)
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	scope := types.RaceScope{
		Date:        date,
		PFMeetingID: payload.PFMeetingID,
		RaceNumber:  payload.RaceNumber,
	}

	entry, err := h.cache.Submit(c.Request.Context(), scope, payload.Question, payload.RawResponse)
	if err != nil {
		respondWithDomainError(c, err, h.logger,
			zap.Int("pf_meeting_id", scope.PFMeetingID),
			zap.Int("race_number", scope.RaceNumber))
		return
	}

	c.JSON(http.StatusOK, types.NewFreeformQuestionOut(entry))
}

// Match serves GET /freeform/match: finds the best cached question in the
// race scope for the query text. The threshold parameter is optional and
// defaults to the configured match threshold.
func (h *FreeformHandler) Match(c *gin.Context) {
	scope, ok := raceScopeFromQuery(c)
	if !ok {
		return
	}

	queryText := c.Query("q")
	if queryText == "" {
		respondWithClientError(c, http.StatusBadRequest, "q is required")
		return
	}

	threshold := h.defaultThreshold
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondWithClientError(c, http.StatusBadRequest, "threshold must be a number between 0 and 1")
			return
		}
		threshold = parsed
	}

	entry, confidence, err := h.cache.Match(c.Request.Context(), scope, queryText, threshold)
	if err != nil {
		respondWithDomainError(c, err, h.logger,
			zap.Int("pf_meeting_id", scope.PFMeetingID),
			zap.Int("race_number", scope.RaceNumber))
		return
	}

	c.JSON(http.StatusOK, types.FreeformMatchOut{
		Entry:      types.NewFreeformQuestionOut(entry),
		Confidence: confidence,
	})
}

func raceScopeFromQuery(c *gin.Context) (types.RaceScope, bool) {
	date, err := time.Parse(types.DateFormat, c.Query("date"))
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return types.RaceScope{}, false
	}

	pfMeetingID, err := strconv.Atoi(c.Query("pf_meeting_id"))
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, "pf_meeting_id must be an integer")
		return types.RaceScope{}, false
	}

	raceNumber, err := strconv.Atoi(c.Query("race_number"))
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, "race_number must be an integer")
		return types.RaceScope{}, false
	}

	return types.RaceScope{
		Date:        date,
		PFMeetingID: pfMeetingID,
		RaceNumber:  raceNumber,
	}, true
}
