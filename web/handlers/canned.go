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

type CannedHandler struct {
	cache  *cache.CannedCache
	logger *zap.Logger
}

func NewCannedHandler(cache *cache.CannedCache, logger *zap.Logger) *CannedHandler {
	return &CannedHandler{
		cache:  cache,
		logger: logger,
	}
}

// Get serves GET /canned. All four key fields are required query
// parameters; a hit stamps the read onto the entry's usage fields.
func (h *CannedHandler) Get(c *gin.Context) {
	key, ok := cannedKeyFromQuery(c)
	if !ok {
		return
	}

	stamp := types.UsageStamp{
		At:        time.Now().UTC(),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	answer, err := h.cache.Get(c.Request.Context(), key, stamp)
	if err != nil {
		respondWithDomainError(c, err, h.logger,
			zap.String("prompt_type", key.PromptType),
			zap.Int("pf_meeting_id", key.PFMeetingID))
		return
	}

	c.JSON(http.StatusOK, types.NewCannedAnswerOut(answer))
}

// Create serves POST /canned. Idempotent: posting to an existing key
// returns the stored entry unchanged, whatever the new payload says.
func (h *CannedHandler) Create(c *gin.Context) {
	var payload types.CannedAnswerIn
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	date, err := time.Parse(types.DateFormat, payload.Date)
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	key := types.CannedKey{
		Date:        date,
		PFMeetingID: payload.PFMeetingID,
		RaceNumber:  payload.RaceNumber,
		PromptType:  payload.PromptType,
	}

	answer, err := h.cache.Create(c.Request.Context(), key, payload.PromptText, payload.RawResponse)
	if err != nil {
		respondWithDomainError(c, err, h.logger,
			zap.String("prompt_type", key.PromptType),
			zap.Int("pf_meeting_id", key.PFMeetingID))
		return
	}

	c.JSON(http.StatusOK, types.NewCannedAnswerOut(answer))
}

func cannedKeyFromQuery(c *gin.Context) (types.CannedKey, bool) {
	date, err := time.Parse(types.DateFormat, c.Query("date"))
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return types.CannedKey{}, false
	}

	pfMeetingID, err := strconv.Atoi(c.Query("pf_meeting_id"))
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, "pf_meeting_id must be an integer")
		return types.CannedKey{}, false
	}

	raceNumber, err := strconv.Atoi(c.Query("race_number"))
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, "race_number must be an integer")
		return types.CannedKey{}, false
	}

	promptType := c.Query("prompt_type")
	if promptType == "" {
		respondWithClientError(c, http.StatusBadRequest, "prompt_type is required")
		return types.CannedKey{}, false
	}

	return types.CannedKey{
		Date:        date,
		PFMeetingID: pfMeetingID,
		RaceNumber:  raceNumber,
		PromptType:  promptType,
	}, true
}
