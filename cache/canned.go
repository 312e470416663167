// Package cache holds the two caching services: exact-key canned answers
// and fuzzy-matched freeform questions. Services validate input, apply the
// matching core and delegate durability to a store; they surface domain
// outcomes (not found, invalid query) as error values from the errors
// package so the serving layer can map them to statuses.
package cache

import (
	"context"

	apperrors "canned-answers/errors"
	"canned-answers/web/types"

	"go.uber.org/zap"
)

// CannedStore is the storage needed by the exact-key cache. Implemented by
// database.PostgresStore; tests use an in-memory fake.
type CannedStore interface {
	GetCannedAnswer(ctx context.Context, key types.CannedKey, stamp types.UsageStamp) (*types.CannedAnswer, error)
	CreateCannedAnswer(ctx context.Context, key types.CannedKey, promptText, rawResponse string) (*types.CannedAnswer, error)
}

type CannedCache struct {
	store  CannedStore
	logger *zap.Logger
}

func NewCannedCache(store CannedStore, logger *zap.Logger) *CannedCache {
	return &CannedCache{
		store:  store,
		logger: logger,
	}
}

func validateKey(key types.CannedKey) error {
	if key.Date.IsZero() {
		return apperrors.WrapError(apperrors.ErrInvalidInput, "date is required")
	}
	if key.PFMeetingID <= 0 {
		return apperrors.WrapError(apperrors.ErrInvalidInput, "pf_meeting_id is required")
	}
	if key.RaceNumber <= 0 {
		return apperrors.WrapError(apperrors.ErrInvalidInput, "race_number is required")
	}
	if key.PromptType == "" {
		return apperrors.WrapError(apperrors.ErrInvalidInput, "prompt_type is required")
	}
	return nil
}

// Get returns the cached answer for an exact key and stamps the read onto
// the usage fields. ErrNotFound when no answer exists for the key.
func (c *CannedCache) Get(ctx context.Context, key types.CannedKey, stamp types.UsageStamp) (*types.CannedAnswer, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	answer, err := c.store.GetCannedAnswer(ctx, key, stamp)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Canned answer served",
		zap.String("prompt_type", key.PromptType),
		zap.Int("pf_meeting_id", key.PFMeetingID),
		zap.Int("race_number", key.RaceNumber),
		zap.Int("use_count", answer.UseCount))
	return answer, nil
}

// Create stores a new canned answer, or returns the existing one unchanged
// when the key is already cached. First write wins: the raw response of the
// earliest successful insert is permanent, later payloads for the same key
// are silently discarded.
func (c *CannedCache) Create(ctx context.Context, key types.CannedKey, promptText, rawResponse string) (*types.CannedAnswer, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if rawResponse == "" {
		return nil, apperrors.WrapError(apperrors.ErrInvalidInput, "raw_response is required")
	}

	answer, err := c.store.CreateCannedAnswer(ctx, key, promptText, rawResponse)
	if err != nil {
		return nil, err
	}

	if answer.RawResponse != rawResponse {
		c.logger.Debug("Canned answer already cached, keeping first write",
			zap.String("prompt_type", key.PromptType),
			zap.Int("pf_meeting_id", key.PFMeetingID),
			zap.Int("race_number", key.RaceNumber))
	}
	return answer, nil
}
