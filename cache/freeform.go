package cache

import (
	"context"

	apperrors "canned-answers/errors"
	"canned-answers/matching"
	"canned-answers/web/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FreeformStore is the storage needed by the fuzzy cache.
type FreeformStore interface {
	InsertFreeformQuestion(ctx context.Context, scope types.RaceScope, question, normalized string, tokens []string, rawResponse string) (*types.FreeformQuestion, error)
	ListFreeformByScope(ctx context.Context, scope types.RaceScope) ([]types.FreeformQuestion, error)
	IncrementFreeformUse(ctx context.Context, id uuid.UUID) (int, error)
}

type FreeformCache struct {
	store  FreeformStore
	logger *zap.Logger
}

func NewFreeformCache(store FreeformStore, logger *zap.Logger) *FreeformCache {
	return &FreeformCache{
		store:  store,
		logger: logger,
	}
}

func validateScope(scope types.RaceScope) error {
	if scope.Date.IsZero() {
		return apperrors.WrapError(apperrors.ErrInvalidInput, "date is required")
	}
	if scope.PFMeetingID <= 0 {
		return apperrors.WrapError(apperrors.ErrInvalidInput, "pf_meeting_id is required")
	}
	if scope.RaceNumber <= 0 {
		return apperrors.WrapError(apperrors.ErrInvalidInput, "race_number is required")
	}
	return nil
}

// Submit caches a question/answer pair for a race. Submissions whose
// normalized text already exists in the scope return the existing entry
// unchanged, so resubmitting the same question with different punctuation
// or casing is a no-op.
func (f *FreeformCache) Submit(ctx context.Context, scope types.RaceScope, question, rawResponse string) (*types.FreeformQuestion, error) {
	if err := validateScope(scope); err != nil {
		return nil, err
	}
	if rawResponse == "" {
		return nil, apperrors.WrapError(apperrors.ErrInvalidInput, "raw_response is required")
	}

	normalized := matching.Normalize(question)
	tokens := matching.Tokenize(normalized)
	if len(tokens) == 0 {
		return nil, apperrors.ErrInvalidQuery
	}

	entry, err := f.store.InsertFreeformQuestion(ctx, scope, question, normalized, tokens, rawResponse)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("Freeform question cached",
		zap.String("question_normalized", entry.QuestionNormalized),
		zap.Int("pf_meeting_id", scope.PFMeetingID),
		zap.Int("race_number", scope.RaceNumber))
	return entry, nil
}

// Match finds the best previously-answered question in the scope for a new
// query. The query is normalized and tokenized the same way submissions
// are; candidates are scored with Jaccard similarity plus the subset boost
// and the best must reach the threshold. The winner's use counter is bumped
// before returning.
//
// ErrInvalidQuery when the query has no matchable tokens, ErrInvalidInput
// for a threshold outside [0,1], ErrNotFound when the scope is empty or
// nothing scores at or above the threshold.
func (f *FreeformCache) Match(ctx context.Context, scope types.RaceScope, queryText string, threshold float64) (*types.FreeformQuestion, float64, error) {
	if err := validateScope(scope); err != nil {
		return nil, 0, err
	}
	if threshold < 0.0 || threshold > 1.0 {
		return nil, 0, apperrors.WrapError(apperrors.ErrInvalidInput, "threshold must be between 0 and 1")
	}

	query := matching.NewTokenSet(matching.Tokenize(matching.Normalize(queryText)))
	if len(query) == 0 {
		return nil, 0, apperrors.ErrInvalidQuery
	}

	entries, err := f.store.ListFreeformByScope(ctx, scope)
	if err != nil {
		return nil, 0, err
	}
	if len(entries) == 0 {
		return nil, 0, apperrors.ErrNotFound
	}

	candidates := make([]matching.TokenSet, len(entries))
	for i := range entries {
		candidates[i] = matching.NewTokenSet(entries[i].QuestionTokens)
	}

	idx, confidence, ok := matching.SelectBest(query, candidates, threshold)
	if !ok {
		f.logger.Debug("No freeform match above threshold",
			zap.Float64("threshold", threshold),
			zap.Int("candidates", len(entries)))
		return nil, 0, apperrors.ErrNotFound
	}

	winner := entries[idx]
	useCount, err := f.store.IncrementFreeformUse(ctx, winner.ID)
	if err != nil {
		return nil, 0, err
	}
	winner.UseCount = useCount

	f.logger.Debug("Freeform match served",
		zap.String("question_normalized", winner.QuestionNormalized),
		zap.Float64("confidence", confidence),
		zap.Int("use_count", winner.UseCount))
	return &winner, confidence, nil
}
