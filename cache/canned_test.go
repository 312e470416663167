package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	apperrors "canned-answers/errors"
	"canned-answers/web/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fakeCannedStore mimics the storage contract: unique natural key, first
// write wins, usage fields mutated on read.
type fakeCannedStore struct {
	entries map[string]*types.CannedAnswer
}

func newFakeCannedStore() *fakeCannedStore {
	return &fakeCannedStore{entries: make(map[string]*types.CannedAnswer)}
}

func cannedKeyString(key types.CannedKey) string {
	return fmt.Sprintf("%s|%d|%d|%s",
		key.Date.Format(types.DateFormat), key.PFMeetingID, key.RaceNumber, key.PromptType)
}

func (s *fakeCannedStore) GetCannedAnswer(_ context.Context, key types.CannedKey, stamp types.UsageStamp) (*types.CannedAnswer, error) {
	entry, ok := s.entries[cannedKeyString(key)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	entry.UseCount++
	if entry.FirstUsedAt == nil {
		at := stamp.At
		entry.FirstUsedAt = &at
		entry.FirstUsedIP = stamp.IP
		entry.FirstUsedUA = stamp.UserAgent
	}
	at := stamp.At
	entry.LastUsedAt = &at
	entry.LastUsedIP = stamp.IP
	entry.LastUsedUA = stamp.UserAgent
	copied := *entry
	return &copied, nil
}

func (s *fakeCannedStore) CreateCannedAnswer(_ context.Context, key types.CannedKey, promptText, rawResponse string) (*types.CannedAnswer, error) {
	if existing, ok := s.entries[cannedKeyString(key)]; ok {
		copied := *existing
		return &copied, nil
	}
	entry := &types.CannedAnswer{
		ID:          uuid.New(),
		Date:        key.Date,
		PFMeetingID: key.PFMeetingID,
		RaceNumber:  key.RaceNumber,
		PromptType:  key.PromptType,
		PromptText:  promptText,
		RawResponse: rawResponse,
		CreatedAt:   time.Now(),
	}
	s.entries[cannedKeyString(key)] = entry
	copied := *entry
	return &copied, nil
}

func testKey() types.CannedKey {
	date, _ := time.Parse(types.DateFormat, "2025-11-29")
	return types.CannedKey{Date: date, PFMeetingID: 501, RaceNumber: 3, PromptType: "value_play"}
}

func TestCannedCreateFirstWriteWins(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	c := NewCannedCache(newFakeCannedStore(), logger)
	ctx := context.Background()
	key := testKey()

	first, err := c.Create(ctx, key, "Value Play", "Horse 4")
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	second, err := c.Create(ctx, key, "Value Play", "Horse 9")
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}

	if second.RawResponse != "Horse 4" {
		t.Errorf("second create returned %q, want first write %q", second.RawResponse, "Horse 4")
	}
	if second.ID != first.ID {
		t.Error("second create returned a different entry")
	}
}

func TestCannedGetStampsUsage(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	c := NewCannedCache(newFakeCannedStore(), logger)
	ctx := context.Background()
	key := testKey()

	if _, err := c.Create(ctx, key, "", "Horse 4"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	firstStamp := types.UsageStamp{At: time.Now(), IP: "10.0.0.1", UserAgent: "curl/8"}
	answer, err := c.Get(ctx, key, firstStamp)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if answer.RawResponse != "Horse 4" {
		t.Errorf("raw_response = %q, want %q", answer.RawResponse, "Horse 4")
	}
	if answer.UseCount != 1 {
		t.Errorf("use_count = %d, want 1", answer.UseCount)
	}
	if answer.FirstUsedIP != "10.0.0.1" {
		t.Errorf("first_used_ip = %q, want %q", answer.FirstUsedIP, "10.0.0.1")
	}

	secondStamp := types.UsageStamp{At: time.Now(), IP: "10.0.0.2", UserAgent: "curl/8"}
	answer, err = c.Get(ctx, key, secondStamp)
	if err != nil {
		t.Fatalf("second get failed: %v", err)
	}
	if answer.UseCount != 2 {
		t.Errorf("use_count = %d, want 2", answer.UseCount)
	}
	if answer.FirstUsedIP != "10.0.0.1" {
		t.Errorf("first_used_ip overwritten to %q", answer.FirstUsedIP)
	}
	if answer.LastUsedIP != "10.0.0.2" {
		t.Errorf("last_used_ip = %q, want %q", answer.LastUsedIP, "10.0.0.2")
	}
}

func TestCannedGetNotFound(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	c := NewCannedCache(newFakeCannedStore(), logger)

	_, err := c.Get(context.Background(), testKey(), types.UsageStamp{At: time.Now()})
	if !apperrors.IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestCannedKeyValidation(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	c := NewCannedCache(newFakeCannedStore(), logger)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*types.CannedKey)
	}{
		{"missing_date", func(k *types.CannedKey) { k.Date = time.Time{} }},
		{"missing_meeting", func(k *types.CannedKey) { k.PFMeetingID = 0 }},
		{"missing_race", func(k *types.CannedKey) { k.RaceNumber = 0 }},
		{"missing_prompt_type", func(k *types.CannedKey) { k.PromptType = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := testKey()
			tt.mutate(&key)
			if _, err := c.Create(ctx, key, "", "Horse 4"); !apperrors.IsInvalidInput(err) {
				t.Errorf("expected invalid-input, got %v", err)
			}
		})
	}

	if _, err := c.Create(ctx, testKey(), "", ""); !apperrors.IsInvalidInput(err) {
		t.Errorf("expected invalid-input for empty raw_response, got %v", err)
	}
}
