// Package meetings resolves pf_meeting_id values to human labels like
// "Flemington (VIC)" by asking the RA-crawler service. Resolution is
// best-effort: every failure degrades to an empty mapping so callers fall
// back to showing raw meeting ids.
package meetings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"canned-answers/web/types"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

// LabelStore is the persistent label cache backing the resolver. Labels are
// written through on resolution and never expire.
type LabelStore interface {
	GetMeetingLabels(ctx context.Context, meetingIDs []int) (map[int]string, error)
	UpsertMeetingLabel(ctx context.Context, meetingID int, label string) error
}

type Resolver struct {
	baseURL string
	client  *http.Client
	memo    *lru.Cache
	store   LabelStore
	logger  *zap.Logger
}

func NewResolver(baseURL string, timeout time.Duration, memoSize int, store LabelStore, logger *zap.Logger) (*Resolver, error) {
	memo, err := lru.New(memoSize)
	if err != nil {
		return nil, err
	}
	return &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		memo:    memo,
		store:   store,
		logger:  logger,
	}, nil
}

// Labels asks RA-crawler for races in a date range and builds
// {pf_meeting_id: "Track (STATE)"}. Fetches are memoized per date range;
// failures are not pinned in the memo so a recovered crawler is picked up
// on the next call.
func (r *Resolver) Labels(ctx context.Context, start, end *time.Time) map[int]string {
	key := rangeKey(start, end)
	if cached, ok := r.memo.Get(key); ok {
		return cached.(map[int]string)
	}

	labels := r.fetch(ctx, start, end)
	if len(labels) > 0 {
		r.memo.Add(key, labels)
	}
	return labels
}

// LabelsFor resolves labels for a set of meeting ids racing on one day.
// The persistent cache is consulted first; only the remainder goes to the
// crawler, and crawler hits are written through for next time.
func (r *Resolver) LabelsFor(ctx context.Context, meetingIDs []int, day time.Time) map[int]string {
	labels, err := r.store.GetMeetingLabels(ctx, meetingIDs)
	if err != nil {
		r.logger.Warn("Could not load cached meeting labels", zap.Error(err))
		labels = make(map[int]string, len(meetingIDs))
	}

	var missing []int
	for _, id := range meetingIDs {
		if _, ok := labels[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return labels
	}

	fetched := r.Labels(ctx, &day, &day)
	for _, id := range missing {
		label, ok := fetched[id]
		if !ok {
			continue
		}
		labels[id] = label
		if err := r.store.UpsertMeetingLabel(ctx, id, label); err != nil {
			r.logger.Warn("Could not persist meeting label",
				zap.Int("pf_meeting_id", id), zap.Error(err))
		}
	}
	return labels
}

func (r *Resolver) fetch(ctx context.Context, start, end *time.Time) map[int]string {
	empty := map[int]string{}

	params := url.Values{}
	if start != nil {
		params.Set("start_date", start.Format(types.DateFormat))
	}
	if end != nil {
		params.Set("end_date", end.Format(types.DateFormat))
	}
	endpoint := r.baseURL + "/races"
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		r.logger.Warn("Could not build RA-crawler request", zap.Error(err))
		return empty
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("RA-crawler unavailable, falling back to meeting ids", zap.Error(err))
		return empty
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Warn("RA-crawler returned non-OK status",
			zap.Int("status", resp.StatusCode), zap.String("url", endpoint))
		return empty
	}

	var races []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&races); err != nil {
		r.logger.Warn("Malformed RA-crawler response", zap.Error(err))
		return empty
	}

	labels := make(map[int]string, len(races))
	for _, race := range races {
		// Be tolerant about key names; the crawler has used several.
		id, ok := meetingID(race)
		if !ok {
			continue
		}
		track, ok := firstString(race, "track", "track_name")
		if !ok {
			continue
		}

		label := track
		if state, ok := firstString(race, "state"); ok {
			label = fmt.Sprintf("%s (%s)", track, state)
		}

		// First one wins; one label per meeting is enough.
		if _, seen := labels[id]; !seen {
			labels[id] = label
		}
	}
	return labels
}

func rangeKey(start, end *time.Time) string {
	format := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format(types.DateFormat)
	}
	return format(start) + "|" + format(end)
}

func meetingID(race map[string]any) (int, bool) {
	for _, key := range []string{"meetingId", "meeting_id", "pf_meeting_id"} {
		if raw, ok := race[key]; ok {
			if id, ok := asInt(raw); ok {
				return id, true
			}
		}
	}
	return 0, false
}

func firstString(race map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if raw, ok := race[key]; ok {
			if s, ok := raw.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

func asInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case float64:
		return int(v), true
	case string:
		id, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return id, true
	case json.Number:
		id, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(id), true
	default:
		return 0, false
	}
}
