package store

import (
	"sort"
	"sync"
	"time"

	"github.com/mktintel/dashboard-go/internal/models"
)

// MemoryStore holds the ingested dataset. Records are immutable once added;
// queries return copies and derived views are recomputed per call.
type MemoryStore struct {
	mu       sync.RWMutex
	channel  []models.ChannelRecord
	business []models.BusinessRecord
	seen     map[string]struct{} // per-row idempotency across partial reloads
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]struct{})}
}

// MarkSeen records a row identity and reports whether it was new.
func (s *MemoryStore) MarkSeen(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Adopt replaces the dataset with the contents of a fully staged load. The
// staged store must not be used afterwards.
func (s *MemoryStore) Adopt(staged *MemoryStore) {
	staged.mu.RLock()
	channel, business, seen := staged.channel, staged.business, staged.seen
	staged.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.channel = channel
	s.business = business
	s.seen = seen
}

func (s *MemoryStore) AddChannel(r models.ChannelRecord) {
	r.Date = day(r.Date)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channel = append(s.channel, r)
}

func (s *MemoryStore) AddBusiness(r models.BusinessRecord) {
	r.Date = day(r.Date)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.business = append(s.business, r)
}

// Empty reports whether nothing has been ingested yet.
func (s *MemoryStore) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.channel) == 0 && len(s.business) == 0
}

// ChannelRows returns channel records inside [from, to] passing the filter.
// A zero bound leaves that side of the range open.
func (s *MemoryStore) ChannelRows(from, to time.Time, f func(models.ChannelRecord) bool) []models.ChannelRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ChannelRecord
	for _, r := range s.channel {
		if !inRange(r.Date, from, to) {
			continue
		}
		if f == nil || f(r) {
			out = append(out, r)
		}
	}
	return out
}

// BusinessRows returns business days inside [from, to], sorted by date.
func (s *MemoryStore) BusinessRows(from, to time.Time) []models.BusinessRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.BusinessRecord
	for _, r := range s.business {
		if inRange(r.Date, from, to) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// DailyChannelTotals collapses channel rows to per-day sums. Multiple
// campaigns on one day merge here, before any join with business data.
func (s *MemoryStore) DailyChannelTotals(from, to time.Time, f func(models.ChannelRecord) bool) map[time.Time]models.DailyChannelTotals {
	rows := s.ChannelRows(from, to, f)
	totals := make(map[time.Time]models.DailyChannelTotals, len(rows))
	for _, r := range rows {
		t := totals[r.Date]
		t.Date = r.Date
		t.Impressions += r.Impressions
		t.Clicks += r.Clicks
		t.Spend += r.Spend
		t.AttributedRevenue += r.AttributedRevenue
		totals[r.Date] = t
	}
	return totals
}

// DateRange reports the span covered by the combined dataset.
func (s *MemoryStore) DateRange() (min, max time.Time, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	grow := func(d time.Time) {
		if !ok {
			min, max, ok = d, d, true
			return
		}
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}
	for _, r := range s.channel {
		grow(r.Date)
	}
	for _, r := range s.business {
		grow(r.Date)
	}
	return min, max, ok
}

// Channels lists the distinct channel names, sorted.
func (s *MemoryStore) Channels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := map[string]struct{}{}
	for _, r := range s.channel {
		set[r.Channel] = struct{}{}
	}
	return sortedKeys(set)
}

// Campaigns lists the distinct campaign names, optionally restricted to one
// channel, sorted.
func (s *MemoryStore) Campaigns(channel string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := map[string]struct{}{}
	for _, r := range s.channel {
		if channel != "" && r.Channel != channel {
			continue
		}
		set[r.Campaign] = struct{}{}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func inRange(d, from, to time.Time) bool {
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && d.After(to) {
		return false
	}
	return true
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
