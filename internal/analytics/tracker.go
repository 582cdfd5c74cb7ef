package analytics

import (
	"sync"

	"valentine/pkg/domain"
)

// Counter names. Counters are incremented at explicit call sites and are
// advisory; they are not reconciled against the underlying logs.
const (
	CounterPageViews    = "page_views"
	CounterMessagesSent = "messages_sent"
	CounterFollows      = "follows"
	CounterLikes        = "likes"
	CounterRequestsSent = "requests_sent"
)

// Tracker records per-user activity counters. Incr is best-effort; callers
// never fail a request over a counter.
type Tracker interface {
	Incr(username, counter string)
	Summary(username string) (domain.AnalyticsSummary, error)
}

// MemoryTracker keeps counters in-process.
type MemoryTracker struct {
	mu       sync.RWMutex
	counters map[string]map[string]int64
}

func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{counters: make(map[string]map[string]int64)}
}

func (t *MemoryTracker) Incr(username, counter string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	userCounters, ok := t.counters[username]
	if !ok {
		userCounters = make(map[string]int64)
		t.counters[username] = userCounters
	}
	userCounters[counter]++
}

func (t *MemoryTracker) Summary(username string) (domain.AnalyticsSummary, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return summaryFrom(t.counters[username]), nil
}

func summaryFrom(counters map[string]int64) domain.AnalyticsSummary {
	return domain.AnalyticsSummary{
		PageViews:    counters[CounterPageViews],
		MessagesSent: counters[CounterMessagesSent],
		Follows:      counters[CounterFollows],
		Likes:        counters[CounterLikes],
		RequestsSent: counters[CounterRequestsSent],
	}
}
