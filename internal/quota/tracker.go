// Package quota tracks daily request-cost accumulation against the
// video-catalog API's unit budget.
package quota

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/JillVernus/learn-tube/internal/store"
)

// EndpointKind identifies a tracked catalog call for costing purposes
type EndpointKind string

const (
	KindSearch   EndpointKind = "search"
	KindVideos   EndpointKind = "videos"
	KindChannels EndpointKind = "channels"
	KindComments EndpointKind = "commentThreads"
	KindRelated  EndpointKind = "related"
)

// Per-call unit costs as documented by the catalog provider.
// Search is two orders of magnitude more expensive than everything else.
var endpointCosts = map[EndpointKind]int{
	KindSearch: 100,
}

const defaultCost = 1

// exceededRatio is the fraction of the daily budget at which the tracker
// flips to exceeded. Tripping early leaves headroom for untracked calls.
const exceededRatio = 0.90

// State is the persisted quota blob
type State struct {
	DailyLimit int    `json:"dailyLimit"`
	UsedToday  int    `json:"usedToday"`
	ResetDate  string `json:"resetDate"` // calendar date, YYYY-MM-DD
	Exceeded   bool   `json:"exceeded"`
}

// Store persists the quota state blob
type Store interface {
	Load(key string, v interface{}) error
	Save(key string, v interface{}) error
}

// Tracker accumulates per-call costs and reports budget exhaustion.
// It never blocks calls itself; callers check Exceeded and substitute
// mock data.
type Tracker struct {
	mu    sync.Mutex
	state State
	store Store
	now   func() time.Time
}

// NewTracker creates a tracker with the given daily budget, restoring
// persisted state when present
func NewTracker(dailyLimit int, s Store) *Tracker {
	t := &Tracker{
		state: State{DailyLimit: dailyLimit},
		store: s,
		now:   time.Now,
	}

	if s != nil {
		var saved State
		err := s.Load(store.KeyQuotaState, &saved)
		switch {
		case err == nil:
			saved.DailyLimit = dailyLimit
			t.state = saved
		case errors.Is(err, store.ErrNotFound):
			// first run
		default:
			log.Printf("⚠️ [Quota] Failed to load quota state: %v", err)
		}
	}

	if t.state.ResetDate == "" {
		t.state.ResetDate = t.now().Format("2006-01-02")
	}

	return t
}

// RecordUsage adds the cost of one call of the given kind and reports
// whether the budget is exceeded afterwards. The increment is applied
// even on the call that trips the threshold; skipping the network
// request for that call is the caller's job.
func (t *Tracker) RecordUsage(kind EndpointKind) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollOverLocked()

	cost, ok := endpointCosts[kind]
	if !ok {
		cost = defaultCost
	}
	t.state.UsedToday += cost

	if !t.state.Exceeded && t.state.DailyLimit > 0 &&
		float64(t.state.UsedToday) >= float64(t.state.DailyLimit)*exceededRatio {
		t.state.Exceeded = true
		log.Printf("📊 [Quota] Daily budget exceeded: %d/%d units used", t.state.UsedToday, t.state.DailyLimit)
	}

	t.persistLocked()
	return t.state.Exceeded
}

// Exceeded reports whether the budget is exhausted for the current day
func (t *Tracker) Exceeded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rollOverLocked() {
		t.persistLocked()
	}
	return t.state.Exceeded
}

// Status returns a snapshot of the current quota state
func (t *Tracker) Status() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rollOverLocked() {
		t.persistLocked()
	}
	return t.state
}

// MarkExceeded flips the exceeded flag in response to an upstream quota
// rejection, regardless of locally tracked usage. Sticky until rollover.
func (t *Tracker) MarkExceeded(reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollOverLocked()
	if !t.state.Exceeded {
		t.state.Exceeded = true
		log.Printf("📊 [Quota] Marked exceeded by upstream: %s", reason)
	}
	t.persistLocked()
}

// Reset forcibly zeroes the tracked usage for manual recovery
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state.UsedToday = 0
	t.state.Exceeded = false
	t.state.ResetDate = t.now().Format("2006-01-02")
	t.persistLocked()

	log.Printf("🔄 [Quota] Usage tracking reset manually")
}

// rollOverLocked zeroes the counters when the calendar date has changed
// since the stored reset date. Returns true when a rollover happened.
func (t *Tracker) rollOverLocked() bool {
	today := t.now().Format("2006-01-02")
	if t.state.ResetDate == today {
		return false
	}

	t.state.UsedToday = 0
	t.state.Exceeded = false
	t.state.ResetDate = today
	log.Printf("📊 [Quota] New day, usage counter reset")
	return true
}

func (t *Tracker) persistLocked() {
	if t.store == nil {
		return
	}
	if err := t.store.Save(store.KeyQuotaState, &t.state); err != nil {
		log.Printf("⚠️ [Quota] Failed to persist quota state: %v", err)
	}
}
