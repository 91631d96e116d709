// Package rotation tracks failed credentials and models across the API
// clients so that retries skip candidates known to be bad.
package rotation

import (
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/JillVernus/learn-tube/internal/config"
	"github.com/JillVernus/learn-tube/internal/store"
)

// recoveryWindow is how long demoted credentials and models stay out of
// rotation. Both failed sets are cleared wholesale when it elapses,
// regardless of when individual entries were added.
const recoveryWindow = 5 * time.Minute

// Scopes separate the credential cursors of the API clients sharing one
// tracker, so one client's scan never moves another's start position.
const (
	ScopeCatalog = "catalog"
	ScopeGenAI   = "genai"
)

// State is the persisted rotation blob. The failed sets are stored as
// sorted slices; in memory they are maps.
type State struct {
	FailedCredentials []string       `json:"failedCredentials"`
	FailedModels      []string       `json:"failedModels"`
	CredentialCursors map[string]int `json:"credentialCursors"`
	ModelCursor       int            `json:"modelCursor"`
	LastResetAt       time.Time      `json:"lastResetAt"`
}

// Store persists the rotation state blob
type Store interface {
	Load(key string, v interface{}) error
	Save(key string, v interface{}) error
}

// Tracker selects usable credentials/models and records demotions
type Tracker struct {
	mu                sync.Mutex
	failedCredentials map[string]bool
	failedModels      map[string]bool
	credentialCursors map[string]int
	modelCursor       int
	lastResetAt       time.Time
	store             Store
	now               func() time.Time
}

// NewTracker creates a tracker, restoring persisted state when present
func NewTracker(s Store) *Tracker {
	t := &Tracker{
		failedCredentials: make(map[string]bool),
		failedModels:      make(map[string]bool),
		credentialCursors: make(map[string]int),
		store:             s,
		now:               time.Now,
	}
	t.lastResetAt = t.now()

	if s != nil {
		var saved State
		err := s.Load(store.KeyRotationState, &saved)
		switch {
		case err == nil:
			for _, k := range saved.FailedCredentials {
				t.failedCredentials[k] = true
			}
			for _, m := range saved.FailedModels {
				t.failedModels[m] = true
			}
			for scope, cursor := range saved.CredentialCursors {
				t.credentialCursors[scope] = cursor
			}
			t.modelCursor = saved.ModelCursor
			if !saved.LastResetAt.IsZero() {
				t.lastResetAt = saved.LastResetAt
			}
		case errors.Is(err, store.ErrNotFound):
			// first run
		default:
			log.Printf("⚠️ [Rotation] Failed to load rotation state: %v", err)
		}
	}

	return t
}

// NextCredential returns the first non-failed credential scanning from
// the scope's cursor, wrapping modulo the candidate count. Returns ""
// when every candidate has failed (or none are configured).
func (t *Tracker) NextCredential(scope string, candidates []string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.maybeExpireLocked()

	if len(candidates) == 0 {
		return ""
	}

	start := t.credentialCursors[scope] % len(candidates)
	for i := 0; i < len(candidates); i++ {
		idx := (start + i) % len(candidates)
		if !t.failedCredentials[candidates[idx]] {
			t.credentialCursors[scope] = idx
			return candidates[idx]
		}
	}
	return ""
}

// NextModel returns the first non-failed model scanning from the model
// cursor. Same contract as NextCredential.
func (t *Tracker) NextModel(models []string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.maybeExpireLocked()

	if len(models) == 0 {
		return ""
	}

	start := t.modelCursor % len(models)
	for i := 0; i < len(models); i++ {
		idx := (start + i) % len(models)
		if !t.failedModels[models[idx]] {
			t.modelCursor = idx
			return models[idx]
		}
	}
	return ""
}

// MarkCredentialFailed demotes a credential and advances the scope's
// cursor so the next scan starts past it
func (t *Tracker) MarkCredentialFailed(scope, credential string) {
	if credential == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.failedCredentials[credential] = true
	t.credentialCursors[scope]++
	t.persistLocked()

	log.Printf("⚠️ [Rotation] Credential demoted: %s (%d failed)", config.MaskAPIKey(credential), len(t.failedCredentials))
}

// MarkModelFailed demotes a model and advances the model cursor
func (t *Tracker) MarkModelFailed(model string) {
	if model == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.failedModels[model] = true
	t.modelCursor++
	t.persistLocked()

	log.Printf("⚠️ [Rotation] Model demoted: %s (%d failed)", model, len(t.failedModels))
}

// FailedCounts returns the sizes of both failed sets
func (t *Tracker) FailedCounts() (credentials, models int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.maybeExpireLocked()
	return len(t.failedCredentials), len(t.failedModels)
}

// Reset clears both failed sets immediately
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.clearLocked()
	t.persistLocked()
}

// maybeExpireLocked clears both failed sets once the recovery window has
// elapsed since the last wholesale clear
func (t *Tracker) maybeExpireLocked() {
	if t.now().Sub(t.lastResetAt) < recoveryWindow {
		return
	}

	hadFailures := len(t.failedCredentials) > 0 || len(t.failedModels) > 0
	t.clearLocked()
	t.persistLocked()

	if hadFailures {
		log.Printf("🔄 [Rotation] Recovery window elapsed, failed sets cleared")
	}
}

func (t *Tracker) clearLocked() {
	t.failedCredentials = make(map[string]bool)
	t.failedModels = make(map[string]bool)
	t.lastResetAt = t.now()
}

func (t *Tracker) persistLocked() {
	if t.store == nil {
		return
	}

	cursors := make(map[string]int, len(t.credentialCursors))
	for scope, cursor := range t.credentialCursors {
		cursors[scope] = cursor
	}
	s := State{
		FailedCredentials: sortedKeys(t.failedCredentials),
		FailedModels:      sortedKeys(t.failedModels),
		CredentialCursors: cursors,
		ModelCursor:       t.modelCursor,
		LastResetAt:       t.lastResetAt,
	}
	if err := t.store.Save(store.KeyRotationState, &s); err != nil {
		log.Printf("⚠️ [Rotation] Failed to persist rotation state: %v", err)
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
