package gamify

import (
	"fmt"
	"sync"
	"time"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/statestore"
)

// ActivityKind tags the recordable activity variants.
type ActivityKind int

// Activity kinds.
const (
	ArticleRead ActivityKind = iota
	ConceptMastered
	PathCompleted
)

// String returns the wire name of the kind.
func (k ActivityKind) String() string {
	switch k {
	case ArticleRead:
		return "article_read"
	case ConceptMastered:
		return "concept_mastered"
	case PathCompleted:
		return "path_completed"
	}
	return "unknown"
}

// Activity is one recordable event. TotalConcepts is only meaningful for
// ConceptMastered and is supplied by the caller — the engine never derives it.
type Activity struct {
	Kind          ActivityKind
	Slug          string
	TotalConcepts int
}

// NotifyFunc receives change notifications after successful mutations.
// What to redraw in response is entirely the consumer's concern.
type NotifyFunc func(event string, data any)

// persisted is the on-disk shape of the gamification document.
type persisted struct {
	Stats  Stats    `json:"stats"`
	Badges []string `json:"badges"`
}

// Engine owns the gamification ledger. Construct once at app start, call
// Load before any mutation, and share the instance by reference; there are
// no package-level singletons.
type Engine struct {
	mu       sync.Mutex
	store    *statestore.Store
	now      func() time.Time
	notify   NotifyFunc
	loaded   bool
	stats    Stats
	unlocked []string            // unlock order preserved for display
	have     map[string]struct{} // unlocked id set
	pending  []Badge             // newly unlocked, consumed once via TakeNewBadges
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock overrides the wall clock. Streak and time-of-day logic read
// the clock exactly once per recorded activity.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithNotify installs the change-notification callback.
func WithNotify(fn NotifyFunc) EngineOption {
	return func(e *Engine) { e.notify = fn }
}

// NewEngine creates an Engine backed by the given state store.
func NewEngine(store *statestore.Store, opts ...EngineOption) *Engine {
	e := &Engine{
		store: store,
		now:   time.Now,
		have:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load reads the persisted ledger. An absent or corrupt document yields
// zeroed stats. Mutations before Load are rejected with ErrNotLoaded so
// defaults can never clobber real data.
func (e *Engine) Load() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var doc persisted
	if _, err := e.store.Load(statestore.DocGamification, &doc); err != nil {
		return err
	}
	e.stats = doc.Stats
	e.unlocked = e.unlocked[:0]
	e.have = make(map[string]struct{}, len(doc.Badges))
	for _, id := range doc.Badges {
		if _, dup := e.have[id]; dup {
			continue
		}
		e.have[id] = struct{}{}
		e.unlocked = append(e.unlocked, id)
	}
	e.loaded = true
	return nil
}

// Loaded reports whether Load has completed.
func (e *Engine) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

// Record applies one activity to the ledger. Recording an already-recorded
// slug is a no-op, so double recording can never double-count XP. The
// sequence {idempotency check → counter/XP → streak → time flags → badge
// evaluation → persist} is strictly ordered under the engine lock.
func (e *Engine) Record(a Activity) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return apperr.ErrNotLoaded
	}
	if a.Slug == "" {
		return fmt.Errorf("gamify: empty slug")
	}
	if e.stats.HasRecorded(a.Kind, a.Slug) {
		return nil
	}

	switch a.Kind {
	case ArticleRead:
		e.stats.ArticlesReadSlugs = append(e.stats.ArticlesReadSlugs, a.Slug)
		e.stats.ArticlesRead++
		e.stats.TotalXP += ArticleXP
	case ConceptMastered:
		e.stats.ConceptsMasteredSlugs = append(e.stats.ConceptsMasteredSlugs, a.Slug)
		e.stats.ConceptsMastered++
		e.stats.TotalXP += ConceptXP
		if a.TotalConcepts > 0 {
			e.stats.TotalConcepts = a.TotalConcepts
		}
	case PathCompleted:
		e.stats.PathsCompletedIDs = append(e.stats.PathsCompletedIDs, a.Slug)
		e.stats.PathsCompleted++
		e.stats.TotalXP += PathXP
	default:
		return fmt.Errorf("gamify: unknown activity kind %d", a.Kind)
	}

	now := e.now()
	e.updateStreak(now)
	e.applyTimeOfDayFlags(now)

	newly := e.evaluateBadges()
	if len(newly) > 0 {
		e.stats.TotalXP += len(newly) * BadgeBonusXP
		e.pending = append(e.pending, newly...)
	}

	if err := e.persist(); err != nil {
		return err
	}

	if e.notify != nil {
		e.notify("stats.updated", e.stats.clone())
		for _, b := range newly {
			e.notify("badge.unlocked", b)
		}
	}
	return nil
}

// updateStreak advances the calendar-day streak. Multiple activities on the
// same day hit the diff==0 branch and never re-increment.
func (e *Engine) updateStreak(now time.Time) {
	today := now.Format(dateLayout)

	if e.stats.LastActivityDate == "" {
		e.stats.CurrentStreak = 1
		e.stats.LastActivityDate = today
		if e.stats.LongestStreak < 1 {
			e.stats.LongestStreak = 1
		}
		return
	}

	diff := daysBetween(e.stats.LastActivityDate, today)
	switch {
	case diff <= 0:
		// Already active today (or clock skew); streak unchanged.
	case diff == 1:
		e.stats.CurrentStreak++
		if e.stats.CurrentStreak > e.stats.LongestStreak {
			e.stats.LongestStreak = e.stats.CurrentStreak
		}
		e.stats.LastActivityDate = today
		e.stats.TotalXP += DailyStreakBonusXP
	default:
		// A gap breaks the streak. No bonus.
		e.stats.CurrentStreak = 1
		e.stats.LastActivityDate = today
	}
}

// applyTimeOfDayFlags sets the one-shot flags from the wall clock at the
// moment of recording. Once true they stay true.
func (e *Engine) applyTimeOfDayFlags(now time.Time) {
	hour := now.Hour()
	if hour < 5 {
		e.stats.NightOwl = true
	} else if hour < 7 {
		e.stats.EarlyBird = true
	}
}

// evaluateBadges unlocks every badge whose predicate just became true.
func (e *Engine) evaluateBadges() []Badge {
	var newly []Badge
	for _, b := range AllBadges {
		if _, ok := e.have[b.ID]; ok {
			continue
		}
		if b.Unlocked(e.stats) {
			e.have[b.ID] = struct{}{}
			e.unlocked = append(e.unlocked, b.ID)
			newly = append(newly, b)
		}
	}
	return newly
}

func (e *Engine) persist() error {
	return e.store.Save(statestore.DocGamification, persisted{
		Stats:  e.stats,
		Badges: append([]string(nil), e.unlocked...),
	})
}

// Stats returns a copy of the current ledger.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats.clone()
}

// LevelProgress derives the level state from the current XP.
func (e *Engine) LevelProgress() Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return LevelProgress(e.stats.TotalXP)
}

// UnlockedBadges returns the unlocked badges in unlock order. IDs persisted
// by older versions that no longer exist are skipped.
func (e *Engine) UnlockedBadges() []Badge {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Badge, 0, len(e.unlocked))
	for _, id := range e.unlocked {
		if b, ok := BadgeByID(id); ok {
			out = append(out, b)
		}
	}
	return out
}

// TakeNewBadges returns badges unlocked since the last call and clears the
// queue. Intended for one-shot UI notifications.
func (e *Engine) TakeNewBadges() []Badge {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := e.pending
	e.pending = nil
	return out
}
