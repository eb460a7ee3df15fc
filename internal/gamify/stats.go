// Package gamify implements the gamification ledger: activity recording,
// streaks, XP, level derivation, and badge unlocks.
package gamify

import "time"

// dateLayout is the calendar-date format used for LastActivityDate.
// Date-only on purpose: streaks count calendar days, not 24h windows.
const dateLayout = "2006-01-02"

// XP rewards. Badge and streak bonuses are granted on top of the activity's
// own reward.
const (
	ArticleXP          = 10
	ConceptXP          = 15
	PathXP             = 50
	DailyStreakBonusXP = 5
	BadgeBonusXP       = 15
)

// Stats is the cumulative gamification ledger. Counters and their slug sets
// are kept in lockstep: a counter is only ever incremented together with an
// append to its set. TotalXP is monotonically non-decreasing.
type Stats struct {
	ArticlesRead          int      `json:"articles_read"`
	ArticlesReadSlugs     []string `json:"articles_read_slugs"`
	ConceptsMastered      int      `json:"concepts_mastered"`
	ConceptsMasteredSlugs []string `json:"concepts_mastered_slugs"`
	TotalConcepts         int      `json:"total_concepts"`
	PathsCompleted        int      `json:"paths_completed"`
	PathsCompletedIDs     []string `json:"paths_completed_ids"`
	CurrentStreak         int      `json:"current_streak"`
	LongestStreak         int      `json:"longest_streak"`
	LastActivityDate      string   `json:"last_activity_date,omitempty"`
	TotalXP               int      `json:"total_xp"`
	NightOwl              bool     `json:"night_owl"`
	EarlyBird             bool     `json:"early_bird"`
}

// HasRecorded reports whether the slug was already recorded for the kind.
func (s *Stats) HasRecorded(kind ActivityKind, slug string) bool {
	switch kind {
	case ArticleRead:
		return contains(s.ArticlesReadSlugs, slug)
	case ConceptMastered:
		return contains(s.ConceptsMasteredSlugs, slug)
	case PathCompleted:
		return contains(s.PathsCompletedIDs, slug)
	}
	return false
}

// clone returns a deep copy so callers cannot mutate engine-owned state.
func (s Stats) clone() Stats {
	out := s
	out.ArticlesReadSlugs = append([]string(nil), s.ArticlesReadSlugs...)
	out.ConceptsMasteredSlugs = append([]string(nil), s.ConceptsMasteredSlugs...)
	out.PathsCompletedIDs = append([]string(nil), s.PathsCompletedIDs...)
	return out
}

// daysBetween returns the whole calendar days from date a to date b (both in
// dateLayout). Malformed dates count as a broken streak.
func daysBetween(a, b string) int {
	ta, errA := time.ParseInLocation(dateLayout, a, time.UTC)
	tb, errB := time.ParseInLocation(dateLayout, b, time.UTC)
	if errA != nil || errB != nil {
		return 2
	}
	return int(tb.Sub(ta).Hours() / 24)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
