package gamify

// Badge is a one-way achievement. Once unlocked it is never revoked, which
// holds structurally because every predicate is a >= comparison against a
// monotonic Stats field (streak badges read LongestStreak, never
// CurrentStreak, for exactly this reason).
//
// Keep IDs stable: clients persist them.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	predicate func(Stats) bool
}

// Unlocked evaluates the badge predicate against the given stats.
func (b Badge) Unlocked(s Stats) bool {
	return b.predicate(s)
}

// AllBadges is the canonical badge list. Every recording pass re-evaluates
// the full list, not just badges related to the triggering activity, because
// cross-cutting predicates (streak, XP) can become true from any activity.
var AllBadges = []Badge{
	{
		ID: "first_article", Name: "First Steps", Description: "Read your first article.",
		predicate: func(s Stats) bool { return s.ArticlesRead >= 1 },
	},
	{
		ID: "avid_reader", Name: "Avid Reader", Description: "Read 5 articles.",
		predicate: func(s Stats) bool { return s.ArticlesRead >= 5 },
	},
	{
		ID: "bookworm", Name: "Bookworm", Description: "Read 15 articles.",
		predicate: func(s Stats) bool { return s.ArticlesRead >= 15 },
	},
	{
		ID: "first_concept", Name: "Spark", Description: "Master your first concept.",
		predicate: func(s Stats) bool { return s.ConceptsMastered >= 1 },
	},
	{
		ID: "concept_collector", Name: "Collector", Description: "Master 10 concepts.",
		predicate: func(s Stats) bool { return s.ConceptsMastered >= 10 },
	},
	{
		ID: "deep_diver", Name: "Deep Diver", Description: "Master 25 concepts.",
		predicate: func(s Stats) bool { return s.ConceptsMastered >= 25 },
	},
	{
		ID: "first_path", Name: "Trailhead", Description: "Complete your first learning path.",
		predicate: func(s Stats) bool { return s.PathsCompleted >= 1 },
	},
	{
		ID: "pathfinder", Name: "Pathfinder", Description: "Complete 3 learning paths.",
		predicate: func(s Stats) bool { return s.PathsCompleted >= 3 },
	},
	{
		ID: "streak_3", Name: "Warming Up", Description: "Reach a 3-day streak.",
		predicate: func(s Stats) bool { return s.LongestStreak >= 3 },
	},
	{
		ID: "streak_7", Name: "On Fire", Description: "Reach a 7-day streak.",
		predicate: func(s Stats) bool { return s.LongestStreak >= 7 },
	},
	{
		ID: "streak_30", Name: "Unstoppable", Description: "Reach a 30-day streak.",
		predicate: func(s Stats) bool { return s.LongestStreak >= 30 },
	},
	{
		ID: "xp_100", Name: "Centurion", Description: "Earn 100 XP.",
		predicate: func(s Stats) bool { return s.TotalXP >= 100 },
	},
	{
		ID: "xp_500", Name: "High Achiever", Description: "Earn 500 XP.",
		predicate: func(s Stats) bool { return s.TotalXP >= 500 },
	},
	{
		ID: "night_owl", Name: "Night Owl", Description: "Learn between midnight and 5am.",
		predicate: func(s Stats) bool { return s.NightOwl },
	},
	{
		ID: "early_bird", Name: "Early Bird", Description: "Learn between 5am and 7am.",
		predicate: func(s Stats) bool { return s.EarlyBird },
	},
}

// BadgeByID returns the badge definition for a stored id, if known.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range AllBadges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
