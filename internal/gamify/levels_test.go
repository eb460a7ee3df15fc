package gamify

import "testing"

func TestLevelProgress_Novice(t *testing.T) {
	p := LevelProgress(0)
	if p.Current.Name != "Novice" {
		t.Errorf("current = %q, want Novice", p.Current.Name)
	}
	if p.Next == nil || p.Next.Name != "Apprentice" {
		t.Errorf("next = %v, want Apprentice", p.Next)
	}
	if p.Percent != 0 {
		t.Errorf("percent = %d, want 0", p.Percent)
	}
}

func TestLevelProgress_MidTier(t *testing.T) {
	// 100 XP: Apprentice (50) -> Practitioner (150), halfway.
	p := LevelProgress(100)
	if p.Current.Name != "Apprentice" {
		t.Errorf("current = %q, want Apprentice", p.Current.Name)
	}
	if p.Percent != 50 {
		t.Errorf("percent = %d, want 50", p.Percent)
	}
}

func TestLevelProgress_ExactThreshold(t *testing.T) {
	p := LevelProgress(150)
	if p.Current.Name != "Practitioner" {
		t.Errorf("current = %q, want Practitioner at exactly 150 XP", p.Current.Name)
	}
	if p.Percent != 0 {
		t.Errorf("percent = %d, want 0 at threshold", p.Percent)
	}
}

func TestLevelProgress_TopTier(t *testing.T) {
	p := LevelProgress(5000)
	if p.Current.Name != "Master" {
		t.Errorf("current = %q, want Master", p.Current.Name)
	}
	if p.Next != nil {
		t.Errorf("next = %v, want nil at top tier", p.Next)
	}
	if p.Percent != 100 {
		t.Errorf("percent = %d, want 100", p.Percent)
	}
}

func TestLevelProgress_NegativeClamped(t *testing.T) {
	p := LevelProgress(-10)
	if p.TotalXP != 0 || p.Current.Name != "Novice" {
		t.Errorf("negative XP: got %+v, want clamped Novice", p)
	}
}

func TestBadgeByID_Known(t *testing.T) {
	b, ok := BadgeByID("first_article")
	if !ok || b.Name == "" {
		t.Errorf("BadgeByID(first_article) = %v, %v", b, ok)
	}
	if _, ok := BadgeByID("no_such_badge"); ok {
		t.Error("BadgeByID returned ok for unknown id")
	}
}
