package gamify

// Level is one tier of the XP progression table.
type Level struct {
	Level      int    `json:"level"`
	Name       string `json:"name"`
	XPRequired int    `json:"xp_required"`
}

// levels is the ascending progression table. The first entry must require 0 XP.
var levels = []Level{
	{Level: 1, Name: "Novice", XPRequired: 0},
	{Level: 2, Name: "Apprentice", XPRequired: 50},
	{Level: 3, Name: "Practitioner", XPRequired: 150},
	{Level: 4, Name: "Adept", XPRequired: 300},
	{Level: 5, Name: "Scholar", XPRequired: 500},
	{Level: 6, Name: "Sage", XPRequired: 800},
	{Level: 7, Name: "Master", XPRequired: 1200},
}

// Progress is the level state derived from TotalXP. It is recomputed on every
// read and never stored.
type Progress struct {
	TotalXP int    `json:"total_xp"`
	Current Level  `json:"current"`
	Next    *Level `json:"next,omitempty"`
	Percent int    `json:"percent"`
}

// LevelProgress derives the current level, the next level (nil at the top
// tier), and the percentage toward the next level, clamped to 100.
func LevelProgress(totalXP int) Progress {
	if totalXP < 0 {
		totalXP = 0
	}

	cur := 0
	for i, l := range levels {
		if l.XPRequired <= totalXP {
			cur = i
		}
	}

	p := Progress{TotalXP: totalXP, Current: levels[cur]}
	if cur == len(levels)-1 {
		p.Percent = 100
		return p
	}

	next := levels[cur+1]
	p.Next = &next
	span := next.XPRequired - p.Current.XPRequired
	p.Percent = (totalXP - p.Current.XPRequired) * 100 / span
	if p.Percent > 100 {
		p.Percent = 100
	}
	return p
}
