package client

import "leetboard/internal/domain/model"

// Tiers holds the catalog sizes used as progress denominators. They are
// configuration, not fetched, and drift from the real catalog over time.
type Tiers struct {
	Easy       int
	Medium     int
	Hard       int
	TotalUsers int
}

func DefaultTiers() Tiers {
	return Tiers{Easy: 900, Medium: 1800, Hard: 700, TotalUsers: 20000000}
}

func (t Tiers) Total() int {
	return t.Easy + t.Medium + t.Hard
}

// Ratio is clamp(solved, 0, total) / total. Unknown solved counts as 0.
func Ratio(solved *int, total int) float64 {
	if total <= 0 || solved == nil {
		return 0
	}
	s := *solved
	if s < 0 {
		s = 0
	}
	if s > total {
		s = total
	}
	return float64(s) / float64(total)
}

type Indicator struct {
	Label  string
	Tier   string
	Solved *int
	Total  int
	Ratio  float64
}

// Indicators returns the easy, medium, hard and total progress for one record.
func (t Tiers) Indicators(p model.ParticipantStats) []Indicator {
	return []Indicator{
		{Label: "Easy", Tier: "easy", Solved: p.EasySolved, Total: t.Easy, Ratio: Ratio(p.EasySolved, t.Easy)},
		{Label: "Medium", Tier: "medium", Solved: p.MediumSolved, Total: t.Medium, Ratio: Ratio(p.MediumSolved, t.Medium)},
		{Label: "Hard", Tier: "hard", Solved: p.HardSolved, Total: t.Hard, Ratio: Ratio(p.HardSolved, t.Hard)},
		{Label: "Total", Tier: "total", Solved: p.ProblemsSolved, Total: t.Total(), Ratio: Ratio(p.ProblemsSolved, t.Total())},
	}
}
