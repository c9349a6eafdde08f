package model

import "sort"

type LeaderboardEntry struct {
	Position int              `json:"position"` // 1-based place in the snapshot
	Stats    ParticipantStats `json:"stats"`
}

// RankLess reports whether a ranks strictly ahead of b.
// An absent rank compares as +Inf, so two unranked records are equal.
// Zero is a present rank.
func RankLess(a, b ParticipantStats) bool {
	if a.WorldwideRank == nil {
		return false
	}
	if b.WorldwideRank == nil {
		return true
	}
	return *a.WorldwideRank < *b.WorldwideRank
}

// SortSnapshot returns a ranked copy of stats. Equal ranks keep their input order.
func SortSnapshot(stats []ParticipantStats) []ParticipantStats {
	sorted := make([]ParticipantStats, len(stats))
	copy(sorted, stats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return RankLess(sorted[i], sorted[j])
	})
	return sorted
}

// Entries numbers an already sorted snapshot.
func Entries(sorted []ParticipantStats) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(sorted))
	for i, s := range sorted {
		entries = append(entries, LeaderboardEntry{Position: i + 1, Stats: s})
	}
	return entries
}
