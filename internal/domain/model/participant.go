package model

import "strings"

const DefaultProfileURLTemplate = "https://leetcode.com/u/{username}/"

// ParticipantStats is the normalized record for one tracked username.
// Nil pointers mean the value is unknown, which is not the same as zero.
type ParticipantStats struct {
	Username       string   `json:"username"`
	ProfileURL     string   `json:"profileUrl"`
	WorldwideRank  *int     `json:"worldwideRank"`
	ProblemsSolved *int     `json:"problemsSolved"`
	EasySolved     *int     `json:"easySolved"`
	MediumSolved   *int     `json:"mediumSolved"`
	HardSolved     *int     `json:"hardSolved"`
	ContestRating  *float64 `json:"contestRating,omitempty"`
}

// ProfileURL expands tmpl by substituting {username}.
func ProfileURL(tmpl, username string) string {
	if tmpl == "" {
		tmpl = DefaultProfileURLTemplate
	}
	return strings.ReplaceAll(tmpl, "{username}", username)
}
