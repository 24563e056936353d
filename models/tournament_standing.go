package models

// Standing is one row of the leaderboard. It is always derived from the
// current match set and never stored.
type Standing struct {
	Name      string `json:"name"`
	Played    int    `json:"played"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
	Draws     int    `json:"draws"`
	PointDiff int    `json:"pointDiff"`
}
