package models

import "time"

// Tournament is created once together with its full match schedule and is
// never modified afterwards, apart from SharedAt.
type Tournament struct {
	ID        string     `json:"id" db:"id"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	Players   []string   `json:"players" db:"players"`
	Config    Config     `json:"config" db:"-"`
	SharedAt  *time.Time `json:"sharedAt,omitempty" db:"shared_at"`
}

// HasPlayer reports whether name is on the roster.
func (t *Tournament) HasPlayer(name string) bool {
	for _, p := range t.Players {
		if p == name {
			return true
		}
	}
	return false
}

// Progress summarises how much of the schedule has a result.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}
