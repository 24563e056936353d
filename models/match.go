package models

import (
	"errors"
	"fmt"
)

// ErrInvariantViolation marks a match whose teams are malformed. The
// scheduler never produces one, so seeing it means stored data is corrupt.
var ErrInvariantViolation = errors.New("match invariant violation")

type Winner string

const (
	WinnerNone  Winner = ""
	WinnerTeam1 Winner = "team1"
	WinnerTeam2 Winner = "team2"
	WinnerDraw  Winner = "draw"
)

func (w Winner) Valid() bool {
	switch w {
	case WinnerNone, WinnerTeam1, WinnerTeam2, WinnerDraw:
		return true
	}
	return false
}

// Scores are nil until entered.
type Scores struct {
	Team1 *int `json:"team1"`
	Team2 *int `json:"team2"`
}

// Complete reports whether both sides have a score.
func (s Scores) Complete() bool {
	return s.Team1 != nil && s.Team2 != nil
}

type Match struct {
	ID           string    `json:"id" db:"id"`
	TournamentID string    `json:"tournamentId" db:"tournament_id"`
	Team1        [2]string `json:"team1" db:"team1"`
	Team2        [2]string `json:"team2" db:"team2"`
	Scores       Scores    `json:"scores" db:"-"`
	Winner       Winner    `json:"winner,omitempty" db:"winner"`
	IsComplete   bool      `json:"isComplete" db:"is_complete"`
	OrderIndex   int       `json:"orderIndex" db:"order_index"`
}

// Side returns which team player is on, or WinnerNone if not in the match.
func (m *Match) Side(player string) Winner {
	switch player {
	case m.Team1[0], m.Team1[1]:
		return WinnerTeam1
	case m.Team2[0], m.Team2[1]:
		return WinnerTeam2
	}
	return WinnerNone
}

// Partner returns player's teammate in this match.
func (m *Match) Partner(player string) (string, bool) {
	for _, team := range [][2]string{m.Team1, m.Team2} {
		if team[0] == player {
			return team[1], true
		}
		if team[1] == player {
			return team[0], true
		}
	}
	return "", false
}

// Validate checks the team invariants against the tournament roster. A nil
// roster skips the membership check.
func (m *Match) Validate(roster map[string]struct{}) error {
	seen := make(map[string]struct{}, 4)
	for _, p := range []string{m.Team1[0], m.Team1[1], m.Team2[0], m.Team2[1]} {
		if p == "" {
			return fmt.Errorf("%w: match %s has an empty team slot", ErrInvariantViolation, m.ID)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("%w: match %s lists %q twice", ErrInvariantViolation, m.ID, p)
		}
		seen[p] = struct{}{}
		if roster != nil {
			if _, ok := roster[p]; !ok {
				return fmt.Errorf("%w: match %s references %q who is not on the roster", ErrInvariantViolation, m.ID, p)
			}
		}
	}
	return nil
}

// RosterSet builds the lookup Validate expects.
func RosterSet(players []string) map[string]struct{} {
	set := make(map[string]struct{}, len(players))
	for _, p := range players {
		set[p] = struct{}{}
	}
	return set
}
