// Package results turns raw match input into outcomes and folds completed
// matches into standings and per-player statistics. Everything here is pure:
// callers pass the full current match set and get a fresh answer back.
package results

import (
	"errors"
	"fmt"

	"github.com/Dosada05/mixups/models"
)

var ErrInvalidResult = errors.New("invalid match result")

// ScoreInput carries raw scores; a nil side means "not entered yet".
type ScoreInput struct {
	Team1 *int `json:"team1"`
	Team2 *int `json:"team2"`
}

// ResultUpdate is a proposed change to one match. POINTS tournaments send
// Scores, WIN_LOSS tournaments send Winner.
type ResultUpdate struct {
	Scores *ScoreInput    `json:"scores,omitempty"`
	Winner *models.Winner `json:"winner,omitempty"`
}

// Resolve applies update to a copy of match and derives Winner and
// IsComplete according to the tournament's scoring rules.
func Resolve(match models.Match, cfg models.Config, update ResultUpdate) (models.Match, error) {
	switch cfg.ScoringMode {
	case models.ScoringWinLoss:
		return resolveDeclared(match, cfg, update)
	case models.ScoringPoints, "":
		return resolveScores(match, cfg, update)
	default:
		return match, fmt.Errorf("%w: unknown scoring mode %q", ErrInvalidResult, cfg.ScoringMode)
	}
}

func resolveScores(match models.Match, cfg models.Config, update ResultUpdate) (models.Match, error) {
	if update.Winner != nil {
		return match, fmt.Errorf("%w: winner is derived from scores in points mode", ErrInvalidResult)
	}
	if update.Scores == nil {
		return match, fmt.Errorf("%w: scores are required in points mode", ErrInvalidResult)
	}
	t1, t2 := update.Scores.Team1, update.Scores.Team2
	if (t1 != nil && *t1 < 0) || (t2 != nil && *t2 < 0) {
		return match, fmt.Errorf("%w: scores cannot be negative", ErrInvalidResult)
	}

	match.Scores = models.Scores{Team1: copyInt(t1), Team2: copyInt(t2)}
	match.Winner = models.WinnerNone
	match.IsComplete = false

	if !match.Scores.Complete() {
		return match, nil
	}

	// An equal score without draws is still complete; it just has no winner.
	match.IsComplete = true
	switch {
	case *t1 > *t2:
		match.Winner = models.WinnerTeam1
	case *t2 > *t1:
		match.Winner = models.WinnerTeam2
	case cfg.AllowDraws:
		match.Winner = models.WinnerDraw
	}
	return match, nil
}

func resolveDeclared(match models.Match, cfg models.Config, update ResultUpdate) (models.Match, error) {
	if update.Scores != nil {
		return match, fmt.Errorf("%w: scores are not used in win/loss mode", ErrInvalidResult)
	}
	if update.Winner == nil {
		return match, fmt.Errorf("%w: a winner must be declared in win/loss mode", ErrInvalidResult)
	}
	switch w := *update.Winner; w {
	case models.WinnerTeam1, models.WinnerTeam2:
	case models.WinnerDraw:
		if !cfg.AllowDraws {
			return match, fmt.Errorf("%w: draws are not allowed in this tournament", ErrInvalidResult)
		}
	default:
		return match, fmt.Errorf("%w: cannot declare winner %q", ErrInvalidResult, w)
	}

	zero1, zero2 := 0, 0
	match.Scores = models.Scores{Team1: &zero1, Team2: &zero2}
	match.Winner = *update.Winner
	match.IsComplete = true
	return match, nil
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
