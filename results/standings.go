package results

import (
	"sort"

	"github.com/Dosada05/mixups/models"
)

// Standings ranks every roster player by wins, then by point difference in
// POINTS mode or by fewest matches played otherwise. Only completed matches
// count. Rows with equal keys keep roster order.
func Standings(players []string, matches []*models.Match, cfg models.Config) ([]models.Standing, error) {
	roster := models.RosterSet(players)
	rows := make([]models.Standing, len(players))
	index := make(map[string]*models.Standing, len(players))
	for i, p := range players {
		rows[i] = models.Standing{Name: p}
		index[p] = &rows[i]
	}

	points := cfg.ScoringMode != models.ScoringWinLoss
	for _, m := range matches {
		if !m.IsComplete {
			continue
		}
		if err := m.Validate(roster); err != nil {
			return nil, err
		}

		diff := 0
		if points && m.Scores.Complete() {
			diff = *m.Scores.Team1 - *m.Scores.Team2
		}
		apply(index, m.Team1, m.Winner, models.WinnerTeam1, diff)
		apply(index, m.Team2, m.Winner, models.WinnerTeam2, -diff)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if points {
			return a.PointDiff > b.PointDiff
		}
		return a.Played < b.Played
	})
	return rows, nil
}

func apply(index map[string]*models.Standing, team [2]string, winner, side models.Winner, diff int) {
	for _, p := range team {
		row := index[p]
		row.Played++
		row.PointDiff += diff
		switch winner {
		case side:
			row.Wins++
		case models.WinnerDraw:
			row.Draws++
		case models.WinnerNone:
			// unresolved tie
		default:
			row.Losses++
		}
	}
}
