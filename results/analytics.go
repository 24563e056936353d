package results

import (
	"math"
	"sort"

	"github.com/Dosada05/mixups/models"
)

// RecentForm is how many of the newest results PlayerStats reports.
const RecentForm = 5

// PlayerStats summarises player's completed matches. It returns nil stats
// when the player has not finished a match yet.
func PlayerStats(player string, matches []*models.Match) (*models.PlayerStats, error) {
	involved := make([]*models.Match, 0)
	for _, m := range matches {
		if !m.IsComplete || m.Side(player) == models.WinnerNone {
			continue
		}
		if err := m.Validate(nil); err != nil {
			return nil, err
		}
		involved = append(involved, m)
	}
	if len(involved) == 0 {
		return nil, nil
	}
	sort.SliceStable(involved, func(i, j int) bool {
		return involved[i].OrderIndex < involved[j].OrderIndex
	})

	stats := &models.PlayerStats{Player: player, Played: len(involved)}

	var pointsFor, pointsAgainst int
	partners := make([]*models.PartnerStats, 0)
	partnerIdx := make(map[string]*models.PartnerStats)
	for _, m := range involved {
		res := resultFor(m, player)
		switch res {
		case models.ResultWin:
			stats.Wins++
		case models.ResultLoss:
			stats.Losses++
		case models.ResultDraw:
			stats.Draws++
		}

		own, opp := m.Scores.Team1, m.Scores.Team2
		if m.Side(player) == models.WinnerTeam2 {
			own, opp = opp, own
		}
		pointsFor += deref(own)
		pointsAgainst += deref(opp)

		partner, _ := m.Partner(player)
		ps, ok := partnerIdx[partner]
		if !ok {
			ps = &models.PartnerStats{Name: partner}
			partnerIdx[partner] = ps
			partners = append(partners, ps)
		}
		ps.Played++
		if res == models.ResultWin {
			ps.Wins++
		}
	}

	played := float64(stats.Played)
	stats.WinRate = int(math.Round(100 * float64(stats.Wins) / played))
	stats.PointsForPerGame = roundTenth(float64(pointsFor) / played)
	stats.PointsAgainstPerGame = roundTenth(float64(pointsAgainst) / played)

	for _, ps := range partners {
		ps.WinRate = float64(ps.Wins) / float64(ps.Played)
	}
	sort.SliceStable(partners, func(i, j int) bool {
		return partners[i].WinRate > partners[j].WinRate
	})
	stats.Partners = make([]models.PartnerStats, len(partners))
	for i, ps := range partners {
		stats.Partners[i] = *ps
	}

	// newest first from here on
	recent := make([]models.Result, len(involved))
	for i, m := range involved {
		recent[len(involved)-1-i] = resultFor(m, player)
	}
	stats.Streak = streak(recent)
	n := min(RecentForm, len(recent))
	stats.LastResults = append([]models.Result(nil), recent[:n]...)

	return stats, nil
}

// streak counts how many leading entries of newestFirst repeat the first one.
func streak(newestFirst []models.Result) models.Streak {
	if len(newestFirst) == 0 {
		return models.Streak{}
	}
	s := models.Streak{Result: newestFirst[0], Length: 1}
	for _, r := range newestFirst[1:] {
		if r != s.Result {
			break
		}
		s.Length++
	}
	return s
}

func resultFor(m *models.Match, player string) models.Result {
	switch m.Winner {
	case m.Side(player):
		return models.ResultWin
	case models.WinnerDraw:
		return models.ResultDraw
	case models.WinnerNone:
		return models.ResultUnresolved
	default:
		return models.ResultLoss
	}
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
