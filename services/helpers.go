package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/Dosada05/mixups/models"
	"github.com/Dosada05/mixups/repositories"
	"golang.org/x/sync/errgroup"
)

// TournamentData is a tournament with its full schedule in play order.
type TournamentData struct {
	Tournament *models.Tournament `json:"tournament"`
	Matches    []*models.Match    `json:"matches"`
	Progress   models.Progress    `json:"progress"`
}

// Broadcaster pushes a message to everyone watching a room.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

// loadTournamentData fetches the tournament row and its matches in parallel.
func loadTournamentData(
	ctx context.Context,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	tournamentID string,
) (*TournamentData, error) {
	data := &TournamentData{}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := tournamentRepo.GetByID(gCtx, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("failed to fetch tournament %s: %w", tournamentID, err)
		}
		data.Tournament = t
		return nil
	})
	g.Go(func() error {
		matches, err := matchRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to fetch matches for tournament %s: %w", tournamentID, err)
		}
		data.Matches = matches
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if data.Matches == nil {
		data.Matches = []*models.Match{}
	}
	data.Progress = progressOf(data.Matches)
	return data, nil
}

func progressOf(matches []*models.Match) models.Progress {
	p := models.Progress{Total: len(matches)}
	for _, m := range matches {
		if m.IsComplete {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percent = int(math.Round(100 * float64(p.Completed) / float64(p.Total)))
	}
	return p
}

// logInvariantViolation reports corrupt match data loudly; it should never
// happen for schedules this service generated.
func logInvariantViolation(ctx context.Context, logger *slog.Logger, tournamentID string, err error) {
	if errors.Is(err, models.ErrInvariantViolation) {
		logger.ErrorContext(ctx, "stored matches violate team invariants",
			slog.String("tournament_id", tournamentID), slog.Any("error", err))
	}
}
