package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/mixups/models"
	"github.com/Dosada05/mixups/repositories"
	"github.com/Dosada05/mixups/results"
)

// StatsService answers leaderboard and player queries. Nothing is cached:
// each call folds the tournament's current matches from scratch.
type StatsService interface {
	Standings(ctx context.Context, tournamentID string) ([]models.Standing, error)
	// PlayerStats returns nil stats when the player has no completed match.
	PlayerStats(ctx context.Context, tournamentID, player string) (*models.PlayerStats, error)
}

type statsService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	logger         *slog.Logger
}

func NewStatsService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) StatsService {
	return &statsService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		logger:         logger,
	}
}

func (s *statsService) Standings(ctx context.Context, tournamentID string) ([]models.Standing, error) {
	data, err := loadTournamentData(ctx, s.tournamentRepo, s.matchRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	standings, err := results.Standings(data.Tournament.Players, data.Matches, data.Tournament.Config)
	if err != nil {
		logInvariantViolation(ctx, s.logger, tournamentID, err)
		return nil, err
	}
	return standings, nil
}

func (s *statsService) PlayerStats(ctx context.Context, tournamentID, player string) (*models.PlayerStats, error) {
	data, err := loadTournamentData(ctx, s.tournamentRepo, s.matchRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	if !data.Tournament.HasPlayer(player) {
		return nil, ErrPlayerNotFound
	}
	stats, err := results.PlayerStats(player, data.Matches)
	if err != nil {
		logInvariantViolation(ctx, s.logger, tournamentID, err)
		return nil, err
	}
	return stats, nil
}
