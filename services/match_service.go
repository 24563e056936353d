package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/mixups/brackets"
	"github.com/Dosada05/mixups/metrics"
	"github.com/Dosada05/mixups/models"
	"github.com/Dosada05/mixups/repositories"
	"github.com/Dosada05/mixups/results"
)

type MatchService interface {
	// UpdateResult records scores or a declared winner for one match and
	// notifies everyone watching the tournament.
	UpdateResult(ctx context.Context, matchID string, update results.ResultUpdate) (*models.Match, error)
}

type matchService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	broadcaster    Broadcaster
	metrics        *metrics.Recorder
	logger         *slog.Logger
}

func NewMatchService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	broadcaster Broadcaster,
	recorder *metrics.Recorder,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		broadcaster:    broadcaster,
		metrics:        recorder,
		logger:         logger,
	}
}

func (s *matchService) UpdateResult(ctx context.Context, matchID string, update results.ResultUpdate) (*models.Match, error) {
	current, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to fetch match %s: %w", matchID, err)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, current.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to fetch tournament %s: %w", current.TournamentID, err)
	}

	updated, err := s.matchRepo.Update(ctx, matchID, func(m *models.Match) error {
		resolved, err := results.Resolve(*m, tournament.Config, update)
		if err != nil {
			return err
		}
		*m = resolved
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrMatchNotFound):
			return nil, ErrMatchNotFound
		case errors.Is(err, results.ErrInvalidResult):
			return nil, err
		}
		return nil, fmt.Errorf("failed to update match %s: %w", matchID, err)
	}

	s.metrics.ResultRecorded(string(updated.Winner))
	s.logger.InfoContext(ctx, "match result updated",
		slog.String("tournament_id", updated.TournamentID),
		slog.String("match_id", updated.ID),
		slog.Bool("complete", updated.IsComplete),
		slog.String("winner", string(updated.Winner)),
	)

	if s.broadcaster != nil {
		room := brackets.RoomForTournament(updated.TournamentID)
		s.broadcaster.BroadcastToRoom(room, brackets.WebSocketMessage{
			Type:    brackets.MessageMatchUpdated,
			Payload: updated,
			RoomID:  room,
		})
	}
	return updated, nil
}
