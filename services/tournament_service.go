package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/mixups/brackets"
	"github.com/Dosada05/mixups/metrics"
	"github.com/Dosada05/mixups/models"
	"github.com/Dosada05/mixups/repositories"
	"github.com/google/uuid"
)

// MaxPlayers bounds the roster so schedule generation stays fast.
const MaxPlayers = 64

type CreateTournamentInput struct {
	Players []string      `json:"players"`
	Config  models.Config `json:"config"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*TournamentData, error)
	GetTournamentData(ctx context.Context, tournamentID string) (*TournamentData, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	generator      brackets.ScheduleGenerator
	metrics        *metrics.Recorder
	logger         *slog.Logger
	now            func() time.Time
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	generator brackets.ScheduleGenerator,
	recorder *metrics.Recorder,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		generator:      generator,
		metrics:        recorder,
		logger:         logger,
		now:            time.Now,
	}
}

// normalizePlayers trims names, drops blank lines and rejects duplicates.
func normalizePlayers(raw []string) ([]string, error) {
	players := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePlayer, name)
		}
		seen[name] = struct{}{}
		players = append(players, name)
	}
	if len(players) == 0 {
		return nil, ErrPlayersRequired
	}
	if len(players) > MaxPlayers {
		return nil, fmt.Errorf("%w: %d given, at most %d allowed", ErrTooManyPlayers, len(players), MaxPlayers)
	}
	return players, nil
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*TournamentData, error) {
	players, err := normalizePlayers(input.Players)
	if err != nil {
		return nil, err
	}
	cfg, err := input.Config.Normalize()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	tournament := &models.Tournament{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
		Players:   players,
		Config:    cfg,
	}

	schedule, err := s.generator.Generate(ctx, brackets.GenerateScheduleParams{
		TournamentID: tournament.ID,
		Players:      players,
		Config:       cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate schedule: %w", err)
	}

	if err := s.tournamentRepo.CreateWithMatches(ctx, tournament, schedule.Matches); err != nil {
		if errors.Is(err, repositories.ErrTournamentConflict) {
			return nil, fmt.Errorf("tournament id collision, retry: %w", err)
		}
		return nil, fmt.Errorf("failed to store tournament: %w", err)
	}

	s.metrics.TournamentCreated(len(schedule.Matches), string(schedule.Termination))
	s.logger.InfoContext(ctx, "tournament created",
		slog.String("tournament_id", tournament.ID),
		slog.Int("players", len(players)),
		slog.Int("matches", len(schedule.Matches)),
		slog.String("generator", s.generator.GetName()),
		slog.String("termination", string(schedule.Termination)),
	)

	return &TournamentData{
		Tournament: tournament,
		Matches:    schedule.Matches,
		Progress:   progressOf(schedule.Matches),
	}, nil
}

func (s *tournamentService) GetTournamentData(ctx context.Context, tournamentID string) (*TournamentData, error) {
	return loadTournamentData(ctx, s.tournamentRepo, s.matchRepo, tournamentID)
}
