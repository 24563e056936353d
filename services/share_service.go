package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/mixups/brackets"
	"github.com/Dosada05/mixups/repositories"
	"github.com/Dosada05/mixups/storage"
	"golang.org/x/sync/errgroup"
)

type ShareResult struct {
	TournamentID  string    `json:"tournamentId"`
	TournamentURL string    `json:"tournamentUrl"`
	MatchesURL    string    `json:"matchesUrl"`
	SharedAt      time.Time `json:"sharedAt"`
}

// ShareService publishes a read-only snapshot of a tournament to object
// storage so it can be opened without access to this server.
type ShareService interface {
	ShareTournament(ctx context.Context, tournamentID string) (*ShareResult, error)
}

type shareService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	uploader       storage.FileUploader
	broadcaster    Broadcaster
	logger         *slog.Logger
	now            func() time.Time
}

// NewShareService accepts a nil uploader; sharing then fails with
// ErrSharingDisabled.
func NewShareService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
	broadcaster Broadcaster,
	logger *slog.Logger,
) ShareService {
	return &shareService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		uploader:       uploader,
		broadcaster:    broadcaster,
		logger:         logger,
		now:            time.Now,
	}
}

// snapshotCacheControl keeps shared pages close to live while results arrive.
const snapshotCacheControl = "public, max-age=60"

func snapshotKey(tournamentID, name string) string {
	return fmt.Sprintf("tournaments/%s/%s", tournamentID, name)
}

func (s *shareService) ShareTournament(ctx context.Context, tournamentID string) (*ShareResult, error) {
	if s.uploader == nil {
		return nil, ErrSharingDisabled
	}

	data, err := loadTournamentData(ctx, s.tournamentRepo, s.matchRepo, tournamentID)
	if err != nil {
		return nil, err
	}

	firstShare := data.Tournament.SharedAt == nil
	sharedAt := s.now().UTC()
	if firstShare {
		data.Tournament.SharedAt = &sharedAt
	}

	result := &ShareResult{TournamentID: tournamentID, SharedAt: *data.Tournament.SharedAt}
	keys := [2]string{snapshotKey(tournamentID, "tournament.json"), snapshotKey(tournamentID, "matches.json")}
	var uploaded [2]bool

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loc, err := s.uploadJSON(gCtx, keys[0], data.Tournament)
		if err != nil {
			return err
		}
		result.TournamentURL, uploaded[0] = loc, true
		return nil
	})
	g.Go(func() error {
		loc, err := s.uploadJSON(gCtx, keys[1], data.Matches)
		if err != nil {
			return err
		}
		result.MatchesURL, uploaded[1] = loc, true
		return nil
	})
	if err := g.Wait(); err != nil {
		// never leave a half-published first share behind
		if firstShare {
			s.removeSnapshots(context.WithoutCancel(ctx), keys, uploaded)
		}
		return nil, fmt.Errorf("failed to publish tournament %s: %w", tournamentID, err)
	}

	if err := s.tournamentRepo.MarkShared(ctx, tournamentID, sharedAt); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to mark tournament %s shared: %w", tournamentID, err)
	}

	s.logger.InfoContext(ctx, "tournament shared",
		slog.String("tournament_id", tournamentID),
		slog.String("matches_url", result.MatchesURL),
	)

	if s.broadcaster != nil {
		room := brackets.RoomForTournament(tournamentID)
		s.broadcaster.BroadcastToRoom(room, brackets.WebSocketMessage{
			Type:    brackets.MessageTournamentShared,
			Payload: result,
			RoomID:  room,
		})
	}
	return result, nil
}

func (s *shareService) uploadJSON(ctx context.Context, key string, v interface{}) (string, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", key, err)
	}
	res, err := s.uploader.Upload(ctx, storage.Object{
		Key:          key,
		ContentType:  "application/json",
		CacheControl: snapshotCacheControl,
		Body:         bytes.NewReader(body),
	})
	if err != nil {
		return "", err
	}
	return res.Location, nil
}

func (s *shareService) removeSnapshots(ctx context.Context, keys [2]string, uploaded [2]bool) {
	for i, key := range keys {
		if !uploaded[i] {
			continue
		}
		if err := s.uploader.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "failed to remove partial snapshot",
				slog.String("key", key), slog.Any("error", err))
		}
	}
}
