package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/mixups/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentConflict = errors.New("tournament or match id already exists")
)

type TournamentRepository interface {
	// CreateWithMatches stores a tournament and its whole schedule atomically.
	CreateWithMatches(ctx context.Context, tournament *models.Tournament, matches []*models.Match) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	MarkShared(ctx context.Context, id string, at time.Time) error
}

type postgresTournamentRepository struct {
	db      *sql.DB
	matches *postgresMatchRepository
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db, matches: &postgresMatchRepository{db: db}}
}

func (r *postgresTournamentRepository) CreateWithMatches(ctx context.Context, t *models.Tournament, matches []*models.Match) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO tournaments (id, created_at, players, scoring_mode, allow_draws, schedule_mode)
			VALUES ($1, $2, $3, $4, $5, $6)`
		_, err := tx.ExecContext(ctx, query,
			t.ID,
			t.CreatedAt,
			pq.Array(t.Players),
			t.Config.ScoringMode,
			t.Config.AllowDraws,
			t.Config.ScheduleMode,
		)
		if err != nil {
			return err
		}
		return r.matches.batchCreate(ctx, tx, matches)
	})
	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	query := `
		SELECT id, created_at, players, scoring_mode, allow_draws, schedule_mode, shared_at
		FROM tournaments
		WHERE id = $1`

	t := &models.Tournament{}
	var players []string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID,
		&t.CreatedAt,
		pq.Array(&players),
		&t.Config.ScoringMode,
		&t.Config.AllowDraws,
		&t.Config.ScheduleMode,
		&t.SharedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %s: %w", id, err)
	}
	t.Players = players
	return t, nil
}

func (r *postgresTournamentRepository) MarkShared(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE tournaments SET shared_at = COALESCE(shared_at, $1) WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark tournament %s shared: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrTournamentConflict
	}
	return err
}
