package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/mixups/models"
	"github.com/lib/pq"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	GetByID(ctx context.Context, id string) (*models.Match, error)
	// ListByTournament returns matches ordered by OrderIndex.
	ListByTournament(ctx context.Context, tournamentID string) ([]*models.Match, error)
	// Update loads the match, lets mutate change its result fields and
	// saves it. Concurrent updates of one match are serialized.
	Update(ctx context.Context, id string, mutate func(m *models.Match) error) (*models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, team1, team2, score1, score2, winner, is_complete, order_index`

func (r *postgresMatchRepository) batchCreate(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	if len(matches) == 0 {
		return nil
	}
	stmt, err := exec.PrepareContext(ctx, `
		INSERT INTO matches (`+matchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`)
	if err != nil {
		return fmt.Errorf("failed to prepare match insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range matches {
		_, err = stmt.ExecContext(ctx,
			m.ID,
			m.TournamentID,
			pq.Array(m.Team1[:]),
			pq.Array(m.Team2[:]),
			m.Scores.Team1,
			m.Scores.Team2,
			m.Winner,
			m.IsComplete,
			m.OrderIndex,
		)
		if err != nil {
			return fmt.Errorf("failed to insert match %d: %w", m.OrderIndex, err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var (
		m            models.Match
		team1, team2 []string
		score1       sql.NullInt64
		score2       sql.NullInt64
	)
	err := rowScanner.Scan(
		&m.ID,
		&m.TournamentID,
		pq.Array(&team1),
		pq.Array(&team2),
		&score1,
		&score2,
		&m.Winner,
		&m.IsComplete,
		&m.OrderIndex,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if len(team1) != 2 || len(team2) != 2 {
		return nil, fmt.Errorf("%w: match %s has teams of size %d and %d", models.ErrInvariantViolation, m.ID, len(team1), len(team2))
	}
	copy(m.Team1[:], team1)
	copy(m.Team2[:], team2)
	if score1.Valid {
		v := int(score1.Int64)
		m.Scores.Team1 = &v
	}
	if score2.Valid {
		v := int(score2.Int64)
		m.Scores.Team2 = &v
	}
	return &m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	m, err := r.scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, ErrMatchNotFound) {
		return nil, fmt.Errorf("failed to scan match %s: %w", id, err)
	}
	return m, err
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID string) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 ORDER BY order_index ASC`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, errScan := r.scanMatch(rows)
		if errScan != nil {
			return nil, errScan
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, id string, mutate func(m *models.Match) error) (*models.Match, error) {
	var updated *models.Match
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 FOR UPDATE`
		m, err := r.scanMatch(tx.QueryRowContext(ctx, query, id))
		if err != nil {
			return err
		}
		if err := mutate(m); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `
			UPDATE matches SET score1 = $1, score2 = $2, winner = $3, is_complete = $4
			WHERE id = $5`,
			m.Scores.Team1, m.Scores.Team2, m.Winner, m.IsComplete, id,
		)
		if err != nil {
			return fmt.Errorf("failed to update match %s: %w", id, err)
		}
		if err := checkAffectedRows(result, ErrMatchNotFound); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
