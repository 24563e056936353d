package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/mixups/models"
)

// MemoryStore keeps tournaments and matches in process memory. It backs
// both repository interfaces and is used when no database is configured.
type MemoryStore struct {
	mu          sync.RWMutex
	tournaments map[string]models.Tournament
	matches     map[string]models.Match
	byTourney   map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tournaments: make(map[string]models.Tournament),
		matches:     make(map[string]models.Match),
		byTourney:   make(map[string][]string),
	}
}

func (s *MemoryStore) Tournaments() TournamentRepository { return memoryTournaments{s} }

func (s *MemoryStore) Matches() MatchRepository { return memoryMatches{s} }

type memoryTournaments struct{ s *MemoryStore }

func (r memoryTournaments) CreateWithMatches(_ context.Context, t *models.Tournament, matches []*models.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.tournaments[t.ID]; exists {
		return ErrTournamentConflict
	}
	for _, m := range matches {
		if _, exists := r.s.matches[m.ID]; exists {
			return ErrTournamentConflict
		}
	}

	stored := *t
	stored.Players = append([]string(nil), t.Players...)
	r.s.tournaments[t.ID] = stored
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		r.s.matches[m.ID] = cloneMatch(m)
		ids = append(ids, m.ID)
	}
	r.s.byTourney[t.ID] = ids
	return nil
}

func (r memoryTournaments) GetByID(_ context.Context, id string) (*models.Tournament, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tournaments[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	t.Players = append([]string(nil), t.Players...)
	return &t, nil
}

func (r memoryTournaments) MarkShared(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tournaments[id]
	if !ok {
		return ErrTournamentNotFound
	}
	if t.SharedAt == nil {
		t.SharedAt = &at
		r.s.tournaments[id] = t
	}
	return nil
}

type memoryMatches struct{ s *MemoryStore }

func (r memoryMatches) GetByID(_ context.Context, id string) (*models.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	c := cloneMatch(&m)
	return &c, nil
}

func (r memoryMatches) ListByTournament(_ context.Context, tournamentID string) ([]*models.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := r.s.byTourney[tournamentID]
	out := make([]*models.Match, 0, len(ids))
	for _, id := range ids {
		m := r.s.matches[id]
		c := cloneMatch(&m)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r memoryMatches) Update(_ context.Context, id string, mutate func(m *models.Match) error) (*models.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	working := cloneMatch(&stored)
	if err := mutate(&working); err != nil {
		return nil, err
	}
	// identity, teams and order are fixed at creation
	stored.Scores = working.Scores
	stored.Winner = working.Winner
	stored.IsComplete = working.IsComplete
	r.s.matches[id] = cloneMatch(&stored)

	out := cloneMatch(&stored)
	return &out, nil
}

func cloneMatch(m *models.Match) models.Match {
	c := *m
	c.Scores = models.Scores{Team1: copyInt(m.Scores.Team1), Team2: copyInt(m.Scores.Team2)}
	return c
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
