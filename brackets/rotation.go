package brackets

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/Dosada05/mixups/models"
	"github.com/google/uuid"
)

// RotationGenerator builds a mixer schedule: every partnership plays
// together at most once and players are kept as evenly busy as a greedy
// pass allows. It does not backtrack, so some rosters end early.
type RotationGenerator struct {
	mu    sync.Mutex // guards rng
	rng   *rand.Rand
	newID func() string
}

func NewRotationGenerator(rng *rand.Rand) *RotationGenerator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &RotationGenerator{rng: rng, newID: uuid.NewString}
}

func (g *RotationGenerator) GetName() string {
	return "Rotation"
}

// rotationState is the mutable bookkeeping of a single Generate call.
type rotationState struct {
	pairs      []Pair
	playCounts []int
	used       map[PairID]bool
}

func newRotationState(players []string) *rotationState {
	return &rotationState{
		pairs:      GeneratePairs(players),
		playCounts: make([]int, len(players)),
		used:       make(map[PairID]bool),
	}
}

func (s *rotationState) load(p Pair) int {
	return s.playCounts[p.ID.I] + s.playCounts[p.ID.J]
}

func (s *rotationState) unused() []Pair {
	out := make([]Pair, 0, len(s.pairs)-len(s.used))
	for _, p := range s.pairs {
		if !s.used[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// pick walks the fairness-ordered candidates and returns the first pair that
// has a disjoint opponent, together with the least loaded such opponent.
// Equal loads keep the earlier (already shuffled) candidate.
func (s *rotationState) pick(candidates []Pair) (Pair, Pair, bool) {
	for i, p1 := range candidates {
		best, bestLoad := -1, 0
		for j := i + 1; j < len(candidates); j++ {
			p2 := candidates[j]
			if p1.Overlaps(p2) {
				continue
			}
			if l := s.load(p2); best < 0 || l < bestLoad {
				best, bestLoad = j, l
			}
		}
		if best >= 0 {
			return p1, candidates[best], true
		}
	}
	return Pair{}, Pair{}, false
}

func (s *rotationState) commit(p1, p2 Pair) {
	s.used[p1.ID] = true
	s.used[p2.ID] = true
	for _, idx := range []int{p1.ID.I, p1.ID.J, p2.ID.I, p2.ID.J} {
		s.playCounts[idx]++
	}
}

func (g *RotationGenerator) Generate(ctx context.Context, params GenerateScheduleParams) (*ScheduleResult, error) {
	players := params.Players
	if err := validateRoster(players); err != nil {
		return nil, err
	}

	result := &ScheduleResult{
		Matches:     make([]*models.Match, 0),
		PlayCounts:  make(map[string]int, len(players)),
		Termination: TerminationInsufficientRoster,
	}
	for _, p := range players {
		result.PlayCounts[p] = 0
	}
	if len(players) < MinPlayers {
		return result, nil
	}

	state := newRotationState(players)

	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		candidates := state.unused()
		if len(candidates) == 0 {
			result.Termination = TerminationExhausted
			break
		}

		g.rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		sort.SliceStable(candidates, func(i, j int) bool {
			return state.load(candidates[i]) < state.load(candidates[j])
		})

		team1, team2, ok := state.pick(candidates)
		if !ok {
			result.Termination = TerminationDeadlocked
			break
		}
		state.commit(team1, team2)

		result.Matches = append(result.Matches, &models.Match{
			ID:           g.newID(),
			TournamentID: params.TournamentID,
			Team1:        [2]string{team1.P1, team1.P2},
			Team2:        [2]string{team2.P1, team2.P2},
			Winner:       models.WinnerNone,
			OrderIndex:   len(result.Matches),
		})
	}

	for i, p := range players {
		result.PlayCounts[p] = state.playCounts[i]
	}
	return result, nil
}
