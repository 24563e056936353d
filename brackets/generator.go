package brackets

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/Dosada05/mixups/models"
)

// MinPlayers is the smallest roster that can fill one 2v2 match.
const MinPlayers = 4

var (
	ErrUnsupportedScheduleMode = errors.New("unsupported schedule mode")
	ErrInvalidRoster           = errors.New("roster must contain unique, non-empty names")
)

// Termination says why a generator stopped adding matches.
type Termination string

const (
	TerminationInsufficientRoster Termination = "insufficient_roster"
	TerminationExhausted          Termination = "exhausted"
	TerminationDeadlocked         Termination = "deadlocked"
)

type GenerateScheduleParams struct {
	TournamentID string
	Players      []string
	Config       models.Config
}

type ScheduleResult struct {
	Matches     []*models.Match
	PlayCounts  map[string]int
	Termination Termination
}

type ScheduleGenerator interface {
	Generate(ctx context.Context, params GenerateScheduleParams) (*ScheduleResult, error)

	GetName() string
}

// NewGenerator returns the generator for mode. A nil rng gets a randomly
// seeded source.
func NewGenerator(mode models.ScheduleMode, rng *rand.Rand) (ScheduleGenerator, error) {
	switch mode {
	case models.ScheduleRotation, "":
		return NewRotationGenerator(rng), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheduleMode, mode)
	}
}

func validateRoster(players []string) error {
	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		if p == "" {
			return ErrInvalidRoster
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("%w: %q appears twice", ErrInvalidRoster, p)
		}
		seen[p] = struct{}{}
	}
	return nil
}
