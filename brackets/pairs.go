package brackets

// PairID identifies a partnership by the roster positions of its members,
// with I < J.
type PairID struct {
	I, J int
}

// Pair is an unordered partnership of two roster members.
type Pair struct {
	ID PairID
	P1 string
	P2 string
}

// Overlaps reports whether the two pairs share a player.
func (p Pair) Overlaps(other Pair) bool {
	return p.ID.I == other.ID.I || p.ID.I == other.ID.J ||
		p.ID.J == other.ID.I || p.ID.J == other.ID.J
}

// GeneratePairs lists all C(n,2) partnerships of players in roster order.
func GeneratePairs(players []string) []Pair {
	n := len(players)
	if n < 2 {
		return nil
	}
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{
				ID: PairID{I: i, J: j},
				P1: players[i],
				P2: players[j],
			})
		}
	}
	return pairs
}
