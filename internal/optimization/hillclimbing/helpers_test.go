package hillclimbing

import (
	"math/rand"

	"github.com/copyleftdev/localsearch/internal/optimization"
)

// inversions scores a permutation by its number of out-of-order pairs, so
// the sorted permutation is the only optimum and every other permutation has
// an improving swap.
type inversions struct {
	size  int
	start []int
	rng   *rand.Rand
}

func newInversions(size int, seed int64) *inversions {
	return &inversions{size: size, rng: rand.New(rand.NewSource(seed))}
}

// startingAt makes RandomCandidate always return start.
func startingAt(start []int) *inversions {
	return &inversions{size: len(start), start: start}
}

func (p *inversions) Score(c *optimization.Candidate) (float64, error) {
	if c.Len() != p.size {
		return 0, optimization.InvalidCandidate("inversions", "candidate has %d values, want %d", c.Len(), p.size)
	}
	count := 0
	for i := 0; i < c.Len(); i++ {
		for j := i + 1; j < c.Len(); j++ {
			if c.At(i) > c.At(j) {
				count++
			}
		}
	}
	return float64(count), nil
}

func (p *inversions) RandomCandidate() *optimization.Candidate {
	if p.start != nil {
		return optimization.NewCandidate(p.start)
	}
	return optimization.NewCandidate(p.rng.Perm(p.size))
}

func (p *inversions) SetParams([]string) error { return nil }

func (p *inversions) Size() int { return p.size }

func reversed(n int) []int {
	values := make([]int, n)
	for i := range values {
		values[i] = n - 1 - i
	}
	return values
}
