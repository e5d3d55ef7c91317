package hillclimbing

import (
	"math"

	"github.com/copyleftdev/localsearch/internal/optimization"
)

// Swap returns the neighbor of c with positions i and j exchanged.
func Swap(c *optimization.Candidate, i, j int) *optimization.Candidate {
	return c.Swapped(i, j)
}

// Neighborhood returns fresh neighbors of c. With k = 1 these are all
// n(n-1)/2 pairwise swaps in (i, j) order; with k < 1 a random subset of
// ceil(k*n(n-1)/2) distinct swaps. Candidates shorter than two values have a
// single neighbor, a copy of themselves.
func (h *HillClimbing) Neighborhood(c *optimization.Candidate) []*optimization.Candidate {
	n := c.Len()
	if n < 2 {
		return []*optimization.Candidate{c.Clone()}
	}

	total := n * (n - 1) / 2
	if h.k >= 1 {
		neighbors := make([]*optimization.Candidate, 0, total)
		for i := 0; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				neighbors = append(neighbors, Swap(c, i, j))
			}
		}
		return neighbors
	}

	count := int(math.Ceil(h.k * float64(total)))
	if count < 1 {
		count = 1
	}
	neighbors := make([]*optimization.Candidate, 0, count)
	for _, idx := range h.rng.Perm(total)[:count] {
		i, j := pairAt(idx, n)
		neighbors = append(neighbors, Swap(c, i, j))
	}
	return neighbors
}

// pairAt maps an index in [0, n(n-1)/2) to the swap (i, j), i < j, at that
// position in row-major order.
func pairAt(idx, n int) (int, int) {
	for i := 0; ; i++ {
		row := n - 1 - i
		if idx < row {
			return i, i + 1 + idx
		}
		idx -= row
	}
}
