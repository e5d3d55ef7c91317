package optimization

import (
	"math/rand"
	"strconv"
)

// inversionProblem scores a permutation by its number of inversions. Its
// random candidates are drawn from a seeded generator.
type inversionProblem struct {
	size int
	rng  *rand.Rand
}

func newInversionProblem(size int) *inversionProblem {
	return &inversionProblem{size: size, rng: rand.New(rand.NewSource(7))}
}

func (p *inversionProblem) Score(c *Candidate) (float64, error) {
	if c.Len() != p.size {
		return 0, InvalidCandidate("inversions", "candidate has %d values, want %d", c.Len(), p.size)
	}
	inversions := 0
	for i := 0; i < c.Len(); i++ {
		for j := i + 1; j < c.Len(); j++ {
			if c.At(i) > c.At(j) {
				inversions++
			}
		}
	}
	return float64(inversions), nil
}

func (p *inversionProblem) RandomCandidate() *Candidate {
	return NewCandidate(p.rng.Perm(p.size))
}

func (p *inversionProblem) SetParams(params []string) error {
	if len(params) == 0 {
		return nil
	}
	n, err := strconv.Atoi(params[0])
	if err != nil || n < 1 {
		p.size = 5
		return InvalidParameter("inversions", "bad size %q", params[0])
	}
	p.size = n
	return nil
}

func (p *inversionProblem) Size() int { return p.size }
