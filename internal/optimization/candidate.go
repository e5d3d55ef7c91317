package optimization

import (
	"fmt"
	"strings"
)

// Candidate is one point of the search space: an ordered sequence of
// non-negative integers plus the score of its last evaluation.
//
// The length of the sequence is fixed when the candidate is built. The only
// mutation allowed afterwards is replacing the cached score.
type Candidate struct {
	values []int
	score  float64
	scored bool
}

// NewCandidate creates an unscored candidate holding a copy of values.
func NewCandidate(values []int) *Candidate {
	return &Candidate{values: append([]int(nil), values...)}
}

// Clone returns an independent copy of the candidate, including its score.
func (c *Candidate) Clone() *Candidate {
	return &Candidate{
		values: append([]int(nil), c.values...),
		score:  c.score,
		scored: c.scored,
	}
}

// Len returns the number of values in the candidate.
func (c *Candidate) Len() int {
	return len(c.values)
}

// At returns the value at position i.
func (c *Candidate) At(i int) int {
	return c.values[i]
}

// Values returns a copy of the sequence.
func (c *Candidate) Values() []int {
	return append([]int(nil), c.values...)
}

// SetScore caches the result of an evaluation.
func (c *Candidate) SetScore(score float64) {
	c.score = score
	c.scored = true
}

// Score returns the cached score and whether the candidate has been scored.
func (c *Candidate) Score() (float64, bool) {
	return c.score, c.scored
}

// String formats the candidate as "[v0 v1 ...]" followed by its score when known.
func (c *Candidate) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range c.values {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", v)
	}
	b.WriteByte(']')
	if c.scored {
		fmt.Fprintf(&b, " score=%g", c.score)
	}
	return b.String()
}

// Swapped returns a new unscored candidate with the values at positions i
// and j exchanged. The receiver is left untouched.
func (c *Candidate) Swapped(i, j int) *Candidate {
	values := append([]int(nil), c.values...)
	values[i], values[j] = values[j], values[i]
	return &Candidate{values: values}
}
