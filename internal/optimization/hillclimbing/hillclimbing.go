// Package hillclimbing implements steepest-descent hill climbing over the
// pairwise swap neighborhood of a candidate.
package hillclimbing

import (
	"context"
	"math/rand"
	"strconv"

	"github.com/copyleftdev/localsearch/internal/optimization"
)

const component = "hill-climbing"

// Defaults applied when a parameter is missing or malformed.
const (
	DefaultK             = 1.0
	DefaultMaxIterations = 0
	DefaultSeed          = 1
)

// HillClimbing repeatedly moves to the best strictly improving neighbor of
// the current candidate and stops at the first pass without improvement.
type HillClimbing struct {
	optimization.Evaluator

	// k is the fraction of the swap neighborhood sampled per pass
	k float64
	// maxIterations caps the number of passes, 0 means no cap
	maxIterations int
	seed          int64

	rng *rand.Rand
}

// New creates a HillClimbing with default parameters.
func New() *HillClimbing {
	h := &HillClimbing{Evaluator: optimization.NewEvaluator()}
	h.reset()
	return h
}

func (h *HillClimbing) reset() {
	h.k = DefaultK
	h.maxIterations = DefaultMaxIterations
	h.seed = DefaultSeed
	h.rng = rand.New(rand.NewSource(h.seed))
}

// K returns the neighborhood sampling fraction.
func (h *HillClimbing) K() float64 {
	return h.k
}

// SetParams accepts [k [maxIterations [seed]]]. k must lie in (0, 1] and
// maxIterations must be non-negative. Each malformed value reverts to its
// default; the first problem found is returned.
func (h *HillClimbing) SetParams(params []string) error {
	h.reset()

	var firstErr error
	fail := func(format string, args ...interface{}) {
		if firstErr == nil {
			firstErr = optimization.InvalidParameter(component, format, args...)
		}
	}

	if len(params) > 0 {
		k, err := strconv.ParseFloat(params[0], 64)
		if err != nil || k <= 0 || k > 1 {
			fail("k must be a number in (0, 1], got %q", params[0])
		} else {
			h.k = k
		}
	}
	if len(params) > 1 {
		n, err := strconv.Atoi(params[1])
		if err != nil || n < 0 {
			fail("max iterations must be a non-negative integer, got %q", params[1])
		} else {
			h.maxIterations = n
		}
	}
	if len(params) > 2 {
		seed, err := strconv.ParseInt(params[2], 10, 64)
		if err != nil {
			fail("seed must be an integer, got %q", params[2])
		} else {
			h.seed = seed
		}
	}
	if len(params) > 3 {
		fail("expected at most 3 parameters, got %d", len(params))
	}

	h.rng = rand.New(rand.NewSource(h.seed))
	return firstErr
}

// Search climbs from one random candidate of the bound problem until no
// neighbor improves, the iteration cap is hit or ctx is done.
func (h *HillClimbing) Search(ctx context.Context) error {
	p := h.Problem()
	if p == nil {
		return optimization.NewError(optimization.ErrNoProblem, "cannot search").
			WithComponent(component).
			WithOperation("search")
	}

	h.InitSearch()
	converged, err := h.climb(ctx, p.RandomCandidate())
	h.StopSearch(converged)
	return err
}

func (h *HillClimbing) climb(ctx context.Context, start *optimization.Candidate) (bool, error) {
	current := start.Clone()
	currentScore, err := h.Evaluate(current)
	if err != nil {
		return false, err
	}

	for passes := 0; ; passes++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if h.maxIterations > 0 && passes >= h.maxIterations {
			return false, nil
		}

		var next *optimization.Candidate
		nextScore := currentScore
		for _, neighbor := range h.Neighborhood(current) {
			score, err := h.Evaluate(neighbor)
			if err != nil {
				return false, err
			}
			if score < nextScore {
				next, nextScore = neighbor, score
			}
		}
		h.NextIteration()

		if next == nil {
			return true, nil
		}
		current, currentScore = next, nextScore
	}
}
