// Package annealing implements simulated annealing with random swap moves.
package annealing

import (
	"context"
	"math"
	"math/rand"
	"strconv"

	"github.com/copyleftdev/localsearch/internal/optimization"
)

const component = "simulated-annealing"

// Defaults applied when a parameter is missing or malformed.
const (
	DefaultIterations = 10000
	DefaultStartTemp  = 10.0
	DefaultEndTemp    = 1e-3
	DefaultSeed       = 1
)

// Schedule provides a temperature for a given step of a finite run.
type Schedule interface {
	Temperature(iter, total int) float64
}

// ExponentialSchedule cools geometrically from Start to End.
type ExponentialSchedule struct {
	Start float64
	End   float64
}

// Temperature returns Start * (End/Start)^(iter/(total-1)).
func (e ExponentialSchedule) Temperature(iter, total int) float64 {
	if total <= 1 {
		return e.End
	}
	if e.Start <= 0 || e.End <= 0 {
		return 1e-9
	}
	frac := float64(iter) / float64(total-1)
	return e.Start * math.Pow(e.End/e.Start, frac)
}

// Annealer proposes one random swap per step and accepts it when it
// improves, or with probability exp(-delta/T) when it does not.
type Annealer struct {
	optimization.Evaluator

	iterations int
	schedule   ExponentialSchedule
	seed       int64

	rng *rand.Rand
}

// New creates an Annealer with default parameters.
func New() *Annealer {
	a := &Annealer{Evaluator: optimization.NewEvaluator()}
	a.reset()
	return a
}

func (a *Annealer) reset() {
	a.iterations = DefaultIterations
	a.schedule = ExponentialSchedule{Start: DefaultStartTemp, End: DefaultEndTemp}
	a.seed = DefaultSeed
	a.rng = rand.New(rand.NewSource(a.seed))
}

// SetParams accepts [iterations [startTemp [endTemp [seed]]]].
func (a *Annealer) SetParams(params []string) error {
	a.reset()

	var firstErr error
	fail := func(format string, args ...interface{}) {
		if firstErr == nil {
			firstErr = optimization.InvalidParameter(component, format, args...)
		}
	}

	if len(params) > 0 {
		if n, err := strconv.Atoi(params[0]); err != nil || n < 1 {
			fail("iterations must be a positive integer, got %q", params[0])
		} else {
			a.iterations = n
		}
	}
	if len(params) > 1 {
		if t, err := strconv.ParseFloat(params[1], 64); err != nil || t <= 0 {
			fail("start temperature must be positive, got %q", params[1])
		} else {
			a.schedule.Start = t
		}
	}
	if len(params) > 2 {
		if t, err := strconv.ParseFloat(params[2], 64); err != nil || t <= 0 {
			fail("end temperature must be positive, got %q", params[2])
		} else {
			a.schedule.End = t
		}
	}
	if len(params) > 3 {
		if seed, err := strconv.ParseInt(params[3], 10, 64); err != nil {
			fail("seed must be an integer, got %q", params[3])
		} else {
			a.seed = seed
		}
	}
	if len(params) > 4 {
		fail("expected at most 4 parameters, got %d", len(params))
	}

	a.rng = rand.New(rand.NewSource(a.seed))
	return firstErr
}

// Search anneals from one random candidate of the bound problem for the
// configured number of steps.
func (a *Annealer) Search(ctx context.Context) error {
	p := a.Problem()
	if p == nil {
		return optimization.NewError(optimization.ErrNoProblem, "cannot search").
			WithComponent(component).
			WithOperation("search")
	}

	a.InitSearch()
	err := a.anneal(ctx, p.RandomCandidate())
	a.StopSearch(err == nil)
	return err
}

func (a *Annealer) anneal(ctx context.Context, start *optimization.Candidate) error {
	current := start
	currentScore, err := a.Evaluate(current)
	if err != nil {
		return err
	}

	n := current.Len()
	if n < 2 {
		return nil
	}

	for iter := 0; iter < a.iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		i := a.rng.Intn(n)
		j := a.rng.Intn(n - 1)
		if j >= i {
			j++
		}
		candidate := current.Swapped(i, j)
		score, err := a.Evaluate(candidate)
		if err != nil {
			return err
		}

		if a.accept(currentScore, score, a.schedule.Temperature(iter, a.iterations)) {
			current, currentScore = candidate, score
		}
		a.NextIteration()
	}
	return nil
}

func (a *Annealer) accept(curr, cand, temp float64) bool {
	if cand < curr {
		return true
	}
	if temp <= 0 {
		return false
	}
	return a.rng.Float64() < math.Exp(-(cand-curr)/temp)
}
