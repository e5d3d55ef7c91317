package optimization

import (
	"math"
	"time"
)

// Evaluator holds the search state shared by every algorithm: the bound
// problem, the best candidate seen so far, the evaluation counter and the
// search timer. Algorithms embed it and call InitSearch and StopSearch around
// their search loop.
//
// An Evaluator is owned by a single algorithm instance and is not safe for
// concurrent use.
type Evaluator struct {
	problem  Problem
	reporter Reporter

	best        *Candidate
	bestScore   float64
	evaluations int64
	iterations  int
	converged   bool
	history     []Evaluation

	started time.Time
	elapsed time.Duration
}

// NewEvaluator returns an Evaluator with an empty search state.
func NewEvaluator() Evaluator {
	return Evaluator{bestScore: math.Inf(1)}
}

// SetProblem binds the problem to search against.
func (e *Evaluator) SetProblem(p Problem) {
	e.problem = p
}

// Problem returns the bound problem, or nil.
func (e *Evaluator) Problem() Problem {
	return e.problem
}

// SetReporter installs the progress reporter. A nil reporter disables reporting.
func (e *Evaluator) SetReporter(r Reporter) {
	e.reporter = r
}

// InitSearch resets the search state and starts the timer.
func (e *Evaluator) InitSearch() {
	e.best = nil
	e.bestScore = math.Inf(1)
	e.evaluations = 0
	e.iterations = 0
	e.converged = false
	e.history = nil
	e.elapsed = 0
	e.started = time.Now()
}

// StopSearch freezes the timer and records whether the search converged.
func (e *Evaluator) StopSearch(converged bool) {
	e.elapsed = time.Since(e.started)
	e.converged = converged
}

// NextIteration counts one completed pass of the algorithm's main loop.
func (e *Evaluator) NextIteration() {
	e.iterations++
}

// Evaluate scores c against the bound problem, caches the score on c and
// keeps a copy of c when it beats the best score so far.
func (e *Evaluator) Evaluate(c *Candidate) (float64, error) {
	if e.problem == nil {
		return 0, NewError(ErrNoProblem, "cannot evaluate candidate").WithOperation("evaluate")
	}

	score, err := e.problem.Score(c)
	if err != nil {
		return 0, err
	}
	c.SetScore(score)
	e.evaluations++

	if score < e.bestScore {
		e.best = c.Clone()
		e.bestScore = score
		e.history = append(e.history, Evaluation{Index: e.evaluations, Score: score})
	}

	if e.reporter != nil && ReportDue(e.evaluations) {
		e.reporter.Progress(e.evaluations, e.bestScore)
	}

	return score, nil
}

// BestSolution returns a copy of the best candidate, or nil before the first
// successful evaluation.
func (e *Evaluator) BestSolution() *Candidate {
	if e.best == nil {
		return nil
	}
	return e.best.Clone()
}

// BestScore returns the best score seen so far (+Inf before any evaluation).
func (e *Evaluator) BestScore() float64 {
	return e.bestScore
}

// Stats returns the summary of the current or last search.
func (e *Evaluator) Stats() Stats {
	return Stats{
		Evaluations: e.evaluations,
		BestScore:   e.bestScore,
		Elapsed:     e.elapsed,
		Iterations:  e.iterations,
		Converged:   e.converged,
		History:     append([]Evaluation(nil), e.history...),
	}
}
