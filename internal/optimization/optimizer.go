package optimization

import (
	"context"
	"time"
)

// Problem defines a minimization problem over integer sequences.
type Problem interface {
	// Score evaluates a candidate. Identical candidates always get identical
	// scores. Candidates that do not fit the problem are rejected with an
	// error matching ErrInvalidCandidate.
	Score(c *Candidate) (float64, error)

	// RandomCandidate draws a valid candidate uniformly from the search space.
	RandomCandidate() *Candidate

	// SetParams configures the problem from textual parameters. On malformed
	// input the problem falls back to its default instance and returns an
	// error matching ErrInvalidParameter.
	SetParams(params []string) error

	// Size returns the length of the candidates this problem accepts.
	Size() int
}

// Algorithm defines the interface for search algorithms
type Algorithm interface {
	// SetProblem binds the problem to search against, replacing any previous one.
	SetProblem(p Problem)

	// Search runs the search until the algorithm reaches its terminal state
	// or ctx is done.
	Search(ctx context.Context) error

	// Evaluate scores a candidate against the bound problem and updates the
	// best solution.
	Evaluate(c *Candidate) (float64, error)

	// BestSolution returns the best candidate found by the last search.
	BestSolution() *Candidate

	// Stats returns the summary statistics of the last search.
	Stats() Stats

	// SetParams configures algorithm hyperparameters from textual parameters.
	SetParams(params []string) error

	// SetReporter installs the progress reporter.
	SetReporter(r Reporter)
}

// Evaluation records a strict improvement of the best score
type Evaluation struct {
	// Index is the evaluation count at which the improvement happened
	Index int64   `json:"index"`
	Score float64 `json:"score"`
}

// Stats summarizes a search run
type Stats struct {
	Evaluations int64         `json:"evaluations"`
	BestScore   float64       `json:"best_score"`
	Elapsed     time.Duration `json:"elapsed"`

	// Iterations counts neighborhood passes or annealing steps
	Iterations int `json:"iterations"`

	// Converged is set when the algorithm reached its natural terminal state
	Converged bool         `json:"converged"`
	History   []Evaluation `json:"history,omitempty"`
}
