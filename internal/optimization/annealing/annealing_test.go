package annealing

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/localsearch/internal/optimization"
)

// displacement scores a permutation by how far each value sits from its
// own index.
type displacement struct {
	size int
	rng  *rand.Rand
}

func (p *displacement) Score(c *optimization.Candidate) (float64, error) {
	if c.Len() != p.size {
		return 0, optimization.InvalidCandidate("displacement", "candidate has %d values, want %d", c.Len(), p.size)
	}
	total := 0.0
	for i := 0; i < c.Len(); i++ {
		total += math.Abs(float64(c.At(i) - i))
	}
	return total, nil
}

func (p *displacement) RandomCandidate() *optimization.Candidate {
	return optimization.NewCandidate(p.rng.Perm(p.size))
}

func (p *displacement) SetParams([]string) error { return nil }

func (p *displacement) Size() int { return p.size }

func newDisplacement(size int) *displacement {
	return &displacement{size: size, rng: rand.New(rand.NewSource(21))}
}

func TestExponentialSchedule(t *testing.T) {
	s := ExponentialSchedule{Start: 10, End: 0.1}
	assert.InDelta(t, 10, s.Temperature(0, 101), 1e-9)
	assert.InDelta(t, 1, s.Temperature(50, 101), 1e-9)
	assert.InDelta(t, 0.1, s.Temperature(100, 101), 1e-9)
	assert.Equal(t, 0.1, s.Temperature(0, 1))
	assert.Equal(t, 1e-9, ExponentialSchedule{Start: 0, End: 1}.Temperature(3, 10))
}

func TestSetParams(t *testing.T) {
	tests := []struct {
		name      string
		params    []string
		wantErr   bool
		wantIters int
		wantStart float64
		wantEnd   float64
		wantSeed  int64
	}{
		{"defaults", nil, false, DefaultIterations, DefaultStartTemp, DefaultEndTemp, DefaultSeed},
		{"all", []string{"500", "4", "0.5", "9"}, false, 500, 4, 0.5, 9},
		{"bad iterations", []string{"0"}, true, DefaultIterations, DefaultStartTemp, DefaultEndTemp, DefaultSeed},
		{"bad start", []string{"100", "-1"}, true, 100, DefaultStartTemp, DefaultEndTemp, DefaultSeed},
		{"bad end", []string{"100", "2", "cold"}, true, 100, 2, DefaultEndTemp, DefaultSeed},
		{"bad seed", []string{"100", "2", "1", "s"}, true, 100, 2, 1, DefaultSeed},
		{"too many", []string{"100", "2", "1", "3", "4"}, true, 100, 2, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New()
			err := a.SetParams(tt.params)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, optimization.ErrInvalidParameter))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantIters, a.iterations)
			assert.Equal(t, tt.wantStart, a.schedule.Start)
			assert.Equal(t, tt.wantEnd, a.schedule.End)
			assert.Equal(t, tt.wantSeed, a.seed)
		})
	}
}

func TestSearchWithoutProblem(t *testing.T) {
	err := New().Search(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, optimization.ErrNoProblem))
}

func TestSearch(t *testing.T) {
	a := New()
	require.NoError(t, a.SetParams([]string{"3000", "5", "0.01"}))
	a.SetProblem(newDisplacement(8))

	require.NoError(t, a.Search(context.Background()))

	stats := a.Stats()
	assert.Equal(t, int64(3001), stats.Evaluations)
	assert.Equal(t, 3000, stats.Iterations)
	assert.True(t, stats.Converged)
	require.NotEmpty(t, stats.History)
	assert.LessOrEqual(t, stats.BestScore, stats.History[0].Score)

	for i := 1; i < len(stats.History); i++ {
		assert.Less(t, stats.History[i].Score, stats.History[i-1].Score)
	}

	best := a.BestSolution()
	require.NotNil(t, best)
	score, err := newDisplacement(8).Score(best)
	require.NoError(t, err)
	assert.Equal(t, stats.BestScore, score)
}

func TestSearchTrivialProblem(t *testing.T) {
	a := New()
	a.SetProblem(newDisplacement(1))

	require.NoError(t, a.Search(context.Background()))
	assert.Equal(t, int64(1), a.Stats().Evaluations)
	assert.True(t, a.Stats().Converged)
}

func TestSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New()
	a.SetProblem(newDisplacement(6))

	err := a.Search(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int64(1), a.Stats().Evaluations)
	assert.False(t, a.Stats().Converged)
}

func TestAccept(t *testing.T) {
	a := New()
	assert.True(t, a.accept(5, 4, 0))
	assert.False(t, a.accept(5, 5, 0))
	assert.False(t, a.accept(5, 6, 0))
	assert.True(t, a.accept(5, 5, 1), "equal moves are always accepted while hot")
}
