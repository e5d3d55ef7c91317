package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/localsearch/internal/optimization"
	"github.com/copyleftdev/localsearch/internal/problems/tsp"
)

func TestDefaultNames(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{MazeTSP, PlaneTSP, MazeTSPAlias, PlaneTSPAlias}, r.Problems())
	assert.Equal(t, []string{HillClimbing, SimulatedAnnealing}, r.Algorithms())
}

func TestDefaultProblemMetrics(t *testing.T) {
	r := Default()

	tests := []struct {
		name string
		want tsp.Metric
	}{
		{PlaneTSP, tsp.Euclidean},
		{PlaneTSPAlias, tsp.Euclidean},
		{MazeTSP, tsp.Manhattan},
		{MazeTSPAlias, tsp.Manhattan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.NewProblem(tt.name, nil)
			require.NoError(t, err)
			problem, ok := p.(*tsp.Problem)
			require.True(t, ok)
			assert.Equal(t, tt.want, problem.Metric())
			assert.Equal(t, tsp.DefaultNumCities, problem.Size())
		})
	}
}

func TestDefaultFactoriesAreIndependent(t *testing.T) {
	r := Default()
	a, err := r.NewProblem(PlaneTSP, []string{"10", "3"})
	require.NoError(t, err)
	b, err := r.NewProblem(PlaneTSP, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, a.Size())
	assert.Equal(t, tsp.DefaultNumCities, b.Size())
}

func TestDefaultUnknownVariant(t *testing.T) {
	_, err := Default().NewProblem("tsp", nil)
	assert.True(t, errors.Is(err, optimization.ErrUnknownVariant), "names are case sensitive")
}

func TestEndToEnd(t *testing.T) {
	r := Default()
	for _, problem := range []string{PlaneTSP, MazeTSP} {
		for _, algorithm := range []string{HillClimbing, SimulatedAnnealing} {
			t.Run(problem+"/"+algorithm, func(t *testing.T) {
				p, err := r.NewProblem(problem, []string{"15", "7", "4"})
				require.NoError(t, err)
				a, err := r.NewAlgorithm(algorithm, nil)
				require.NoError(t, err)
				a.SetProblem(p)

				require.NoError(t, a.Search(context.Background()))

				best := a.BestSolution()
				require.NotNil(t, best)
				score, err := p.Score(best)
				require.NoError(t, err)
				assert.Equal(t, a.Stats().BestScore, score)
				assert.True(t, a.Stats().Converged)
			})
		}
	}
}
