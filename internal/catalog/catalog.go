// Package catalog wires every problem and algorithm variant into a registry.
package catalog

import (
	"github.com/copyleftdev/localsearch/internal/optimization"
	"github.com/copyleftdev/localsearch/internal/optimization/annealing"
	"github.com/copyleftdev/localsearch/internal/optimization/hillclimbing"
	"github.com/copyleftdev/localsearch/internal/problems/tsp"
)

// Variant names.
const (
	PlaneTSP           = "TSP"
	PlaneTSPAlias      = "toy-plane-TSP"
	MazeTSP            = "MazeTSP"
	MazeTSPAlias       = "maze-TSP"
	HillClimbing       = "HillClimbing"
	SimulatedAnnealing = "SimulatedAnnealing"
)

// Default returns a registry holding every known variant.
func Default(opts ...optimization.RegistryOption) *optimization.Registry {
	r := optimization.NewRegistry(opts...)

	plane := func() optimization.Problem { return tsp.New(tsp.Euclidean) }
	maze := func() optimization.Problem { return tsp.New(tsp.Manhattan) }
	r.RegisterProblem(PlaneTSP, plane)
	r.RegisterProblem(PlaneTSPAlias, plane)
	r.RegisterProblem(MazeTSP, maze)
	r.RegisterProblem(MazeTSPAlias, maze)

	r.RegisterAlgorithm(HillClimbing, func() optimization.Algorithm { return hillclimbing.New() })
	r.RegisterAlgorithm(SimulatedAnnealing, func() optimization.Algorithm { return annealing.New() })

	return r
}
