// Package tsp implements a toy traveling-salesman problem: an agent starts at
// a fixed origin, visits every city once and returns to the origin. The plane
// variant measures Euclidean distance, the maze variant Manhattan distance.
package tsp

import (
	"math/rand"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/copyleftdev/localsearch/internal/optimization"
)

// Default instance parameters.
const (
	DefaultMaxXY     = 20
	DefaultNumCities = 10
	DefaultSeed      = 0
)

// MaxCities bounds the instance size accepted by SetParams. The distance
// matrix holds (n+1)^2 floats.
const MaxCities = 2000

// Metric selects the distance between two stops.
type Metric int

const (
	// Euclidean is the straight-line distance in the plane.
	Euclidean Metric = iota
	// Manhattan is the rectilinear distance used in a maze.
	Manhattan
)

// norm returns the L-norm exponent for floats.Distance.
func (m Metric) norm() float64 {
	if m == Manhattan {
		return 1
	}
	return 2
}

func (m Metric) String() string {
	if m == Manhattan {
		return "maze-tsp"
	}
	return "tsp"
}

// Point is a cell of the grid.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Problem is a closed-tour TSP instance. The layout is immutable once set;
// scoring only reads the precomputed distance matrix.
type Problem struct {
	metric Metric

	maxXY  int
	agent  Point
	exit   Point
	cities []Point

	// dist holds pairwise distances between the cities (indices 0..n-1)
	// and the agent (index n).
	dist *mat.SymDense

	rng *rand.Rand
}

// New creates a problem with the default instance for the given metric.
func New(metric Metric) *Problem {
	p := &Problem{metric: metric}
	p.generate(DefaultMaxXY, DefaultNumCities, DefaultSeed)
	return p
}

// NewPlane creates a Euclidean problem with an explicit layout.
func NewPlane(agent Point, cities []Point) *Problem {
	return newWithLayout(Euclidean, agent, cities)
}

// NewMaze creates a Manhattan problem with an explicit layout.
func NewMaze(agent Point, cities []Point) *Problem {
	return newWithLayout(Manhattan, agent, cities)
}

func newWithLayout(metric Metric, agent Point, cities []Point) *Problem {
	maxXY := 1
	for _, c := range append([]Point{agent}, cities...) {
		if c.X+1 > maxXY {
			maxXY = c.X + 1
		}
		if c.Y+1 > maxXY {
			maxXY = c.Y + 1
		}
	}
	p := &Problem{
		metric: metric,
		maxXY:  maxXY,
		agent:  agent,
		exit:   Point{X: maxXY - 1, Y: maxXY - 1},
		cities: append([]Point(nil), cities...),
		rng:    rand.New(rand.NewSource(DefaultSeed)),
	}
	p.computeDistances()
	return p
}

// generate places the agent and the cities at random cells. Cities never
// share the agent's cell but may share a cell with each other.
func (p *Problem) generate(maxXY, numCities int, seed int64) {
	p.maxXY = maxXY
	p.rng = rand.New(rand.NewSource(seed))

	p.agent = Point{X: p.rng.Intn(maxXY), Y: p.rng.Intn(maxXY)}
	p.cities = make([]Point, 0, numCities)
	for len(p.cities) < numCities {
		c := Point{X: p.rng.Intn(maxXY), Y: p.rng.Intn(maxXY)}
		if c != p.agent {
			p.cities = append(p.cities, c)
		}
	}
	p.exit = Point{X: maxXY - 1, Y: maxXY - 1}
	p.computeDistances()
}

func (p *Problem) computeDistances() {
	n := len(p.cities)
	stops := make([][]float64, n+1)
	for i, c := range p.cities {
		stops[i] = []float64{float64(c.X), float64(c.Y)}
	}
	stops[n] = []float64{float64(p.agent.X), float64(p.agent.Y)}

	p.dist = mat.NewSymDense(n+1, nil)
	for i := 0; i <= n; i++ {
		for j := i + 1; j <= n; j++ {
			p.dist.SetSym(i, j, floats.Distance(stops[i], stops[j], p.metric.norm()))
		}
	}
}

// SetParams accepts [maxXY numCities] or [maxXY numCities seed]. An empty
// list keeps the current instance. Anything else that cannot be parsed
// restores the default instance.
func (p *Problem) SetParams(params []string) error {
	if len(params) == 0 {
		return nil
	}

	fallback := func(format string, args ...interface{}) error {
		p.generate(DefaultMaxXY, DefaultNumCities, DefaultSeed)
		return optimization.InvalidParameter(p.metric.String(), format, args...)
	}

	if len(params) < 2 {
		return fallback("at least the grid size and number of cities must be provided, got %v", params)
	}

	maxXY, err := strconv.Atoi(params[0])
	if err != nil || maxXY < 2 {
		return fallback("grid size must be an integer >= 2, got %q", params[0])
	}
	numCities, err := strconv.Atoi(params[1])
	if err != nil || numCities < 1 || numCities > MaxCities {
		return fallback("number of cities must be an integer in [1, %d], got %q", MaxCities, params[1])
	}
	seed := int64(DefaultSeed)
	if len(params) > 2 {
		seed, err = strconv.ParseInt(params[2], 10, 64)
		if err != nil {
			return fallback("seed must be an integer, got %q", params[2])
		}
	}

	p.generate(maxXY, numCities, seed)
	return nil
}

// Size returns the number of cities.
func (p *Problem) Size() int {
	return len(p.cities)
}

// Metric returns the distance metric of the problem.
func (p *Problem) Metric() Metric {
	return p.metric
}

// MaxXY returns the grid extent.
func (p *Problem) MaxXY() int {
	return p.maxXY
}

// Agent returns the origin of the tour.
func (p *Problem) Agent() Point {
	return p.agent
}

// Exit returns the exit cell of the grid.
func (p *Problem) Exit() Point {
	return p.exit
}

// Cities returns a copy of the city positions.
func (p *Problem) Cities() []Point {
	return append([]Point(nil), p.cities...)
}

// Score returns the length of the closed tour that leaves the agent, visits
// the cities in candidate order and returns to the agent. The candidate must
// be a permutation of [0, Size()).
func (p *Problem) Score(c *optimization.Candidate) (float64, error) {
	if err := p.validate(c); err != nil {
		return 0, err
	}

	origin := len(p.cities)
	total := 0.0
	prev := origin
	for i := 0; i < c.Len(); i++ {
		next := c.At(i)
		total += p.dist.At(prev, next)
		prev = next
	}
	total += p.dist.At(prev, origin)
	return total, nil
}

func (p *Problem) validate(c *optimization.Candidate) error {
	n := len(p.cities)
	if c == nil {
		return optimization.InvalidCandidate(p.metric.String(), "nil candidate")
	}
	if c.Len() != n {
		return optimization.InvalidCandidate(p.metric.String(), "candidate has %d values, want %d", c.Len(), n)
	}

	seen := make([]bool, n)
	for i := 0; i < n; i++ {
		v := c.At(i)
		if v < 0 || v >= n {
			return optimization.InvalidCandidate(p.metric.String(), "value %d at position %d is outside [0, %d)", v, i, n)
		}
		if seen[v] {
			return optimization.InvalidCandidate(p.metric.String(), "city %d is visited twice", v)
		}
		seen[v] = true
	}
	return nil
}

// RandomCandidate returns a uniformly random tour (Fisher-Yates shuffle).
func (p *Problem) RandomCandidate() *optimization.Candidate {
	n := len(p.cities)
	values := make([]int, n)
	for i := range values {
		values[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := p.rng.Intn(i + 1)
		values[i], values[j] = values[j], values[i]
	}
	return optimization.NewCandidate(values)
}
