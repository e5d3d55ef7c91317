package optimization

import (
	"errors"
	"sort"
	"sync"
)

// ProblemFactory creates a problem in its default configuration.
type ProblemFactory func() Problem

// AlgorithmFactory creates an algorithm in its default configuration.
type AlgorithmFactory func() Algorithm

// WarnLogger receives recovered parameter errors. It matches the Warn method
// of the logging package's Logger.
type WarnLogger interface {
	Warn(msg string, fields ...map[string]interface{})
}

// Registry resolves problem and algorithm names to constructors.
// It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	problems   map[string]ProblemFactory
	algorithms map[string]AlgorithmFactory
	logger     WarnLogger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used to report parameter fallbacks.
func WithLogger(l WarnLogger) RegistryOption {
	return func(r *Registry) {
		r.logger = l
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		problems:   make(map[string]ProblemFactory),
		algorithms: make(map[string]AlgorithmFactory),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterProblem adds or replaces a problem constructor.
func (r *Registry) RegisterProblem(name string, f ProblemFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.problems[name] = f
}

// RegisterAlgorithm adds or replaces an algorithm constructor.
func (r *Registry) RegisterAlgorithm(name string, f AlgorithmFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.algorithms[name] = f
}

// NewProblem builds the named problem and applies params to it.
// An unregistered name yields an error matching ErrUnknownVariant and no
// problem is constructed. Parameter errors are logged and the problem is
// returned in its fallback configuration.
func (r *Registry) NewProblem(name string, params []string) (Problem, error) {
	r.mu.RLock()
	f, ok := r.problems[name]
	r.mu.RUnlock()
	if !ok {
		return nil, NewError(ErrUnknownVariant, "problem %q is not registered", name).
			WithComponent("registry").
			WithOperation("new problem")
	}

	p := f()
	if err := p.SetParams(params); err != nil {
		if !errors.Is(err, ErrInvalidParameter) {
			return nil, WrapError(err, "configuring problem "+name)
		}
		r.warn("Falling back to default problem configuration", name, params, err)
	}
	return p, nil
}

// NewAlgorithm builds the named algorithm and applies params to it.
// Errors follow the same policy as NewProblem.
func (r *Registry) NewAlgorithm(name string, params []string) (Algorithm, error) {
	r.mu.RLock()
	f, ok := r.algorithms[name]
	r.mu.RUnlock()
	if !ok {
		return nil, NewError(ErrUnknownVariant, "algorithm %q is not registered", name).
			WithComponent("registry").
			WithOperation("new algorithm")
	}

	a := f()
	if err := a.SetParams(params); err != nil {
		if !errors.Is(err, ErrInvalidParameter) {
			return nil, WrapError(err, "configuring algorithm "+name)
		}
		r.warn("Falling back to default algorithm configuration", name, params, err)
	}
	return a, nil
}

// Problems returns the registered problem names in sorted order.
func (r *Registry) Problems() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.problems))
	for name := range r.problems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Algorithms returns the registered algorithm names in sorted order.
func (r *Registry) Algorithms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.algorithms))
	for name := range r.algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) warn(msg, name string, params []string, err error) {
	if r.logger == nil {
		return
	}
	r.logger.Warn(msg, map[string]interface{}{
		"variant": name,
		"params":  params,
		"error":   err.Error(),
	})
}
