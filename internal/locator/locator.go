package locator

import (
	"context"
	"fmt"
)

// Strategy discovers candidate article URLs for one run. Implementations
// must return the same normalized URL form regardless of how discovery
// happened, so ledger entries stay comparable across strategies.
type Strategy interface {
	Name() string
	Locate(ctx context.Context) ([]string, error)
}

// Registry keeps a mapping from strategy names to their implementations.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// Register adds or replaces a locator strategy.
func (r *Registry) Register(strategy Strategy) {
	if r.strategies == nil {
		r.strategies = map[string]Strategy{}
	}
	r.strategies[strategy.Name()] = strategy
}

// Resolve returns a strategy by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Strategy, error) {
	if strategy, ok := r.strategies[name]; ok {
		return strategy, nil
	}
	return nil, fmt.Errorf("locator %s is not registered", name)
}
