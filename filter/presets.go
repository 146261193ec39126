package filter

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Presets holds named filters compiled from configuration
type Presets struct {
	compiler Compiler
	filters  map[string]CompiledFilter
	mu       sync.RWMutex
}

// NewPresets creates an empty preset registry
func NewPresets(compiler Compiler) *Presets {
	if compiler == nil {
		compiler = NewExprCompiler(WithCache(100))
	}
	return &Presets{
		compiler: compiler,
		filters:  make(map[string]CompiledFilter),
	}
}

// Register compiles expression and stores it under name
func (p *Presets) Register(name, expression string) error {
	filter, err := p.compiler.Compile(expression)
	if err != nil {
		return fmt.Errorf("failed to compile preset '%s': %w", name, err)
	}

	p.mu.Lock()
	p.filters[name] = filter
	p.mu.Unlock()
	return nil
}

// RegisterAll registers every preset, stopping at the first failure
func (p *Presets) RegisterAll(presets map[string]string) error {
	for _, name := range sortedKeys(presets) {
		if err := p.Register(name, presets[name]); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the preset filter by name
func (p *Presets) Get(name string) (CompiledFilter, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	filter, ok := p.filters[name]
	if !ok {
		names := sortedKeys(p.filters)
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: %s (no presets configured)", ErrUnknownPreset, name)
		}
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownPreset, name, strings.Join(names, ", "))
	}
	return filter, nil
}

// Resolve picks the filter to apply: an explicit expression wins over a
// preset name. Both empty means no filter.
func (p *Presets) Resolve(expression, preset string) (CompiledFilter, error) {
	switch {
	case expression != "":
		return p.compiler.Compile(expression)
	case preset != "":
		return p.Get(preset)
	default:
		return nil, nil
	}
}

// Apply returns the items matched by filter, keeping their order. A nil
// filter matches everything.
func Apply(filter Filter, items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if filter == nil || filter.Match(item) {
			out = append(out, item)
		}
	}
	return out
}

// sortedKeys returns the keys of m in ascending order
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
