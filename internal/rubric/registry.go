package rubric

import (
	"fmt"
	"sort"
)

// Registry indexes policies by name and by category code.
// A category belongs to exactly one policy.
type Registry struct {
	policies   []Policy
	byName     map[string]Policy
	byCategory map[string]Policy
}

// NewRegistry validates and indexes the given policies
func NewRegistry(policies ...Policy) (*Registry, error) {
	r := &Registry{
		byName:     make(map[string]Policy, len(policies)),
		byCategory: make(map[string]Policy),
	}

	for _, p := range policies {
		if p == nil {
			return nil, fmt.Errorf("%w: nil policy", ErrInvalidPolicy)
		}
		if p.Name() == "" {
			return nil, fmt.Errorf("%w: empty name", ErrInvalidPolicy)
		}
		if _, dup := r.byName[p.Name()]; dup {
			return nil, fmt.Errorf("%w: duplicate policy %s", ErrInvalidPolicy, p.Name())
		}
		if err := p.Weights().Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPolicy, p.Name(), err)
		}
		if len(p.Categories()) == 0 {
			return nil, fmt.Errorf("%w: %s has no categories", ErrInvalidPolicy, p.Name())
		}
		for _, c := range p.Categories() {
			if owner, dup := r.byCategory[c.Code]; dup {
				return nil, fmt.Errorf("%w: category %s claimed by %s and %s", ErrInvalidPolicy, c.Code, owner.Name(), p.Name())
			}
			r.byCategory[c.Code] = p
		}

		r.byName[p.Name()] = p
		r.policies = append(r.policies, p)
	}

	return r, nil
}

// DefaultRegistry indexes the built-in policies
func DefaultRegistry() *Registry {
	r, err := NewRegistry(Builtin()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve returns the policy owning category
func (r *Registry) Resolve(category string) (Policy, error) {
	p, ok := r.byCategory[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return p, nil
}

// Policy returns the policy registered under name
func (r *Registry) Policy(name string) (Policy, error) {
	p, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownPolicy, name, r.Names())
	}
	return p, nil
}

// Policies returns the policies in registration order
func (r *Registry) Policies() []Policy {
	return append([]Policy(nil), r.policies...)
}

// Names returns the sorted policy names
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
