package lang

import (
	"maps"
	"slices"
)

// Env is one scope of a lexical environment chain.
//
// A program run has one root Env; every function application creates a child
// of the function's closure that binds only its parameter.
type Env struct {
	vars   map[string]Value
	parent *Env
}

// NewEnv returns an empty environment whose lookups fall back to parent.
// A nil parent creates a root environment.
func NewEnv(parent *Env) *Env {
	return &Env{vars: make(map[string]Value, 1), parent: parent}
}

// Parent returns the enclosing environment, or nil for a root.
func (e *Env) Parent() *Env { return e.parent }

// Bind sets name in this environment only, replacing any existing binding in
// the same record.
func (e *Env) Bind(name string, v Value) {
	e.vars[name] = v
}

// Lookup resolves name by walking the chain outward from e.
func (e *Env) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// Names returns every name visible from e, sorted and without duplicates.
func (e *Env) Names() []string {
	seen := make(map[string]struct{})

	for env := e; env != nil; env = env.parent {
		for name := range env.vars {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}
