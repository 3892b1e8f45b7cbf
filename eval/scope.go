// Package eval reduces an ast.Expr/ast.Body to a value.Value/value.Object
// under a Scope, implementing spec.md §4.3–§4.6.
package eval

import (
	"github.com/risqcapital/hcl2go/funcs"
	"github.com/risqcapital/hcl2go/value"
)

// Scope is an immutable, parent-chained variable/function environment.
// Child scopes (built by Child/WithVar) add bindings without mutating
// their parent, matching spec.md §3's "immutable, parent-chained"
// requirement; for-comprehensions and nested block bodies each get
// their own child.
type Scope struct {
	parent *Scope
	vars   map[string]value.Value
	funcs  funcs.Table
}

// NewScope builds a root scope from an initial variable and function
// set. Both maps are copied; the caller's maps may be reused or
// mutated afterwards without affecting the Scope.
func NewScope(variables map[string]value.Value, functions funcs.Table) *Scope {
	vars := make(map[string]value.Value, len(variables))
	for k, v := range variables {
		vars[k] = v
	}
	fns := make(funcs.Table, len(functions))
	for k, v := range functions {
		fns[k] = v
	}
	return &Scope{vars: vars, funcs: fns}
}

// Child returns a new, empty scope chained onto s.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, vars: make(map[string]value.Value)}
}

// WithVar returns a child scope with name bound to v, shadowing any
// outer binding of the same name.
func (s *Scope) WithVar(name string, v value.Value) *Scope {
	child := s.Child()
	child.vars[name] = v
	return child
}

// Lookup resolves name against s and its ancestors, innermost first.
func (s *Scope) Lookup(name string) (value.Value, bool) {
	v, _, ok := s.lookupAt(name)
	return v, ok
}

// lookupAt resolves name, also reporting the exact *Scope the binding
// was found at — used by Evaluator to tell whether a read reached all
// the way to the traced root scope.
func (s *Scope) lookupAt(name string) (value.Value, *Scope, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars[name]; ok {
			return v, sc, true
		}
	}
	return nil, nil, false
}

// LookupFunc resolves a function name against s and its ancestors.
func (s *Scope) LookupFunc(name string) (funcs.Func, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.funcs == nil {
			continue
		}
		if f, ok := sc.funcs[name]; ok {
			return f, true
		}
	}
	return funcs.Func{}, false
}

// VarNames returns every variable name visible from s, innermost
// bindings shadowing outer ones of the same name, used to build
// NameError "did you mean" suggestions.
func (s *Scope) VarNames() []string {
	seen := make(map[string]bool)
	var out []string
	for sc := s; sc != nil; sc = sc.parent {
		for name := range sc.vars {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

// FuncNames returns every function name visible from s.
func (s *Scope) FuncNames() []string {
	seen := make(map[string]bool)
	var out []string
	for sc := s; sc != nil; sc = sc.parent {
		for name := range sc.funcs {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}
