package eval

import (
	"github.com/risqcapital/hcl2go/ast"
	"github.com/risqcapital/hcl2go/diag"
	"github.com/risqcapital/hcl2go/value"
)

// forElements normalizes a for-comprehension's collection operand into
// a uniform (key, value) sequence: arrays yield their integer index as
// key, objects yield their string key, matching spec.md §4.4.
func forElements(coll value.Value, rng ast.Range) ([]value.Value, []value.Value, error) {
	switch c := coll.(type) {
	case value.Array:
		keys := make([]value.Value, len(c))
		vals := make([]value.Value, len(c))
		for i, v := range c {
			keys[i] = value.NewInt(int64(i))
			vals[i] = v
		}
		return keys, vals, nil
	case *value.Object:
		keys := make([]value.Value, 0, c.Len())
		vals := make([]value.Value, 0, c.Len())
		c.Range(func(k string, v value.Value) bool {
			keys = append(keys, value.String(k))
			vals = append(vals, v)
			return true
		})
		return keys, vals, nil
	default:
		return nil, nil, diag.NewTypeError(rng, "for-comprehension collection must be an array or object, got "+value.TypeName(coll))
	}
}

func (e *Evaluator) bindForVars(scope *Scope, keyVar *ast.Identifier, valueVar ast.Identifier, key, val value.Value) *Scope {
	child := scope.WithVar(valueVar.Name, val)
	if keyVar != nil {
		child = child.WithVar(keyVar.Name, key)
	}
	return child
}

func (e *Evaluator) evalForTuple(n *ast.ForTupleExpr, scope *Scope) (value.Value, error) {
	coll, err := e.Eval(n.Collection, scope)
	if err != nil {
		return nil, err
	}
	keys, vals, err := forElements(coll, n.Collection.Range())
	if err != nil {
		return nil, err
	}

	out := make(value.Array, 0, len(vals))
	for i := range vals {
		iterScope := e.bindForVars(scope, n.KeyVar, n.ValueVar, keys[i], vals[i])
		if n.Cond != nil {
			cond, err := e.Eval(n.Cond, iterScope)
			if err != nil {
				return nil, err
			}
			cb, ok := cond.(value.Bool)
			if !ok {
				return nil, diag.NewTypeError(n.Cond.Range(), "for-comprehension \"if\" must be bool, got "+value.TypeName(cond))
			}
			if !bool(cb) {
				continue
			}
		}
		v, err := e.Eval(n.Value, iterScope)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (e *Evaluator) evalForObject(n *ast.ForObjectExpr, scope *Scope) (value.Value, error) {
	coll, err := e.Eval(n.Collection, scope)
	if err != nil {
		return nil, err
	}
	keys, vals, err := forElements(coll, n.Collection.Range())
	if err != nil {
		return nil, err
	}

	out := value.NewObject()
	// groups accumulates values per key when Group is set, preserving
	// the order each key was first seen.
	var groupOrder []string
	groups := make(map[string]value.Array)

	for i := range vals {
		iterScope := e.bindForVars(scope, n.KeyVar, n.ValueVar, keys[i], vals[i])
		if n.Cond != nil {
			cond, err := e.Eval(n.Cond, iterScope)
			if err != nil {
				return nil, err
			}
			cb, ok := cond.(value.Bool)
			if !ok {
				return nil, diag.NewTypeError(n.Cond.Range(), "for-comprehension \"if\" must be bool, got "+value.TypeName(cond))
			}
			if !bool(cb) {
				continue
			}
		}
		kv, err := e.Eval(n.Key, iterScope)
		if err != nil {
			return nil, err
		}
		ks, ok := kv.(value.String)
		if !ok {
			return nil, diag.NewTypeError(n.Key.Range(), "for-object key must be a string, got "+value.TypeName(kv))
		}
		v, err := e.Eval(n.Value, iterScope)
		if err != nil {
			return nil, err
		}

		key := string(ks)
		if n.Group {
			if _, ok := groups[key]; !ok {
				groupOrder = append(groupOrder, key)
			}
			groups[key] = append(groups[key], v)
			continue
		}
		if out.Has(key) {
			return nil, diag.NewDuplicateKeyError(n.Key.Range(), key)
		}
		out.Set(key, v)
	}

	if n.Group {
		for _, key := range groupOrder {
			out.Set(key, groups[key])
		}
	}
	return out, nil
}
