package eval

import (
	"strings"

	"github.com/risqcapital/hcl2go/ast"
	"github.com/risqcapital/hcl2go/depgraph"
	"github.com/risqcapital/hcl2go/diag"
	"github.com/risqcapital/hcl2go/value"
)

// EvaluateBody reduces body to a value.Object under scope.
func EvaluateBody(body ast.Body, scope *Scope) (*value.Object, error) {
	return New().EvalBody(body, scope)
}

// EvalBody implements spec.md §4.5's merge rules: an Attribute
// contributes a single top-level key; a Block contributes a nested
// path ([]type, label...]) whose leaf accumulates into an array when
// more than one block shares the exact same path. A duplicate
// attribute key, or a key collision between an attribute and a block,
// is a *diag.DuplicateKeyError.
//
// Statements are evaluated in dependency order (depgraph.Generations)
// rather than source order, so that one attribute may freely reference
// another defined later in the same body — sibling attributes within
// one body are mutually visible, matching spec.md §4.5.
func (e *Evaluator) EvalBody(body ast.Body, scope *Scope) (*value.Object, error) {
	gens, err := depgraph.Generations(body)
	if err != nil {
		return nil, err
	}

	merger := newBodyMerger()
	cur := scope
	for _, gen := range gens {
		for _, stmt := range gen {
			switch s := stmt.(type) {
			case *ast.Attribute:
				v, err := e.Eval(s.Value, cur)
				if err != nil {
					return nil, err
				}
				if err := merger.addAttribute(s.Key.Name, v, s.Range()); err != nil {
					return nil, err
				}
				cur = cur.WithVar(s.Key.Name, v)
			case *ast.Block:
				nested, err := e.EvalBody(s.Body, cur)
				if err != nil {
					return nil, err
				}
				if err := merger.addBlock(s.KeyPath(), nested, s.Range()); err != nil {
					return nil, err
				}
			default:
				return nil, diag.NewTypeError(stmt.Range(), "unsupported statement type")
			}
		}
	}
	return merger.root, nil
}

// bodyMerger accumulates a body's statements into a value.Object,
// tracking which leaves were populated by a block (as opposed to an
// attribute) so that repeated blocks at the same path accumulate into
// an array while anything else colliding there is an error.
type bodyMerger struct {
	root      *value.Object
	blockLeaf map[string]bool
}

func newBodyMerger() *bodyMerger {
	return &bodyMerger{root: value.NewObject(), blockLeaf: make(map[string]bool)}
}

func (m *bodyMerger) addAttribute(key string, v value.Value, rng ast.Range) error {
	if m.root.Has(key) {
		return diag.NewDuplicateKeyError(rng, key)
	}
	m.root.Set(key, v)
	return nil
}

func (m *bodyMerger) addBlock(path []string, v value.Value, rng ast.Range) error {
	return m.setBlockPath(m.root, path, path, v, rng)
}

func (m *bodyMerger) setBlockPath(cur *value.Object, remaining, fullPath []string, v value.Value, rng ast.Range) error {
	key := remaining[0]
	fullKey := strings.Join(fullPath, "\x00")

	if len(remaining) == 1 {
		existing, has := cur.Get(key)
		if !has {
			cur.Set(key, v)
			m.blockLeaf[fullKey] = true
			return nil
		}
		if !m.blockLeaf[fullKey] {
			return diag.NewDuplicateKeyError(rng, key)
		}
		if arr, ok := existing.(value.Array); ok {
			cur.Set(key, append(arr, v))
		} else {
			cur.Set(key, value.Array{existing, v})
		}
		return nil
	}

	existing, has := cur.Get(key)
	var nested *value.Object
	if !has {
		nested = value.NewObject()
		cur.Set(key, nested)
	} else {
		n, ok := existing.(*value.Object)
		if !ok {
			return diag.NewDuplicateKeyError(rng, key)
		}
		nested = n
	}
	return m.setBlockPath(nested, remaining[1:], fullPath, v, rng)
}
