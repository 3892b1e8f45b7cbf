// Package funcs defines the calling convention for HCL2 intrinsic
// functions and a small illustrative standard library, grounded on
// hashicorp-terraform's internal/lang/funcs function.Spec/function.New
// shape but translated from cty.Value to this module's value.Value.
package funcs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/risqcapital/hcl2go/value"
)

// Param documents one positional parameter for diagnostics purposes
// only — there is no type system to check against, matching spec §6's
// "no type checking beyond arity."
type Param struct {
	Name string
}

// Func is a callable intrinsic: a fixed list of required parameters,
// an optional trailing variadic parameter, and the Go implementation.
type Func struct {
	Params   []Param
	VarParam bool
	Impl     func(args []value.Value) (value.Value, error)
}

// MinArity and MaxArity describe the accepted argument count range;
// MaxArity is -1 when VarParam is set (unbounded).
func (f Func) MinArity() int { return len(f.Params) }

func (f Func) MaxArity() int {
	if f.VarParam {
		return -1
	}
	return len(f.Params)
}

// Table is a named collection of functions, used as Scope's function
// namespace.
type Table map[string]Func

// Names returns the table's keys sorted, for "unknown function" near-
// miss suggestions.
func (t Table) Names() []string {
	out := make([]string, 0, len(t))
	for name := range t {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Standard returns the small illustrative intrinsic table this module
// ships with: length, upper, lower, join, keys, values, concat.
func Standard() Table {
	return Table{
		"length": {
			Params: []Param{{Name: "value"}},
			Impl:   fnLength,
		},
		"upper": {
			Params: []Param{{Name: "str"}},
			Impl:   fnUpper,
		},
		"lower": {
			Params: []Param{{Name: "str"}},
			Impl:   fnLower,
		},
		"join": {
			Params:   []Param{{Name: "sep"}},
			VarParam: true,
			Impl:     fnJoin,
		},
		"keys": {
			Params: []Param{{Name: "obj"}},
			Impl:   fnKeys,
		},
		"values": {
			Params: []Param{{Name: "obj"}},
			Impl:   fnValues,
		},
		"concat": {
			VarParam: true,
			Impl:     fnConcat,
		},
	}
}

func fnLength(args []value.Value) (value.Value, error) {
	switch v := args[0].(type) {
	case value.String:
		return value.NewInt(int64(len([]rune(string(v))))), nil
	case value.Array:
		return value.NewInt(int64(len(v))), nil
	case *value.Object:
		return value.NewInt(int64(v.Len())), nil
	default:
		return nil, fmt.Errorf("length: argument must be a string, array, or object, got %s", value.TypeName(v))
	}
}

func fnUpper(args []value.Value) (value.Value, error) {
	s, ok := args[0].(value.String)
	if !ok {
		return nil, fmt.Errorf("upper: argument must be a string, got %s", value.TypeName(args[0]))
	}
	return value.String(strings.ToUpper(string(s))), nil
}

func fnLower(args []value.Value) (value.Value, error) {
	s, ok := args[0].(value.String)
	if !ok {
		return nil, fmt.Errorf("lower: argument must be a string, got %s", value.TypeName(args[0]))
	}
	return value.String(strings.ToLower(string(s))), nil
}

func fnJoin(args []value.Value) (value.Value, error) {
	sep, ok := args[0].(value.String)
	if !ok {
		return nil, fmt.Errorf("join: separator must be a string, got %s", value.TypeName(args[0]))
	}
	parts := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		switch v := a.(type) {
		case value.Array:
			for _, item := range v {
				s, ok := item.(value.String)
				if !ok {
					return nil, fmt.Errorf("join: all elements must be strings, got %s", value.TypeName(item))
				}
				parts = append(parts, string(s))
			}
		case value.String:
			parts = append(parts, string(v))
		default:
			return nil, fmt.Errorf("join: arguments must be strings or arrays of strings, got %s", value.TypeName(v))
		}
	}
	return value.String(strings.Join(parts, string(sep))), nil
}

func fnKeys(args []value.Value) (value.Value, error) {
	obj, ok := args[0].(*value.Object)
	if !ok {
		return nil, fmt.Errorf("keys: argument must be an object, got %s", value.TypeName(args[0]))
	}
	out := make(value.Array, 0, obj.Len())
	for _, k := range obj.Keys() {
		out = append(out, value.String(k))
	}
	return out, nil
}

func fnValues(args []value.Value) (value.Value, error) {
	obj, ok := args[0].(*value.Object)
	if !ok {
		return nil, fmt.Errorf("values: argument must be an object, got %s", value.TypeName(args[0]))
	}
	out := make(value.Array, 0, obj.Len())
	obj.Range(func(_ string, v value.Value) bool {
		out = append(out, v)
		return true
	})
	return out, nil
}

func fnConcat(args []value.Value) (value.Value, error) {
	var out value.Array
	for _, a := range args {
		arr, ok := a.(value.Array)
		if !ok {
			return nil, fmt.Errorf("concat: all arguments must be arrays, got %s", value.TypeName(a))
		}
		out = append(out, arr...)
	}
	return out, nil
}
