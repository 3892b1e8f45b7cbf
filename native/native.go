// Package native converts between package value's Value model and
// plain Go values (bool, *big.Int/float64, string, []any, map[string]any),
// the boundary spec.md §6 calls out for embedding HCL2 results into
// ordinary Go code. Grounded on pyhcl2/values.py's Value.infer/raw()
// pair; hand-rolled rather than built on mitchellh/mapstructure or
// zclconf/go-cty's gocty, since both target decoding into an arbitrary
// user-defined struct shape, a problem this package doesn't have — see
// DESIGN.md.
package native

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/risqcapital/hcl2go/value"
)

// ToNative converts v into the closest plain Go representation:
// value.Null -> nil, value.Bool -> bool, value.Integer -> *big.Int,
// value.Float -> float64, value.String -> string, value.Array -> []any,
// *value.Object -> map[string]any (insertion order is lost — Go maps
// are unordered; callers that need order should walk the Value
// directly via (*value.Object).Range instead of going through this
// boundary).
func ToNative(v value.Value) any {
	switch n := v.(type) {
	case value.Null:
		return nil
	case value.Bool:
		return bool(n)
	case value.Integer:
		return n.Big()
	case value.Float:
		return float64(n)
	case value.String:
		return string(n)
	case value.Array:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = ToNative(e)
		}
		return out
	case *value.Object:
		out := make(map[string]any, n.Len())
		n.Range(func(key string, ev value.Value) bool {
			out[key] = ToNative(ev)
			return true
		})
		return out
	default:
		panic(fmt.Sprintf("native: unhandled value kind %T", v))
	}
}

// FromNative converts a plain Go value into the corresponding Value,
// the inverse of ToNative. Accepts the same shapes ToNative produces
// (nil, bool, *big.Int, float64, string, []any, map[string]any) plus
// int, int64 and float32, via a reflection-free type switch; this covers
// what encoding/json.Unmarshal into an *any produces (json numbers
// decode as float64). Any other type, including typed slices and maps
// such as []string or map[string]int and other integer widths, returns
// an error.
func FromNative(x any) (value.Value, error) {
	switch n := x.(type) {
	case nil:
		return value.Null{}, nil
	case bool:
		return value.Bool(n), nil
	case *big.Int:
		return value.NewBigInt(n), nil
	case int:
		return value.NewInt(int64(n)), nil
	case int64:
		return value.NewInt(n), nil
	case float64:
		return value.Float(n), nil
	case float32:
		return value.Float(float64(n)), nil
	case string:
		return value.String(n), nil
	case []any:
		out := make(value.Array, len(n))
		for i, e := range n {
			v, err := FromNative(e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case map[string]any:
		out := value.NewObject()
		for _, k := range sortedKeys(n) {
			v, err := FromNative(n[k])
			if err != nil {
				return nil, err
			}
			out.Set(k, v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("native: cannot convert Go value of type %T to value.Value", x)
	}
}

// sortedKeys gives FromNative a deterministic insertion order for a
// plain Go map, which otherwise has none; alphabetical is the least
// surprising default absent any other ordering signal.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
