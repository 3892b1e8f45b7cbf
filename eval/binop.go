package eval

import (
	"math"
	"math/big"
	"strings"

	"github.com/risqcapital/hcl2go/ast"
	"github.com/risqcapital/hcl2go/diag"
	"github.com/risqcapital/hcl2go/value"
)

// binOpFunc implements one binary operator over two already-evaluated
// operands. Table-driven dispatch (below), rather than per-Value-type
// dunder methods, is the idiomatic Go substitute for operator
// overloading — see DESIGN.md for the go-cty-shaped rationale.
type binOpFunc func(rng ast.Range, l, r value.Value) (value.Value, error)

var binOps = map[string]binOpFunc{
	"+":  opAdd,
	"-":  opSub,
	"*":  opMul,
	"/":  opDiv,
	"%":  opMod,
	"<":  opLt,
	">":  opGt,
	"<=": opLe,
	">=": opGe,
	"==": opEq,
	"!=": opNeq,
}

// applyBinOp is the single entry point the evaluator calls for every
// BinaryOp node other than && and || (which short-circuit and so are
// handled directly in eval.go). It enforces spec.md §4.3's Null-operand
// rule — every operator except == and != fails if either operand is
// Null — before dispatching to the per-operator table.
func applyBinOp(op string, rng ast.Range, l, r value.Value) (value.Value, error) {
	fn, ok := binOps[op]
	if !ok {
		return nil, diag.NewTypeError(rng, "unsupported binary operator "+op)
	}
	if op != "==" && op != "!=" {
		if l.Kind() == value.KindNull || r.Kind() == value.KindNull {
			return nil, diag.NewTypeError(rng, "operator \""+op+"\" requires non-null operands")
		}
	}
	return fn(rng, l, r)
}

func asNumber(v value.Value) (big.Int, float64, bool, bool) {
	switch n := v.(type) {
	case value.Integer:
		return *n.Big(), 0, true, true
	case value.Float:
		return big.Int{}, float64(n), false, true
	default:
		return big.Int{}, 0, false, false
	}
}

func opAdd(rng ast.Range, l, r value.Value) (value.Value, error) {
	if l.Kind() == value.KindString || r.Kind() == value.KindString {
		return nil, diag.NewTypeError(rng, "\"+\" does not concatenate strings; use string interpolation instead")
	}
	return numericOp(rng, "+", l, r,
		func(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) },
		func(a, b float64) float64 { return a + b },
	)
}

func opSub(rng ast.Range, l, r value.Value) (value.Value, error) {
	return numericOp(rng, "-", l, r,
		func(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) },
		func(a, b float64) float64 { return a - b },
	)
}

func opMul(rng ast.Range, l, r value.Value) (value.Value, error) {
	return numericOp(rng, "*", l, r,
		func(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) },
		func(a, b float64) float64 { return a * b },
	)
}

func opDiv(rng ast.Range, l, r value.Value) (value.Value, error) {
	li, lf, lInt, lOK := asNumber(l)
	ri, rf, rInt, rOK := asNumber(r)
	if !lOK || !rOK {
		return nil, typeMismatch(rng, "/", l, r)
	}
	if lInt && rInt {
		if ri.Sign() == 0 {
			return nil, diag.NewTypeError(rng, "division by zero")
		}
		// big.Int.Quo truncates toward zero, matching spec.md §9's
		// resolution for integer-over-integer division.
		return value.NewBigInt(new(big.Int).Quo(&li, &ri)), nil
	}
	lv, rv := numericAsFloat(li, lf, lInt), numericAsFloat(ri, rf, rInt)
	if rv == 0 {
		return nil, diag.NewTypeError(rng, "division by zero")
	}
	return value.Float(lv / rv), nil
}

func opMod(rng ast.Range, l, r value.Value) (value.Value, error) {
	li, lf, lInt, lOK := asNumber(l)
	ri, rf, rInt, rOK := asNumber(r)
	if !lOK || !rOK {
		return nil, typeMismatch(rng, "%", l, r)
	}
	if lInt && rInt {
		if ri.Sign() == 0 {
			return nil, diag.NewTypeError(rng, "division by zero")
		}
		return value.NewBigInt(new(big.Int).Rem(&li, &ri)), nil
	}
	lv, rv := numericAsFloat(li, lf, lInt), numericAsFloat(ri, rf, rInt)
	if rv == 0 {
		return nil, diag.NewTypeError(rng, "division by zero")
	}
	return value.Float(math.Mod(lv, rv)), nil
}

func numericAsFloat(i big.Int, f float64, isInt bool) float64 {
	if isInt {
		bf := new(big.Float).SetInt(&i)
		v, _ := bf.Float64()
		return v
	}
	return f
}

func numericOp(rng ast.Range, op string, l, r value.Value, intOp func(a, b *big.Int) *big.Int, floatOp func(a, b float64) float64) (value.Value, error) {
	li, lf, lInt, lOK := asNumber(l)
	ri, rf, rInt, rOK := asNumber(r)
	if !lOK || !rOK {
		return nil, typeMismatch(rng, op, l, r)
	}
	if lInt && rInt {
		return value.NewBigInt(intOp(&li, &ri)), nil
	}
	lv := numericAsFloat(li, lf, lInt)
	rv := numericAsFloat(ri, rf, rInt)
	return value.Float(floatOp(lv, rv)), nil
}

func compareOp(rng ast.Range, op string, l, r value.Value, cmp func(c int) bool) (value.Value, error) {
	// spec.md §4.3's operator table gives "<" ">" "<=" ">=" two valid
	// operand shapes: two numerics (compared numerically) or two
	// strings (compared lexicographically by UTF-8 byte value).
	ls, lIsStr := l.(value.String)
	rs, rIsStr := r.(value.String)
	if lIsStr && rIsStr {
		return value.Bool(cmp(strings.Compare(string(ls), string(rs)))), nil
	}

	li, lf, lInt, lOK := asNumber(l)
	ri, rf, rInt, rOK := asNumber(r)
	if !lOK || !rOK {
		return nil, typeMismatch(rng, op, l, r)
	}
	if lInt && rInt {
		return value.Bool(cmp(li.Cmp(&ri))), nil
	}
	lv := numericAsFloat(li, lf, lInt)
	rv := numericAsFloat(ri, rf, rInt)
	switch {
	case lv < rv:
		return value.Bool(cmp(-1)), nil
	case lv > rv:
		return value.Bool(cmp(1)), nil
	default:
		return value.Bool(cmp(0)), nil
	}
}

func opLt(rng ast.Range, l, r value.Value) (value.Value, error) {
	return compareOp(rng, "<", l, r, func(c int) bool { return c < 0 })
}

func opGt(rng ast.Range, l, r value.Value) (value.Value, error) {
	return compareOp(rng, ">", l, r, func(c int) bool { return c > 0 })
}

func opLe(rng ast.Range, l, r value.Value) (value.Value, error) {
	return compareOp(rng, "<=", l, r, func(c int) bool { return c <= 0 })
}

func opGe(rng ast.Range, l, r value.Value) (value.Value, error) {
	return compareOp(rng, ">=", l, r, func(c int) bool { return c >= 0 })
}

func opEq(_ ast.Range, l, r value.Value) (value.Value, error) {
	return value.Bool(value.Equal(l, r)), nil
}

func opNeq(_ ast.Range, l, r value.Value) (value.Value, error) {
	return value.Bool(!value.Equal(l, r)), nil
}

func typeMismatch(rng ast.Range, op string, l, r value.Value) error {
	return diag.NewTypeError(rng, "operator \""+op+"\" requires numeric operands, got "+value.TypeName(l)+" and "+value.TypeName(r))
}

func applyUnaryOp(op string, rng ast.Range, operand value.Value) (value.Value, error) {
	switch op {
	case "!":
		b, ok := operand.(value.Bool)
		if !ok {
			return nil, diag.NewTypeError(rng, "\"!\" requires a bool operand, got "+value.TypeName(operand))
		}
		return value.Bool(!b), nil
	case "-":
		switch n := operand.(type) {
		case value.Integer:
			return value.NewBigInt(new(big.Int).Neg(n.Big())), nil
		case value.Float:
			return value.Float(-n), nil
		default:
			return nil, diag.NewTypeError(rng, "unary \"-\" requires a numeric operand, got "+value.TypeName(operand))
		}
	default:
		return nil, diag.NewTypeError(rng, "unsupported unary operator "+op)
	}
}
