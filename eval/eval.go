package eval

import (
	"fmt"

	"github.com/risqcapital/hcl2go/ast"
	"github.com/risqcapital/hcl2go/diag"
	"github.com/risqcapital/hcl2go/value"
)

// KeyPath is a sequence of dotted key segments, used by Trace to
// record free-variable reads.
type KeyPath []string

// Evaluator reduces ast.Expr/ast.Body to value.Value/value.Object. It
// is single-use per spec.md §5: a traced Evaluator accumulates state
// across calls and must not be shared across goroutines.
type Evaluator struct {
	root    *Scope
	tracing bool
	trace   []KeyPath
}

// New returns an Evaluator with tracing disabled.
func New() *Evaluator {
	return &Evaluator{}
}

// WithTrace returns an Evaluator that records every variable read
// that resolves all the way to root (as opposed to one shadowed by an
// intervening for-comprehension or nested-body scope), per spec.md
// §3's "observer recording free-variable key-paths read from the
// outermost scope."
func WithTrace(root *Scope) *Evaluator {
	return &Evaluator{root: root, tracing: true}
}

// Trace returns the key paths recorded so far, in read order.
func (e *Evaluator) Trace() []KeyPath {
	return e.trace
}

func (e *Evaluator) recordIfRoot(foundAt *Scope, name string) {
	if e.tracing && foundAt == e.root {
		e.trace = append(e.trace, KeyPath{name})
	}
}

// EvaluateExpr reduces expr to a Value under scope.
func EvaluateExpr(expr ast.Expr, scope *Scope) (value.Value, error) {
	return New().Eval(expr, scope)
}

// Eval is the method form of EvaluateExpr, used when the caller wants
// trace accumulation (via WithTrace) across a sequence of calls.
func (e *Evaluator) Eval(expr ast.Expr, scope *Scope) (value.Value, error) {
	switch n := expr.(type) {
	case *ast.Literal:
		return n.Value, nil
	case *ast.Identifier:
		v, foundAt, ok := scope.lookupAt(n.Name)
		if !ok {
			return nil, diag.NewNameError(n.Range(), n.Name, scope.VarNames())
		}
		e.recordIfRoot(foundAt, n.Name)
		return v, nil
	case *ast.Parenthesis:
		return e.Eval(n.Inner, scope)
	case *ast.TemplateExpr:
		return e.evalTemplate(n, scope)
	case *ast.UnaryOp:
		operand, err := e.Eval(n.Operand, scope)
		if err != nil {
			return nil, err
		}
		return applyUnaryOp(n.Op, n.Range(), operand)
	case *ast.BinaryOp:
		return e.evalBinaryOp(n, scope)
	case *ast.Conditional:
		return e.evalConditional(n, scope)
	case *ast.ArrayExpr:
		return e.evalArray(n, scope)
	case *ast.ObjectExpr:
		return e.evalObject(n, scope)
	case *ast.GetAttr:
		return e.evalGetAttr(n, scope)
	case *ast.GetIndex:
		return e.evalGetIndex(n, scope)
	case *ast.AttrSplat:
		return e.evalAttrSplat(n, scope)
	case *ast.IndexSplat:
		return e.evalIndexSplat(n, scope)
	case *ast.FunctionCall:
		return e.evalFunctionCall(n, scope)
	case *ast.ForTupleExpr:
		return e.evalForTuple(n, scope)
	case *ast.ForObjectExpr:
		return e.evalForObject(n, scope)
	default:
		return nil, diag.NewTypeError(expr.Range(), fmt.Sprintf("cannot evaluate node of type %T", expr))
	}
}

func (e *Evaluator) evalTemplate(n *ast.TemplateExpr, scope *Scope) (value.Value, error) {
	var out string
	for _, part := range n.Parts {
		v, err := e.Eval(part, scope)
		if err != nil {
			return nil, err
		}
		s, err := value.ToDisplayString(v)
		if err != nil {
			return nil, diag.NewTypeError(part.Range(), err.Error())
		}
		out += s
	}
	return value.String(out), nil
}

func (e *Evaluator) evalBinaryOp(n *ast.BinaryOp, scope *Scope) (value.Value, error) {
	switch n.Op {
	case "&&":
		l, err := e.Eval(n.Left, scope)
		if err != nil {
			return nil, err
		}
		lb, ok := l.(value.Bool)
		if !ok {
			return nil, diag.NewTypeError(n.Left.Range(), "\"&&\" requires bool operands, got "+value.TypeName(l))
		}
		if !bool(lb) {
			return value.Bool(false), nil
		}
		r, err := e.Eval(n.Right, scope)
		if err != nil {
			return nil, err
		}
		rb, ok := r.(value.Bool)
		if !ok {
			return nil, diag.NewTypeError(n.Right.Range(), "\"&&\" requires bool operands, got "+value.TypeName(r))
		}
		return rb, nil
	case "||":
		l, err := e.Eval(n.Left, scope)
		if err != nil {
			return nil, err
		}
		lb, ok := l.(value.Bool)
		if !ok {
			return nil, diag.NewTypeError(n.Left.Range(), "\"||\" requires bool operands, got "+value.TypeName(l))
		}
		if bool(lb) {
			return value.Bool(true), nil
		}
		r, err := e.Eval(n.Right, scope)
		if err != nil {
			return nil, err
		}
		rb, ok := r.(value.Bool)
		if !ok {
			return nil, diag.NewTypeError(n.Right.Range(), "\"||\" requires bool operands, got "+value.TypeName(r))
		}
		return rb, nil
	default:
		l, err := e.Eval(n.Left, scope)
		if err != nil {
			return nil, err
		}
		r, err := e.Eval(n.Right, scope)
		if err != nil {
			return nil, err
		}
		return applyBinOp(n.Op, n.Range(), l, r)
	}
}

func (e *Evaluator) evalConditional(n *ast.Conditional, scope *Scope) (value.Value, error) {
	c, err := e.Eval(n.Cond, scope)
	if err != nil {
		return nil, err
	}
	cb, ok := c.(value.Bool)
	if !ok {
		return nil, diag.NewTypeError(n.Cond.Range(), "conditional requires a bool condition, got "+value.TypeName(c))
	}
	if bool(cb) {
		return e.Eval(n.Then, scope)
	}
	return e.Eval(n.Else, scope)
}

func (e *Evaluator) evalArray(n *ast.ArrayExpr, scope *Scope) (value.Value, error) {
	out := make(value.Array, 0, len(n.Items))
	for _, item := range n.Items {
		v, err := e.Eval(item, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (e *Evaluator) evalObject(n *ast.ObjectExpr, scope *Scope) (value.Value, error) {
	out := value.NewObject()
	for _, item := range n.Items {
		keyExpr := item.Key
		// Every key, whether a parenthesized computed key or a string
		// literal (the parser lowers bare identifiers to one), must
		// evaluate to a string.
		kv, err := e.Eval(keyExpr, scope)
		if err != nil {
			return nil, err
		}
		ks, ok := kv.(value.String)
		if !ok {
			return nil, diag.NewTypeError(keyExpr.Range(), "object key must be a string, got "+value.TypeName(kv))
		}
		if out.Has(string(ks)) {
			return nil, diag.NewDuplicateKeyError(keyExpr.Range(), string(ks))
		}
		v, err := e.Eval(item.Value, scope)
		if err != nil {
			return nil, err
		}
		out.Set(string(ks), v)
	}
	return out, nil
}

func (e *Evaluator) evalGetAttr(n *ast.GetAttr, scope *Scope) (value.Value, error) {
	on, err := e.Eval(n.On, scope)
	if err != nil {
		return nil, err
	}
	return projectAttr(on, n.Key.Name.Name, n.Range())
}

func projectAttr(on value.Value, name string, rng ast.Range) (value.Value, error) {
	obj, ok := on.(*value.Object)
	if !ok {
		return nil, diag.NewTypeError(rng, "cannot get attribute \""+name+"\" from "+value.TypeName(on))
	}
	v, ok := obj.Get(name)
	if !ok {
		return nil, diag.NewKeyError(rng, "object has no attribute \""+name+"\"")
	}
	return v, nil
}

func (e *Evaluator) evalGetIndex(n *ast.GetIndex, scope *Scope) (value.Value, error) {
	on, err := e.Eval(n.On, scope)
	if err != nil {
		return nil, err
	}
	idx, err := e.Eval(n.Key.Index, scope)
	if err != nil {
		return nil, err
	}
	return projectIndex(on, idx, n.Range())
}

func projectIndex(on, idx value.Value, rng ast.Range) (value.Value, error) {
	switch base := on.(type) {
	case value.Array:
		i, ok := idx.(value.Integer)
		if !ok {
			return nil, diag.NewTypeError(rng, "array index must be an integer, got "+value.TypeName(idx))
		}
		pos, exact := i.Int64()
		if !exact || pos < 0 || pos >= int64(len(base)) {
			return nil, diag.NewKeyError(rng, fmt.Sprintf("array index %s is out of range (length %d)", i.String(), len(base)))
		}
		return base[pos], nil
	case *value.Object:
		key, ok := idx.(value.String)
		if !ok {
			return nil, diag.NewTypeError(rng, "object key must be a string, got "+value.TypeName(idx))
		}
		v, ok := base.Get(string(key))
		if !ok {
			return nil, diag.NewKeyError(rng, "object has no key \""+string(key)+"\"")
		}
		return v, nil
	default:
		return nil, diag.NewTypeError(rng, "cannot index into "+value.TypeName(on))
	}
}

// splatBase normalizes a splat's "on" operand per spec.md §4.3: Null
// becomes an empty array, any non-array is wrapped in a one-element
// array, and an array passes through unchanged.
func splatBase(v value.Value) value.Array {
	switch b := v.(type) {
	case value.Null:
		return value.Array{}
	case value.Array:
		return b
	default:
		return value.Array{v}
	}
}

func (e *Evaluator) evalAttrSplat(n *ast.AttrSplat, scope *Scope) (value.Value, error) {
	on, err := e.Eval(n.On, scope)
	if err != nil {
		return nil, err
	}
	base := splatBase(on)
	out := make(value.Array, 0, len(base))
	for _, item := range base {
		cur := item
		for _, trailer := range n.Trailers {
			cur, err = projectAttr(cur, trailer.Name.Name, trailer.Range())
			if err != nil {
				return nil, err
			}
		}
		out = append(out, cur)
	}
	return out, nil
}

func (e *Evaluator) evalIndexSplat(n *ast.IndexSplat, scope *Scope) (value.Value, error) {
	on, err := e.Eval(n.On, scope)
	if err != nil {
		return nil, err
	}
	base := splatBase(on)
	out := make(value.Array, 0, len(base))
	for _, item := range base {
		cur := item
		for _, trailer := range n.Trailers {
			switch key := trailer.(type) {
			case ast.GetAttrKey:
				cur, err = projectAttr(cur, key.Name.Name, key.Range())
			case ast.GetIndexKey:
				var idx value.Value
				idx, err = e.Eval(key.Index, scope)
				if err != nil {
					return nil, err
				}
				cur, err = projectIndex(cur, idx, key.Range())
			}
			if err != nil {
				return nil, err
			}
		}
		out = append(out, cur)
	}
	return out, nil
}

func (e *Evaluator) evalFunctionCall(n *ast.FunctionCall, scope *Scope) (value.Value, error) {
	fn, ok := scope.LookupFunc(n.Name)
	if !ok {
		return nil, diag.NewNameError(n.NameRange, n.Name, scope.FuncNames())
	}

	args := make([]value.Value, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := e.Eval(a, scope)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	if n.VarArgs {
		if len(args) == 0 {
			return nil, diag.NewArityError(n.Range(), n.Name, "at least 1", len(args))
		}
		spread, ok := args[len(args)-1].(value.Array)
		if !ok {
			return nil, diag.NewTypeError(n.Args[len(n.Args)-1].Range(), "the spliced \"...\" argument must be an array, got "+value.TypeName(args[len(args)-1]))
		}
		args = append(args[:len(args)-1], spread...)
	}

	if len(args) < fn.MinArity() || (fn.MaxArity() >= 0 && len(args) > fn.MaxArity()) {
		want := fmt.Sprintf("%d", fn.MinArity())
		if fn.VarParam {
			want = fmt.Sprintf("at least %d", fn.MinArity())
		}
		return nil, diag.NewArityError(n.Range(), n.Name, want, len(args))
	}

	result, err := fn.Impl(args)
	if err != nil {
		return nil, diag.NewUserError(n.Range(), n.Name, err)
	}
	return result, nil
}
