package depgraph

import (
	"github.com/risqcapital/hcl2go/ast"
	"github.com/risqcapital/hcl2go/value"
)

// freeVars returns the set of variable names stmt's subtree reads
// that are not bound by an enclosing for-comprehension, recursing into
// nested block bodies. See SPEC_FULL.md §4.7 for why this is a static
// walk rather than a live-evaluator trace.
func freeVars(stmt ast.Stmt) map[string]bool {
	vs := make(map[string]bool)
	switch s := stmt.(type) {
	case *ast.Attribute:
		walkExpr(s.Value, nil, vs)
	case *ast.Block:
		// Labels are static label text (bare identifier or string
		// literal), never variable references, so they contribute no
		// free variables — see ast.Block's doc comment.
		walkBody(s.Body, nil, vs)
	}
	return vs
}

func walkBody(body ast.Body, bound map[string]bool, vs map[string]bool) {
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.Attribute:
			walkExpr(s.Value, bound, vs)
		case *ast.Block:
			walkBody(s.Body, bound, vs)
		}
	}
}

func withBound(bound map[string]bool, names ...string) map[string]bool {
	n := make(map[string]bool, len(bound)+len(names))
	for k := range bound {
		n[k] = true
	}
	for _, name := range names {
		if name != "" {
			n[name] = true
		}
	}
	return n
}

// foldBool attempts to statically evaluate expr as a boolean constant:
// a bool literal, or a "!"/"&&"/"||" chain over such literals. It
// returns ok=false for anything that depends on a variable, a
// function call, or any other non-literal subexpression — in which
// case the caller must conservatively assume either branch might run.
func foldBool(expr ast.Expr) (bool, bool) {
	switch n := expr.(type) {
	case *ast.Literal:
		b, ok := n.Value.(value.Bool)
		if !ok {
			return false, false
		}
		return bool(b), true
	case *ast.Parenthesis:
		return foldBool(n.Inner)
	case *ast.UnaryOp:
		if n.Op != "!" {
			return false, false
		}
		v, ok := foldBool(n.Operand)
		return !v, ok
	case *ast.BinaryOp:
		if n.Op != "&&" && n.Op != "||" {
			return false, false
		}
		l, lok := foldBool(n.Left)
		if !lok {
			return false, false
		}
		r, rok := foldBool(n.Right)
		if !rok {
			return false, false
		}
		if n.Op == "&&" {
			return l && r, true
		}
		return l || r, true
	default:
		return false, false
	}
}

// walkExpr records every free-variable Identifier reachable from expr
// into vs, honoring the same short-circuit rules spec.md §7 gives the
// evaluator: a statically-foldable "&&"/"||"/"?:" controlling
// expression elides the branch that provably never runs; anything
// else is treated conservatively by visiting every operand.
func walkExpr(expr ast.Expr, bound map[string]bool, vs map[string]bool) {
	switch n := expr.(type) {
	case nil:
		return
	case *ast.Literal:
	case *ast.Identifier:
		if !bound[n.Name] {
			vs[n.Name] = true
		}
	case *ast.Parenthesis:
		walkExpr(n.Inner, bound, vs)
	case *ast.TemplateExpr:
		for _, part := range n.Parts {
			walkExpr(part, bound, vs)
		}
	case *ast.UnaryOp:
		walkExpr(n.Operand, bound, vs)
	case *ast.BinaryOp:
		walkBinaryOp(n, bound, vs)
	case *ast.Conditional:
		walkConditional(n, bound, vs)
	case *ast.ArrayExpr:
		for _, item := range n.Items {
			walkExpr(item, bound, vs)
		}
	case *ast.ObjectExpr:
		for _, item := range n.Items {
			walkExpr(item.Key, bound, vs)
			walkExpr(item.Value, bound, vs)
		}
	case *ast.GetAttr:
		walkExpr(n.On, bound, vs)
	case *ast.GetIndex:
		walkExpr(n.On, bound, vs)
		walkExpr(n.Key.Index, bound, vs)
	case *ast.AttrSplat:
		walkExpr(n.On, bound, vs)
	case *ast.IndexSplat:
		walkExpr(n.On, bound, vs)
		for _, trailer := range n.Trailers {
			if idx, ok := trailer.(ast.GetIndexKey); ok {
				walkExpr(idx.Index, bound, vs)
			}
		}
	case *ast.FunctionCall:
		for _, arg := range n.Args {
			walkExpr(arg, bound, vs)
		}
	case *ast.ForTupleExpr:
		walkExpr(n.Collection, bound, vs)
		inner := withBound(bound, n.ValueVar.Name, keyVarName(n.KeyVar))
		walkExpr(n.Value, inner, vs)
		walkExpr(n.Cond, inner, vs)
	case *ast.ForObjectExpr:
		walkExpr(n.Collection, bound, vs)
		inner := withBound(bound, n.ValueVar.Name, keyVarName(n.KeyVar))
		walkExpr(n.Key, inner, vs)
		walkExpr(n.Value, inner, vs)
		walkExpr(n.Cond, inner, vs)
	}
}

func keyVarName(id *ast.Identifier) string {
	if id == nil {
		return ""
	}
	return id.Name
}

func walkBinaryOp(n *ast.BinaryOp, bound map[string]bool, vs map[string]bool) {
	if n.Op == "&&" || n.Op == "||" {
		if lv, ok := foldBool(n.Left); ok {
			shortCircuits := (n.Op == "&&" && !lv) || (n.Op == "||" && lv)
			if shortCircuits {
				return
			}
			walkExpr(n.Right, bound, vs)
			return
		}
		walkExpr(n.Left, bound, vs)
		walkExpr(n.Right, bound, vs)
		return
	}
	walkExpr(n.Left, bound, vs)
	walkExpr(n.Right, bound, vs)
}

func walkConditional(n *ast.Conditional, bound map[string]bool, vs map[string]bool) {
	if cv, ok := foldBool(n.Cond); ok {
		if cv {
			walkExpr(n.Then, bound, vs)
		} else {
			walkExpr(n.Else, bound, vs)
		}
		return
	}
	walkExpr(n.Cond, bound, vs)
	walkExpr(n.Then, bound, vs)
	walkExpr(n.Else, bound, vs)
}
