// Package hcl2 is the single entry point consumers of this module
// import: it re-exports the parse/evaluate/analyze operations spec.md
// §6 lists as External Interfaces, so a caller need not reach into
// ast/eval/depgraph/parser directly for the common path. Grounded on
// pyhcl2/parse.py's top-level parse_file/parse_expr/parse_expr_or_attribute
// functions, which play the same "one module, a few free functions"
// role for that package.
package hcl2

import (
	"github.com/risqcapital/hcl2go/ast"
	"github.com/risqcapital/hcl2go/depgraph"
	"github.com/risqcapital/hcl2go/eval"
	"github.com/risqcapital/hcl2go/funcs"
	"github.com/risqcapital/hcl2go/parser"
	"github.com/risqcapital/hcl2go/value"
)

// Scope is the variable/function environment expressions and bodies
// evaluate against. Re-exported from package eval so callers of this
// facade never need to import eval directly.
type Scope = eval.Scope

// NewScope builds a root Scope from an initial variable and function
// set.
func NewScope(variables map[string]value.Value, functions funcs.Table) *Scope {
	return eval.NewScope(variables, functions)
}

// StandardFunctions returns the small illustrative intrinsic table
// this module ships with (length, upper, lower, join, keys, values,
// concat).
func StandardFunctions() funcs.Table {
	return funcs.Standard()
}

// ParseFile lexes and parses filename's contents as a body: a
// sequence of top-level attributes and blocks.
func ParseFile(filename string, src []byte) (ast.Body, error) {
	return parser.ParseFile(filename, src)
}

// ParseExpression lexes and parses filename's contents as a single
// standalone expression.
func ParseExpression(filename string, src []byte) (ast.Expr, error) {
	return parser.ParseExpression(filename, src)
}

// EvaluateExpr reduces expr to a Value under scope.
func EvaluateExpr(expr ast.Expr, scope *Scope) (value.Value, error) {
	return eval.EvaluateExpr(expr, scope)
}

// EvaluateBody reduces body to a value.Object under scope, evaluating
// its attributes and blocks in dependency order (spec.md §4.5, §4.7).
func EvaluateBody(body ast.Body, scope *Scope) (*value.Object, error) {
	return eval.EvaluateBody(body, scope)
}

// TopologicalGenerations computes body's top-level statements' free
// variables and returns them layered by dependency depth; statements
// within one generation have no dependency on each other. Returns
// *diag.CycleError if body's statements form a dependency cycle.
func TopologicalGenerations(body ast.Body) ([][]ast.Stmt, error) {
	return depgraph.Generations(body)
}

// TraceExpr evaluates expr under scope like EvaluateExpr, additionally
// returning the key paths of every root-scope variable the expression
// read, in read order (spec.md §3's "observer recording free-variable
// key-paths read from the outermost scope").
func TraceExpr(expr ast.Expr, scope *Scope) (value.Value, []eval.KeyPath, error) {
	e := eval.WithTrace(scope)
	v, err := e.Eval(expr, scope)
	if err != nil {
		return nil, nil, err
	}
	return v, e.Trace(), nil
}
