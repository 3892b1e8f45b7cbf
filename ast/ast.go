// Package ast defines the HCL2 abstract syntax tree: a typed node set
// with source spans, built by package parser from source text and
// consumed by packages eval and depgraph. See spec.md §3 for the
// authoritative node/invariant list this mirrors.
package ast

import (
	"github.com/hashicorp/hcl/v2"

	"github.com/risqcapital/hcl2go/value"
)

// Range is a source span: a pair of byte offsets (plus line/column,
// which Range carries for free) bracketing the text a node was parsed
// from. It is a direct alias of hcl.Range — see DESIGN.md for why the
// AST reuses this teacher-adjacent type instead of a bespoke
// (start, end) struct.
type Range = hcl.Range

// Pos is a single position within a Range.
type Pos = hcl.Pos

// Node is the root of every AST type: every node carries a Range.
type Node interface {
	Range() Range
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	isExpr()
}

// Stmt is implemented by every statement node (Attribute, Block).
type Stmt interface {
	Node
	isStmt()
	// KeyPath returns the key path this statement contributes to its
	// enclosing body: a single-element slice for an Attribute (its
	// name), or [type, label...] for a Block.
	KeyPath() []string
}

// Body is a sequence of statements, the unit parsed by ParseFile and
// evaluated by eval.EvaluateBody.
type Body []Stmt

// exprBase is embedded by every Expr implementation to supply Range()
// and the isExpr marker without repeating boilerplate — matching the
// teacher's own pattern of small embeddable span-carrying base types
// (hcl.Range itself is used the same way throughout hclsyntax-adjacent
// code).
type exprBase struct {
	Rng Range
}

func (b exprBase) Range() Range { return b.Rng }
func (exprBase) isExpr()        {}

type stmtBase struct {
	Rng Range
}

func (b stmtBase) Range() Range { return b.Rng }
func (stmtBase) isStmt()        {}

// Literal is an immediate value: a number, string, bool, or null.
type Literal struct {
	exprBase
	Value value.Value
}

func NewLiteral(rng Range, v value.Value) *Literal {
	return &Literal{exprBase: exprBase{Rng: rng}, Value: v}
}

// Identifier is a free variable reference, a function name, an
// attribute key, or a for-comprehension bound variable, depending on
// where it appears in the tree.
type Identifier struct {
	exprBase
	Name string
}

func NewIdentifier(rng Range, name string) *Identifier {
	return &Identifier{exprBase: exprBase{Rng: rng}, Name: name}
}

// AsStringLiteral returns the Identifier reinterpreted as a string
// literal, used when a bare identifier appears as an object key or
// block label (spec.md §3: "object element keys that are bare
// identifiers are semantically equivalent to their string form").
func (id *Identifier) AsStringLiteral() *Literal {
	return NewLiteral(id.Rng, value.String(id.Name))
}
