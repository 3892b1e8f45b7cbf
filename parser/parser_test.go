package parser

import (
	"testing"

	"github.com/risqcapital/hcl2go/ast"
	"github.com/risqcapital/hcl2go/value"
)

func mustParseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, err := ParseExpression("test.hcl", []byte(src))
	if err != nil {
		t.Fatalf("ParseExpression(%q): unexpected error: %s", src, err)
	}
	return expr
}

func TestParseExpressionPrecedence(t *testing.T) {
	// "1 + 2 * 3" should parse as "1 + (2 * 3)": the outer node is "+".
	expr := mustParseExpr(t, "1 + 2 * 3")
	bin, ok := expr.(*ast.BinaryOp)
	if !ok {
		t.Fatalf("got %T, want *ast.BinaryOp", expr)
	}
	if bin.Op != "+" {
		t.Fatalf("got op %q, want \"+\"", bin.Op)
	}
	rhs, ok := bin.Right.(*ast.BinaryOp)
	if !ok || rhs.Op != "*" {
		t.Fatalf("got right %#v, want a \"*\" BinaryOp", bin.Right)
	}
}

func TestParseExpressionConditionalIsLowestPrecedence(t *testing.T) {
	expr := mustParseExpr(t, "a || b ? 1 : 2")
	cond, ok := expr.(*ast.Conditional)
	if !ok {
		t.Fatalf("got %T, want *ast.Conditional", expr)
	}
	if _, ok := cond.Cond.(*ast.BinaryOp); !ok {
		t.Fatalf("got cond %T, want *ast.BinaryOp", cond.Cond)
	}
}

func TestParseExpressionUnaryNot(t *testing.T) {
	expr := mustParseExpr(t, "!!a")
	outer, ok := expr.(*ast.UnaryOp)
	if !ok || outer.Op != "!" {
		t.Fatalf("got %#v, want outer \"!\" UnaryOp", expr)
	}
	inner, ok := outer.Operand.(*ast.UnaryOp)
	if !ok || inner.Op != "!" {
		t.Fatalf("got %#v, want inner \"!\" UnaryOp", outer.Operand)
	}
}

func TestParseExpressionUnaryMinusBindsTighterThanBinary(t *testing.T) {
	expr := mustParseExpr(t, "-a + b")
	bin, ok := expr.(*ast.BinaryOp)
	if !ok || bin.Op != "+" {
		t.Fatalf("got %#v, want outer \"+\" BinaryOp", expr)
	}
	if _, ok := bin.Left.(*ast.UnaryOp); !ok {
		t.Fatalf("got left %T, want *ast.UnaryOp", bin.Left)
	}
}

func TestParseExpressionGetAttrAndIndexChain(t *testing.T) {
	expr := mustParseExpr(t, "a.b[0].c")
	outer, ok := expr.(*ast.GetAttr)
	if !ok || outer.Key.Name.Name != "c" {
		t.Fatalf("got %#v, want outer GetAttr \"c\"", expr)
	}
	idx, ok := outer.On.(*ast.GetIndex)
	if !ok {
		t.Fatalf("got %T, want *ast.GetIndex", outer.On)
	}
	attr, ok := idx.On.(*ast.GetAttr)
	if !ok || attr.Key.Name.Name != "b" {
		t.Fatalf("got %#v, want inner GetAttr \"b\"", idx.On)
	}
}

func TestParseExpressionAttrSplat(t *testing.T) {
	expr := mustParseExpr(t, "a.*.b")
	splat, ok := expr.(*ast.AttrSplat)
	if !ok {
		t.Fatalf("got %T, want *ast.AttrSplat", expr)
	}
	if len(splat.Trailers) != 1 || splat.Trailers[0].Name.Name != "b" {
		t.Fatalf("got trailers %#v, want one trailer \"b\"", splat.Trailers)
	}
}

func TestParseExpressionIndexSplat(t *testing.T) {
	expr := mustParseExpr(t, "a[*].b[0]")
	splat, ok := expr.(*ast.IndexSplat)
	if !ok {
		t.Fatalf("got %T, want *ast.IndexSplat", expr)
	}
	if len(splat.Trailers) != 2 {
		t.Fatalf("got %d trailers, want 2", len(splat.Trailers))
	}
	if _, ok := splat.Trailers[0].(ast.GetAttrKey); !ok {
		t.Fatalf("trailer 0: got %T, want ast.GetAttrKey", splat.Trailers[0])
	}
	if _, ok := splat.Trailers[1].(ast.GetIndexKey); !ok {
		t.Fatalf("trailer 1: got %T, want ast.GetIndexKey", splat.Trailers[1])
	}
}

func TestParseExpressionFunctionCallWithSpread(t *testing.T) {
	expr := mustParseExpr(t, "join(\", \", list...)")
	call, ok := expr.(*ast.FunctionCall)
	if !ok {
		t.Fatalf("got %T, want *ast.FunctionCall", expr)
	}
	if call.Name != "join" || !call.VarArgs || len(call.Args) != 2 {
		t.Fatalf("got %#v, unexpected shape", call)
	}
}

func TestParseExpressionArrayAndForTuple(t *testing.T) {
	expr := mustParseExpr(t, "[for k, v in obj: v if k != \"x\"]")
	ft, ok := expr.(*ast.ForTupleExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.ForTupleExpr", expr)
	}
	if ft.KeyVar == nil || ft.KeyVar.Name != "k" || ft.ValueVar.Name != "v" {
		t.Fatalf("got %#v, unexpected vars", ft)
	}
	if ft.Cond == nil {
		t.Fatalf("expected a non-nil Cond")
	}
}

func TestParseExpressionForObjectGrouping(t *testing.T) {
	expr := mustParseExpr(t, "{for v in list: v.key => v.value...}")
	fo, ok := expr.(*ast.ForObjectExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.ForObjectExpr", expr)
	}
	if !fo.Group {
		t.Fatal("expected Group to be true")
	}
	if fo.KeyVar != nil {
		t.Fatalf("expected a nil KeyVar for the single-variable form, got %#v", fo.KeyVar)
	}
}

func TestParseExpressionObjectBareIdentKeyLoweredToStringLiteral(t *testing.T) {
	expr := mustParseExpr(t, "{foo = 1}")
	obj, ok := expr.(*ast.ObjectExpr)
	if !ok || len(obj.Items) != 1 {
		t.Fatalf("got %#v, want one-item ObjectExpr", expr)
	}
	lit, ok := obj.Items[0].Key.(*ast.Literal)
	if !ok {
		t.Fatalf("got key %T, want *ast.Literal", obj.Items[0].Key)
	}
	if lit.Value != value.String("foo") {
		t.Fatalf("got key value %#v, want String(\"foo\")", lit.Value)
	}
}

func TestParseExpressionObjectComputedKeyStaysLive(t *testing.T) {
	expr := mustParseExpr(t, "{(k): 1}")
	obj, ok := expr.(*ast.ObjectExpr)
	if !ok || len(obj.Items) != 1 {
		t.Fatalf("got %#v, want one-item ObjectExpr", expr)
	}
	if _, ok := obj.Items[0].Key.(*ast.Parenthesis); !ok {
		t.Fatalf("got key %T, want *ast.Parenthesis", obj.Items[0].Key)
	}
}

func TestParseExpressionStringInterpolation(t *testing.T) {
	expr := mustParseExpr(t, `"hello ${name}!"`)
	tmpl, ok := expr.(*ast.TemplateExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.TemplateExpr", expr)
	}
	if len(tmpl.Parts) != 3 {
		t.Fatalf("got %d parts, want 3 (\"hello \", name, \"!\")", len(tmpl.Parts))
	}
	if _, ok := tmpl.Parts[1].(*ast.Identifier); !ok {
		t.Fatalf("got part 1 %T, want *ast.Identifier", tmpl.Parts[1])
	}
}

func TestParseExpressionStringWithNoInterpolationIsLiteral(t *testing.T) {
	expr := mustParseExpr(t, `"just text"`)
	lit, ok := expr.(*ast.Literal)
	if !ok {
		t.Fatalf("got %T, want *ast.Literal", expr)
	}
	if lit.Value != value.String("just text") {
		t.Fatalf("got %#v, want String(\"just text\")", lit.Value)
	}
}

func TestParseExpressionStringEscapes(t *testing.T) {
	expr := mustParseExpr(t, `"a\nb\tc"`)
	lit, ok := expr.(*ast.Literal)
	if !ok {
		t.Fatalf("got %T, want *ast.Literal", expr)
	}
	if lit.Value != value.String("a\nb\tc") {
		t.Fatalf("got %#v, want decoded escapes", lit.Value)
	}
}

func TestParseExpressionHeredocTrim(t *testing.T) {
	src := "<<-EOT\n  one\n    two\n  EOT"
	expr := mustParseExpr(t, src)
	lit, ok := expr.(*ast.Literal)
	if !ok {
		t.Fatalf("got %T, want *ast.Literal", expr)
	}
	want := "one\n  two\n"
	if lit.Value != value.String(want) {
		t.Fatalf("got %q, want %q", lit.Value, want)
	}
}

func TestParseExpressionHeredocNoTrim(t *testing.T) {
	src := "<<EOT\n  one\nEOT"
	expr := mustParseExpr(t, src)
	lit, ok := expr.(*ast.Literal)
	if !ok {
		t.Fatalf("got %T, want *ast.Literal", expr)
	}
	want := "  one\n"
	if lit.Value != value.String(want) {
		t.Fatalf("got %q, want %q", lit.Value, want)
	}
}

func TestParseFileAttributesAndBlocks(t *testing.T) {
	src := `
a = 1
resource "foo" bar {
  x = 2
}
`
	body, err := ParseFile("test.hcl", []byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(body) != 2 {
		t.Fatalf("got %d statements, want 2", len(body))
	}
	attr, ok := body[0].(*ast.Attribute)
	if !ok || attr.Key.Name != "a" {
		t.Fatalf("statement 0: got %#v, want Attribute \"a\"", body[0])
	}
	blk, ok := body[1].(*ast.Block)
	if !ok {
		t.Fatalf("statement 1: got %T, want *ast.Block", body[1])
	}
	wantPath := []string{"resource", "foo", "bar"}
	gotPath := blk.KeyPath()
	if len(gotPath) != len(wantPath) {
		t.Fatalf("got key path %v, want %v", gotPath, wantPath)
	}
	for i := range wantPath {
		if gotPath[i] != wantPath[i] {
			t.Fatalf("got key path %v, want %v", gotPath, wantPath)
		}
	}
}

func TestParseFileRejectsMissingNewlineBetweenStatements(t *testing.T) {
	_, err := ParseFile("test.hcl", []byte("a = 1 b = 2"))
	if err == nil {
		t.Fatal("expected a parse error for two statements on one line")
	}
}

func TestParseFileRejectsTrailingGarbage(t *testing.T) {
	_, err := ParseFile("test.hcl", []byte("a = 1\n}"))
	if err == nil {
		t.Fatal("expected a parse error for unexpected trailing \"}\"")
	}
}
