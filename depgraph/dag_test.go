package depgraph

import (
	"strings"
	"testing"

	"github.com/go-test/deep"

	"github.com/risqcapital/hcl2go/ast"
	"github.com/risqcapital/hcl2go/diag"
	"github.com/risqcapital/hcl2go/parser"
)

func mustParseBody(t *testing.T, src string) ast.Body {
	t.Helper()
	body, err := parser.ParseFile("test.hcl", []byte(src))
	if err != nil {
		t.Fatalf("ParseFile(%q): unexpected error: %s", src, err)
	}
	return body
}

func genNames(gens [][]ast.Stmt) [][]string {
	out := make([][]string, len(gens))
	for i, gen := range gens {
		names := make([]string, len(gen))
		for j, stmt := range gen {
			names[j] = strings.Join(stmt.KeyPath(), ".")
		}
		out[i] = names
	}
	return out
}

func TestGenerationsOrdersByDependency(t *testing.T) {
	body := mustParseBody(t, "b = a + 1\na = 2\nc = b + a\n")
	gens, err := Generations(body)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	got := genNames(gens)
	want := [][]string{{"a"}, {"b"}, {"c"}}
	if diffs := deep.Equal(got, want); diffs != nil {
		t.Errorf("got %v, want %v: %v", got, want, diffs)
	}
}

func TestGenerationsIndependentStatementsShareAGeneration(t *testing.T) {
	body := mustParseBody(t, "a = 1\nb = 2\nc = a + b\n")
	gens, err := Generations(body)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(gens) != 2 {
		t.Fatalf("got %d generations, want 2", len(gens))
	}
	if len(gens[0]) != 2 {
		t.Fatalf("got generation 0 = %v, want both a and b", genNames(gens)[0])
	}
}

func TestGenerationsUnresolvedReferenceIsNotAnEdge(t *testing.T) {
	// "outer" isn't defined anywhere in this body, so it can't
	// contribute a dependency edge; it's assumed to come from an
	// enclosing scope at evaluation time.
	body := mustParseBody(t, "a = outer + 1\n")
	gens, err := Generations(body)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(gens) != 1 || len(gens[0]) != 1 {
		t.Fatalf("got %v, want a single statement in generation 0", genNames(gens))
	}
}

func TestGenerationsDetectsTwoStatementCycle(t *testing.T) {
	body := mustParseBody(t, "a = b\nb = a\n")
	_, err := Generations(body)
	if err == nil {
		t.Fatal("expected a cycle error")
	}
	cycleErr, ok := err.(*diag.CycleError)
	if !ok {
		t.Fatalf("got %T, want *diag.CycleError", err)
	}
	if len(cycleErr.Cycles) != 1 {
		t.Fatalf("got %d cycles, want 1", len(cycleErr.Cycles))
	}
	if diffs := deep.Equal(cycleErr.Cycles[0].Members, []string{"a", "b"}); diffs != nil {
		t.Errorf("got members %v, want [a b]: %v", cycleErr.Cycles[0].Members, diffs)
	}
}

func TestGenerationsDetectsSelfReference(t *testing.T) {
	body := mustParseBody(t, "a = a + 1\n")
	_, err := Generations(body)
	if err == nil {
		t.Fatal("expected a cycle error for a self-referencing attribute")
	}
	if _, ok := err.(*diag.CycleError); !ok {
		t.Fatalf("got %T, want *diag.CycleError", err)
	}
}

func TestGenerationsBlockBodyDependsOnSiblingAttribute(t *testing.T) {
	body := mustParseBody(t, `
name = "bar"
resource "foo" x {
  id = name
}
`)
	gens, err := Generations(body)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	got := genNames(gens)
	if len(got) != 2 || got[0][0] != "name" {
		t.Fatalf("got %v, want [[name] [resource]]", got)
	}
}

func TestGenerationsEmptyBodyReturnsNoGenerations(t *testing.T) {
	gens, err := Generations(nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(gens) != 0 {
		t.Fatalf("got %v, want no generations", gens)
	}
}

func TestFreeVarsShortCircuitElidesDeadBranch(t *testing.T) {
	body := mustParseBody(t, "a = false && unreachable\n")
	attr := body[0].(*ast.Attribute)
	vs := freeVars(attr)
	if vs["unreachable"] {
		t.Errorf("got free vars %v, want \"unreachable\" elided by short-circuit folding", vs)
	}
}

func TestFreeVarsNonConstantConditionIsConservative(t *testing.T) {
	body := mustParseBody(t, "a = cond && maybe\n")
	attr := body[0].(*ast.Attribute)
	vs := freeVars(attr)
	if !vs["cond"] || !vs["maybe"] {
		t.Errorf("got free vars %v, want both cond and maybe present", vs)
	}
}

func TestFreeVarsForTupleExcludesBoundVars(t *testing.T) {
	body := mustParseBody(t, "a = [for k, v in src: v if k != \"skip\"]\n")
	attr := body[0].(*ast.Attribute)
	vs := freeVars(attr)
	if vs["k"] || vs["v"] {
		t.Errorf("got free vars %v, want k and v excluded as bound", vs)
	}
	if !vs["src"] {
		t.Errorf("got free vars %v, want \"src\" present (the collection)", vs)
	}
}
