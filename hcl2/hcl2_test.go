package hcl2

import (
	"testing"

	"github.com/risqcapital/hcl2go/diag"
	"github.com/risqcapital/hcl2go/value"
)

func TestParseAndEvaluateBody(t *testing.T) {
	src := `
name = "server"
port = 8080
greeting = "hello, ${name}"
`
	body, err := ParseFile("test.hcl", []byte(src))
	if err != nil {
		t.Fatalf("ParseFile: unexpected error: %s", err)
	}

	scope := NewScope(nil, StandardFunctions())
	result, err := EvaluateBody(body, scope)
	if err != nil {
		t.Fatalf("EvaluateBody: unexpected error: %s", err)
	}

	greeting, ok := result.Get("greeting")
	if !ok || !value.Equal(greeting, value.String("hello, server")) {
		t.Errorf("got greeting=%v, want \"hello, server\"", greeting)
	}
}

func TestParseAndEvaluateExpression(t *testing.T) {
	expr, err := ParseExpression("test.hcl", []byte(`upper("abc")`))
	if err != nil {
		t.Fatalf("ParseExpression: unexpected error: %s", err)
	}
	scope := NewScope(nil, StandardFunctions())
	got, err := EvaluateExpr(expr, scope)
	if err != nil {
		t.Fatalf("EvaluateExpr: unexpected error: %s", err)
	}
	if !value.Equal(got, value.String("ABC")) {
		t.Errorf("got %s, want \"ABC\"", got)
	}
}

func TestTopologicalGenerationsEndToEnd(t *testing.T) {
	body, err := ParseFile("test.hcl", []byte("c = a + b\na = 1\nb = 2\n"))
	if err != nil {
		t.Fatalf("ParseFile: unexpected error: %s", err)
	}
	gens, err := TopologicalGenerations(body)
	if err != nil {
		t.Fatalf("TopologicalGenerations: unexpected error: %s", err)
	}
	if len(gens) != 2 {
		t.Fatalf("got %d generations, want 2", len(gens))
	}
	if len(gens[0]) != 2 || len(gens[1]) != 1 {
		t.Fatalf("got generation sizes [%d %d], want [2 1]", len(gens[0]), len(gens[1]))
	}
}

func TestTopologicalGenerationsReportsCycle(t *testing.T) {
	body, err := ParseFile("test.hcl", []byte("a = b\nb = a\n"))
	if err != nil {
		t.Fatalf("ParseFile: unexpected error: %s", err)
	}
	_, err = TopologicalGenerations(body)
	if _, ok := err.(*diag.CycleError); !ok {
		t.Fatalf("got %T (%v), want *diag.CycleError", err, err)
	}
}

func TestTraceExprRecordsRootScopeReads(t *testing.T) {
	scope := NewScope(map[string]value.Value{
		"x": value.NewInt(1),
		"y": value.NewInt(2),
	}, StandardFunctions())
	expr, err := ParseExpression("test.hcl", []byte("x + y"))
	if err != nil {
		t.Fatalf("ParseExpression: unexpected error: %s", err)
	}
	result, trace, err := TraceExpr(expr, scope)
	if err != nil {
		t.Fatalf("TraceExpr: unexpected error: %s", err)
	}
	if !value.Equal(result, value.NewInt(3)) {
		t.Errorf("got result %s, want 3", result)
	}
	if len(trace) != 2 || trace[0][0] != "x" || trace[1][0] != "y" {
		t.Errorf("got trace %v, want [[x] [y]]", trace)
	}
}

func TestEvaluateBodyRejectsDuplicateAttribute(t *testing.T) {
	body, err := ParseFile("test.hcl", []byte("a = 1\na = 2\n"))
	if err != nil {
		t.Fatalf("ParseFile: unexpected error: %s", err)
	}
	scope := NewScope(nil, StandardFunctions())
	_, err = EvaluateBody(body, scope)
	if _, ok := err.(*diag.DuplicateKeyError); !ok {
		t.Fatalf("got %T (%v), want *diag.DuplicateKeyError", err, err)
	}
}
