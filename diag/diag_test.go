package diag

import (
	"strings"
	"testing"

	"github.com/risqcapital/hcl2go/ast"
)

func TestSuggestNameFindsCloseTypo(t *testing.T) {
	got := SuggestName("nmae", []string{"name", "other", "count"})
	if got != "name" {
		t.Errorf("got %q, want \"name\"", got)
	}
}

func TestSuggestNameReturnsEmptyWhenNothingIsClose(t *testing.T) {
	got := SuggestName("zzzzzzzz", []string{"name", "other", "count"})
	if got != "" {
		t.Errorf("got %q, want \"\" (no plausible suggestion)", got)
	}
}

func TestNameErrorDetailIncludesSuggestion(t *testing.T) {
	err := NewNameError(ast.Range{}, "nmae", []string{"name"})
	if !strings.Contains(err.Detail(), "name") {
		t.Errorf("got detail %q, want it to mention the suggested name", err.Detail())
	}
}

func TestNameErrorDetailOmitsSuggestionWhenNoneFound(t *testing.T) {
	err := NewNameError(ast.Range{}, "zzzzzzzz", []string{"name"})
	if strings.Contains(err.Detail(), "Did you mean") {
		t.Errorf("got detail %q, want no suggestion offered", err.Detail())
	}
}

func TestDiagnosticsAppendIgnoresNil(t *testing.T) {
	var ds Diagnostics
	ds = ds.Append(nil)
	if ds.HasErrors() {
		t.Fatal("appending nil should not record an error")
	}
	ds = ds.Append(NewTypeError(ast.Range{}, "boom"))
	if !ds.HasErrors() || len(ds) != 1 {
		t.Fatalf("got %v, want exactly one diagnostic", ds)
	}
}

func TestDiagnosticsErrorSummarizesCount(t *testing.T) {
	var ds Diagnostics
	ds = ds.Append(NewTypeError(ast.Range{}, "first"))
	ds = ds.Append(NewTypeError(ast.Range{}, "second"))
	msg := ds.Error()
	if !strings.Contains(msg, "1 other") {
		t.Errorf("got %q, want it to mention one other diagnostic", msg)
	}
}

func TestCycleErrorAggregatesAllCycles(t *testing.T) {
	cycles := []Cycle{
		{Rng: ast.Range{}, Members: []string{"a", "b"}},
		{Rng: ast.Range{}, Members: []string{"c"}},
	}
	err := NewCycleError(cycles)
	if len(err.Cycles) != 2 {
		t.Fatalf("got %d cycles, want 2", len(err.Cycles))
	}
	if !strings.Contains(err.Error(), "a, b") || !strings.Contains(err.Error(), "c") {
		t.Errorf("got %q, want both cycles' members mentioned", err.Error())
	}
}

func TestNewCycleErrorPanicsOnEmptyInput(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic constructing a CycleError with no cycles")
		}
	}()
	NewCycleError(nil)
}

func TestUserErrorWrapsCause(t *testing.T) {
	cause := &TypeError{base: base{Rng: ast.Range{}}, Message: "bad input"}
	err := NewUserError(ast.Range{}, "myfunc", cause)
	if err.Unwrap() != cause {
		t.Error("expected Unwrap to return the wrapped cause")
	}
	if !strings.Contains(err.Error(), "myfunc") {
		t.Errorf("got %q, want it to mention the function name", err.Error())
	}
}

func TestEveryDiagnosticTypeSatisfiesDiagnostic(t *testing.T) {
	var _ Diagnostic = NewParseError(ast.Range{}, "x")
	var _ Diagnostic = NewTypeError(ast.Range{}, "x")
	var _ Diagnostic = NewNameError(ast.Range{}, "x", nil)
	var _ Diagnostic = NewKeyError(ast.Range{}, "x")
	var _ Diagnostic = NewArityError(ast.Range{}, "f", "1", 2)
	var _ Diagnostic = NewDuplicateKeyError(ast.Range{}, "x")
	var _ Diagnostic = NewUserError(ast.Range{}, "f", nil)
	var _ Diagnostic = NewCycleError([]Cycle{{Rng: ast.Range{}, Members: []string{"a"}}})
}
