// Package diag implements the error taxonomy of spec.md §7: one
// distinct Go type per diagnostic kind, each carrying a source range
// and an optional cause, plus a small Diagnostics aggregate type for
// collecting more than one problem. No other package in this module
// uses Diagnostics; CycleError aggregates its cycles with multierror
// instead (see cycle.go). See DESIGN.md for the tfdiags/pymiette
// grounding.
package diag

import (
	"fmt"

	"github.com/agext/levenshtein"

	"github.com/risqcapital/hcl2go/ast"
)

// Diagnostic is implemented by every error type in this package.
type Diagnostic interface {
	error
	Code() string
	Range() ast.Range
	Summary() string
	Detail() string
	Unwrap() error
}

// Diagnostics is an ordered collection of diagnostics, mirroring the
// teacher's tfdiags.Diagnostics Append-returns-a-new-slice convention.
type Diagnostics []Diagnostic

// Append returns a new Diagnostics with d appended, ignoring a nil d so
// callers can write `diags = diags.Append(maybeNil())` freely.
func (ds Diagnostics) Append(d Diagnostic) Diagnostics {
	if d == nil {
		return ds
	}
	return append(ds, d)
}

// HasErrors reports whether any diagnostic was recorded.
func (ds Diagnostics) HasErrors() bool { return len(ds) > 0 }

func (ds Diagnostics) Error() string {
	switch len(ds) {
	case 0:
		return "no diagnostics"
	case 1:
		return ds[0].Error()
	default:
		return fmt.Sprintf("%s (and %d other diagnostics)", ds[0].Error(), len(ds)-1)
	}
}

// base is embedded by every concrete diagnostic type to supply the
// common Range/Cause bookkeeping.
type base struct {
	Rng   ast.Range
	Cause error
}

func (b base) Range() ast.Range { return b.Rng }
func (b base) Unwrap() error    { return b.Cause }

// suggestName returns the closest match to "given" among candidates by
// edit distance, if the distance is small enough to plausibly be a
// typo (<= 2). Returns "" when no good match exists.
func suggestName(given string, candidates []string) string {
	best := ""
	bestDist := 3 // anything farther than this isn't a helpful suggestion
	for _, c := range candidates {
		d := levenshtein.Distance(given, c, nil)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

// SuggestName is the exported form of suggestName, used by
// NewNameError to fill in NameError.Suggest.
func SuggestName(given string, candidates []string) string {
	return suggestName(given, candidates)
}
