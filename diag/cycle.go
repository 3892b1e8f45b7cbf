package diag

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/risqcapital/hcl2go/ast"
)

// Cycle names one strongly-connected set of statements that the
// dependency analyzer could not order.
type Cycle struct {
	Rng     ast.Range
	Members []string // dotted key paths, source order
}

func (c Cycle) Error() string {
	return fmt.Sprintf("%s: dependency cycle among %s", c.Rng, strings.Join(c.Members, ", "))
}

// CycleError reports that the dependency analyzer found one or more
// cycles (spec.md §7, §8: "cycles raise CycleError"). When multiple
// disjoint cycles exist in the same body they are reported together
// rather than one-at-a-time, using *multierror.Error (a teacher
// dependency) to aggregate the sibling Cycle errors — see DESIGN.md.
type CycleError struct {
	base
	Cycles []Cycle
	merr   *multierror.Error
}

// NewCycleError builds a CycleError from one or more detected cycles.
// Panics if cycles is empty: a CycleError always names at least one
// cycle.
func NewCycleError(cycles []Cycle) *CycleError {
	if len(cycles) == 0 {
		panic("diag: NewCycleError called with no cycles")
	}
	merr := &multierror.Error{}
	for _, c := range cycles {
		merr = multierror.Append(merr, c)
	}
	return &CycleError{
		base:   base{Rng: cycles[0].Rng},
		Cycles: cycles,
		merr:   merr,
	}
}

func (e *CycleError) Code() string    { return "cycle_error" }
func (e *CycleError) Summary() string { return "Circular dependency" }
func (e *CycleError) Detail() string  { return e.merr.Error() }
func (e *CycleError) Error() string   { return e.merr.Error() }
