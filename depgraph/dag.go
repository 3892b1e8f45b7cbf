// Package depgraph computes the evaluation order a body's top-level
// statements must run in: Generations builds a dependency graph from
// each statement's free variables and layers it into generations
// (batches that may be evaluated in any order, or concurrently, since
// nothing in one generation depends on anything else in it), raising
// a *diag.CycleError if the graph isn't a DAG. Grounded on the
// teacher's dag package (Tarjan SCC cycle detection, Kahn-style
// topological layering), adapted from operating over plan-graph
// vertices to operating over ast.Stmt.
package depgraph

import (
	"sort"
	"strings"

	"github.com/risqcapital/hcl2go/ast"
	"github.com/risqcapital/hcl2go/diag"
)

// Generations computes each top-level statement of body's free
// variables and returns them layered by dependency depth: generation 0
// holds every statement with no unresolved dependency within body,
// generation 1 holds every statement that depends only on generation
// 0, and so on. Within a generation, statements are ordered as they
// appear in body. A statement that references a name no sibling
// statement defines is left with an unresolved reference; spec.md
// §4.5 treats that as deferring to an enclosing scope, not an error,
// so such references contribute no edge.
func Generations(body ast.Body) ([][]ast.Stmt, error) {
	n := len(body)
	if n == 0 {
		return nil, nil
	}

	byName := make(map[string][]int, n)
	for i, stmt := range body {
		path := stmt.KeyPath()
		if len(path) == 0 {
			continue
		}
		byName[path[0]] = append(byName[path[0]], i)
	}

	// deps[i] lists the indices stmt i depends on: every statement
	// (stmt i itself included, so a self-reference is a cycle) whose
	// KeyPath()[0] matches one of stmt i's free variable names.
	deps := make([][]int, n)
	for i, stmt := range body {
		free := freeVars(stmt)
		seen := make(map[int]bool)
		for name := range free {
			for _, j := range byName[name] {
				if seen[j] {
					continue
				}
				seen[j] = true
				deps[i] = append(deps[i], j)
			}
		}
		sort.Ints(deps[i])
	}

	if cycles := findCycles(body, deps); len(cycles) > 0 {
		return nil, diag.NewCycleError(cycles)
	}

	gen := computeGenerations(deps)

	maxGen := -1
	for _, g := range gen {
		if g > maxGen {
			maxGen = g
		}
	}
	result := make([][]ast.Stmt, maxGen+1)
	for i, stmt := range body {
		result[gen[i]] = append(result[gen[i]], stmt)
	}
	return result, nil
}

// computeGenerations assigns each vertex the length of the longest
// dependency chain ending at it, via memoized DFS. deps is assumed
// acyclic — callers must run findCycles first.
func computeGenerations(deps [][]int) []int {
	n := len(deps)
	gen := make([]int, n)
	state := make([]int8, n) // 0 = unvisited, 1 = done

	var visit func(i int) int
	visit = func(i int) int {
		if state[i] == 1 {
			return gen[i]
		}
		max := -1
		for _, j := range deps[i] {
			if g := visit(j); g > max {
				max = g
			}
		}
		gen[i] = max + 1
		state[i] = 1
		return gen[i]
	}
	for i := 0; i < n; i++ {
		visit(i)
	}
	return gen
}

// findCycles runs Tarjan's strongly-connected-components algorithm
// over the dependency graph (edge i -> j meaning "i depends on j") and
// reports one diag.Cycle per non-trivial SCC (size > 1, or a single
// vertex with a self-dependency).
func findCycles(body ast.Body, deps [][]int) []diag.Cycle {
	n := len(deps)
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	visited := make([]bool, n)
	var stack []int
	nextIndex := 0
	var sccs [][]int

	var strongconnect func(v int)
	strongconnect = func(v int) {
		index[v] = nextIndex
		lowlink[v] = nextIndex
		nextIndex++
		stack = append(stack, v)
		onStack[v] = true
		visited[v] = true

		for _, w := range deps[v] {
			if !visited[w] {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
			}
		}

		if lowlink[v] == index[v] {
			var scc []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for v := 0; v < n; v++ {
		if !visited[v] {
			strongconnect(v)
		}
	}

	var cycles []diag.Cycle
	for _, scc := range sccs {
		if !isCycle(scc, deps) {
			continue
		}
		sort.Ints(scc)
		members := make([]string, len(scc))
		for i, v := range scc {
			members[i] = strings.Join(body[v].KeyPath(), ".")
		}
		cycles = append(cycles, diag.Cycle{
			Rng:     body[scc[0]].Range(),
			Members: members,
		})
	}
	return cycles
}

// isCycle reports whether scc is a genuine cycle: more than one
// vertex, or a single vertex with an edge to itself.
func isCycle(scc []int, deps [][]int) bool {
	if len(scc) > 1 {
		return true
	}
	v := scc[0]
	for _, w := range deps[v] {
		if w == v {
			return true
		}
	}
	return false
}
