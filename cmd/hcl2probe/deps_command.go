package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/cli"
	hclog "github.com/hashicorp/go-hclog"

	"github.com/risqcapital/hcl2go/hcl2"
)

// DepsCommand implements "hcl2probe deps <file>": parses a file and
// prints its top-level statements' dependency generations, one line
// per generation, in the order they'd be safe to evaluate.
type DepsCommand struct {
	UI  cli.Ui
	Log hclog.Logger
}

func (c *DepsCommand) Help() string {
	return strings.TrimSpace(`
Usage: hcl2probe deps <file>

  Parses the HCL2 body in <file> and prints its top-level statements'
  dependency generations: each line is one generation, listing the key
  paths of every statement that could run once every earlier
  generation has. Reports a dependency cycle as an error instead.
`)
}

func (c *DepsCommand) Synopsis() string {
	return "Print an HCL2 file's statement dependency generations"
}

func (c *DepsCommand) Run(args []string) int {
	if len(args) != 1 {
		c.UI.Error("Exactly one argument expected: the file to analyze.")
		return cli.RunResultHelp
	}
	filename := args[0]

	src, err := os.ReadFile(filename)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	body, err := hcl2.ParseFile(filename, src)
	if err != nil {
		printDiagnostic(c.UI, err)
		return 1
	}

	gens, err := hcl2.TopologicalGenerations(body)
	if err != nil {
		printDiagnostic(c.UI, err)
		return 1
	}
	c.Log.Debug("computed generations", "count", len(gens))

	for i, gen := range gens {
		names := make([]string, len(gen))
		for j, stmt := range gen {
			names[j] = strings.Join(stmt.KeyPath(), ".")
		}
		c.UI.Output(fmt.Sprintf("%d: %s", i, strings.Join(names, ", ")))
	}
	return 0
}
