package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/hashicorp/cli"
	hclog "github.com/hashicorp/go-hclog"

	"github.com/risqcapital/hcl2go/hcl2"
	"github.com/risqcapital/hcl2go/native"
)

// EvalCommand implements "hcl2probe eval <file>": parses and
// evaluates a file's top-level body, printing the result as JSON.
type EvalCommand struct {
	UI  cli.Ui
	Log hclog.Logger
}

func (c *EvalCommand) Help() string {
	return strings.TrimSpace(`
Usage: hcl2probe eval <file>

  Parses and evaluates the HCL2 body in <file> against an empty
  variable scope (only the standard intrinsic functions are in
  scope), printing the evaluated object as JSON.
`)
}

func (c *EvalCommand) Synopsis() string {
	return "Evaluate an HCL2 file and print the result as JSON"
}

func (c *EvalCommand) Run(args []string) int {
	if len(args) != 1 {
		c.UI.Error("Exactly one argument expected: the file to evaluate.")
		return cli.RunResultHelp
	}
	filename := args[0]

	src, err := os.ReadFile(filename)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	c.Log.Debug("read source", "filename", filename, "bytes", len(src))

	body, err := hcl2.ParseFile(filename, src)
	if err != nil {
		printDiagnostic(c.UI, err)
		return 1
	}

	scope := hcl2.NewScope(nil, hcl2.StandardFunctions())
	result, err := hcl2.EvaluateBody(body, scope)
	if err != nil {
		printDiagnostic(c.UI, err)
		return 1
	}

	out, err := json.MarshalIndent(native.ToNative(result), "", "  ")
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	c.UI.Output(string(out))
	return 0
}
