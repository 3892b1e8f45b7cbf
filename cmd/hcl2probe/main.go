// Command hcl2probe is a thin example consumer of package hcl2: it is
// not a REPL or a colorized diff tool, it exists only to exercise the
// facade package end to end (parse a file, evaluate it, or print its
// dependency generations) the way a library's cmd/example directory
// does. Command dispatch follows a Commands map plus cli.NewCLI.
package main

import (
	"os"

	"github.com/hashicorp/cli"
	hclog "github.com/hashicorp/go-hclog"
)

// Commands is the full set of hcl2probe subcommands, built lazily so
// each one only pays for the dependencies it needs.
var Commands map[string]cli.CommandFactory

func main() {
	os.Exit(run())
}

func run() int {
	log := hclog.New(&hclog.LoggerOptions{
		Name:  "hcl2probe",
		Level: hclog.LevelFromString(os.Getenv("HCL2PROBE_LOG")),
	})

	ui := &cli.BasicUi{
		Reader:      os.Stdin,
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	Commands = map[string]cli.CommandFactory{
		"eval": func() (cli.Command, error) {
			return &EvalCommand{UI: ui, Log: log.Named("eval")}, nil
		},
		"deps": func() (cli.Command, error) {
			return &DepsCommand{UI: ui, Log: log.Named("deps")}, nil
		},
	}

	c := cli.NewCLI("hcl2probe", "0.1.0")
	c.Args = os.Args[1:]
	c.Commands = Commands

	exitCode, err := c.Run()
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	return exitCode
}
