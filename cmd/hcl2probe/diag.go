package main

import (
	"fmt"

	"github.com/hashicorp/cli"
	"github.com/mitchellh/go-wordwrap"

	"github.com/risqcapital/hcl2go/diag"
)

// diagnosticWidth is the column width diagnostic detail text is
// wrapped to, matching a conservative terminal width assumption.
const diagnosticWidth = 78

// printDiagnostic renders err to ui, wrapping a *diag.Diagnostic's
// detail text to diagnosticWidth the way a terminal-facing CLI tool
// should, rather than letting a long single-line message run off the
// edge of the user's terminal.
func printDiagnostic(ui cli.Ui, err error) {
	d, ok := err.(diag.Diagnostic)
	if !ok {
		ui.Error(err.Error())
		return
	}
	ui.Error(fmt.Sprintf("%s: %s", d.Code(), d.Summary()))
	ui.Error(wordwrap.WrapString(d.Detail(), diagnosticWidth))
	if rng := d.Range(); rng.Filename != "" {
		ui.Error(fmt.Sprintf("  at %s", rng.String()))
	}
}
