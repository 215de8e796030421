// Package main is the entry point for the pipconverge CLI application.
//
// This file bootstraps the application by invoking the command execution
// logic defined in the cmd package. The pipconverge tool drives pip toward a
// conflict-free installed package set.
package main

import "github.com/ajxudir/pipconverge/cmd"

// main initializes and runs the pipconverge CLI application.
//
// It delegates all command parsing and execution to the cmd package, which
// handles the update, check, config, and version subcommands.
func main() {
	cmd.Execute()
}
