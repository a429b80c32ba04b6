// odtool is a CLI tool for building, validating and inspecting object
// dictionary definitions.
package main

import (
	"fmt"
	"os"

	"github.com/objdictgen/objdict-go/cmd/odtool/commands"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitCommandError)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var exitCode int
	switch cmd {
	case "validate":
		exitCode = commands.RunValidate(args, os.Stdout, os.Stderr)
	case "show":
		exitCode = commands.RunShow(args, os.Stdout, os.Stderr)
	case "snapshot":
		exitCode = commands.RunSnapshot(args, os.Stdout, os.Stderr)
	case "log":
		exitCode = commands.RunLog(args, os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		printUsage()
		exitCode = exitSuccess
	case "version", "-v", "--version":
		fmt.Println("odtool version 0.1.0")
		exitCode = exitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		exitCode = exitCommandError
	}

	os.Exit(exitCode)
}

func printUsage() {
	fmt.Println(`odtool - object dictionary build and validation tool

Usage:
  odtool <command> [options] [files...]

Commands:
  validate   Build definitions and run the dictionary checks
  show       Print the entries of a built dictionary
  snapshot   Write a CBOR snapshot of a built dictionary
  log        Display a CBOR event log written by --log

Options:
  -h, --help     Show this help message
  -v, --version  Show version information

Examples:
  odtool validate node.jsonc
  odtool show --json node.jsonc
  odtool snapshot -o node.cbor --log build.log node.jsonc
  odtool log --op insert build.log

For command-specific help, run:
  odtool <command> --help`)
}
