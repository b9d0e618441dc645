// Package cmd wires the abihost CLI's subcommands onto a cobra root
// command, the way the teacher's cmd/commands.go registers each of
// OPA's subcommands via an init<Name>(root) call.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abihost/abihost/internal/log"
)

var logLevel string

// Command builds the abihost root command and registers every
// subcommand onto it. Passing a non-nil rootCommand lets an embedder
// reuse its own root (e.g. to rename the binary); a nil rootCommand
// gets a fresh one.
func Command(rootCommand *cobra.Command) *cobra.Command {
	if rootCommand == nil {
		rootCommand = &cobra.Command{
			Use:   "abihost",
			Short: "abihost — schema-driven Wasm ABI extraction and execution",
			Long:  "Extract ABI descriptors from AssemblyScript-style sources, build a selector registry, and invoke compiled Wasm modules through it.",
		}
	}

	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCommand.PersistentPreRunE = func(*cobra.Command, []string) error {
		return log.Global().SetLevel(logLevel)
	}

	initGenerate(rootCommand)
	initRun(rootCommand)
	initBatch(rootCommand)
	initInspect(rootCommand)
	initVersion(rootCommand)
	return rootCommand
}
