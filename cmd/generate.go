package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abihost/abihost/internal/log"
	"github.com/abihost/abihost/pkg/abi"
)

type generateCommandParams struct {
	compilerPath string
	optimize     bool
	moduleName   string
}

func initGenerate(root *cobra.Command) {
	var params generateCommandParams

	generateCommand := &cobra.Command{
		Use:   "generate <input.ts> <output.json>",
		Short: "Extract an ABI descriptor from an AssemblyScript-style source file",
		Long: `Compiles <input.ts> to a sibling .wasm file via the configured compiler,
scans the source for exported functions, classes, and constants, and writes
the resulting ABI descriptor to <output.json>.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runGenerate(args[0], args[1], params)
		},
	}

	generateCommand.Flags().StringVar(&params.compilerPath, "compiler", "asc", "path to the AssemblyScript-style compiler binary")
	generateCommand.Flags().BoolVar(&params.optimize, "optimize", true, "pass --optimize to the compiler")
	generateCommand.Flags().StringVar(&params.moduleName, "name", "", "optional module name stamped into the descriptor header")

	root.AddCommand(generateCommand)
}

func runGenerate(inputPath, outputPath string, params generateCommandParams) error {
	copts := abi.CompilerOptions{Path: params.compilerPath, Optimize: params.optimize}

	eopts := abi.ExtractOptions{}
	if params.moduleName != "" {
		eopts.ModuleName = &params.moduleName
	}

	desc, err := abi.ExtractFile(inputPath, outputPath, copts, eopts)
	if err != nil {
		return fmt.Errorf("generate %s: %w", inputPath, err)
	}

	out, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return err
	}

	log.Global().Infof("wrote %s (%d functions, %d classes, %d variables)",
		outputPath, len(desc.Functions), len(desc.Classes), len(desc.Variables))
	return nil
}
