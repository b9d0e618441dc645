package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abihost/abihost/pkg/abi"
)

func initInspect(root *cobra.Command) {
	inspectCommand := &cobra.Command{
		Use:   "inspect <abi.json>",
		Short: "Print a human-readable summary of an ABI descriptor",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}
	root.AddCommand(inspectCommand)
}

func runInspect(abiPath string) error {
	raw, err := os.ReadFile(abiPath)
	if err != nil {
		return err
	}
	var desc abi.Descriptor
	if err := json.Unmarshal(raw, &desc); err != nil {
		return fmt.Errorf("parse %s: %w", abiPath, err)
	}

	fmt.Printf("header: hash=%s", desc.Header.Hash)
	if desc.Header.Name != nil {
		fmt.Printf(" name=%s", *desc.Header.Name)
	}
	fmt.Println()

	fmt.Printf("functions (%d):\n", len(desc.Functions))
	for _, f := range desc.Functions {
		fmt.Printf("  %s %s(%s) -> %s\n", f.Selector, f.Name, formatParams(f.Params), f.Result)
	}

	fmt.Printf("classes (%d):\n", len(desc.Classes))
	for _, c := range desc.Classes {
		fmt.Printf("  %s %s {%s}\n", c.ClassSelector, c.Name, formatFields(c.Fields))
		for _, m := range c.Methods {
			fmt.Printf("    %s %s(%s) -> %s\n", m.Selector, m.Name, formatParams(m.Params), m.Result)
		}
	}

	fmt.Printf("variables (%d):\n", len(desc.Variables))
	for _, v := range desc.Variables {
		fmt.Printf("  %s %s: %s\n", v.Selector, v.Name, v.Type)
	}

	fmt.Printf("imports (%d):\n", len(desc.Imports))
	for _, imp := range desc.Imports {
		fmt.Printf("  %s.%s %s\n", imp.Module, imp.Name, describeImportKind(imp.Kind))
	}

	return nil
}

func formatParams(params []abi.Param) string {
	s := ""
	for i, p := range params {
		if i > 0 {
			s += ", "
		}
		s += p.Name + ": " + p.Type
	}
	return s
}

func formatFields(fields []abi.Field) string {
	s := ""
	for i, f := range fields {
		if i > 0 {
			s += ", "
		}
		s += f.Name + ": " + f.Type
	}
	return s
}

func describeImportKind(k abi.ImportKind) string {
	switch {
	case k.Function != nil:
		return "function"
	case k.Memory != nil:
		return "memory"
	case k.Global != nil:
		return "global"
	case k.Table != nil:
		return "table"
	default:
		return "unknown"
	}
}
